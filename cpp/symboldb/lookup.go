/*
NaiveSystems Analyze - A tool for static code analysis
Copyright (C) 2023  Naive Systems Ltd.

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package symboldb

// maxBaseDepth bounds base class walks on malformed hierarchies.
const maxBaseDepth = 16

// Symbol is what a name denotes in some scope.
type Symbol struct {
	Variable   *Variable
	Enumerator *Enumerator
	Type       *Type
	Functions  []*Function
	// Namespace is set when the name denotes a namespace.
	Namespace *Scope
}

func (sym Symbol) Found() bool {
	return sym.Variable != nil || sym.Enumerator != nil || sym.Type != nil ||
		len(sym.Functions) > 0 || sym.Namespace != nil
}

// container returns the scope a qualified name continues into.
func (sym Symbol) container() (*Scope, *Type) {
	if sym.Namespace != nil {
		return sym.Namespace, nil
	}
	if t := sym.Type.Resolve(); t != nil {
		if t.Kind == TypeEnum {
			return nil, t
		}
		return t.ClassScope, nil
	}
	return nil, nil
}

func (s *Scope) member(name string, depth int) Symbol {
	var sym Symbol
	for _, v := range s.VarList {
		if v.Name == name {
			sym.Variable = v
			return sym
		}
	}
	for _, e := range s.Enumerators {
		if e.Name == name {
			sym.Enumerator = e
			return sym
		}
	}
	for _, f := range s.FunctionList {
		if f.Name == name {
			sym.Functions = append(sym.Functions, f)
		}
	}
	for _, t := range s.TypeList {
		if t.Name == name {
			sym.Type = t
			break
		}
	}
	// Inside a class its own name denotes the class as well as the
	// constructors.
	if sym.Type == nil && s.DefinedType != nil && s.ClassName == name {
		sym.Type = s.DefinedType
	}
	if sym.Found() {
		return sym
	}
	for _, ns := range s.NestedList {
		if ns.Type == ScopeNamespace && ns.ClassName == name {
			sym.Namespace = ns
			return sym
		}
	}
	for _, ns := range s.NestedList {
		if ns.Type == ScopeNamespace && ns.ClassName == "" {
			if found := ns.member(name, depth+1); found.Found() {
				return found
			}
		}
	}
	if s.DefinedType != nil && depth < maxBaseDepth {
		for _, base := range s.DefinedType.Bases {
			if base.ClassScope == nil || base.ClassScope == s {
				continue
			}
			if found := base.ClassScope.member(name, depth+1); found.Found() {
				return found
			}
		}
	}
	return sym
}

// Member looks name up among the direct members of s and, for classes,
// their bases.
func (s *Scope) Member(name string) Symbol {
	return s.member(name, 0)
}

// Lookup performs unqualified lookup from s outwards. The innermost scope
// declaring the name hides the outer ones.
func (s *Scope) Lookup(name string) Symbol {
	for sc := s; sc != nil; sc = sc.NestedIn {
		if sym := sc.Member(name); sym.Found() {
			return sym
		}
	}
	return Symbol{}
}

func (s *Scope) Root() *Scope {
	sc := s
	for sc.NestedIn != nil {
		sc = sc.NestedIn
	}
	return sc
}

// LookupQualified resolves a::b::c from s. When global is set the first
// component is looked up in the global scope only, as in ::a::b.
func (s *Scope) LookupQualified(path []string, global bool) Symbol {
	if len(path) == 0 {
		return Symbol{}
	}
	var first Symbol
	if global {
		first = s.Root().Member(path[0])
	} else {
		first = s.Lookup(path[0])
	}
	if len(path) == 1 {
		return first
	}
	cur := first
	for _, name := range path[1:] {
		scope, enum := cur.container()
		switch {
		case scope != nil:
			cur = scope.Member(name)
		case enum != nil:
			cur = Symbol{}
			for _, e := range enum.Enumerators {
				if e.Name == name {
					cur.Enumerator = e
				}
			}
		default:
			return Symbol{}
		}
		if !cur.Found() {
			return Symbol{}
		}
	}
	return cur
}

// LookupScope resolves a qualified name to the namespace or class scope it
// denotes.
func (s *Scope) LookupScope(path []string, global bool) *Scope {
	scope, _ := s.LookupQualified(path, global).container()
	return scope
}

func (s *Scope) LookupVariable(name string) *Variable {
	return s.Lookup(name).Variable
}

func (s *Scope) LookupType(name string) *Type {
	return s.Lookup(name).Type
}

func (s *Scope) LookupFunctions(name string) []*Function {
	return s.Lookup(name).Functions
}
