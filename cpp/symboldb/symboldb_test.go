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

import "testing"

func buildModel() (db *Database, class *Scope, fn *Scope) {
	db = NewDatabase("test.cpp")
	ns := db.NewScope(ScopeNamespace, "N", db.Global)
	enum := &Type{Name: "E", Kind: TypeEnum, Scope: ns}
	enum.Enumerators = []*Enumerator{{Name: "OK", Type: enum}, {Name: "NOK", Type: enum}}
	ns.TypeList = append(ns.TypeList, enum)
	ns.Enumerators = append(ns.Enumerators, enum.Enumerators...)

	class = db.NewScope(ScopeClass, "A", ns)
	classType := &Type{Name: "A", Kind: TypeClass, Scope: ns, ClassScope: class}
	class.DefinedType = classType
	ns.TypeList = append(ns.TypeList, classType)
	class.VarList = append(class.VarList, &Variable{Name: "m_x", Scope: class})

	get := &Function{Name: "get", NestedIn: class}
	class.FunctionList = append(class.FunctionList, get)
	fn = db.NewScope(ScopeFunction, "get", class)
	fn.Function = get
	get.FunctionScope = fn
	fn.VarList = append(fn.VarList, &Variable{Name: "m_x", Scope: fn, IsLocal: true})
	return db, class, fn
}

func TestLookupHidesOuterNames(t *testing.T) {
	_, class, fn := buildModel()
	v := fn.LookupVariable("m_x")
	if v == nil || v.Scope != fn {
		t.Fatalf("local m_x should hide the member, got %+v", v)
	}
	if m := class.LookupVariable("m_x"); m == nil || m.Scope != class {
		t.Errorf("member lookup from the class scope failed: %+v", m)
	}
}

func TestLookupQualified(t *testing.T) {
	_, _, fn := buildModel()
	sym := fn.LookupQualified([]string{"N", "E", "NOK"}, false)
	if sym.Enumerator == nil || sym.Enumerator.Name != "NOK" {
		t.Fatalf("N::E::NOK should resolve to an enumerator, got %+v", sym)
	}
	if sym := fn.LookupQualified([]string{"N", "A", "get"}, true); len(sym.Functions) != 1 {
		t.Errorf("::N::A::get should resolve to one function, got %+v", sym)
	}
	if sym := fn.LookupQualified([]string{"N", "missing"}, false); sym.Found() {
		t.Errorf("N::missing should not resolve")
	}
	if s := fn.LookupScope([]string{"N", "A"}, false); s == nil || s.ClassName != "A" {
		t.Errorf("LookupScope(N::A) = %v", s)
	}
}

func TestInjectedClassName(t *testing.T) {
	_, class, fn := buildModel()
	ctor := &Function{Name: "A", Kind: Constructor, NestedIn: class}
	class.FunctionList = append(class.FunctionList, ctor)
	for _, s := range []*Scope{class, fn} {
		sym := s.Lookup("A")
		if sym.Type != class.DefinedType {
			t.Errorf("A from %v: Type = %+v, want the class", s, sym.Type)
		}
		if len(sym.Functions) != 1 || sym.Functions[0] != ctor {
			t.Errorf("A from %v: Functions = %+v, want the constructor", s, sym.Functions)
		}
	}
	if sym := fn.LookupQualified([]string{"N", "A", "A"}, true); sym.Type != class.DefinedType {
		t.Errorf("::N::A::A should name the class, got %+v", sym)
	}
}

func TestBaseClassMembers(t *testing.T) {
	db := NewDatabase("test.cpp")
	base := db.NewScope(ScopeStruct, "B", db.Global)
	baseType := &Type{Name: "B", Kind: TypeStruct, ClassScope: base}
	base.DefinedType = baseType
	base.VarList = append(base.VarList, &Variable{Name: "v", Scope: base})
	derived := db.NewScope(ScopeClass, "D", db.Global)
	derived.DefinedType = &Type{Name: "D", Kind: TypeClass, ClassScope: derived, Bases: []*Type{baseType}}
	if v := derived.LookupVariable("v"); v == nil || v.Scope != base {
		t.Errorf("members of a base class should be visible, got %+v", v)
	}
}

func TestIsNestedIn(t *testing.T) {
	db, class, fn := buildModel()
	if !fn.IsNestedIn(fn) || !fn.IsNestedIn(class) || !fn.IsNestedIn(db.Global) {
		t.Errorf("IsNestedIn should be reflexive and transitive")
	}
	if class.IsNestedIn(fn) {
		t.Errorf("a class is not nested in its member function")
	}
	if got := fn.EnclosingClass(); got != class {
		t.Errorf("EnclosingClass() = %v, want class A", got)
	}
	if got := class.QualifiedName(); got != "N::A" {
		t.Errorf("QualifiedName() = %q, want N::A", got)
	}
}

func TestSoleStatement(t *testing.T) {
	ret := &Node{Kind: NodeReturn}
	body := &Node{Kind: NodeBlock, Children: []*Node{{Kind: NodeBlock, Children: []*Node{ret}}}}
	if got := body.SoleStatement(); got != ret {
		t.Errorf("SoleStatement() = %v, want the nested return", got)
	}
	body.Children = append(body.Children, &Node{Kind: NodeCall})
	if got := body.SoleStatement(); got != nil {
		t.Errorf("SoleStatement() with two statements = %v, want nil", got)
	}
}

func TestAccepts(t *testing.T) {
	f := &Function{Params: []*Variable{{Name: "a"}, {Name: "b", HasDefault: true}}}
	for n, want := range map[int]bool{0: false, 1: true, 2: true, 3: false} {
		if got := f.Accepts(n); got != want {
			t.Errorf("Accepts(%d) = %v, want %v", n, got, want)
		}
	}
	f.Params = append(f.Params, &Variable{IsVariadic: true})
	if !f.Accepts(5) {
		t.Errorf("a variadic function should accept extra arguments")
	}
}
