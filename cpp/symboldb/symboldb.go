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

// Package symboldb holds the symbol model of one C++ translation unit:
// scopes, functions, variables, types and a syntax tree of every function
// body with names already resolved. It is built by package parser and is
// read-only afterwards.
package symboldb

import (
	"fmt"
	"strings"
)

type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

func (l Location) Before(o Location) bool {
	if l.Line != o.Line {
		return l.Line < o.Line
	}
	return l.Column < o.Column
}

type ScopeType int

const (
	ScopeGlobal ScopeType = iota
	ScopeNamespace
	ScopeClass
	ScopeStruct
	ScopeUnion
	ScopeFunction
	ScopeTry
	ScopeCatch
	ScopeOther
)

var scopeTypeNames = [...]string{"global", "namespace", "class", "struct", "union", "function", "try", "catch", "other"}

func (t ScopeType) String() string {
	if int(t) < len(scopeTypeNames) {
		return scopeTypeNames[t]
	}
	return fmt.Sprintf("ScopeType(%d)", int(t))
}

type Scope struct {
	Type       ScopeType
	ClassName  string
	NestedIn   *Scope
	NestedList []*Scope

	// Function is set for function scopes.
	Function *Function
	// DefinedType is set for class, struct and union scopes.
	DefinedType *Type

	FunctionList []*Function
	VarList      []*Variable
	TypeList     []*Type
	Enumerators  []*Enumerator

	// CatchAll is set on try scopes whose first handler is catch (...).
	CatchAll bool

	BodyStart Location
	BodyEnd   Location
}

func NewScope(t ScopeType, name string, nestedIn *Scope) *Scope {
	s := &Scope{Type: t, ClassName: name, NestedIn: nestedIn}
	if nestedIn != nil {
		nestedIn.NestedList = append(nestedIn.NestedList, s)
	}
	return s
}

func (s *Scope) IsClassOrStructOrUnion() bool {
	return s.Type == ScopeClass || s.Type == ScopeStruct || s.Type == ScopeUnion
}

// IsNestedIn reports whether s is outer or lies inside it.
func (s *Scope) IsNestedIn(outer *Scope) bool {
	for sc := s; sc != nil; sc = sc.NestedIn {
		if sc == outer {
			return true
		}
	}
	return false
}

// EnclosingClass returns the innermost class, struct or union scope
// containing s, following member functions to their class.
func (s *Scope) EnclosingClass() *Scope {
	for sc := s; sc != nil; sc = sc.NestedIn {
		if sc.IsClassOrStructOrUnion() {
			return sc
		}
	}
	return nil
}

// QualifiedName joins the names of the enclosing namespaces and classes.
func (s *Scope) QualifiedName() string {
	var parts []string
	for sc := s; sc != nil; sc = sc.NestedIn {
		if sc.Type == ScopeNamespace || sc.IsClassOrStructOrUnion() {
			parts = append([]string{sc.ClassName}, parts...)
		}
	}
	return strings.Join(parts, "::")
}

type FunctionKind int

const (
	Ordinary FunctionKind = iota
	Constructor
	CopyConstructor
	MoveConstructor
	Destructor
	// OperatorEqual covers every operator= overload.
	OperatorEqual
)

var functionKindNames = [...]string{"ordinary", "constructor", "copy constructor", "move constructor", "destructor", "operator="}

func (k FunctionKind) String() string {
	if int(k) < len(functionKindNames) {
		return functionKindNames[k]
	}
	return fmt.Sprintf("FunctionKind(%d)", int(k))
}

type Function struct {
	Name  string
	Token Location
	Kind  FunctionKind

	// Noexcept is true for noexcept, noexcept(true), noexcept(expr) and an
	// empty throw().
	Noexcept  bool
	Const     bool
	Static    bool
	Defaulted bool
	Deleted   bool

	// ReturnType holds the token texts of the declared return type with
	// aliases expanded and the declarator's pointer and reference tokens
	// appended. Empty for constructors and destructors.
	ReturnType []string
	// RetType is the user-defined type named by the return type, if any.
	RetType *Type

	Params []*Variable

	// Body is nil unless a definition with a body was seen.
	Body          *Node
	FunctionScope *Scope
	NestedIn      *Scope
}

func (f *Function) HasBody() bool {
	return f.Body != nil
}

func (f *Function) IsConstructor() bool {
	switch f.Kind {
	case Constructor, CopyConstructor, MoveConstructor:
		return true
	}
	return false
}

// MinArgs is the number of parameters without a default argument.
func (f *Function) MinArgs() int {
	n := 0
	for _, p := range f.Params {
		if !p.HasDefault && !p.IsVariadic {
			n++
		}
	}
	return n
}

func (f *Function) IsVariadic() bool {
	return len(f.Params) > 0 && f.Params[len(f.Params)-1].IsVariadic
}

// Accepts reports whether a call with n arguments fits the parameter list.
func (f *Function) Accepts(n int) bool {
	if n < f.MinArgs() {
		return false
	}
	if f.IsVariadic() {
		return true
	}
	return n <= len(f.Params)
}

type Variable struct {
	Name      string
	NameToken Location
	Scope     *Scope

	// TypeTokens are the declared type without the declarator's pointer and
	// reference tokens.
	TypeTokens []string
	// TypeName is the type's qualified name without template arguments,
	// e.g. std::shared_ptr.
	TypeName string
	Type     *Type

	IsArgument        bool
	IsLocal           bool
	IsStatic          bool
	IsPointer         bool
	IsReference       bool
	IsRValueReference bool
	IsConst           bool
	// IsClass is set when the variable holds a value of a user-defined or
	// unknown non-enum type.
	IsClass    bool
	IsVariadic bool
	HasDefault bool

	HasInit bool
	// InitArgs are the arguments of a direct initializer, x(a, b) or x{a, b}.
	InitArgs []*Node
	InitPos  Location
}

type TypeKind int

const (
	TypeClass TypeKind = iota
	TypeStruct
	TypeUnion
	TypeEnum
	TypeAlias
)

type Type struct {
	Name  string
	Kind  TypeKind
	Token Location
	// Scope is the declaring scope.
	Scope *Scope
	// ClassScope is the body of a class, struct or union.
	ClassScope *Scope
	Bases      []*Type

	// AliasOf holds the expanded target tokens of a using or typedef alias
	// and Target the user-defined target type, if any.
	AliasOf []string
	Target  *Type

	Enumerators []*Enumerator
	ScopedEnum  bool
}

// Resolve follows alias chains.
func (t *Type) Resolve() *Type {
	seen := 0
	for t != nil && t.Kind == TypeAlias && t.Target != nil && seen < 16 {
		t = t.Target
		seen++
	}
	return t
}

func (t *Type) IsClassType() bool {
	r := t.Resolve()
	if r == nil {
		return false
	}
	return r.Kind == TypeClass || r.Kind == TypeStruct || r.Kind == TypeUnion
}

func (t *Type) IsEnumType() bool {
	r := t.Resolve()
	return r != nil && r.Kind == TypeEnum
}

type Enumerator struct {
	Name  string
	Type  *Type
	Token Location
}

type Database struct {
	File      string
	Global    *Scope
	Scopes    []*Scope
	Functions []*Function
	Types     []*Type
	// Comments maps a line to the comments that start on it.
	Comments map[int][]string
}

func NewDatabase(file string) *Database {
	global := NewScope(ScopeGlobal, "", nil)
	return &Database{
		File:     file,
		Global:   global,
		Scopes:   []*Scope{global},
		Comments: make(map[int][]string),
	}
}

// NewScope creates a scope and records it in traversal order.
func (db *Database) NewScope(t ScopeType, name string, nestedIn *Scope) *Scope {
	s := NewScope(t, name, nestedIn)
	db.Scopes = append(db.Scopes, s)
	return s
}

func (db *Database) ClassAndStructScopes() []*Scope {
	var scopes []*Scope
	for _, s := range db.Scopes {
		if s.IsClassOrStructOrUnion() {
			scopes = append(scopes, s)
		}
	}
	return scopes
}

// FunctionScopes returns the scopes of function bodies in source order.
func (db *Database) FunctionScopes() []*Scope {
	var scopes []*Scope
	for _, s := range db.Scopes {
		if s.Type == ScopeFunction && s.Function != nil {
			scopes = append(scopes, s)
		}
	}
	return scopes
}
