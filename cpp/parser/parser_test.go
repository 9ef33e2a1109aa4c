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

package parser

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"naive.systems/exceptspec/cpp/symboldb"
)

func parse(t *testing.T, src string) *symboldb.Database {
	t.Helper()
	db, err := Parse(context.Background(), "test.cpp", []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return db
}

func functionNamed(t *testing.T, db *symboldb.Database, name string) *symboldb.Function {
	t.Helper()
	for _, f := range db.Functions {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("no function %s", name)
	return nil
}

func TestFunctionKinds(t *testing.T) {
	db := parse(t, `class A {
public:
    A();
    A(const A& other);
    A(A&& other);
    ~A();
    A& operator=(A&& other);
    int size() const;
};
`)
	want := map[string]symboldb.FunctionKind{}
	got := map[string]symboldb.FunctionKind{}
	for _, f := range db.Functions {
		key := f.Name
		if f.IsConstructor() {
			key = f.Kind.String()
		}
		got[key] = f.Kind
	}
	want["constructor"] = symboldb.Constructor
	want["copy constructor"] = symboldb.CopyConstructor
	want["move constructor"] = symboldb.MoveConstructor
	want["~A"] = symboldb.Destructor
	want["operator="] = symboldb.OperatorEqual
	want["size"] = symboldb.Ordinary
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
	if f := functionNamed(t, db, "size"); !f.Const {
		t.Error("size is not marked const")
	}
}

func TestSpecialMembersAfterConstructor(t *testing.T) {
	db := parse(t, `class A {
public:
    A(int value);
    A(const A& other);
    A(A&& other);
    A& operator=(const A& other);
    A& operator=(A&& other);
};
`)
	type member struct {
		Kind  symboldb.FunctionKind
		Line  int
		Typed bool
	}
	var got []member
	for _, f := range db.Functions {
		typed := len(f.Params) == 1 && f.Params[0].Type != nil && f.Params[0].Type.Name == "A"
		got = append(got, member{f.Kind, f.Token.Line, typed})
	}
	want := []member{
		{symboldb.Constructor, 3, false},
		{symboldb.CopyConstructor, 4, true},
		{symboldb.MoveConstructor, 5, true},
		{symboldb.OperatorEqual, 6, true},
		{symboldb.OperatorEqual, 7, true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("members mismatch (-want +got):\n%s", diff)
	}
}

func TestOutOfLineDefinitionAfterConstructor(t *testing.T) {
	db := parse(t, `struct B {
    B();
    B(B&& other);
};
B::B(B&& other) {}
`)
	var moves []*symboldb.Function
	for _, f := range db.Functions {
		if f.Kind == symboldb.MoveConstructor {
			moves = append(moves, f)
		}
	}
	if len(moves) != 1 {
		t.Fatalf("got %d move constructors, want 1", len(moves))
	}
	if f := moves[0]; !f.HasBody() || f.Token.Line != 3 {
		t.Errorf("move constructor: HasBody() = %v, Token = %v, want the body merged into line 3", f.HasBody(), f.Token)
	}
}

func TestExceptionSpecifications(t *testing.T) {
	db := parse(t, `void a() noexcept;
void b() noexcept(true);
void c() noexcept(false);
void d() throw();
void e();
`)
	for name, want := range map[string]bool{"a": true, "b": true, "c": false, "d": true, "e": false} {
		if got := functionNamed(t, db, name).Noexcept; got != want {
			t.Errorf("%s: Noexcept = %v, want %v", name, got, want)
		}
	}
}

func TestDefinitionMergesIntoDeclaration(t *testing.T) {
	db := parse(t, `class A {
    int get();
};
int A::get() { return 1; }
`)
	var gets []*symboldb.Function
	for _, f := range db.Functions {
		if f.Name == "get" {
			gets = append(gets, f)
		}
	}
	if len(gets) != 1 {
		t.Fatalf("got %d functions named get, want 1", len(gets))
	}
	f := gets[0]
	if !f.HasBody() {
		t.Error("the declaration did not receive the body")
	}
	if f.Token.Line != 2 {
		t.Errorf("Token = %v, want the declaration on line 2", f.Token)
	}
	if f.NestedIn == nil || f.NestedIn.ClassName != "A" {
		t.Errorf("NestedIn = %v, want class A", f.NestedIn)
	}
}

func TestReturnTypeTokens(t *testing.T) {
	db := parse(t, `using i32 = int;
const char* name();
i32 value();
`)
	if diff := cmp.Diff([]string{"const", "char", "*"}, functionNamed(t, db, "name").ReturnType); diff != "" {
		t.Errorf("name return type mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"int"}, functionNamed(t, db, "value").ReturnType); diff != "" {
		t.Errorf("value return type mismatch (-want +got):\n%s", diff)
	}
}

func TestCallResolution(t *testing.T) {
	db := parse(t, `namespace N {
int may(int x);
}
void f() { N::may(1); unknown(); }
`)
	f := functionNamed(t, db, "f")
	var calls []*symboldb.Node
	symboldb.Inspect(f.Body, func(n *symboldb.Node) bool {
		if n.Kind == symboldb.NodeCall {
			calls = append(calls, n)
		}
		return true
	})
	if len(calls) != 2 {
		t.Fatalf("got %d calls, want 2", len(calls))
	}
	if calls[0].Callee != functionNamed(t, db, "may") {
		t.Errorf("N::may resolved to %v", calls[0].Callee)
	}
	if calls[1].Callee != nil || calls[1].CalleeName != "unknown" {
		t.Errorf("unknown() resolved to %v (%q)", calls[1].Callee, calls[1].CalleeName)
	}
}

func TestComments(t *testing.T) {
	db := parse(t, `int a; // NOLINT
/* block */ int b;
`)
	want := map[int][]string{1: {"// NOLINT"}, 2: {"/* block */"}}
	if diff := cmp.Diff(want, db.Comments); diff != "" {
		t.Errorf("comments mismatch (-want +got):\n%s", diff)
	}
}

func TestCatchAllScope(t *testing.T) {
	db := parse(t, `void f() {
    try { g(); } catch (...) {}
}
`)
	f := functionNamed(t, db, "f")
	var tries []*symboldb.Scope
	for _, s := range f.FunctionScope.NestedList {
		if s.Type == symboldb.ScopeTry {
			tries = append(tries, s)
		}
	}
	if len(tries) != 1 || !tries[0].CatchAll {
		t.Errorf("want one catch-all try scope, got %v", tries)
	}
}

func TestSyntaxErrorsAreTolerated(t *testing.T) {
	db := parse(t, `int ok() { return 1; }
int broken( { 
`)
	if f := functionNamed(t, db, "ok"); !f.HasBody() {
		t.Error("the well-formed function lost its body")
	}
}
