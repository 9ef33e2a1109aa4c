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

package exception_specifier

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	pb "naive.systems/exceptspec/analyzer/proto"
	"naive.systems/exceptspec/cpp/parser"
	"naive.systems/exceptspec/cpp/symboldb"
	"naive.systems/exceptspec/cruleslib/checkrule"
	"naive.systems/exceptspec/cruleslib/testlib"
)

func TestAnalyze(t *testing.T) {
	testlib.RunTxtarTests(t, "testdata/*.txtar", Analyze)
}

func parse(t *testing.T, src string) *symboldb.Database {
	t.Helper()
	db, err := parser.Parse(context.Background(), "test.cpp", []byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return db
}

func function(t *testing.T, db *symboldb.Database, name string) *symboldb.Function {
	t.Helper()
	for _, f := range db.Functions {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("function %s not found", name)
	return nil
}

func TestReturnTypePredicates(t *testing.T) {
	for _, testCase := range [...]struct {
		returnType string
		constRef   bool
		constPtr   bool
		constChar  bool
		integral   bool
		void       bool
	}{
		{returnType: "void", void: true},
		{returnType: "void *"},
		{returnType: "const int &", constRef: true},
		{returnType: "const S *", constPtr: true},
		{returnType: "const char *", constPtr: true, constChar: true},
		{returnType: "const wchar_t *", constPtr: true, constChar: true},
		{returnType: "unsigned long", integral: true},
		{returnType: "signed char", integral: true},
		{returnType: "std :: int64_t", integral: true},
		{returnType: "std :: string"},
		{returnType: "long double", integral: true},
		{returnType: "S"},
		{returnType: ""},
	} {
		t.Run(testCase.returnType, func(t *testing.T) {
			f := &symboldb.Function{ReturnType: strings.Fields(testCase.returnType)}
			got := []bool{returnsConstReference(f), returnsConstPointer(f), returnsConstCharPointer(f), returnsIntegralType(f), returnsVoid(f)}
			want := []bool{testCase.constRef, testCase.constPtr, testCase.constChar, testCase.integral, testCase.void}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("predicates mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEnumReturnIsIntegral(t *testing.T) {
	f := &symboldb.Function{
		ReturnType: []string{"Color"},
		RetType:    &symboldb.Type{Name: "Color", Kind: symboldb.TypeEnum},
	}
	if !returnsIntegralType(f) || !isNoexceptFriendlyReturnType(f) {
		t.Errorf("enum return type not treated as integral")
	}
}

func TestMoveAssignmentOperator(t *testing.T) {
	db := parse(t, `
struct B {};
struct A {
    A& operator=(A&&);
    A& operator=(const A&);
    A& operator=(B&&);
    A& operator=(A&&, int);
};
`)
	var got []bool
	for _, f := range db.Functions {
		if f.Kind == symboldb.OperatorEqual {
			got = append(got, isMoveAssignmentOperator(f, f.NestedIn))
		}
	}
	if diff := cmp.Diff([]bool{true, false, false, false}, got); diff != "" {
		t.Errorf("isMoveAssignmentOperator mismatch (-want +got):\n%s", diff)
	}
}

type recordingTracer struct {
	lines []string
}

func (r *recordingTracer) Tracef(format string, args ...interface{}) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func TestTracerRecordsVeto(t *testing.T) {
	db := parse(t, `
namespace N {
void may();
void f() { may(); }
void g() { int* p = new int; delete p; }
}
`)
	tracer := &recordingTracer{}
	a := newThrowAnalyzer(tracer, 1, nil)
	if a.doesntThrow(function(t, db, "f")) {
		t.Errorf("f calls a function that may throw")
	}
	if a.doesntThrow(function(t, db, "g")) {
		t.Errorf("g allocates")
	}
	want := []string{
		"N::f: call to N::may at test.cpp:4:12 may throw",
		"N::g: new at test.cpp:5:21 may throw",
	}
	if diff := cmp.Diff(want, tracer.lines); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}
}

func TestResultFields(t *testing.T) {
	db := parse(t, `struct A {
    int get() { return m; }
    int m;
};`)
	opts := testlib.NewOption(checkrule.JSONOption{})
	results, err := Analyze(db, opts)
	if err != nil {
		t.Fatal(err)
	}
	want := []*pb.Result{
		{
			Path:         "test.cpp",
			LineNumber:   2,
			Column:       9,
			ErrorMessage: `The function "get" shall be specified noexcept.`,
			Name:         "A::get",
			Severity:     pb.SeverityWarning,
			RuleId:       RuleName,
		},
		{
			Path:         "test.cpp",
			LineNumber:   2,
			Column:       9,
			ErrorMessage: `The function "get" shall be specified const.`,
			Name:         "A::get",
			Severity:     pb.SeverityWarning,
			RuleId:       RuleName,
		},
	}
	if diff := cmp.Diff(want, results.Results); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalizedMessagesAndSeverity(t *testing.T) {
	db := parse(t, "int zero() { return 0; }\n")
	severity := "style"
	opts := testlib.NewOption(checkrule.JSONOption{Severity: &severity})
	opts.EnvOption.Lang = "zh"
	results, err := Analyze(db, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(results.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(results.Results))
	}
	r := results.Results[0]
	if want := `函数 "zero" 应当声明为 noexcept。`; r.ErrorMessage != want {
		t.Errorf("message = %q, want %q", r.ErrorMessage, want)
	}
	if r.Severity != pb.SeverityStyle {
		t.Errorf("severity = %v, want style", r.Severity)
	}
}
