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
	"strings"

	"github.com/golang/glog"

	"naive.systems/exceptspec/cpp/symboldb"
)

// Tracer receives the reasons behind the throw analysis decisions.
type Tracer interface {
	Tracef(format string, args ...interface{})
}

type glogTracer struct{}

func (glogTracer) Tracef(format string, args ...interface{}) {
	glog.V(3).Infof(format, args...)
}

// throwAnalyzer decides whether a function body can be shown not to throw.
// It is a heuristic: callees are trusted by their declared specifier unless
// callDepth allows looking into their bodies.
type throwAnalyzer struct {
	tracer    Tracer
	callDepth int
	trusted   map[string]bool
	visiting  map[*symboldb.Function]bool
}

func newThrowAnalyzer(tracer Tracer, callDepth int, trusted []string) *throwAnalyzer {
	if callDepth < 1 {
		callDepth = 1
	}
	a := &throwAnalyzer{
		tracer:    tracer,
		callDepth: callDepth,
		trusted:   make(map[string]bool),
		visiting:  make(map[*symboldb.Function]bool),
	}
	for _, name := range trusted {
		a.trusted[strings.TrimPrefix(name, "::")] = true
	}
	return a
}

// catchAllScopes returns the try blocks directly inside the function body
// whose first handler is catch (...).
func catchAllScopes(f *symboldb.Function) []*symboldb.Scope {
	var scopes []*symboldb.Scope
	if f.FunctionScope == nil {
		return nil
	}
	for _, s := range f.FunctionScope.NestedList {
		if s.Type == symboldb.ScopeTry && s.CatchAll {
			scopes = append(scopes, s)
		}
	}
	return scopes
}

func nestedInAny(n *symboldb.Node, scopes []*symboldb.Scope) bool {
	if n.Scope == nil {
		return false
	}
	for _, s := range scopes {
		if n.Scope.IsNestedIn(s) {
			return true
		}
	}
	return false
}

func qualifiedFunctionName(f *symboldb.Function) string {
	if f.NestedIn == nil {
		return f.Name
	}
	if q := f.NestedIn.QualifiedName(); q != "" {
		return q + "::" + f.Name
	}
	return f.Name
}

func (a *throwAnalyzer) doesntThrow(f *symboldb.Function) bool {
	return a.analyze(f, a.callDepth)
}

func (a *throwAnalyzer) analyze(f *symboldb.Function, depth int) bool {
	if !f.HasBody() {
		return false
	}
	a.visiting[f] = true
	defer delete(a.visiting, f)

	exempt := catchAllScopes(f)
	veto := ""
	var at symboldb.Location
	symboldb.Inspect(f.Body, func(n *symboldb.Node) bool {
		if veto != "" {
			return false
		}
		if reason := a.vetoOf(f, n, exempt, depth); reason != "" {
			veto, at = reason, n.Pos
			return false
		}
		return true
	})
	if veto != "" {
		a.tracer.Tracef("%s: %s at %s may throw", qualifiedFunctionName(f), veto, at)
		return false
	}
	if !returnsVoid(f) && !isNoexceptFriendlyReturnType(f) {
		a.tracer.Tracef("%s: return type %q may throw on copy", qualifiedFunctionName(f), strings.Join(f.ReturnType, " "))
		return false
	}
	return true
}

// vetoOf returns why n may throw, or "" if it does not.
func (a *throwAnalyzer) vetoOf(f *symboldb.Function, n *symboldb.Node, exempt []*symboldb.Scope, depth int) string {
	switch n.Kind {
	case symboldb.NodeThrow:
		if !nestedInAny(n, exempt) {
			return "throw"
		}
	case symboldb.NodeDecl:
		for _, v := range n.Vars {
			if v.IsClass && !v.IsArgument {
				return "local object " + v.Name
			}
		}
	case symboldb.NodeCall:
		if nestedInAny(n, exempt) {
			return ""
		}
		if n.Callee == nil {
			if a.trusted[strings.TrimPrefix(n.CalleeName, "::")] {
				return ""
			}
			return "unresolved call " + n.CalleeName
		}
		if isSpecialMemberFunction(n.Callee) || a.calleeDoesntThrow(n.Callee, depth) {
			return ""
		}
		return "call to " + qualifiedFunctionName(n.Callee)
	case symboldb.NodeTemporary:
		return "temporary " + n.Text
	case symboldb.NodeReturn:
		if v := n.Operand(); v != nil && v.Kind == symboldb.NodeLiteral && v.Literal == symboldb.LiteralString && !returnsConstCharPointer(f) {
			return "string returned by value"
		}
	case symboldb.NodeNew:
		return "new"
	}
	return ""
}

func (a *throwAnalyzer) calleeDoesntThrow(callee *symboldb.Function, depth int) bool {
	if callee.Noexcept || a.trusted[qualifiedFunctionName(callee)] {
		return true
	}
	if depth <= 1 || a.visiting[callee] {
		return false
	}
	return a.analyze(callee, depth-1)
}
