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

// Package exception_specifier reports functions that could be declared
// noexcept, and simple getters that could also be declared const.
//
// Four groups run in order: destructors and move operations, getters,
// functions returning a literal, and functions whose body cannot throw.
// A function flagged by several groups gets one noexcept result.
package exception_specifier

import (
	"golang.org/x/text/message"

	pb "naive.systems/exceptspec/analyzer/proto"
	"naive.systems/exceptspec/cpp/symboldb"
	"naive.systems/exceptspec/cruleslib/i18n"
	"naive.systems/exceptspec/cruleslib/options"
)

const RuleName = "exception_specifier"

// DefaultNoexceptFunctions are library functions that never throw and are
// commonly called without their declaration in the translation unit.
var DefaultNoexceptFunctions = []string{
	"std::move",
	"std::forward",
	"std::addressof",
	"std::as_const",
	"std::declval",
}

type Checker struct {
	Tracer            Tracer
	CallDepth         int
	NoexceptFunctions []string
	Severity          pb.Severity
	Printer           *message.Printer
}

func NewChecker(opts *options.CheckOptions) *Checker {
	c := &Checker{
		Tracer:            glogTracer{},
		CallDepth:         opts.CallDepth(),
		NoexceptFunctions: DefaultNoexceptFunctions,
		Severity:          pb.SeverityWarning,
		Printer:           i18n.GetPrinter(opts.EnvOption.Lang),
	}
	if opts.JsonOption.NoexceptFunctions != nil {
		c.NoexceptFunctions = opts.JsonOption.NoexceptFunctions
	}
	if opts.JsonOption.Severity != nil {
		if s := pb.ParseSeverity(*opts.JsonOption.Severity); s != pb.SeverityUnspecified {
			c.Severity = s
		}
	}
	return c
}

func Analyze(db *symboldb.Database, opts *options.CheckOptions) (*pb.ResultsList, error) {
	return NewChecker(opts).Check(db), nil
}

type reporter struct {
	*Checker
	file    string
	results *pb.ResultsSet
}

func (r *reporter) report(f *symboldb.Function, format string) {
	r.results.Add(&pb.Result{
		Path:         r.file,
		LineNumber:   int32(f.Token.Line),
		Column:       int32(f.Token.Column),
		ErrorMessage: r.Printer.Sprintf(format, f.Name),
		Name:         qualifiedFunctionName(f),
		Severity:     r.Severity,
		RuleId:       RuleName,
	})
}

// Check runs every group over db. Results keep the order in which they
// were found.
func (c *Checker) Check(db *symboldb.Database) *pb.ResultsList {
	r := &reporter{Checker: c, file: db.File, results: pb.NewResultsSet()}
	classScopes := db.ClassAndStructScopes()
	functionScopes := db.FunctionScopes()

	for _, scope := range classScopes {
		for _, f := range scope.FunctionList {
			if (isDestructor(f) || isMoveConstructor(f) || isMoveAssignmentOperator(f, scope)) && !f.Noexcept {
				r.report(f, i18n.ShallBeNoexcept)
			}
		}
	}

	for _, scope := range classScopes {
		for _, f := range scope.FunctionList {
			if !isGetter(f, scope) {
				continue
			}
			if !f.Noexcept {
				r.report(f, i18n.ShallBeNoexcept)
			}
			if !f.Const && !f.Static {
				r.report(f, i18n.ShallBeConst)
			}
		}
	}

	for _, scope := range functionScopes {
		if f := scope.Function; isFunctionReturningLiteral(f) && !f.Noexcept {
			r.report(f, i18n.ShallBeNoexcept)
		}
	}

	throws := newThrowAnalyzer(c.Tracer, c.CallDepth, c.NoexceptFunctions)
	for _, scope := range functionScopes {
		if f := scope.Function; !f.Noexcept && throws.doesntThrow(f) {
			r.report(f, i18n.ShallBeNoexcept)
		}
	}
	return &r.results.ResultsList
}
