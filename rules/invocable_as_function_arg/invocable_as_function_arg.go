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

// Package invocable_as_function_arg reports function calls passed directly
// as arguments of another call, a temporary or a direct initializer.
package invocable_as_function_arg

import (
	"golang.org/x/text/message"

	pb "naive.systems/exceptspec/analyzer/proto"
	"naive.systems/exceptspec/cpp/symboldb"
	"naive.systems/exceptspec/cruleslib/i18n"
	"naive.systems/exceptspec/cruleslib/options"
)

const RuleName = "invocable_as_function_arg"

type checker struct {
	file     string
	printer  *message.Printer
	severity pb.Severity
	results  *pb.ResultsList
}

func Analyze(db *symboldb.Database, opts *options.CheckOptions) (*pb.ResultsList, error) {
	c := &checker{
		file:     db.File,
		printer:  i18n.GetPrinter(opts.EnvOption.Lang),
		severity: pb.SeverityWarning,
		results:  &pb.ResultsList{},
	}
	if opts.JsonOption.Severity != nil {
		if s := pb.ParseSeverity(*opts.JsonOption.Severity); s != pb.SeverityUnspecified {
			c.severity = s
		}
	}

	for _, scope := range db.FunctionScopes() {
		symboldb.Inspect(scope.Function.Body, func(n *symboldb.Node) bool {
			switch n.Kind {
			case symboldb.NodeCall, symboldb.NodeTemporary:
				c.checkArgs(n.Text, n.Args)
			case symboldb.NodeDecl:
				for _, v := range n.Vars {
					c.checkArgs(v.Name, v.InitArgs)
				}
			}
			return true
		})
	}

	for _, scope := range db.Scopes {
		if !scope.IsClassOrStructOrUnion() && scope.Type != symboldb.ScopeGlobal && scope.Type != symboldb.ScopeNamespace {
			continue
		}
		for _, v := range scope.VarList {
			if v.HasInit {
				c.checkArgs(v.Name, v.InitArgs)
			}
		}
	}
	return c.results, nil
}

// unparen strips redundant parentheses around an argument.
func unparen(n *symboldb.Node) *symboldb.Node {
	for n.Kind == symboldb.NodeOther && n.Text == "parenthesized_expression" && len(n.Children) == 1 {
		n = n.Children[0]
	}
	return n
}

func (c *checker) checkArgs(callee string, args []*symboldb.Node) {
	for _, arg := range args {
		arg = unparen(arg)
		if arg.Kind != symboldb.NodeCall || arg.Callee == nil {
			continue
		}
		c.results.Results = append(c.results.Results, &pb.Result{
			Path:         c.file,
			LineNumber:   int32(arg.Pos.Line),
			Column:       int32(arg.Pos.Column),
			ErrorMessage: c.printer.Sprintf(i18n.InvocableAsArg, arg.Text, callee),
			Name:         arg.Text,
			Severity:     c.severity,
			RuleId:       RuleName,
		})
	}
}
