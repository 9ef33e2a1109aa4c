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

// Package shared_ptr_by_ref reports shared_ptr parameters taken by
// reference in function definitions.
package shared_ptr_by_ref

import (
	pb "naive.systems/exceptspec/analyzer/proto"
	"naive.systems/exceptspec/cpp/symboldb"
	"naive.systems/exceptspec/cruleslib/i18n"
	"naive.systems/exceptspec/cruleslib/options"
)

const RuleName = "shared_ptr_by_ref"

var sharedPtrTypeNames = map[string]bool{
	"std::shared_ptr": true,
	"shared_ptr":      true,
}

func Analyze(db *symboldb.Database, opts *options.CheckOptions) (*pb.ResultsList, error) {
	results := &pb.ResultsList{}
	printer := i18n.GetPrinter(opts.EnvOption.Lang)
	severity := pb.SeverityWarning
	if opts.JsonOption.Severity != nil {
		if s := pb.ParseSeverity(*opts.JsonOption.Severity); s != pb.SeverityUnspecified {
			severity = s
		}
	}
	for _, scope := range db.FunctionScopes() {
		for _, param := range scope.Function.Params {
			if !param.IsReference || !sharedPtrTypeNames[param.TypeName] {
				continue
			}
			results.Results = append(results.Results, &pb.Result{
				Path:         db.File,
				LineNumber:   int32(param.NameToken.Line),
				Column:       int32(param.NameToken.Column),
				ErrorMessage: printer.Sprintf(i18n.SharedPtrByRef),
				Name:         param.Name,
				Severity:     severity,
				RuleId:       RuleName,
			})
		}
	}
	return results, nil
}
