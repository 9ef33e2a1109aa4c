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

package analyzer

import (
	"context"
	"fmt"

	"github.com/golang/glog"
	pb "naive.systems/exceptspec/analyzer/proto"
	"naive.systems/exceptspec/cruleslib/checkrule"
	"naive.systems/exceptspec/cruleslib/filter"
	"naive.systems/exceptspec/cruleslib/options"
	"naive.systems/exceptspec/cruleslib/runner"
	"naive.systems/exceptspec/rules/exception_specifier"
	"naive.systems/exceptspec/rules/invocable_as_function_arg"
	"naive.systems/exceptspec/rules/shared_ptr_by_ref"
)

const Ruleset = "exceptspec"

type RuleDef struct {
	Name    string
	Analyze runner.AnalyzeFunc
}

// Rules run on every translation unit in this order.
var Rules = []RuleDef{
	{exception_specifier.RuleName, exception_specifier.Analyze},
	{shared_ptr_by_ref.RuleName, shared_ptr_by_ref.Analyze},
	{invocable_as_function_arg.RuleName, invocable_as_function_arg.Analyze},
}

func Lookup(name string) (runner.AnalyzeFunc, bool) {
	for _, r := range Rules {
		if r.Name == name {
			return r.Analyze, true
		}
	}
	return nil, false
}

// DefaultCheckRules enables every rule with default options.
func DefaultCheckRules() []checkrule.CheckRule {
	checkRules := make([]checkrule.CheckRule, 0, len(Rules))
	for _, r := range Rules {
		checkRules = append(checkRules, checkrule.CheckRule{Name: r.Name})
	}
	return checkRules
}

// makeRules resolves the configured rules. They keep the order of Rules
// whatever the order of the config.
func makeRules(checkRules []checkrule.CheckRule, envOpts *options.EnvOptions) ([]runner.Rule, []error) {
	configured := make(map[string]checkrule.CheckRule)
	var errs []error
	for _, rule := range checkRules {
		if _, ok := Lookup(rule.Name); !ok {
			errs = append(errs, fmt.Errorf("no such rule: %s", rule.Name))
			continue
		}
		configured[rule.Name] = rule
	}
	var rules []runner.Rule
	for _, def := range Rules {
		rule, ok := configured[def.Name]
		if !ok {
			continue
		}
		jsonOption := rule.JSONOptions
		ruleOptions := options.MakeCheckOptions(&jsonOption, envOpts)
		rules = append(rules, runner.Rule{
			Name:    def.Name,
			Ruleset: Ruleset,
			Analyze: def.Analyze,
			Opts:    &ruleOptions,
		})
	}
	return rules, errs
}

// Run analyzes files with the enabled rules. The results are sorted by
// location, deduplicated and trimmed to each rule's max-report-num. The
// errors hold one entry per failed file or unknown rule.
func Run(ctx context.Context, checkRules []checkrule.CheckRule, files []string, envOpts *options.EnvOptions) (*pb.ResultsList, []error) {
	rules, errs := makeRules(checkRules, envOpts)
	if len(rules) == 0 || len(files) == 0 {
		glog.Infof("nothing to check: %d rule(s), %d file(s)", len(rules), len(files))
		return &pb.ResultsList{}, errs
	}

	paraTaskRunner := runner.NewParaTaskRunner(ctx, envOpts.NumWorkers, len(files), envOpts)
	for i, file := range files {
		task := runner.AnalyzerTask{Id: i, File: file, Charset: envOpts.Charset, Rules: rules}
		if !paraTaskRunner.AddTask(task) {
			glog.Warningf("analysis stopped, %d of %d file(s) scheduled", i, len(files))
			break
		}
	}
	results, taskErrs := paraTaskRunner.CollectResultsAndErrors()
	errs = append(errs, runner.NonNilErrors(taskErrs)...)

	results = runner.RemoveDup(runner.SortResult(results))
	results = filter.ProcessIgnoreDir(results, envOpts.IgnoreDirPatterns)
	results = filter.DeleteExceedResults(results, checkRules)
	return results, errs
}
