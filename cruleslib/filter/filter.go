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

/*
This package should not import the rules or the runner to avoid recursive
import.
*/
package filter

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/golang/glog"
	pb "naive.systems/exceptspec/analyzer/proto"
	"naive.systems/exceptspec/cruleslib/checkrule"
)

var kCSuffixs = []string{".c"}
var kCppSuffixs = []string{".cpp", ".cc", ".cxx", ".c++", ".C"}
var kHeaderSuffixs = []string{".h", ".hh", ".hpp", ".hxx", ".h++"}

func hasSuffix(path string, suffixs []string) bool {
	ext := filepath.Ext(path)
	for _, suffix := range suffixs {
		if ext == suffix {
			return true
		}
	}
	return false
}

func IsCFile(path string) bool {
	return hasSuffix(path, kCSuffixs)
}

func IsCppFile(path string) bool {
	return hasSuffix(path, kCppSuffixs)
}

func IsHeaderFile(path string) bool {
	return hasSuffix(path, kHeaderSuffixs)
}

// MatchIgnoreDirPatterns reports whether filePath matches one of the
// doublestar patterns given by -ignore_dir.
func MatchIgnoreDirPatterns(ignoreDirPatterns []string, filePath string) (bool, error) {
	for _, ignoreDirPattern := range ignoreDirPatterns {
		matched, err := doublestar.Match(ignoreDirPattern, filePath)
		if err != nil {
			return false, fmt.Errorf("malformed ignore_dir pattern %s", ignoreDirPattern)
		}
		if matched {
			glog.Infof("%s ignored due to pattern %s", filePath, ignoreDirPattern)
			return true, nil
		}
	}
	return false, nil
}

// ProcessIgnoreDir drops results whose path matches an ignore pattern. A
// malformed pattern keeps every result.
func ProcessIgnoreDir(allResults *pb.ResultsList, ignoreDirPatterns []string) *pb.ResultsList {
	if len(ignoreDirPatterns) == 0 {
		return allResults
	}
	newResults := make([]*pb.Result, 0, len(allResults.Results))
	for _, result := range allResults.Results {
		matched, err := MatchIgnoreDirPatterns(ignoreDirPatterns, result.Path)
		if err != nil {
			glog.Error(err)
			return allResults
		}
		if !matched {
			newResults = append(newResults, result)
		}
	}
	allResults.Results = newResults
	return allResults
}

// DeleteExceedResults keeps at most max-report-num results of each rule that
// sets it, in the order they appear.
func DeleteExceedResults(allResults *pb.ResultsList, checkRules []checkrule.CheckRule) *pb.ResultsList {
	maxReportNumMap := make(map[string]int)
	for _, checkRule := range checkRules {
		if checkRule.JSONOptions.MaxReportNum != nil {
			maxReportNumMap[checkRule.Name] = *checkRule.JSONOptions.MaxReportNum
		}
	}
	if len(maxReportNumMap) == 0 {
		return allResults
	}
	reported := make(map[string]int)
	rtnResults := make([]*pb.Result, 0, len(allResults.Results))
	for _, currentResult := range allResults.Results {
		limit, exist := maxReportNumMap[currentResult.RuleId]
		if !exist {
			rtnResults = append(rtnResults, currentResult)
			continue
		}
		if reported[currentResult.RuleId] < limit {
			reported[currentResult.RuleId]++
			rtnResults = append(rtnResults, currentResult)
		}
	}
	allResults.Results = rtnResults
	return allResults
}

// nolintRe matches NOLINT, NOLINT(rule, ...) and the NEXTLINE forms.
var nolintRe = regexp.MustCompile(`\bNOLINT(NEXTLINE)?\b(?:\(([^)]*)\))?`)

func suppresses(comment, ruleName string, nextLine bool) bool {
	for _, m := range nolintRe.FindAllStringSubmatch(comment, -1) {
		if (m[1] != "") != nextLine {
			continue
		}
		if m[2] == "" {
			return true
		}
		for _, name := range strings.Split(m[2], ",") {
			name = strings.TrimSpace(name)
			if name == "*" || name == ruleName {
				return true
			}
		}
	}
	return false
}

// IsSuppressed reports whether a NOLINT comment on line, or a NOLINTNEXTLINE
// comment on the line before it, silences ruleName.
func IsSuppressed(comments map[int][]string, line int, ruleName string) bool {
	for _, c := range comments[line] {
		if suppresses(c, ruleName, false) {
			return true
		}
	}
	for _, c := range comments[line-1] {
		if suppresses(c, ruleName, true) {
			return true
		}
	}
	return false
}

// DeleteSuppressedResults drops the results of one translation unit that
// are silenced by an inline comment. comments maps a line to the comments
// starting on it.
func DeleteSuppressedResults(results *pb.ResultsList, comments map[int][]string) *pb.ResultsList {
	if len(comments) == 0 {
		return results
	}
	rtnResults := make([]*pb.Result, 0, len(results.Results))
	for _, r := range results.Results {
		if IsSuppressed(comments, int(r.LineNumber), r.RuleId) {
			glog.V(1).Infof("%s:%d: %s suppressed", r.Path, r.LineNumber, r.RuleId)
			continue
		}
		rtnResults = append(rtnResults, r)
	}
	results.Results = rtnResults
	return results
}
