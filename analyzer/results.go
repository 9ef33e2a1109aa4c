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

// Package analyzer writes and reads the results files of an analysis.
package analyzer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/golang/glog"
	pb "naive.systems/exceptspec/analyzer/proto"
	"naive.systems/exceptspec/atomic"
	"naive.systems/exceptspec/cruleslib/source"
)

const (
	ResultsFile           = "results"
	ResultsWithSuffixFile = "results.nsa_results"
	JsonResultsFile       = "nsa_results.json"
)

// WriteResults stores allResults in the protobuf wire format.
func WriteResults(allResults *pb.ResultsList, resultsPath string) error {
	return atomic.Write(resultsPath, allResults.Marshal())
}

func ReadResults(resultsPath string) (*pb.ResultsList, error) {
	content, err := os.ReadFile(resultsPath)
	if err != nil {
		return nil, err
	}
	var results pb.ResultsList
	if err := results.Unmarshal(content); err != nil {
		return nil, fmt.Errorf("%s: %v", resultsPath, err)
	}
	return &results, nil
}

func WriteJsonResults(allResults *pb.ResultsList, resultsPath string) error {
	if allResults.Results == nil {
		allResults = &pb.ResultsList{Results: []*pb.Result{}}
	}
	out, err := json.MarshalIndent(allResults, "", "  ")
	if err != nil {
		return err
	}
	return atomic.Write(resultsPath, append(out, '\n'))
}

// PrintResults writes one line per result, followed by the code around it
// when withCode is set. printCounts adds how often each message occurred.
func PrintResults(w io.Writer, allResults *pb.ResultsList, charset string, withCode, printCounts bool) {
	resultCountMap := map[string]int{}
	for _, result := range allResults.Results {
		fmt.Fprintf(w, "[%s:%d]: (%s) %s\n", result.Path, result.LineNumber, result.Severity, result.ErrorMessage)
		if withCode {
			code, err := source.GetCode(result.Path, result.LineNumber, charset)
			if err != nil {
				glog.Warningf("source.GetCode(%s): %v", result.Path, err)
			} else {
				fmt.Fprintln(w, code)
			}
		}
		resultCountMap[result.ErrorMessage]++
	}
	if !printCounts {
		return
	}
	messages := make([]string, 0, len(resultCountMap))
	for message := range resultCountMap {
		messages = append(messages, message)
	}
	sort.Strings(messages)
	for _, message := range messages {
		fmt.Fprintf(w, "%d\t%s\n", resultCountMap[message], message)
	}
}
