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

// Package testlib runs rules over txtar archives in testdata directories.
//
// An archive holds the source under test in a test.cpp section, the
// expected report in an expected section, one "[file:line]: (severity)
// message" line per result, and optionally rule options as JSON in an
// options.json section.
package testlib

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/exp/slices"
	"golang.org/x/tools/txtar"

	pb "naive.systems/exceptspec/analyzer/proto"
	"naive.systems/exceptspec/cpp/parser"
	"naive.systems/exceptspec/cpp/symboldb"
	"naive.systems/exceptspec/cruleslib/checkrule"
	"naive.systems/exceptspec/cruleslib/options"
)

const (
	SourceFile   = "test.cpp"
	ExpectedFile = "expected"
	OptionsFile  = "options.json"
)

type AnalyzeFunc func(db *symboldb.Database, opts *options.CheckOptions) (*pb.ResultsList, error)

type Case struct {
	Name     string
	Source   []byte
	Expected []string
	Options  checkrule.JSONOption
}

func ParseCase(name string, data []byte) (*Case, error) {
	return fromArchive(name, txtar.Parse(data))
}

func fromArchive(name string, archive *txtar.Archive) (*Case, error) {
	c := &Case{Name: name}
	hasSource := false
	for _, f := range archive.Files {
		switch f.Name {
		case SourceFile:
			c.Source = f.Data
			hasSource = true
		case ExpectedFile:
			for _, line := range strings.Split(string(f.Data), "\n") {
				if line = strings.TrimSpace(line); line != "" {
					c.Expected = append(c.Expected, line)
				}
			}
		case OptionsFile:
			if err := json.Unmarshal(f.Data, &c.Options); err != nil {
				return nil, fmt.Errorf("%s: %s: %v", name, OptionsFile, err)
			}
		default:
			return nil, fmt.Errorf("%s: unexpected section %s", name, f.Name)
		}
	}
	if !hasSource {
		return nil, fmt.Errorf("%s: no %s section", name, SourceFile)
	}
	return c, nil
}

func LoadCase(path string) (*Case, error) {
	archive, err := txtar.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return fromArchive(strings.TrimSuffix(filepath.Base(path), ".txtar"), archive)
}

// NewOption returns the options a rule sees when run by the command with
// no flags, overlaid with jsonOption.
func NewOption(jsonOption checkrule.JSONOption) *options.CheckOptions {
	env := &options.EnvOptions{
		Lang:       options.Defaults.Lang,
		CallDepth:  options.Defaults.CallDepth,
		NumWorkers: 1,
	}
	opts := options.MakeCheckOptions(&jsonOption, env)
	return &opts
}

// Format renders results the way the expected sections are written,
// ordered by location. Results on the same line keep their order.
func Format(results *pb.ResultsList) []string {
	if results == nil {
		return nil
	}
	sorted := slices.Clone(results.Results)
	slices.SortStableFunc(sorted, func(a, b *pb.Result) bool {
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.LineNumber < b.LineNumber
	})
	var lines []string
	for _, r := range sorted {
		lines = append(lines, fmt.Sprintf("[%s:%d]: (%s) %s", r.Path, r.LineNumber, r.Severity, r.ErrorMessage))
	}
	return lines
}

func RunCase(ctx context.Context, c *Case, analyze AnalyzeFunc) ([]string, error) {
	db, err := parser.Parse(ctx, SourceFile, c.Source)
	if err != nil {
		return nil, err
	}
	results, err := analyze(db, NewOption(c.Options))
	if err != nil {
		return nil, err
	}
	return Format(results), nil
}

// RunTxtarTests runs analyze over every archive matching pattern as a
// subtest.
func RunTxtarTests(t *testing.T, pattern string, analyze AnalyzeFunc) {
	t.Helper()
	paths, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatalf("no test archives match %s", pattern)
	}
	for _, path := range paths {
		path := path
		t.Run(strings.TrimSuffix(filepath.Base(path), ".txtar"), func(t *testing.T) {
			c, err := LoadCase(path)
			if err != nil {
				t.Fatal(err)
			}
			got, err := RunCase(context.Background(), c, analyze)
			if err != nil {
				t.Fatalf("analyze: %v", err)
			}
			if diff := cmp.Diff(c.Expected, got); diff != "" {
				t.Errorf("results mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
