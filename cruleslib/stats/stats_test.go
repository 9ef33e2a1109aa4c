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

package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	pb "naive.systems/exceptspec/analyzer/proto"
)

func TestCountLines(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.cpp")
	if err := os.WriteFile(src, []byte("int a;\n// comment\n\nint b;\nint c;\n"), 0644); err != nil {
		t.Fatal(err)
	}
	ignored := filepath.Join(dir, "gen", "b.cpp")
	if err := os.MkdirAll(filepath.Dir(ignored), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ignored, []byte("int x;\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := CountLines([]string{src, ignored}, []string{filepath.Join(dir, "gen", "**")})
	if err != nil {
		t.Fatal(err)
	}
	if got != 3 {
		t.Errorf("CountLines = %d, want 3", got)
	}
}

func TestCountSeverityAndWrite(t *testing.T) {
	dir := t.TempDir()
	results := &pb.ResultsList{Results: []*pb.Result{
		{Severity: pb.SeverityWarning},
		{Severity: pb.SeverityWarning},
		{Severity: pb.SeverityStyle},
		{Severity: pb.SeverityUnspecified},
	}}
	CountSeverityAndWrite(results, dir)
	b, err := os.ReadFile(filepath.Join(dir, SeverityFile))
	if err != nil {
		t.Fatal(err)
	}
	var got SeverityCount
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	want := SeverityCount{Warning: 2, Style: 1, Unknown: 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("severity count mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteProgressAndLOC(t *testing.T) {
	dir := t.TempDir()
	startedAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	WriteProgress(dir, AC, "50%", startedAt)
	WriteLOC(dir, 42)

	b, err := os.ReadFile(filepath.Join(dir, ProgressFile))
	if err != nil {
		t.Fatal(err)
	}
	var got Progress
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	want := Progress{StageID: AC, DoneRatio: "50%", StartedAt: startedAt}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}
	loc, err := os.ReadFile(filepath.Join(dir, LOCFile))
	if err != nil {
		t.Fatal(err)
	}
	if string(loc) != "42" {
		t.Errorf("loc = %q, want 42", loc)
	}
}

func TestWriteProgressMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	WriteProgress(dir, CC, "0%", time.Now())
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("WriteProgress created %s", dir)
	}
}
