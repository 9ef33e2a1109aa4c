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

package compilecommand

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGetArgs(t *testing.T) {
	cc := CompileCommand{Command: `g++ -DNAME="a b" -c main.cpp`}
	got, err := cc.GetArgs()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"g++", "-DNAME=a b", "-c", "main.cpp"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetArgs mismatch (-want +got):\n%s", diff)
	}

	cc = CompileCommand{Command: "ignored", Arguments: []string{"clang++", "x.cc"}}
	got, err = cc.GetArgs()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"clang++", "x.cc"}, got); diff != "" {
		t.Errorf("GetArgs mismatch (-want +got):\n%s", diff)
	}
}

func TestIsCpp(t *testing.T) {
	for _, tc := range []struct {
		cc   CompileCommand
		want bool
	}{
		{CompileCommand{Command: "g++ -c a.cpp", File: "a.cpp"}, true},
		{CompileCommand{Command: "gcc -c a.c", File: "a.c"}, false},
		{CompileCommand{Command: "g++ -x c++ -c a.c", File: "a.c"}, true},
		{CompileCommand{Arguments: []string{"clang", "-xc", "a.cc"}, File: "a.cc"}, false},
		{CompileCommand{Command: "g++ -c a.hpp", File: "a.hpp"}, true},
	} {
		if got := tc.cc.IsCpp(); got != tc.want {
			t.Errorf("IsCpp(%+v) = %v, want %v", tc.cc, got, tc.want)
		}
	}
}

func TestReadSources(t *testing.T) {
	dir := t.TempDir()
	ccjson := filepath.Join(dir, CCJson)
	content := `[
  {"directory": "/src", "command": "g++ -c b.cpp", "file": "b.cpp"},
  {"directory": "/src/build", "arguments": ["g++", "-c", "../a.cpp"], "file": "../a.cpp"},
  {"directory": "/src", "command": "g++ -O2 -c b.cpp", "file": "/src/b.cpp"},
  {"directory": "/src", "command": "gcc -c c.c", "file": "c.c"},
  {"directory": "/src", "command": "g++ -c vendor/d.cpp", "file": "vendor/d.cpp"}
]`
	if err := os.WriteFile(ccjson, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadSources(ccjson, []string{"/src/vendor/**"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"/src/a.cpp", "/src/b.cpp"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadSources mismatch (-want +got):\n%s", diff)
	}
}

func TestReadSourcesMissingFile(t *testing.T) {
	if _, err := ReadSources(filepath.Join(t.TempDir(), CCJson), nil); err == nil {
		t.Error("ReadSources succeeded on a missing file")
	}
}
