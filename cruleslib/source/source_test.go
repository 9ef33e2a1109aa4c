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

package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		charset string
		want    string
	}{
		{"utf8 passthrough", []byte("int a; // 中"), "utf-8", "int a; // 中"},
		{"empty charset", []byte("int b;"), "", "int b;"},
		{"gbk", []byte{'/', '/', ' ', 0xd6, 0xd0}, "gbk", "// 中"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode(tc.input, tc.charset)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if string(got) != tc.want {
				t.Errorf("Decode = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDecodeUnknownCharset(t *testing.T) {
	if _, err := Decode([]byte("x"), "no-such-charset"); err == nil {
		t.Error("Decode succeeded for an unknown charset")
	}
}

func TestSnippet(t *testing.T) {
	src := []byte("l1\nl2\nl3\nl4\nl5\nl6\n")
	tests := []struct {
		line int32
		want string
	}{
		{1, "> 1| l1\n2| l2\n3| l3\n"},
		{4, "2| l2\n3| l3\n> 4| l4\n5| l5\n6| l6\n"},
		{6, "4| l4\n5| l5\n> 6| l6\n"},
	}
	for _, tc := range tests {
		got, err := Snippet(src, tc.line)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("Snippet(%d) mismatch (-want +got):\n%s", tc.line, diff)
		}
	}
}

func TestGetCode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.cpp")
	if err := os.WriteFile(path, []byte("int a;\nint f();\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := GetCode(path, 2, "utf8")
	if err != nil {
		t.Fatal(err)
	}
	if want := "1| int a;\n> 2| int f();\n"; got != want {
		t.Errorf("GetCode = %q, want %q", got, want)
	}
}
