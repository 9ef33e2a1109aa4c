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

package basic

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"naive.systems/exceptspec/cruleslib/i18n"
)

func TestFormatTimeDuration(t *testing.T) {
	for _, tc := range []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{2 * time.Second, "2s"},
		{1250 * time.Millisecond, "1.25s"},
		{3*time.Second + 7*time.Millisecond, "3.007s"},
		{500*time.Millisecond + 300*time.Microsecond, "0.5s"},
	} {
		if got := FormatTimeDuration(tc.d); got != tc.want {
			t.Errorf("FormatTimeDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestGetPercentString(t *testing.T) {
	for _, tc := range []struct {
		v1, v2 int
		want   string
	}{
		{1, 3, "33%"},
		{3, 3, "100%"},
		{0, 0, "100%"},
	} {
		if got := GetPercentString(tc.v1, tc.v2); got != tc.want {
			t.Errorf("GetPercentString(%d, %d) = %q, want %q", tc.v1, tc.v2, got, tc.want)
		}
	}
}

func TestCheckingProcessPrinter(t *testing.T) {
	c := NewCheckingProcessPrinter(2, i18n.GetPrinter("en"))
	c.StartAnalyzeTask("a.cpp")
	c.StartAnalyzeTask("b.cpp")
	if got := c.FinishAnalyzeTask("b.cpp"); got != "50%" {
		t.Errorf("FinishAnalyzeTask = %q, want 50%%", got)
	}
	if got := c.FinishAnalyzeTask("a.cpp"); got != "100%" {
		t.Errorf("FinishAnalyzeTask = %q, want 100%%", got)
	}
	if got := c.GetPercentString(); got != "100%" {
		t.Errorf("GetPercentString = %q", got)
	}
}

func TestTarFile(t *testing.T) {
	dir := t.TempDir()
	logs := filepath.Join(dir, "logs")
	if err := CreateDir(filepath.Join(logs, "sub")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(logs, "sub", "a.log"), []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	archive := filepath.Join(dir, "logs.tar.gz")
	if err := TarFile(logs, archive); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(archive)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	gr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	tr := tar.NewReader(gr)
	var names []string
	contents := map[string]string{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, hdr.Name)
		if hdr.Typeflag == tar.TypeReg {
			b, err := io.ReadAll(tr)
			if err != nil {
				t.Fatal(err)
			}
			contents[hdr.Name] = string(b)
		}
	}
	want := []string{"logs", "logs/sub", "logs/sub/a.log"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("archive entries mismatch (-want +got):\n%s", diff)
	}
	if contents["logs/sub/a.log"] != "hello" {
		t.Errorf("a.log = %q, want hello", contents["logs/sub/a.log"])
	}
}
