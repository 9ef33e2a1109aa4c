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

// Package diff reads unified diffs so that an analysis can be limited to the
// lines a change adds.
package diff

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/golang/glog"
	pb "naive.systems/exceptspec/analyzer/proto"
)

type Hunk struct {
	OldPos, OldLines, NewPos, NewLines int
}

type File struct {
	// NewName is empty for a deleted file and OldName for an added one.
	NewName string
	OldName string
	Hunks   []*Hunk
	// Added holds the new-side line numbers of the added lines.
	Added map[int]bool
}

type Patch struct {
	Files []*File
}

var hunkRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func fileName(line, prefix string) (string, error) {
	name := strings.TrimPrefix(line, prefix)
	if i := strings.IndexByte(name, '\t'); i >= 0 {
		name = name[:i]
	}
	if name == "/dev/null" {
		return "", nil
	}
	if len(name) > 2 && (name[:2] == "a/" || name[:2] == "b/") {
		return name[2:], nil
	}
	return "", fmt.Errorf("unexpected file name %q", name)
}

// Parse reads the output of diff -u or git diff. Only the "--- ", "+++ "
// and hunk lines and the hunk bodies matter; everything else is skipped.
func Parse(diff string) (*Patch, error) {
	var p Patch
	var f *File
	var newLine, remaining int
	for i, line := range strings.Split(diff, "\n") {
		if remaining > 0 && f != nil {
			switch {
			case strings.HasPrefix(line, "+"):
				f.Added[newLine] = true
				newLine++
				remaining--
			case strings.HasPrefix(line, " "), line == "":
				newLine++
				remaining--
			}
			continue
		}
		switch {
		case strings.HasPrefix(line, "--- "):
			oldName, err := fileName(line, "--- ")
			if err != nil {
				return nil, fmt.Errorf("line %d: %v", i+1, err)
			}
			f = &File{OldName: oldName, Added: make(map[int]bool)}
			p.Files = append(p.Files, f)
		case strings.HasPrefix(line, "+++ "):
			if f == nil || len(f.Hunks) > 0 {
				return nil, fmt.Errorf("line %d: unexpected %q", i+1, line)
			}
			newName, err := fileName(line, "+++ ")
			if err != nil {
				return nil, fmt.Errorf("line %d: %v", i+1, err)
			}
			f.NewName = newName
		case strings.HasPrefix(line, "@@ -"):
			match := hunkRe.FindStringSubmatch(line)
			if match == nil || f == nil {
				return nil, fmt.Errorf("line %d: malformed hunk header %q", i+1, line)
			}
			h := &Hunk{
				OldPos:   atoiOr(match[1], 0),
				OldLines: atoiOr(match[2], 1),
				NewPos:   atoiOr(match[3], 0),
				NewLines: atoiOr(match[4], 1),
			}
			f.Hunks = append(f.Hunks, h)
			newLine, remaining = h.NewPos, h.NewLines
		}
	}
	return &p, nil
}

func ReadFile(path string) (*Patch, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	return p, nil
}

// Added reports whether line of path, relative to the root of the diff, is
// added by the patch.
func (p *Patch) Added(path string, line int) bool {
	for _, f := range p.Files {
		if f.NewName == path && f.Added[line] {
			return true
		}
	}
	return false
}

// FilterResults keeps the results on lines the patch adds. Result paths are
// made relative to srcDir, the root the diff was taken in.
func FilterResults(allResults *pb.ResultsList, p *Patch, srcDir string) *pb.ResultsList {
	rtnResults := make([]*pb.Result, 0, len(allResults.Results))
	for _, r := range allResults.Results {
		path := r.Path
		if filepath.IsAbs(path) {
			rel, err := filepath.Rel(srcDir, path)
			if err != nil {
				glog.Warningf("%s is not under %s: %v", path, srcDir, err)
				continue
			}
			path = rel
		}
		if p.Added(filepath.ToSlash(path), int(r.LineNumber)) {
			rtnResults = append(rtnResults, r)
		}
	}
	allResults.Results = rtnResults
	return allResults
}
