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

// Package source reads translation units in their declared charset and cuts
// code snippets for reports.
package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/glog"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// SnippetContext is the number of lines shown around a reported line.
const SnippetContext = 2

func isUTF8(charset string) bool {
	switch strings.ToLower(charset) {
	case "", "utf8", "utf-8":
		return true
	}
	return false
}

// Decode converts b from charset to UTF-8. Charsets that are known by name
// but have no decoder are treated as UTF-8.
func Decode(b []byte, charset string) ([]byte, error) {
	if isUTF8(charset) {
		return b, nil
	}
	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %v", charset, err)
	}
	if e == nil {
		glog.Warningf("no decoder for charset %s, reading as UTF-8", charset)
		return b, nil
	}
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(b), e.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %v", charset, err)
	}
	return decoded, nil
}

// ReadFile returns the UTF-8 content of path.
func ReadFile(path, charset string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	src, err := Decode(b, charset)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	return src, nil
}

// Snippet renders the lines around lineNumber of src, marking lineNumber:
//
//	3| int a;
//	> 4| int get() { return a; }
//	5| };
func Snippet(src []byte, lineNumber int32) (string, error) {
	scanner := bufio.NewScanner(bytes.NewReader(src))
	lower := lineNumber - SnippetContext
	upper := lineNumber + SnippetContext
	var sb strings.Builder
	var lineCount int32
	for scanner.Scan() {
		lineCount++
		if lineCount < lower {
			continue
		}
		if lineCount > upper {
			break
		}
		if lineCount == lineNumber {
			fmt.Fprintf(&sb, "> %d| %s\n", lineCount, scanner.Text())
		} else {
			fmt.Fprintf(&sb, "%d| %s\n", lineCount, scanner.Text())
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// GetCode reads path in charset and returns the snippet around lineNumber.
func GetCode(path string, lineNumber int32, charset string) (string, error) {
	src, err := ReadFile(path, charset)
	if err != nil {
		return "", err
	}
	return Snippet(src, lineNumber)
}
