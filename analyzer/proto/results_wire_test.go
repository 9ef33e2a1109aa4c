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

package proto

import (
	"bytes"
	"encoding/json"
	"os"
	"regexp"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResultWireLayout(t *testing.T) {
	r := &Result{Path: "a", LineNumber: 3, Severity: SeverityWarning}
	got := r.AppendWire(nil)
	want := []byte{0x0a, 0x01, 'a', 0x10, 0x03, 0x28, 0x02}
	if !bytes.Equal(got, want) {
		t.Errorf("AppendWire() = % x, want % x", got, want)
	}
}

func TestResultsListRoundTrip(t *testing.T) {
	list := &ResultsList{Results: []*Result{
		{
			Path:         "src/a.cpp",
			LineNumber:   11,
			Column:       9,
			ErrorMessage: `The function "get" shall be specified noexcept.`,
			Name:         "get",
			Severity:     SeverityWarning,
			RuleId:       "exception_specifier",
			Ruleset:      "exceptspec",
			Id:           "2f1c",
		},
		{Path: "src/b.cpp", LineNumber: 1},
	}}
	decoded := &ResultsList{}
	if err := decoded.Unmarshal(list.Marshal()); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(list, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalSkipsUnknownFields(t *testing.T) {
	b := (&Result{Path: "x.cpp"}).AppendWire(nil)
	// field 42, varint 7
	b = append(b, 0xd0, 0x02, 0x07)
	r := &Result{}
	if err := r.Unmarshal(b); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if r.Path != "x.cpp" {
		t.Errorf("Path = %q, want x.cpp", r.Path)
	}
}

func TestUnmarshalTruncated(t *testing.T) {
	b := (&ResultsList{Results: []*Result{{Path: "x.cpp"}}}).Marshal()
	if err := (&ResultsList{}).Unmarshal(b[:len(b)-1]); err == nil {
		t.Errorf("Unmarshal of a truncated message should fail")
	}
}

func TestSeverityJSON(t *testing.T) {
	out, err := json.Marshal(&Result{Path: "a", Severity: SeverityWarning})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out, []byte(`"severity":"warning"`)) {
		t.Errorf("severity should be written by name, got %s", out)
	}
	var r Result
	if err := json.Unmarshal(out, &r); err != nil {
		t.Fatal(err)
	}
	if r.Severity != SeverityWarning {
		t.Errorf("Severity = %v, want warning", r.Severity)
	}
}

var (
	blockRe = regexp.MustCompile(`(?s)(message|enum) (\w+) \{(.*?)\n\}`)
	fieldRe = regexp.MustCompile(`(?m)^\s+(?:repeated\s+)?(?:\w+\s+)?(\w+) = (\d+);`)
)

// schemaNumbers maps "Message.field" and "Enum.VALUE" to their numbers in
// results.proto.
func schemaNumbers(t *testing.T) map[string]int {
	t.Helper()
	schema, err := os.ReadFile("results.proto")
	if err != nil {
		t.Fatal(err)
	}
	numbers := make(map[string]int)
	for _, block := range blockRe.FindAllStringSubmatch(string(schema), -1) {
		for _, field := range fieldRe.FindAllStringSubmatch(block[3], -1) {
			n, err := strconv.Atoi(field[2])
			if err != nil {
				t.Fatal(err)
			}
			numbers[block[2]+"."+field[1]] = n
		}
	}
	return numbers
}

func TestFieldNumbersMatchSchema(t *testing.T) {
	got := map[string]int{
		"Result.path":          int(fieldPath),
		"Result.line_number":   int(fieldLineNumber),
		"Result.error_message": int(fieldErrorMessage),
		"Result.name":          int(fieldName),
		"Result.severity":      int(fieldSeverity),
		"Result.rule_id":       int(fieldRuleId),
		"Result.ruleset":       int(fieldRuleset),
		"Result.id":            int(fieldId),
		"Result.column":        int(fieldColumn),
		"ResultsList.results":  int(fieldResults),

		"Severity.SEVERITY_UNSPECIFIED": int(SeverityUnspecified),
		"Severity.ERROR":                int(SeverityError),
		"Severity.WARNING":              int(SeverityWarning),
		"Severity.STYLE":                int(SeverityStyle),
		"Severity.INFORMATION":          int(SeverityInformation),
	}
	if diff := cmp.Diff(schemaNumbers(t), got); diff != "" {
		t.Errorf("field numbers differ from results.proto (-schema +code):\n%s", diff)
	}
}
