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

import "strings"

// Severity mirrors the Severity enum of results.proto.
type Severity int32

const (
	SeverityUnspecified Severity = 0
	SeverityError       Severity = 1
	SeverityWarning     Severity = 2
	SeverityStyle       Severity = 3
	SeverityInformation Severity = 4
)

var severityNames = map[Severity]string{
	SeverityUnspecified: "unspecified",
	SeverityError:       "error",
	SeverityWarning:     "warning",
	SeverityStyle:       "style",
	SeverityInformation: "information",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return severityNames[SeverityUnspecified]
}

// ParseSeverity accepts the lower case names printed by String.
// Unknown names map to SeverityUnspecified.
func ParseSeverity(name string) Severity {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range severityNames {
		if n == name {
			return s
		}
	}
	return SeverityUnspecified
}

// Result is one diagnostic reported against a source location.
type Result struct {
	Path         string   `json:"path"`
	LineNumber   int32    `json:"line_number"`
	Column       int32    `json:"column,omitempty"`
	ErrorMessage string   `json:"error_message"`
	Name         string   `json:"name,omitempty"`
	Severity     Severity `json:"severity"`
	RuleId       string   `json:"rule_id,omitempty"`
	Ruleset      string   `json:"ruleset,omitempty"`
	Id           string   `json:"id,omitempty"`
}

type ResultsList struct {
	Results []*Result `json:"results"`
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	*s = ParseSeverity(string(text))
	return nil
}
