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
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

const (
	fieldPath         protowire.Number = 1
	fieldLineNumber   protowire.Number = 2
	fieldErrorMessage protowire.Number = 3
	fieldName         protowire.Number = 4
	fieldSeverity     protowire.Number = 5
	fieldRuleId       protowire.Number = 6
	fieldRuleset      protowire.Number = 7
	fieldId           protowire.Number = 8
	fieldColumn       protowire.Number = 9

	fieldResults protowire.Number = 1
)

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

// AppendWire appends the proto3 encoding of r to b. Zero fields are omitted.
func (r *Result) AppendWire(b []byte) []byte {
	b = appendString(b, fieldPath, r.Path)
	b = appendInt32(b, fieldLineNumber, r.LineNumber)
	b = appendString(b, fieldErrorMessage, r.ErrorMessage)
	b = appendString(b, fieldName, r.Name)
	b = appendInt32(b, fieldSeverity, int32(r.Severity))
	b = appendString(b, fieldRuleId, r.RuleId)
	b = appendString(b, fieldRuleset, r.Ruleset)
	b = appendString(b, fieldId, r.Id)
	b = appendInt32(b, fieldColumn, r.Column)
	return b
}

// Marshal encodes the list in the wire format of the ResultsList message.
func (l *ResultsList) Marshal() []byte {
	var b []byte
	for _, r := range l.Results {
		b = protowire.AppendTag(b, fieldResults, protowire.BytesType)
		b = protowire.AppendBytes(b, r.AppendWire(nil))
	}
	return b
}

func (r *Result) stringField(num protowire.Number) *string {
	switch num {
	case fieldPath:
		return &r.Path
	case fieldErrorMessage:
		return &r.ErrorMessage
	case fieldName:
		return &r.Name
	case fieldRuleId:
		return &r.RuleId
	case fieldRuleset:
		return &r.Ruleset
	case fieldId:
		return &r.Id
	}
	return nil
}

func (r *Result) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("result tag: %v", protowire.ParseError(n))
		}
		b = b[n:]
		if dst := r.stringField(num); dst != nil && typ == protowire.BytesType {
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return fmt.Errorf("result field %d: %v", num, protowire.ParseError(n))
			}
			*dst = s
			b = b[n:]
			continue
		}
		if typ == protowire.VarintType {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("result field %d: %v", num, protowire.ParseError(n))
			}
			switch num {
			case fieldLineNumber:
				r.LineNumber = int32(v)
			case fieldSeverity:
				r.Severity = Severity(int32(v))
			case fieldColumn:
				r.Column = int32(v)
			}
			b = b[n:]
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return fmt.Errorf("result field %d: %v", num, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return nil
}

// Unmarshal replaces the contents of l with the decoded list.
func (l *ResultsList) Unmarshal(b []byte) error {
	l.Results = nil
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("results list tag: %v", protowire.ParseError(n))
		}
		b = b[n:]
		if num == fieldResults && typ == protowire.BytesType {
			msg, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("results list entry: %v", protowire.ParseError(n))
			}
			b = b[n:]
			r := &Result{}
			if err := r.Unmarshal(msg); err != nil {
				return err
			}
			l.Results = append(l.Results, r)
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return fmt.Errorf("results list field %d: %v", num, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return nil
}
