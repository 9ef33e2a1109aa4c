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

// Package match implements token pattern matching over C++ token texts.
//
// A pattern is a space separated list of elements. Each element is one or
// more alternatives joined by '|'; an empty alternative makes the element
// optional. Alternatives are literal token texts or one of the wildcards:
//
//	%name%  identifier or keyword
//	%var%   identifier that is not a keyword
//	%type%  name that is not a statement keyword
//	%num%   numeric literal
//	%str%   string literal
//	%char%  character literal
//	%bool%  true or false
//	%op%    operator
package match

import (
	"strings"
	"unicode"
)

var keywords = map[string]bool{
	"alignas": true, "alignof": true, "asm": true, "auto": true, "bool": true,
	"break": true, "case": true, "catch": true, "char": true, "char8_t": true,
	"char16_t": true, "char32_t": true, "class": true, "const": true,
	"consteval": true, "constexpr": true, "constinit": true, "const_cast": true,
	"continue": true, "decltype": true, "default": true, "delete": true,
	"do": true, "double": true, "dynamic_cast": true, "else": true, "enum": true,
	"explicit": true, "export": true, "extern": true, "false": true,
	"float": true, "for": true, "friend": true, "goto": true, "if": true,
	"inline": true, "int": true, "long": true, "mutable": true,
	"namespace": true, "new": true, "noexcept": true, "nullptr": true,
	"operator": true, "private": true, "protected": true, "public": true,
	"register": true, "reinterpret_cast": true, "return": true, "short": true,
	"signed": true, "sizeof": true, "static": true, "static_assert": true,
	"static_cast": true, "struct": true, "switch": true, "template": true,
	"this": true, "thread_local": true, "throw": true, "true": true, "try": true,
	"typedef": true, "typeid": true, "typename": true, "union": true,
	"unsigned": true, "using": true, "virtual": true, "void": true,
	"volatile": true, "wchar_t": true, "while": true, "_Bool": true,
}

var statementKeywords = map[string]bool{
	"break": true, "case": true, "catch": true, "continue": true,
	"default": true, "delete": true, "do": true, "else": true, "for": true,
	"goto": true, "if": true, "new": true, "return": true, "switch": true,
	"throw": true, "try": true, "while": true,
}

var operators = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true, "^": true, "&": true,
	"|": true, "~": true, "!": true, "=": true, "<": true, ">": true,
	"+=": true, "-=": true, "*=": true, "/=": true, "%=": true, "^=": true,
	"&=": true, "|=": true, "<<": true, ">>": true, "<<=": true, ">>=": true,
	"==": true, "!=": true, "<=": true, ">=": true, "<=>": true, "&&": true,
	"||": true, "++": true, "--": true, "->": true, "->*": true, ".*": true,
	"?": true, ":": true,
}

func IsName(tok string) bool {
	if tok == "" {
		return false
	}
	for i, r := range tok {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

func IsKeyword(tok string) bool {
	return keywords[tok]
}

func IsNumber(tok string) bool {
	if tok == "" {
		return false
	}
	if tok[0] >= '0' && tok[0] <= '9' {
		return true
	}
	return len(tok) > 1 && tok[0] == '.' && tok[1] >= '0' && tok[1] <= '9'
}

// literalBody strips an encoding prefix (L, u, U, u8) and an R raw marker.
func literalBody(tok string) string {
	for _, prefix := range []string{"u8R", "LR", "uR", "UR", "R", "u8", "L", "u", "U"} {
		if strings.HasPrefix(tok, prefix) && len(tok) > len(prefix) && (tok[len(prefix)] == '"' || tok[len(prefix)] == '\'') {
			return tok[len(prefix):]
		}
	}
	return tok
}

func IsString(tok string) bool {
	body := literalBody(tok)
	return len(body) >= 2 && body[0] == '"' && body[len(body)-1] == '"'
}

func IsChar(tok string) bool {
	body := literalBody(tok)
	return len(body) >= 3 && body[0] == '\'' && body[len(body)-1] == '\''
}

func IsBool(tok string) bool {
	return tok == "true" || tok == "false"
}

func IsOp(tok string) bool {
	return operators[tok]
}

func matchOne(tok, alt string) bool {
	switch alt {
	case "%name%":
		return IsName(tok)
	case "%var%":
		return IsName(tok) && !IsKeyword(tok)
	case "%type%":
		return IsName(tok) && !statementKeywords[tok]
	case "%num%":
		return IsNumber(tok)
	case "%str%":
		return IsString(tok)
	case "%char%":
		return IsChar(tok)
	case "%bool%":
		return IsBool(tok)
	case "%op%":
		return IsOp(tok)
	}
	return tok == alt
}

type element struct {
	alts     []string
	optional bool
}

func compile(pattern string) []element {
	var elems []element
	for _, field := range strings.Fields(pattern) {
		if strings.Trim(field, "|") == "" {
			// "|" and "||" are operators, not alternations.
			elems = append(elems, element{alts: []string{field}})
			continue
		}
		e := element{}
		for _, alt := range strings.Split(field, "|") {
			if alt == "" {
				e.optional = true
				continue
			}
			e.alts = append(e.alts, alt)
		}
		elems = append(elems, e)
	}
	return elems
}

// MatchAt reports whether toks[i:] starts with pattern.
func MatchAt(toks []string, i int, pattern string) bool {
	if i < 0 {
		return false
	}
	for _, e := range compile(pattern) {
		matched := false
		if i < len(toks) {
			for _, alt := range e.alts {
				if matchOne(toks[i], alt) {
					matched = true
					break
				}
			}
		}
		switch {
		case matched:
			i++
		case e.optional:
		default:
			return false
		}
	}
	return true
}

func Match(toks []string, pattern string) bool {
	return MatchAt(toks, 0, pattern)
}

// MatchExact is Match with the additional requirement that the pattern
// consumes every token.
func MatchExact(toks []string, pattern string) bool {
	return MatchAt(toks, 0, pattern) && consumed(toks, pattern) == len(toks)
}

func consumed(toks []string, pattern string) int {
	i := 0
	for _, e := range compile(pattern) {
		if i < len(toks) {
			for _, alt := range e.alts {
				if matchOne(toks[i], alt) {
					i++
					break
				}
			}
		}
	}
	return i
}
