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

package exception_specifier

import (
	"naive.systems/exceptspec/cpp/match"
	"naive.systems/exceptspec/cpp/symboldb"
)

const (
	integralTypes           = "bool|_Bool|char|wchar_t|int|short|long|float|double"
	fixedWidthIntegralTypes = "int8_t|int16_t|int32_t|int64_t|uint8_t|uint16_t|uint32_t|uint64_t"
)

func isDestructor(f *symboldb.Function) bool {
	return f.Kind == symboldb.Destructor
}

func isMoveConstructor(f *symboldb.Function) bool {
	return f.Kind == symboldb.MoveConstructor
}

// isMoveAssignmentOperator requires the only parameter to be an rvalue
// reference to the class the operator belongs to.
func isMoveAssignmentOperator(f *symboldb.Function, classScope *symboldb.Scope) bool {
	if f.Kind != symboldb.OperatorEqual || len(f.Params) != 1 {
		return false
	}
	p := f.Params[0]
	t := p.Type.Resolve()
	return t != nil && p.IsRValueReference && t.ClassScope != nil && t.ClassScope == classScope
}

func isSpecialMemberFunction(f *symboldb.Function) bool {
	return f.IsConstructor() || isDestructor(f) || f.Kind == symboldb.OperatorEqual
}

func lastToken(toks []string) string {
	if len(toks) == 0 {
		return ""
	}
	return toks[len(toks)-1]
}

func returnsConstReference(f *symboldb.Function) bool {
	return match.Match(f.ReturnType, "const") && lastToken(f.ReturnType) == "&"
}

func returnsConstPointer(f *symboldb.Function) bool {
	return match.Match(f.ReturnType, "const") && lastToken(f.ReturnType) == "*"
}

func returnsConstCharPointer(f *symboldb.Function) bool {
	return match.Match(f.ReturnType, "const char|wchar_t *")
}

func returnsIntegralType(f *symboldb.Function) bool {
	if f.RetType.IsEnumType() {
		return true
	}
	rt := f.ReturnType
	switch {
	case len(rt) == 0:
		return false
	case match.Match(rt, "signed|unsigned"):
		return true
	case match.Match(rt, "std ::"):
		return match.MatchAt(rt, 2, fixedWidthIntegralTypes)
	}
	return match.Match(rt, integralTypes)
}

func returnsVoid(f *symboldb.Function) bool {
	return len(f.ReturnType) == 1 && f.ReturnType[0] == "void"
}

// isNoexceptFriendlyReturnType reports return types that are cheap to hand
// back to the caller. Getters and literal returns must have one.
func isNoexceptFriendlyReturnType(f *symboldb.Function) bool {
	return returnsConstReference(f) || returnsConstPointer(f) || returnsIntegralType(f)
}
