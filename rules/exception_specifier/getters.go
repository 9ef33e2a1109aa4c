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

import "naive.systems/exceptspec/cpp/symboldb"

// returnedValue returns the operand of the body's return statement when
// that return is the body's only statement.
func returnedValue(f *symboldb.Function) *symboldb.Node {
	if !f.HasBody() {
		return nil
	}
	stmt := f.Body.SoleStatement()
	if stmt == nil || stmt.Kind != symboldb.NodeReturn || len(stmt.Children) != 1 {
		return nil
	}
	return stmt.Children[0]
}

// returnsMember matches return m;, return &m; and return *m; where m is a
// data member of classScope.
func returnsMember(f *symboldb.Function, classScope *symboldb.Scope) bool {
	value := returnedValue(f)
	if value == nil {
		return false
	}
	if value.Kind == symboldb.NodeAddressOf || value.Kind == symboldb.NodeDeref {
		value = value.Operand()
	}
	if value == nil || value.Kind != symboldb.NodeName || value.Variable == nil {
		return false
	}
	return value.Variable.Scope == classScope
}

// returnsLiteral matches a returned number, boolean or character literal
// and a returned enumerator, qualified or not.
func returnsLiteral(f *symboldb.Function) bool {
	value := returnedValue(f)
	if value == nil {
		return false
	}
	switch value.Kind {
	case symboldb.NodeLiteral:
		switch value.Literal {
		case symboldb.LiteralNumber, symboldb.LiteralBool, symboldb.LiteralChar:
			return true
		}
	case symboldb.NodeName:
		return value.Enumerator != nil
	}
	return false
}

func isGetter(f *symboldb.Function, classScope *symboldb.Scope) bool {
	return f.Kind == symboldb.Ordinary &&
		isNoexceptFriendlyReturnType(f) &&
		f.HasBody() &&
		(returnsMember(f, classScope) || returnsLiteral(f))
}

func isFunctionReturningLiteral(f *symboldb.Function) bool {
	return isNoexceptFriendlyReturnType(f) && f.HasBody() && returnsLiteral(f)
}
