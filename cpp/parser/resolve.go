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

package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"naive.systems/exceptspec/cpp/symboldb"
)

// Casts that never run user code. dynamic_cast may throw std::bad_cast.
var namedCasts = map[string]bool{
	"static_cast":      true,
	"const_cast":       true,
	"reinterpret_cast": true,
}

// pickOverload chooses among same-named functions by argument count. When
// several fit, a candidate that is not noexcept is preferred so that the
// analysis stays conservative.
func pickOverload(candidates []*symboldb.Function, nargs int) *symboldb.Function {
	var fitting []*symboldb.Function
	for _, f := range candidates {
		if f.Accepts(nargs) {
			fitting = append(fitting, f)
		}
	}
	if len(fitting) == 0 {
		fitting = candidates
	}
	for _, f := range fitting {
		if !f.Noexcept {
			return f
		}
	}
	if len(fitting) > 0 {
		return fitting[0]
	}
	return nil
}

func castNode(pos symboldb.Location, text string, args []*symboldb.Node, scope *symboldb.Scope) *symboldb.Node {
	return &symboldb.Node{Kind: symboldb.NodeOther, Pos: pos, Text: text, Scope: scope, Children: args}
}

// construct builds the node for T(args) or T{args} where T names a type.
func construct(pos symboldb.Location, t *symboldb.Type, name string, args []*symboldb.Node, scope *symboldb.Scope) *symboldb.Node {
	r := t.Resolve()
	switch {
	case t.IsClassType():
		return &symboldb.Node{Kind: symboldb.NodeTemporary, Pos: pos, Text: name, Type: r, Scope: scope, Args: args, Children: args}
	case r.Kind == symboldb.TypeEnum, r.Kind == symboldb.TypeAlias && scalarTokens(r.AliasOf):
		return castNode(pos, name, args, scope)
	}
	// alias of a type this translation unit cannot see
	return &symboldb.Node{Kind: symboldb.NodeCall, Pos: pos, Text: name, CalleeName: name, Scope: scope, Args: args, Children: args}
}

func lastOf(path []string) string {
	if len(path) == 0 {
		return ""
	}
	return path[len(path)-1]
}

func (b *builder) call(n *sitter.Node, scope *symboldb.Scope) *symboldb.Node {
	pos := b.loc(n)
	fn := n.ChildByFieldName("function")
	args := b.args(n.ChildByFieldName("arguments"), scope)
	c := &symboldb.Node{Kind: symboldb.NodeCall, Pos: pos, Scope: scope, Args: args}
	if fn == nil {
		c.Children = args
		return c
	}
	switch fn.Type() {
	case "primitive_type", "sized_type_specifier":
		return castNode(pos, b.text(fn), args, scope)
	case "identifier", "qualified_identifier", "template_function":
		path, global := b.qualifiedPath(fn)
		name := strings.Join(path, "::")
		if fn.Type() == "template_function" {
			if namedCasts[name] {
				return castNode(pos, name, args, scope)
			}
			if name == "dynamic_cast" {
				c.Text, c.CalleeName = name, name
				break
			}
		}
		sym := scope.LookupQualified(path, global)
		if len(sym.Functions) == 0 && sym.Variable == nil && sym.Type != nil {
			return construct(pos, sym.Type, lastOf(path), args, scope)
		}
		c.Text = lastOf(path)
		c.CalleeName = name
		if sym.Variable == nil {
			c.Candidates = sym.Functions
			c.Callee = pickOverload(sym.Functions, len(args))
		}
	case "field_expression":
		obj := fn.ChildByFieldName("argument")
		field := fn.ChildByFieldName("field")
		path, _ := b.qualifiedPath(field)
		c.Text = lastOf(path)
		c.CalleeName = c.Text
		var objNode *symboldb.Node
		if obj != nil {
			objNode = b.expr(obj, scope)
		}
		if cls := b.objectClass(obj, objNode, scope); cls != nil && len(path) > 0 {
			c.Candidates = cls.Member(c.Text).Functions
			c.Callee = pickOverload(c.Candidates, len(args))
		}
		if objNode != nil {
			c.Children = append(c.Children, objNode)
		}
	default:
		c.Text = b.compact(fn)
		if f := b.expr(fn, scope); f != nil {
			c.Children = append(c.Children, f)
		}
	}
	c.Children = append(c.Children, args...)
	return c
}

// objectClass returns the class scope of the object a member is called on.
func (b *builder) objectClass(obj *sitter.Node, objNode *symboldb.Node, scope *symboldb.Scope) *symboldb.Scope {
	if obj == nil || objNode == nil {
		return nil
	}
	if obj.Type() == "this" {
		return scope.EnclosingClass()
	}
	for objNode.Kind == symboldb.NodeDeref && objNode.Operand() != nil {
		objNode = objNode.Operand()
	}
	if objNode.Kind != symboldb.NodeName || objNode.Variable == nil {
		return nil
	}
	if t := objNode.Variable.Type.Resolve(); t != nil && t.ClassScope != nil {
		return t.ClassScope
	}
	return nil
}

func (b *builder) compoundLiteral(n *sitter.Node, scope *symboldb.Scope) *symboldb.Node {
	pos := b.loc(n)
	args := b.args(n.ChildByFieldName("value"), scope)
	typeNode := n.ChildByFieldName("type")
	if typeNode == nil {
		return castNode(pos, "", args, scope)
	}
	switch typeNode.Type() {
	case "primitive_type", "sized_type_specifier", "type_descriptor":
		return castNode(pos, b.text(typeNode), args, scope)
	}
	path, global := b.qualifiedPath(typeNode)
	if t := scope.LookupQualified(path, global).Type; t != nil {
		return construct(pos, t, lastOf(path), args, scope)
	}
	name := strings.Join(path, "::")
	if p := len(path); p > 0 && scalarTypedefs[path[p-1]] && (p == 1 || path[0] == "std") {
		return castNode(pos, name, args, scope)
	}
	return &symboldb.Node{Kind: symboldb.NodeCall, Pos: pos, Text: lastOf(path), CalleeName: name, Scope: scope, Args: args, Children: args}
}
