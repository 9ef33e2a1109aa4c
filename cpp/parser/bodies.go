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

func (b *builder) convertBodies() {
	for _, p := range b.bodies {
		p.fn.Body = b.functionBody(p)
	}
	for _, p := range b.inits {
		p.v.InitArgs = b.args(p.value, p.scope)
	}
}

func (b *builder) functionBody(p pendingBody) *symboldb.Node {
	if p.body.Type() == "compound_statement" {
		return b.block(p.body, p.scope)
	}
	// function-try-block
	blk := &symboldb.Node{Kind: symboldb.NodeBlock, Pos: b.loc(p.body), Scope: p.scope}
	if t := b.stmt(p.body, p.scope); t != nil {
		blk.Children = append(blk.Children, t)
	}
	return blk
}

func (b *builder) block(n *sitter.Node, scope *symboldb.Scope) *symboldb.Node {
	blk := &symboldb.Node{Kind: symboldb.NodeBlock, Pos: b.loc(n), Scope: scope}
	for _, c := range namedChildren(n) {
		if s := b.stmt(c, scope); s != nil {
			blk.Children = append(blk.Children, s)
		}
	}
	return blk
}

func (b *builder) newScope(t symboldb.ScopeType, n *sitter.Node, parent *symboldb.Scope) *symboldb.Scope {
	s := b.db.NewScope(t, "", parent)
	s.BodyStart = b.loc(n)
	s.BodyEnd = b.endLoc(n)
	return s
}

func (b *builder) stmt(n *sitter.Node, scope *symboldb.Scope) *symboldb.Node {
	switch n.Type() {
	case "compound_statement":
		return b.block(n, b.newScope(symboldb.ScopeOther, n, scope))
	case "return_statement":
		return b.withOperands(symboldb.NodeReturn, n, scope)
	case "throw_statement", "throw_expression":
		return b.withOperands(symboldb.NodeThrow, n, scope)
	case "try_statement", "function_try_block":
		return b.tryStatement(n, scope)
	case "declaration", "condition_declaration":
		return b.localDeclaration(n, scope)
	case "expression_statement":
		operands := namedChildren(n)
		if len(operands) == 0 {
			return nil
		}
		if len(operands) == 1 {
			return b.expr(operands[0], scope)
		}
		return b.generic(n, scope)
	case "for_range_loop":
		return b.forRange(n, scope)
	case "if_statement", "while_statement", "for_statement", "do_statement",
		"switch_statement", "case_statement", "labeled_statement":
		return b.generic(n, b.newScope(symboldb.ScopeOther, n, scope))
	case "class_specifier", "struct_specifier", "union_specifier", "enum_specifier",
		"alias_declaration", "type_definition", "using_declaration",
		"namespace_alias_definition", "static_assert_declaration", "comment":
		return nil
	}
	return b.expr(n, scope)
}

func (b *builder) withOperands(kind symboldb.NodeKind, n *sitter.Node, scope *symboldb.Scope) *symboldb.Node {
	node := &symboldb.Node{Kind: kind, Pos: b.loc(n), Scope: scope}
	for _, c := range namedChildren(n) {
		if e := b.expr(c, scope); e != nil {
			node.Children = append(node.Children, e)
		}
	}
	return node
}

func (b *builder) isCatchAll(clause *sitter.Node) bool {
	params := clause.ChildByFieldName("parameters")
	return params != nil && b.compact(params) == "(...)"
}

func (b *builder) tryStatement(n *sitter.Node, scope *symboldb.Scope) *symboldb.Node {
	var clauses []*sitter.Node
	for _, c := range namedChildren(n) {
		if c.Type() == "catch_clause" {
			clauses = append(clauses, c)
		}
	}
	catchAll := len(clauses) > 0 && b.isCatchAll(clauses[0])
	try := &symboldb.Node{Kind: symboldb.NodeTry, Pos: b.loc(n), Scope: scope, CatchAll: catchAll}
	if body := n.ChildByFieldName("body"); body != nil {
		ts := b.newScope(symboldb.ScopeTry, body, scope)
		ts.CatchAll = catchAll
		try.Children = append(try.Children, b.block(body, ts))
	}
	for _, clause := range clauses {
		body := clause.ChildByFieldName("body")
		if body == nil {
			continue
		}
		cs := b.newScope(symboldb.ScopeCatch, body, scope)
		if params := clause.ChildByFieldName("parameters"); params != nil {
			for _, p := range b.parameters(params, scope) {
				if p.Name != "" {
					p.IsArgument = false
					p.IsLocal = true
					p.Scope = cs
					cs.VarList = append(cs.VarList, p)
				}
			}
		}
		try.Children = append(try.Children, &symboldb.Node{
			Kind:     symboldb.NodeCatch,
			Pos:      b.loc(clause),
			Scope:    cs,
			CatchAll: b.isCatchAll(clause),
			Children: []*symboldb.Node{b.block(body, cs)},
		})
	}
	return try
}

func (b *builder) localDeclaration(n *sitter.Node, scope *symboldb.Scope) *symboldb.Node {
	decl := &symboldb.Node{Kind: symboldb.NodeDecl, Pos: b.loc(n), Scope: scope}
	for _, d := range fieldChildren(n, "declarator") {
		info := b.unwrap(d)
		if info.function != nil {
			continue
		}
		v := b.variableFrom(n, d, scope, nil)
		v.IsLocal = true
		if v.Name != "" {
			scope.VarList = append(scope.VarList, v)
		}
		decl.Vars = append(decl.Vars, v)
		init := info.init
		direct := info.initDirect
		if init == nil {
			init = n.ChildByFieldName("value")
			direct = false
		}
		if init == nil {
			continue
		}
		v.HasInit = true
		v.InitPos = b.loc(init)
		if direct {
			v.InitArgs = b.args(init, scope)
			decl.Children = append(decl.Children, v.InitArgs...)
		} else if e := b.expr(init, scope); e != nil {
			decl.Children = append(decl.Children, e)
		}
	}
	return decl
}

func (b *builder) forRange(n *sitter.Node, scope *symboldb.Scope) *symboldb.Node {
	inner := b.newScope(symboldb.ScopeOther, n, scope)
	loop := &symboldb.Node{Kind: symboldb.NodeOther, Pos: b.loc(n), Text: n.Type(), Scope: inner}
	if init := n.ChildByFieldName("initializer"); init != nil {
		if s := b.stmt(init, inner); s != nil {
			loop.Children = append(loop.Children, s)
		}
	}
	if d := n.ChildByFieldName("declarator"); d != nil {
		v := b.variableFrom(n, d, inner, nil)
		v.IsLocal = true
		if v.Name != "" {
			inner.VarList = append(inner.VarList, v)
		}
		loop.Children = append(loop.Children, &symboldb.Node{Kind: symboldb.NodeDecl, Pos: b.loc(d), Scope: inner, Vars: []*symboldb.Variable{v}})
	}
	if right := n.ChildByFieldName("right"); right != nil {
		if e := b.expr(right, inner); e != nil {
			loop.Children = append(loop.Children, e)
		}
	}
	if body := n.ChildByFieldName("body"); body != nil {
		if s := b.stmt(body, inner); s != nil {
			loop.Children = append(loop.Children, s)
		}
	}
	return loop
}

// generic converts the named children of a construct without a dedicated
// node kind.
func (b *builder) generic(n *sitter.Node, scope *symboldb.Scope) *symboldb.Node {
	g := &symboldb.Node{Kind: symboldb.NodeOther, Pos: b.loc(n), Text: n.Type(), Scope: scope}
	for _, c := range namedChildren(n) {
		if s := b.stmt(c, scope); s != nil {
			g.Children = append(g.Children, s)
		}
	}
	return g
}

func literal(kind symboldb.LiteralKind, text string, pos symboldb.Location, scope *symboldb.Scope) *symboldb.Node {
	return &symboldb.Node{Kind: symboldb.NodeLiteral, Literal: kind, Text: text, Pos: pos, Scope: scope}
}

func (b *builder) expr(n *sitter.Node, scope *symboldb.Scope) *symboldb.Node {
	pos := b.loc(n)
	switch n.Type() {
	case "number_literal":
		return literal(symboldb.LiteralNumber, b.text(n), pos, scope)
	case "char_literal":
		return literal(symboldb.LiteralChar, b.text(n), pos, scope)
	case "true", "false":
		return literal(symboldb.LiteralBool, b.text(n), pos, scope)
	case "string_literal", "raw_string_literal", "concatenated_string":
		return literal(symboldb.LiteralString, b.text(n), pos, scope)
	case "identifier", "qualified_identifier":
		path, global := b.qualifiedPath(n)
		return b.name(path, global, pos, scope)
	case "this":
		return &symboldb.Node{Kind: symboldb.NodeOther, Pos: pos, Text: "this", Scope: scope}
	case "pointer_expression":
		return b.pointerExpression(n, scope)
	case "unary_expression":
		op := n.ChildByFieldName("operator")
		arg := n.ChildByFieldName("argument")
		if op != nil && arg != nil && arg.Type() == "number_literal" && (b.text(op) == "-" || b.text(op) == "+") {
			return literal(symboldb.LiteralNumber, b.text(op)+b.text(arg), pos, scope)
		}
	case "call_expression":
		return b.call(n, scope)
	case "compound_literal_expression":
		return b.compoundLiteral(n, scope)
	case "new_expression":
		node := &symboldb.Node{Kind: symboldb.NodeNew, Pos: pos, Text: "new", Scope: scope}
		for _, field := range []string{"placement", "arguments"} {
			node.Children = append(node.Children, b.args(n.ChildByFieldName(field), scope)...)
		}
		return node
	case "field_expression":
		node := &symboldb.Node{Kind: symboldb.NodeOther, Pos: pos, Text: b.compact(n.ChildByFieldName("field")), Scope: scope}
		if obj := n.ChildByFieldName("argument"); obj != nil {
			if e := b.expr(obj, scope); e != nil {
				node.Children = append(node.Children, e)
			}
		}
		return node
	case "lambda_expression":
		node := &symboldb.Node{Kind: symboldb.NodeOther, Pos: pos, Text: n.Type(), Scope: scope}
		if body := n.ChildByFieldName("body"); body != nil {
			node.Children = append(node.Children, b.block(body, b.newScope(symboldb.ScopeOther, body, scope)))
		}
		return node
	case "sizeof_expression", "alignof_expression", "decltype", "noexcept", "requires_expression":
		// unevaluated operands
		return &symboldb.Node{Kind: symboldb.NodeOther, Pos: pos, Text: n.Type(), Scope: scope}
	case "type_descriptor", "template_argument_list", "primitive_type", "type_identifier", "comment":
		return nil
	}
	if n.NamedChildCount() == 0 {
		return nil
	}
	return b.generic(n, scope)
}

func (b *builder) name(path []string, global bool, pos symboldb.Location, scope *symboldb.Scope) *symboldb.Node {
	sym := scope.LookupQualified(path, global)
	return &symboldb.Node{
		Kind:       symboldb.NodeName,
		Pos:        pos,
		Text:       strings.Join(path, "::"),
		Scope:      scope,
		Variable:   sym.Variable,
		Enumerator: sym.Enumerator,
		Type:       sym.Type,
		Candidates: sym.Functions,
	}
}

func (b *builder) pointerExpression(n *sitter.Node, scope *symboldb.Scope) *symboldb.Node {
	kind := symboldb.NodeDeref
	if op := n.ChildByFieldName("operator"); op != nil && b.text(op) == "&" {
		kind = symboldb.NodeAddressOf
	}
	node := &symboldb.Node{Kind: kind, Pos: b.loc(n), Scope: scope}
	if arg := n.ChildByFieldName("argument"); arg != nil {
		if e := b.expr(arg, scope); e != nil {
			node.Children = append(node.Children, e)
		}
	}
	return node
}

// args converts an argument or initializer list. Every argument yields a
// node so that the count matches the source.
func (b *builder) args(n *sitter.Node, scope *symboldb.Scope) []*symboldb.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "argument_list", "initializer_list":
	default:
		if e := b.expr(n, scope); e != nil {
			return []*symboldb.Node{e}
		}
		return nil
	}
	var out []*symboldb.Node
	for _, c := range namedChildren(n) {
		e := b.expr(c, scope)
		if e == nil {
			e = &symboldb.Node{Kind: symboldb.NodeOther, Pos: b.loc(c), Text: b.text(c), Scope: scope}
		}
		out = append(out, e)
	}
	return out
}
