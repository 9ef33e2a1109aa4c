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

// Specifiers that belong to the declaration, not to its type.
var declSpecifiers = map[string]bool{
	"static": true, "inline": true, "virtual": true, "explicit": true,
	"constexpr": true, "consteval": true, "constinit": true, "friend": true,
	"extern": true, "mutable": true, "register": true, "thread_local": true,
	"typename": true, "__inline": true, "__inline__": true, "__forceinline": true,
}

func (b *builder) declarations(n *sitter.Node, scope *symboldb.Scope) {
	for _, c := range namedChildren(n) {
		b.declaration(c, scope)
	}
}

func (b *builder) declaration(n *sitter.Node, scope *symboldb.Scope) {
	switch n.Type() {
	case "namespace_definition":
		b.namespace(n, scope)
	case "class_specifier", "struct_specifier", "union_specifier":
		b.classSpecifier(n, scope)
	case "enum_specifier":
		b.enumSpecifier(n, scope)
	case "function_definition":
		b.functionDefinition(n, scope, false)
	case "declaration", "field_declaration":
		b.simpleDeclaration(n, scope)
	case "template_declaration":
		for _, c := range namedChildren(n) {
			if c.Type() != "template_parameter_list" {
				b.declaration(c, scope)
			}
		}
	case "alias_declaration":
		b.aliasDeclaration(n, scope)
	case "type_definition":
		b.typeDefinition(n, scope)
	case "linkage_specification":
		if body := n.ChildByFieldName("body"); body != nil {
			b.declaration(body, scope)
		}
	case "friend_declaration":
		for _, c := range namedChildren(n) {
			if c.Type() == "function_definition" {
				b.functionDefinition(c, scope, true)
			}
		}
	case "declaration_list", "field_declaration_list",
		"preproc_if", "preproc_ifdef", "preproc_else", "preproc_elif", "preproc_elifdef":
		b.declarations(n, scope)
	}
}

func (b *builder) namespace(n *sitter.Node, scope *symboldb.Scope) {
	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	names := []string{""}
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		names = strings.Split(b.compact(nameNode), "::")
	}
	ns := scope
	for _, name := range names {
		ns = b.openNamespace(name, ns)
	}
	b.declarations(body, ns)
}

// openNamespace returns the scope of a reopened namespace or a new one.
func (b *builder) openNamespace(name string, parent *symboldb.Scope) *symboldb.Scope {
	for _, s := range parent.NestedList {
		if s.Type == symboldb.ScopeNamespace && s.ClassName == name {
			return s
		}
	}
	return b.db.NewScope(symboldb.ScopeNamespace, name, parent)
}

// qualifiedPath splits a possibly qualified or templated name into its
// components. global is set for names starting with ::.
func (b *builder) qualifiedPath(n *sitter.Node) (path []string, global bool) {
	if n == nil {
		return nil, false
	}
	switch n.Type() {
	case "qualified_identifier", "qualified_type_identifier", "qualified_field_identifier":
		scopeNode := n.ChildByFieldName("scope")
		if scopeNode == nil {
			global = true
		} else {
			path, _ = b.qualifiedPath(scopeNode)
		}
		rest, _ := b.qualifiedPath(n.ChildByFieldName("name"))
		return append(path, rest...), global
	case "template_type", "template_function", "template_method":
		return b.qualifiedPath(n.ChildByFieldName("name"))
	case "operator_cast":
		return []string{strings.Join(b.leaves(n), " ")}, false
	}
	return []string{b.compact(n)}, false
}

// finalName returns the node naming the last component of n.
func finalName(n *sitter.Node) *sitter.Node {
	for n != nil {
		switch n.Type() {
		case "qualified_identifier", "qualified_type_identifier", "qualified_field_identifier",
			"template_type", "template_function", "template_method":
			next := n.ChildByFieldName("name")
			if next == nil {
				return n
			}
			n = next
		default:
			return n
		}
	}
	return n
}

func classKind(nodeType string) (symboldb.TypeKind, symboldb.ScopeType) {
	switch nodeType {
	case "struct_specifier":
		return symboldb.TypeStruct, symboldb.ScopeStruct
	case "union_specifier":
		return symboldb.TypeUnion, symboldb.ScopeUnion
	}
	return symboldb.TypeClass, symboldb.ScopeClass
}

func findOwnType(scope *symboldb.Scope, name string) *symboldb.Type {
	if name == "" {
		return nil
	}
	for _, t := range scope.TypeList {
		if t.Name == name {
			return t
		}
	}
	return nil
}

func (b *builder) addType(scope *symboldb.Scope, t *symboldb.Type) {
	scope.TypeList = append(scope.TypeList, t)
	b.db.Types = append(b.db.Types, t)
}

func (b *builder) classSpecifier(n *sitter.Node, scope *symboldb.Scope) *symboldb.Type {
	kind, scopeType := classKind(n.Type())
	owner := scope
	name := ""
	token := b.loc(n)
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		path, global := b.qualifiedPath(nameNode)
		name = path[len(path)-1]
		token = b.loc(finalName(nameNode))
		if len(path) > 1 {
			if s := scope.LookupScope(path[:len(path)-1], global); s != nil {
				owner = s
			}
		}
	}
	body := n.ChildByFieldName("body")
	t := findOwnType(owner, name)
	if t == nil || t.Kind == symboldb.TypeAlias {
		if body == nil && name != "" {
			// An elaborated type specifier may name a type declared outside.
			if found := scope.LookupType(name); found != nil {
				return found
			}
		}
		t = &symboldb.Type{Name: name, Kind: kind, Scope: owner, Token: token}
		b.addType(owner, t)
	}
	if body == nil || t.ClassScope != nil {
		return t
	}
	cs := b.db.NewScope(scopeType, name, owner)
	cs.DefinedType = t
	cs.BodyStart = b.loc(body)
	cs.BodyEnd = b.endLoc(body)
	t.Kind = kind
	t.ClassScope = cs
	t.Bases = b.baseClasses(n, scope)
	b.declarations(body, cs)
	return t
}

func (b *builder) baseClasses(n *sitter.Node, scope *symboldb.Scope) []*symboldb.Type {
	var bases []*symboldb.Type
	for i := 0; i < int(n.NamedChildCount()); i++ {
		clause := n.NamedChild(i)
		if clause.Type() != "base_class_clause" {
			continue
		}
		for _, c := range namedChildren(clause) {
			switch c.Type() {
			case "type_identifier", "qualified_identifier", "qualified_type_identifier", "template_type":
				path, global := b.qualifiedPath(c)
				if t := scope.LookupQualified(path, global).Type.Resolve(); t != nil && t.ClassScope != nil {
					bases = append(bases, t)
				}
			}
		}
	}
	return bases
}

func (b *builder) enumSpecifier(n *sitter.Node, scope *symboldb.Scope) *symboldb.Type {
	name := ""
	token := b.loc(n)
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		path, _ := b.qualifiedPath(nameNode)
		name = path[len(path)-1]
		token = b.loc(finalName(nameNode))
	}
	body := n.ChildByFieldName("body")
	t := findOwnType(scope, name)
	if t == nil {
		if body == nil && name != "" {
			if found := scope.LookupType(name); found != nil {
				return found
			}
		}
		t = &symboldb.Type{Name: name, Kind: symboldb.TypeEnum, Scope: scope, Token: token}
		b.addType(scope, t)
	}
	t.ScopedEnum = t.ScopedEnum || hasChildOfType(n, "class") || hasChildOfType(n, "struct")
	if body == nil || len(t.Enumerators) > 0 {
		return t
	}
	for _, c := range namedChildren(body) {
		if c.Type() != "enumerator" {
			continue
		}
		nameNode := c.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		e := &symboldb.Enumerator{Name: b.text(nameNode), Type: t, Token: b.loc(nameNode)}
		t.Enumerators = append(t.Enumerators, e)
		if !t.ScopedEnum {
			scope.Enumerators = append(scope.Enumerators, e)
		}
	}
	return t
}

// resolveType returns the user-defined type a type specifier names.
func (b *builder) resolveType(n *sitter.Node, scope *symboldb.Scope) *symboldb.Type {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "type_identifier", "qualified_identifier", "qualified_type_identifier", "template_type":
		path, global := b.qualifiedPath(n)
		return scope.LookupQualified(path, global).Type
	case "class_specifier", "struct_specifier", "union_specifier", "enum_specifier":
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return nil
		}
		path, global := b.qualifiedPath(nameNode)
		return scope.LookupQualified(path, global).Type
	}
	return nil
}

// typeTokens returns the tokens of a type specifier with aliases expanded.
func (b *builder) typeTokens(n *sitter.Node, scope *symboldb.Scope) []string {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "class_specifier", "struct_specifier", "union_specifier", "enum_specifier":
		toks := []string{b.text(n.Child(0))}
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			toks = append(toks, b.leaves(nameNode)...)
		}
		return toks
	}
	if t := b.resolveType(n, scope); t != nil && t.Kind == symboldb.TypeAlias && len(t.AliasOf) > 0 {
		return append([]string(nil), t.AliasOf...)
	}
	return b.leaves(n)
}

// specifierTokens returns the type tokens written before the first
// declarator of a declaration, without declaration specifiers.
func (b *builder) specifierTokens(n *sitter.Node, scope *symboldb.Scope) []string {
	var toks []string
	nodes, fields := children(n)
	for i, c := range nodes {
		if fields[i] == "declarator" {
			break
		}
		switch {
		case fields[i] == "type":
			toks = append(toks, b.typeTokens(c, scope)...)
			continue
		case strings.HasPrefix(c.Type(), "attribute"), c.Type() == "ms_declspec_modifier",
			c.Type() == "comment", c.Type() == "template_parameter_list":
			continue
		}
		for _, tok := range b.leaves(c) {
			if !declSpecifiers[tok] {
				toks = append(toks, tok)
			}
		}
	}
	return toks
}

func (b *builder) hasSpecifier(n *sitter.Node, spec string) bool {
	nodes, fields := children(n)
	for i, c := range nodes {
		if fields[i] == "declarator" {
			return false
		}
		if fields[i] != "type" && b.text(c) == spec {
			return true
		}
	}
	return false
}

func (b *builder) typeName(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case "type_identifier", "qualified_identifier", "qualified_type_identifier", "template_type":
		path, _ := b.qualifiedPath(n)
		return strings.Join(path, "::")
	}
	return strings.Join(b.leaves(n), " ")
}

type declaratorInfo struct {
	name     *sitter.Node
	function *sitter.Node
	// ptrOps are the pointer and reference tokens, outermost first.
	ptrOps     []string
	init       *sitter.Node
	initDirect bool
	array      bool
	variadic   bool
}

func lastNamed(n *sitter.Node) *sitter.Node {
	for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
		if c := n.NamedChild(i); c.Type() != "comment" && c.Type() != "type_qualifier" {
			return c
		}
	}
	return nil
}

func (b *builder) unwrap(d *sitter.Node) declaratorInfo {
	var info declaratorInfo
	for d != nil {
		switch d.Type() {
		case "init_declarator":
			info.init = d.ChildByFieldName("value")
			info.initDirect = !hasChildOfType(d, "=")
			d = d.ChildByFieldName("declarator")
		case "pointer_declarator", "abstract_pointer_declarator", "pointer_type_declarator", "pointer_field_declarator":
			info.ptrOps = append(info.ptrOps, "*")
			d = d.ChildByFieldName("declarator")
		case "reference_declarator", "abstract_reference_declarator", "reference_field_declarator":
			op := "&"
			if hasChildOfType(d, "&&") {
				op = "&&"
			}
			info.ptrOps = append(info.ptrOps, op)
			d = lastNamed(d)
		case "function_declarator", "abstract_function_declarator", "function_field_declarator", "function_type_declarator":
			if info.function == nil && info.name == nil {
				info.function = d
			}
			d = d.ChildByFieldName("declarator")
		case "array_declarator", "abstract_array_declarator", "array_field_declarator", "array_type_declarator":
			info.array = true
			d = d.ChildByFieldName("declarator")
		case "parenthesized_declarator", "abstract_parenthesized_declarator", "parenthesized_field_declarator":
			if info.function != nil {
				// (*fp)(args) declares a pointer, not a function.
				info.function = nil
			}
			d = lastNamed(d)
		case "variadic_declarator":
			info.variadic = true
			d = lastNamed(d)
		case "operator_cast":
			info.name = d
			info.function = d.ChildByFieldName("declarator")
			d = nil
		case "attributed_declarator":
			d = d.NamedChild(0)
		default:
			info.name = d
			d = nil
		}
	}
	return info
}

func (b *builder) functionDefinition(n *sitter.Node, scope *symboldb.Scope, friend bool) {
	decl := n.ChildByFieldName("declarator")
	if decl == nil {
		return
	}
	body := n.ChildByFieldName("body")
	if body == nil {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if c := n.NamedChild(i); c.Type() == "try_statement" || c.Type() == "function_try_block" {
				body = c
			}
		}
	}
	f := b.declareFunction(n, decl, scope, body, friend)
	if f == nil {
		return
	}
	f.Defaulted = f.Defaulted || hasChildOfType(n, "default_method_clause")
	f.Deleted = f.Deleted || hasChildOfType(n, "delete_method_clause")
}

func (b *builder) simpleDeclaration(n *sitter.Node, scope *symboldb.Scope) {
	var declType *symboldb.Type
	if typeNode := n.ChildByFieldName("type"); typeNode != nil {
		switch typeNode.Type() {
		case "class_specifier", "struct_specifier", "union_specifier":
			if typeNode.ChildByFieldName("body") != nil {
				declType = b.classSpecifier(typeNode, scope)
			}
		case "enum_specifier":
			if typeNode.ChildByFieldName("body") != nil {
				declType = b.enumSpecifier(typeNode, scope)
			}
		}
	}
	friend := hasChildOfType(n, "friend")
	var last *symboldb.Variable
	for _, d := range fieldChildren(n, "declarator") {
		info := b.unwrap(d)
		if info.function != nil {
			if !friend {
				b.declareFunction(n, d, scope, nil, false)
			}
			continue
		}
		v := b.variableFrom(n, d, scope, declType)
		if v.Name == "" {
			continue
		}
		scope.VarList = append(scope.VarList, v)
		if info.init != nil {
			v.HasInit = true
			v.InitPos = b.loc(info.init)
			if info.initDirect {
				b.inits = append(b.inits, pendingInit{v: v, scope: scope, value: info.init})
			}
		}
		last = v
	}
	if dv := n.ChildByFieldName("default_value"); dv != nil && last != nil {
		last.HasInit = true
		last.InitPos = b.loc(dv)
		if dv.Type() == "initializer_list" && !hasChildOfType(n, "=") {
			b.inits = append(b.inits, pendingInit{v: last, scope: scope, value: dv})
		}
	}
}

func (b *builder) aliasDeclaration(n *sitter.Node, scope *symboldb.Scope) {
	nameNode := n.ChildByFieldName("name")
	td := n.ChildByFieldName("type")
	if nameNode == nil || td == nil {
		return
	}
	typeNode := td.ChildByFieldName("type")
	toks := b.specifierTokens(td, scope)
	abstract := td.ChildByFieldName("declarator")
	var ptrOps []string
	if abstract != nil {
		ptrOps = b.unwrap(abstract).ptrOps
	}
	t := &symboldb.Type{
		Name:    b.text(nameNode),
		Kind:    symboldb.TypeAlias,
		Scope:   scope,
		Token:   b.loc(nameNode),
		AliasOf: append(toks, ptrOps...),
	}
	if len(ptrOps) == 0 {
		t.Target = b.resolveType(typeNode, scope)
	}
	b.addType(scope, t)
}

func (b *builder) typeDefinition(n *sitter.Node, scope *symboldb.Scope) {
	typeNode := n.ChildByFieldName("type")
	if typeNode == nil {
		return
	}
	var target *symboldb.Type
	switch typeNode.Type() {
	case "class_specifier", "struct_specifier", "union_specifier":
		target = b.classSpecifier(typeNode, scope)
	case "enum_specifier":
		target = b.enumSpecifier(typeNode, scope)
	default:
		target = b.resolveType(typeNode, scope)
	}
	var toks []string
	nodes, fields := children(n)
	for i, c := range nodes {
		switch {
		case fields[i] == "declarator":
			continue
		case fields[i] == "type":
			toks = append(toks, b.typeTokens(c, scope)...)
		case c.Type() == "type_qualifier":
			toks = append(toks, b.text(c))
		}
	}
	for _, d := range fieldChildren(n, "declarator") {
		info := b.unwrap(d)
		if info.name == nil {
			continue
		}
		t := &symboldb.Type{
			Name:    b.text(info.name),
			Kind:    symboldb.TypeAlias,
			Scope:   scope,
			Token:   b.loc(info.name),
			AliasOf: append(append([]string(nil), toks...), info.ptrOps...),
		}
		if len(info.ptrOps) == 0 && info.function == nil {
			t.Target = target
		}
		b.addType(scope, t)
	}
}
