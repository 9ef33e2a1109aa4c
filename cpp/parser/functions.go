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

// Fixed width and library typedefs that name scalar types.
var scalarTypedefs = map[string]bool{
	"size_t": true, "ssize_t": true, "ptrdiff_t": true, "intptr_t": true,
	"uintptr_t": true, "intmax_t": true, "uintmax_t": true, "max_align_t": true,
	"nullptr_t": true, "off_t": true, "time_t": true, "clock_t": true,
	"int8_t": true, "int16_t": true, "int32_t": true, "int64_t": true,
	"uint8_t": true, "uint16_t": true, "uint32_t": true, "uint64_t": true,
	"char8_t": true, "char16_t": true, "char32_t": true, "wchar_t": true,
	"byte": true,
}

var builtinTypeWords = map[string]bool{
	"void": true, "bool": true, "_Bool": true, "char": true, "wchar_t": true,
	"char8_t": true, "char16_t": true, "char32_t": true, "short": true,
	"int": true, "long": true, "float": true, "double": true, "signed": true,
	"unsigned": true, "auto": true, "__int128": true,
}

// scalarTokens reports whether a spelled type is a builtin, a scalar
// typedef, or a pointer or reference.
func scalarTokens(toks []string) bool {
	var words []string
	for _, tok := range toks {
		switch tok {
		case "*", "&", "&&":
			return true
		case "const", "volatile", "::", "std":
			continue
		}
		words = append(words, tok)
	}
	if len(words) == 0 {
		return false
	}
	return builtinTypeWords[words[0]] || scalarTypedefs[words[len(words)-1]] && len(words) == 1
}

// isClassType decides whether a value of the type named by n is an object
// of user-defined or unknown class type.
func (b *builder) isClassType(n *sitter.Node, t *symboldb.Type) bool {
	if n == nil {
		return false
	}
	switch n.Type() {
	case "primitive_type", "sized_type_specifier", "auto", "placeholder_type_specifier",
		"decltype", "enum_specifier":
		return false
	case "class_specifier", "struct_specifier", "union_specifier":
		return true
	}
	if r := t.Resolve(); r != nil {
		switch r.Kind {
		case symboldb.TypeEnum:
			return false
		case symboldb.TypeAlias:
			return !scalarTokens(r.AliasOf)
		}
		return true
	}
	path, _ := b.qualifiedPath(n)
	if len(path) > 0 && scalarTypedefs[path[len(path)-1]] && (len(path) == 1 || path[0] == "std") {
		return false
	}
	return true
}

// variableFrom builds a variable or parameter from a declaration node and
// one of its declarators.
func (b *builder) variableFrom(n, d *sitter.Node, scope *symboldb.Scope, declType *symboldb.Type) *symboldb.Variable {
	typeNode := n.ChildByFieldName("type")
	v := &symboldb.Variable{
		Scope:      scope,
		TypeTokens: b.specifierTokens(n, scope),
		TypeName:   b.typeName(typeNode),
		Type:       declType,
		IsStatic:   b.hasSpecifier(n, "static"),
		NameToken:  b.loc(n),
	}
	if v.Type == nil {
		v.Type = b.resolveType(typeNode, scope)
	}
	for _, tok := range v.TypeTokens {
		if tok == "const" {
			v.IsConst = true
		}
	}
	info := b.unwrap(d)
	if info.name != nil {
		name := finalName(info.name)
		v.Name = b.text(name)
		v.NameToken = b.loc(name)
	}
	for _, op := range info.ptrOps {
		switch op {
		case "*":
			v.IsPointer = true
		case "&":
			v.IsReference = true
		case "&&":
			v.IsReference = true
			v.IsRValueReference = true
		}
	}
	v.IsVariadic = info.variadic
	v.IsClass = !v.IsPointer && !v.IsReference && b.isClassType(typeNode, v.Type)
	return v
}

func (b *builder) parameters(list *sitter.Node, scope *symboldb.Scope) []*symboldb.Variable {
	if list == nil {
		return nil
	}
	var params []*symboldb.Variable
	for _, c := range namedChildren(list) {
		switch c.Type() {
		case "parameter_declaration", "optional_parameter_declaration", "variadic_parameter_declaration":
		default:
			continue
		}
		p := b.variableFrom(c, c.ChildByFieldName("declarator"), scope, nil)
		p.IsArgument = true
		p.HasDefault = c.Type() == "optional_parameter_declaration"
		p.IsVariadic = p.IsVariadic || c.Type() == "variadic_parameter_declaration"
		params = append(params, p)
	}
	if len(params) == 1 && params[0].Name == "" && !params[0].IsPointer && strings.Join(params[0].TypeTokens, " ") == "void" {
		return nil
	}
	if hasChildOfType(list, "...") {
		params = append(params, &symboldb.Variable{Scope: scope, IsArgument: true, IsVariadic: true, NameToken: b.loc(list)})
	}
	return params
}

// signature is used to pair declarations with their definitions.
func signature(params []*symboldb.Variable) string {
	var parts []string
	for _, p := range params {
		s := strings.Join(p.TypeTokens, " ")
		if p.IsPointer {
			s += "*"
		}
		if p.IsRValueReference {
			s += "&&"
		} else if p.IsReference {
			s += "&"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ",")
}

// findDeclaration pairs f with an earlier declaration of the same function.
// An out of line definition whose parameters are spelled differently still
// pairs with the only declaration it can belong to. Elsewhere a different
// signature is an overload.
func findDeclaration(owner *symboldb.Scope, f *symboldb.Function, outOfLine bool) *symboldb.Function {
	var candidates []*symboldb.Function
	for _, g := range owner.FunctionList {
		if g.Name == f.Name && g.Kind == f.Kind && g.Const == f.Const && len(g.Params) == len(f.Params) && g.Body == nil && g.FunctionScope == nil {
			if signature(g.Params) == signature(f.Params) {
				return g
			}
			candidates = append(candidates, g)
		}
	}
	if outOfLine && len(candidates) == 1 {
		return candidates[0]
	}
	return nil
}

func (b *builder) applyQualifiers(f *symboldb.Function, fd *sitter.Node) *sitter.Node {
	var trailing *sitter.Node
	for i := 0; i < int(fd.ChildCount()); i++ {
		c := fd.Child(i)
		switch c.Type() {
		case "type_qualifier":
			if b.text(c) == "const" {
				f.Const = true
			}
		case "noexcept":
			f.Noexcept = b.compact(c) != "noexcept(false)"
		case "throw_specifier":
			f.Noexcept = b.compact(c) == "throw()"
		case "trailing_return_type":
			trailing = c
		}
	}
	return trailing
}

// declareFunction registers a function declaration or definition. A
// definition of a previously declared function is merged into the
// declaration, which keeps its token.
func (b *builder) declareFunction(n, d *sitter.Node, scope *symboldb.Scope, body *sitter.Node, friend bool) *symboldb.Function {
	info := b.unwrap(d)
	if info.function == nil || info.name == nil {
		return nil
	}
	path, global := b.qualifiedPath(info.name)
	if len(path) == 0 {
		return nil
	}
	owner := scope
	if friend {
		for owner.IsClassOrStructOrUnion() && owner.NestedIn != nil {
			owner = owner.NestedIn
		}
	}
	if len(path) > 1 {
		if s := scope.LookupScope(path[:len(path)-1], global); s != nil {
			owner = s
		}
	}
	f := &symboldb.Function{
		Name:     path[len(path)-1],
		Token:    b.loc(finalName(info.name)),
		NestedIn: owner,
		Static:   b.hasSpecifier(n, "static"),
	}
	typeNode := n.ChildByFieldName("type")
	switch {
	case strings.HasPrefix(f.Name, "~"):
		f.Kind = symboldb.Destructor
	case f.Name == "operator=":
		f.Kind = symboldb.OperatorEqual
	case typeNode == nil && owner.IsClassOrStructOrUnion() && f.Name == owner.ClassName:
		f.Kind = symboldb.Constructor
	}
	f.Params = b.parameters(info.function.ChildByFieldName("parameters"), owner)
	if f.Kind == symboldb.Constructor && len(f.Params) > 0 {
		first := f.Params[0]
		rest := true
		for _, p := range f.Params[1:] {
			rest = rest && p.HasDefault
		}
		if rest && first.IsReference && first.Type.Resolve() == owner.DefinedType {
			if first.IsRValueReference {
				f.Kind = symboldb.MoveConstructor
			} else {
				f.Kind = symboldb.CopyConstructor
			}
		}
	}
	trailing := b.applyQualifiers(f, info.function)
	if f.Kind == symboldb.Ordinary || f.Kind == symboldb.OperatorEqual {
		f.ReturnType = append(b.specifierTokens(n, scope), info.ptrOps...)
		f.RetType = b.resolveType(typeNode, scope).Resolve()
		if len(f.ReturnType) == 1 && f.ReturnType[0] == "auto" && trailing != nil {
			f.ReturnType = nil
			for _, tok := range b.leaves(trailing) {
				if tok != "->" {
					f.ReturnType = append(f.ReturnType, tok)
				}
			}
			if td := trailing.NamedChild(0); td != nil {
				f.RetType = b.resolveType(td.ChildByFieldName("type"), owner).Resolve()
			}
		}
		if f.RetType != nil && f.RetType.Kind == symboldb.TypeAlias {
			f.RetType = nil
		}
	}

	if decl := findDeclaration(owner, f, len(path) > 1); decl != nil {
		decl.Noexcept = decl.Noexcept || f.Noexcept
		decl.Static = decl.Static || f.Static
		if body != nil {
			decl.Params = f.Params
		}
		f = decl
	} else {
		owner.FunctionList = append(owner.FunctionList, f)
		b.db.Functions = append(b.db.Functions, f)
	}
	if body == nil {
		return f
	}

	lexical := owner
	if friend {
		lexical = scope
	}
	fs := b.db.NewScope(symboldb.ScopeFunction, f.Name, lexical)
	fs.Function = f
	fs.BodyStart = b.loc(body)
	fs.BodyEnd = b.endLoc(body)
	for _, p := range f.Params {
		if p.Name != "" {
			p.Scope = fs
			fs.VarList = append(fs.VarList, p)
		}
	}
	f.FunctionScope = fs
	b.bodies = append(b.bodies, pendingBody{fn: f, scope: fs, body: body})
	return f
}
