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

// Package parser builds a symboldb.Database from C++ source using the
// tree-sitter C++ grammar.
//
// Declarations are collected first so that member function bodies can see
// members declared later in the class; bodies and initializers are
// converted afterwards.
package parser

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"

	"naive.systems/exceptspec/cpp/symboldb"
)

// Parse parses one translation unit. Syntax errors are logged and the
// well-formed parts of the tree are still used.
func Parse(ctx context.Context, file string, src []byte) (*symboldb.Database, error) {
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(cpp.GetLanguage())
	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %v", file, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		glog.Warningf("%s: syntax errors, analyzing the recognizable parts", file)
	}
	b := &builder{
		db:   symboldb.NewDatabase(file),
		src:  src,
		file: file,
	}
	b.collectComments(root)
	b.declarations(root, b.db.Global)
	b.convertBodies()
	return b.db, nil
}

// ParseFile reads path and parses it.
func ParseFile(ctx context.Context, path string) (*symboldb.Database, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %v", path, err)
	}
	return Parse(ctx, path, src)
}

type pendingBody struct {
	fn    *symboldb.Function
	scope *symboldb.Scope
	body  *sitter.Node
}

type pendingInit struct {
	v     *symboldb.Variable
	scope *symboldb.Scope
	value *sitter.Node
}

type builder struct {
	db   *symboldb.Database
	src  []byte
	file string

	bodies []pendingBody
	inits  []pendingInit
}

func (b *builder) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(b.src)
}

func (b *builder) loc(n *sitter.Node) symboldb.Location {
	p := n.StartPoint()
	return symboldb.Location{File: b.file, Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

func (b *builder) endLoc(n *sitter.Node) symboldb.Location {
	p := n.EndPoint()
	return symboldb.Location{File: b.file, Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

// leaves returns the texts of the leaf tokens under n, comments excluded.
func (b *builder) leaves(n *sitter.Node) []string {
	var toks []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "comment" {
			return
		}
		if n.ChildCount() == 0 {
			if t := strings.TrimSpace(b.text(n)); t != "" {
				toks = append(toks, t)
			}
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	if n != nil {
		walk(n)
	}
	return toks
}

// compact returns the text of n without whitespace.
func (b *builder) compact(n *sitter.Node) string {
	return strings.Join(strings.Fields(b.text(n)), "")
}

// children returns every child of n paired with its field name.
func children(n *sitter.Node) ([]*sitter.Node, []string) {
	var nodes []*sitter.Node
	var fields []string
	c := sitter.NewTreeCursor(n)
	defer c.Close()
	if !c.GoToFirstChild() {
		return nil, nil
	}
	for {
		nodes = append(nodes, c.CurrentNode())
		fields = append(fields, c.CurrentFieldName())
		if !c.GoToNextSibling() {
			break
		}
	}
	return nodes, fields
}

func fieldChildren(n *sitter.Node, field string) []*sitter.Node {
	var out []*sitter.Node
	nodes, fields := children(n)
	for i, c := range nodes {
		if fields[i] == field {
			out = append(out, c)
		}
	}
	return out
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() != "comment" {
			out = append(out, c)
		}
	}
	return out
}

func hasChildOfType(n *sitter.Node, typ string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == typ {
			return true
		}
	}
	return false
}

// collectComments records comments by line for inline suppressions.
func (b *builder) collectComments(n *sitter.Node) {
	if n.Type() == "comment" {
		line := int(n.StartPoint().Row) + 1
		b.db.Comments[line] = append(b.db.Comments[line], b.text(n))
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		b.collectComments(n.Child(i))
	}
}
