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

package symboldb

import "fmt"

type NodeKind int

const (
	NodeOther NodeKind = iota
	NodeBlock
	NodeReturn
	NodeThrow
	NodeTry
	NodeCatch
	NodeDecl
	NodeCall
	NodeTemporary
	NodeNew
	NodeLiteral
	NodeName
	NodeAddressOf
	NodeDeref
)

var nodeKindNames = [...]string{"other", "block", "return", "throw", "try", "catch", "decl", "call", "temporary", "new", "literal", "name", "address-of", "deref"}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

type LiteralKind int

const (
	LiteralNone LiteralKind = iota
	LiteralNumber
	LiteralBool
	LiteralChar
	LiteralString
)

// Node is one statement or expression of a function body.
//
//	Block      Children are the statements
//	Return     Children is empty or the returned expression
//	Throw      Children is empty or the thrown expression
//	Try        Children[0] is the try block, the rest are Catch nodes
//	Catch      Children[0] is the handler block
//	Decl       Vars are the declared variables, Children their initializers
//	Call       Children[0] is the callee expression (nil-free), Args the arguments
//	Temporary  Type is the constructed type, Args the arguments
//	New        Children are the placement, size and initializer expressions
//	Literal    Literal and Text
//	Name       Variable, Enumerator or Type, Text is the spelled name
//	AddressOf  Children[0] is the operand
//	Deref      Children[0] is the operand
type Node struct {
	Kind    NodeKind
	Pos     Location
	Text    string
	Literal LiteralKind

	Children []*Node
	Args     []*Node
	// Scope is the innermost scope the node is in. Block, Try and Catch
	// blocks carry the scope they open.
	Scope *Scope

	Callee     *Function
	CalleeName string
	// Candidates are every function the callee name could refer to.
	Candidates []*Function
	Type       *Type
	Variable   *Variable
	Enumerator *Enumerator
	Vars       []*Variable
	CatchAll   bool
}

// Inspect traverses the tree rooted at n depth-first in source order. If f
// returns false the children of that node are skipped.
func Inspect(n *Node, f func(*Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range n.Children {
		Inspect(c, f)
	}
}

// SoleStatement descends through nested blocks and returns the statement
// when every block on the way holds exactly one statement.
func (n *Node) SoleStatement() *Node {
	for cur := n; cur != nil; cur = cur.Children[0] {
		if cur.Kind != NodeBlock {
			return cur
		}
		if len(cur.Children) != 1 {
			return nil
		}
	}
	return nil
}

func (n *Node) Operand() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}
