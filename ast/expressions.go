// expressions.go contains all the expression AST nodes. Every
// expression evaluates to a value and carries a mutable Type slot,
// populated by the typing pass and initialized to nil (meaning
// Unknown) by the parser.

package ast

import (
	"tapl/source"
	"tapl/token"
	"tapl/types"
)

// UnaryOp enumerates the operator forms spec.md §3 lists for Unary.
type UnaryOp int

const (
	OpGroup UnaryOp = iota
	OpNot
	OpNeg
	OpPreInc
	OpPreDec
	OpPostInc
	OpPostDec
)

// Binary is a left-op-right expression: the relational, additive, and
// multiplicative forms from spec.md §4.4's expression grammar.
type Binary struct {
	Left  Expression
	Op    token.Kind
	Right Expression
	Sp    source.Span
	Type  *types.Type
}

func (e *Binary) Accept(v ExpressionVisitor) any { return v.VisitBinary(e) }
func (e *Binary) Span() source.Span              { return e.Sp }

// Unary wraps a single operand: grouping, logical not, arithmetic
// negation, or pre/post increment/decrement.
type Unary struct {
	Op      UnaryOp
	Operand Expression
	Sp      source.Span
	Type    *types.Type
}

func (e *Unary) Accept(v ExpressionVisitor) any { return v.VisitUnary(e) }
func (e *Unary) Span() source.Span              { return e.Sp }

// TokenExpr wraps a literal or bare keyword token that stands alone
// as an expression: a number, character, true/false/null.
type TokenExpr struct {
	Token token.Token
	Sp    source.Span
	Type  *types.Type
}

func (e *TokenExpr) Accept(v ExpressionVisitor) any { return v.VisitTokenExpr(e) }
func (e *TokenExpr) Span() source.Span              { return e.Sp }

// Identifier names a variable, optionally followed by a member-access
// chain (Inner), e.g. `a.b.c` parses as Identifier{a, Inner: Identifier{b, Inner: Identifier{c}}}.
type Identifier struct {
	Name  string
	Inner Expression // nil, or another *Identifier/*Call
	Sp    source.Span
	Type  *types.Type
}

func (e *Identifier) Accept(v ExpressionVisitor) any { return v.VisitIdentifier(e) }
func (e *Identifier) Span() source.Span              { return e.Sp }

// Call is a function or method invocation. ClassOf is non-nil when
// the callee was reached through a member-access chain (a method
// call), naming the receiver's static class/list type for the typing
// pass and code generator to resolve against.
type Call struct {
	Callee  string
	ClassOf *types.Type
	Args    []Expression
	Sp      source.Span
	Type    *types.Type
}

func (e *Call) Accept(v ExpressionVisitor) any { return v.VisitCall(e) }
func (e *Call) Span() source.Span              { return e.Sp }

// TypeCast is `(Type) inner`: both sides must be scalar numeric.
type TypeCast struct {
	Target *types.Type
	Inner  Expression
	Sp     source.Span
	Type   *types.Type
}

func (e *TypeCast) Accept(v ExpressionVisitor) any { return v.VisitTypeCast(e) }
func (e *TypeCast) Span() source.Span              { return e.Sp }

// StringPart is one element of an interpolated string: either a
// literal run of characters or a nested expression.
type StringPart struct {
	Literal string     // meaningful when Expr == nil
	Expr    Expression // meaningful when non-nil
}

// String is an interpolated string literal: an alternating sequence
// of literal runs and bracketed expressions.
type String struct {
	Parts []StringPart
	Sp    source.Span
	Type  *types.Type
}

func (e *String) Accept(v ExpressionVisitor) any { return v.VisitString(e) }
func (e *String) Span() source.Span              { return e.Sp }

// This is `this` followed by a member-access chain, used inside
// method bodies to resolve class fields and sibling methods.
type This struct {
	Inner Expression
	Sp    source.Span
	Type  *types.Type
}

func (e *This) Accept(v ExpressionVisitor) any { return v.VisitThis(e) }
func (e *This) Span() source.Span              { return e.Sp }
