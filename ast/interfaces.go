// interfaces.go contains the Visitor interfaces that any code
// traversing expression and statement AST nodes must implement, plus
// the Expression and Stmt interfaces every node satisfies via Accept.

package ast

import "tapl/source"

// ExpressionVisitor is implemented by the AST-JSON printer; the check
// passes and the code generator walk expressions with type switches
// instead. Each method corresponds to exactly one Expression variant from
// spec.md §3.
type ExpressionVisitor interface {
	VisitBinary(expr *Binary) any
	VisitUnary(expr *Unary) any
	VisitTokenExpr(expr *TokenExpr) any
	VisitIdentifier(expr *Identifier) any
	VisitCall(expr *Call) any
	VisitTypeCast(expr *TypeCast) any
	VisitString(expr *String) any
	VisitThis(expr *This) any
}

// StmtVisitor is implemented by the AST-JSON printer; the check passes
// and the code generator walk statements with type switches instead.
// Each method
// corresponds to exactly one Statement variant from spec.md §3.
type StmtVisitor interface {
	VisitVarDecl(stmt *VarDecl) any
	VisitAssignment(stmt *Assignment) any
	VisitExpressionStmt(stmt *ExpressionStmt) any
	VisitIf(stmt *If) any
	VisitForLoop(stmt *ForLoop) any
	VisitFunction(stmt *Function) any
	VisitClass(stmt *Class) any
	VisitReturn(stmt *Return) any
	VisitPrint(stmt *Print) any
	VisitBreak(stmt *Break) any
	VisitContinue(stmt *Continue) any
	VisitBreakall(stmt *Breakall) any
	VisitList(stmt *List) any
}

// Expression is the base interface for every expression node. Accept
// dispatches to the matching ExpressionVisitor method.
type Expression interface {
	Accept(v ExpressionVisitor) any
	Span() source.Span
}

// Stmt is the base interface for every statement node. Accept
// dispatches to the matching StmtVisitor method.
type Stmt interface {
	Accept(v StmtVisitor) any
	Span() source.Span
}

// Ast is the root of one compiled file: its filename (for
// diagnostics) and the top-level statement sequence in source order.
type Ast struct {
	Filename   string
	Statements []Stmt
}
