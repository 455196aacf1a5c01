package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"tapl/ast"
)

const (
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

// astPrinter implements both Visitor interfaces and builds a
// JSON-friendly representation of the AST using maps and slices. Each
// Visit method returns an object that can be marshaled to JSON.
type astPrinter struct{}

func (pr astPrinter) VisitVarDecl(s *ast.VarDecl) any {
	return map[string]any{
		"type":    "VarDecl",
		"varType": s.Type.String(),
		"name":    s.Name,
		"initial": nilOrAcceptExpr(s.Initial, pr),
	}
}

func (pr astPrinter) VisitAssignment(s *ast.Assignment) any {
	return map[string]any{
		"type":   "Assignment",
		"target": s.Target.Accept(pr),
		"value":  s.Value.Accept(pr),
	}
}

func (pr astPrinter) VisitExpressionStmt(s *ast.ExpressionStmt) any {
	return map[string]any{"type": "ExpressionStmt", "expression": s.Expr.Accept(pr)}
}

func (pr astPrinter) VisitIf(s *ast.If) any {
	elifs := make([]any, 0, len(s.Elifs))
	for _, elif := range s.Elifs {
		elifs = append(elifs, map[string]any{
			"condition": elif.Cond.Accept(pr),
			"then":      stmtsToAny(elif.Then, pr),
		})
	}
	return map[string]any{
		"type":      "If",
		"condition": s.Cond.Accept(pr),
		"then":      stmtsToAny(s.Then, pr),
		"elifs":     elifs,
		"else":      stmtsToAny(s.Else, pr),
	}
}

func (pr astPrinter) VisitForLoop(s *ast.ForLoop) any {
	return map[string]any{
		"type":  "ForLoop",
		"init":  nilOrAcceptStmt(s.Init, pr),
		"check": nilOrAcceptExpr(s.Check, pr),
		"step":  nilOrAcceptExpr(s.Step, pr),
		"body":  stmtsToAny(s.Body, pr),
	}
}

func (pr astPrinter) VisitFunction(s *ast.Function) any {
	params := make([]any, 0, len(s.Params))
	for _, param := range s.Params {
		params = append(params, map[string]any{"type": param.Type.String(), "name": param.Name})
	}
	returnType := "void"
	if s.ReturnType != nil {
		returnType = s.ReturnType.String()
	}
	return map[string]any{
		"type":       "Function",
		"name":       s.Name,
		"returnType": returnType,
		"params":     params,
		"body":       stmtsToAny(s.Body, pr),
	}
}

func (pr astPrinter) VisitClass(s *ast.Class) any {
	fields := make([]any, 0, len(s.Fields))
	for _, field := range s.Fields {
		fields = append(fields, field.Accept(pr))
	}
	methods := make([]any, 0, len(s.Methods))
	for _, method := range s.Methods {
		methods = append(methods, method.Accept(pr))
	}
	var ctor, dtor any
	if s.Ctor != nil {
		ctor = s.Ctor.Accept(pr)
	}
	if s.Dtor != nil {
		dtor = s.Dtor.Accept(pr)
	}
	return map[string]any{
		"type":        "Class",
		"name":        s.Name,
		"fields":      fields,
		"methods":     methods,
		"constructor": ctor,
		"destructor":  dtor,
	}
}

func (pr astPrinter) VisitReturn(s *ast.Return) any {
	return map[string]any{"type": "Return", "value": nilOrAcceptExpr(s.Value, pr)}
}

func (pr astPrinter) VisitPrint(s *ast.Print) any {
	return map[string]any{"type": "Print", "newline": s.Newline, "value": s.Value.Accept(pr)}
}

func (pr astPrinter) VisitBreak(s *ast.Break) any       { return map[string]any{"type": "Break"} }
func (pr astPrinter) VisitContinue(s *ast.Continue) any { return map[string]any{"type": "Continue"} }

func (pr astPrinter) VisitBreakall(s *ast.Breakall) any {
	return map[string]any{"type": "Breakall", "label": s.Label}
}

func (pr astPrinter) VisitList(s *ast.List) any {
	return map[string]any{"type": "List", "elementType": s.ElementType.String(), "name": s.Name}
}

func (pr astPrinter) VisitBinary(e *ast.Binary) any {
	return map[string]any{
		"type":     "Binary",
		"operator": e.Op.String(),
		"left":     e.Left.Accept(pr),
		"right":    e.Right.Accept(pr),
	}
}

func (pr astPrinter) VisitUnary(e *ast.Unary) any {
	return map[string]any{
		"type":    "Unary",
		"op":      int(e.Op),
		"operand": e.Operand.Accept(pr),
	}
}

func (pr astPrinter) VisitTokenExpr(e *ast.TokenExpr) any {
	return map[string]any{"type": "TokenExpr", "token": e.Token.String()}
}

func (pr astPrinter) VisitIdentifier(e *ast.Identifier) any {
	return map[string]any{
		"type":  "Identifier",
		"name":  e.Name,
		"inner": nilOrAcceptExpr(e.Inner, pr),
	}
}

func (pr astPrinter) VisitCall(e *ast.Call) any {
	args := make([]any, 0, len(e.Args))
	for _, arg := range e.Args {
		args = append(args, arg.Accept(pr))
	}
	return map[string]any{"type": "Call", "callee": e.Callee, "args": args}
}

func (pr astPrinter) VisitTypeCast(e *ast.TypeCast) any {
	return map[string]any{"type": "TypeCast", "target": e.Target.String(), "inner": e.Inner.Accept(pr)}
}

func (pr astPrinter) VisitString(e *ast.String) any {
	parts := make([]any, 0, len(e.Parts))
	for _, part := range e.Parts {
		if part.Expr != nil {
			parts = append(parts, part.Expr.Accept(pr))
		} else {
			parts = append(parts, part.Literal)
		}
	}
	return map[string]any{"type": "String", "parts": parts}
}

func (pr astPrinter) VisitThis(e *ast.This) any {
	return map[string]any{"type": "This", "inner": nilOrAcceptExpr(e.Inner, pr)}
}

func nilOrAcceptExpr(expr ast.Expression, v ast.ExpressionVisitor) any {
	if expr == nil {
		return nil
	}
	return expr.Accept(v)
}

func nilOrAcceptStmt(stmt ast.Stmt, v ast.StmtVisitor) any {
	if stmt == nil {
		return nil
	}
	return stmt.Accept(v)
}

func stmtsToAny(stmts []ast.Stmt, v ast.StmtVisitor) []any {
	if stmts == nil {
		return nil
	}
	out := make([]any, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, s.Accept(v))
	}
	return out
}

// PrintASTJSON converts an *ast.Ast into a prettified JSON string,
// printing it to standard output wrapped in the teacher's yellow
// banner.
func PrintASTJSON(tree *ast.Ast) (string, error) {
	printer := astPrinter{}
	out := stmtsToAny(tree.Statements, printer)
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}

	jsonStr := string(data)
	fmt.Println(colorYellow + "----- AST JSON -----")
	fmt.Println(colorYellow + jsonStr)
	fmt.Println(colorYellow + "-----" + colorReset)
	fmt.Println("")
	return jsonStr, nil
}

// WriteASTJSONToFile writes the prettified AST JSON for tree to path.
func WriteASTJSONToFile(tree *ast.Ast, path string) error {
	data, err := json.MarshalIndent(stmtsToAny(tree.Statements, astPrinter{}), "", "  ")
	if err != nil {
		return fmt.Errorf("error generating AST JSON: %w", err)
	}
	s := string(data)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating AST file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write([]byte(s)); err != nil {
		return fmt.Errorf("error writing AST to file: %w", err)
	}
	return nil
}
