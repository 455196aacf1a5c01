package parser

import (
	"testing"

	"tapl/ast"
	"tapl/lexer"
	"tapl/resolve"
	"tapl/types"
)

// parse runs the full front-end pipeline (lexer -> resolve.Classes ->
// resolve.Apply -> Parser) over src and fails the test if any stage
// reports an error.
func parse(t *testing.T, src string) []ast.Stmt {
	t.Helper()
	lx := lexer.New(src)
	tokens, _, lexErrs := lx.Tokenize()
	if len(lexErrs) != 0 {
		t.Fatalf("unexpected lex errors: %v", lexErrs)
	}

	reg := types.NewRegistry()
	resolve.Classes(tokens, reg)
	rewritten, resolveErrs := resolve.Apply(tokens, reg)
	if len(resolveErrs) != 0 {
		t.Fatalf("unexpected resolve errors: %v", resolveErrs)
	}

	tree, parseErrs := Make(rewritten).Parse("test.tapl")
	if len(parseErrs) != 0 {
		t.Fatalf("unexpected parse errors: %v", parseErrs)
	}
	return tree.Statements
}

func TestParsesVarDeclWithInitializer(t *testing.T) {
	stmts := parse(t, "u32 x = 42\n")
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	decl, ok := stmts[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("statement = %T, want *ast.VarDecl", stmts[0])
	}
	if decl.Name != "x" || decl.Type.Keyword != "u32" {
		t.Fatalf("decl = %+v", decl)
	}
	num, ok := decl.Initial.(*ast.TokenExpr)
	if !ok || num.Token.Int != 42 {
		t.Fatalf("initial = %+v, want NUMBER(42)", decl.Initial)
	}
}

func TestParsesFunctionDeclaration(t *testing.T) {
	src := "u32 add(u32 a, u32 b):\n    return a + b\n"
	stmts := parse(t, src)
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	fn, ok := stmts[0].(*ast.Function)
	if !ok {
		t.Fatalf("statement = %T, want *ast.Function", stmts[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 || fn.ReturnType.Keyword != "u32" {
		t.Fatalf("fn = %+v", fn)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("got %d body statements, want 1", len(fn.Body))
	}
	ret, ok := fn.Body[0].(*ast.Return)
	if !ok {
		t.Fatalf("body[0] = %T, want *ast.Return", fn.Body[0])
	}
	bin, ok := ret.Value.(*ast.Binary)
	if !ok {
		t.Fatalf("return value = %T, want *ast.Binary", ret.Value)
	}
	left, ok := bin.Left.(*ast.Identifier)
	if !ok || left.Name != "a" {
		t.Fatalf("left = %+v", bin.Left)
	}
}

func TestParsesIfElifElse(t *testing.T) {
	src := "" +
		"if a < b:\n" +
		"    print(1)\n" +
		"else if a == b:\n" +
		"    print(0)\n" +
		"else:\n" +
		"    print(2)\n"
	stmts := parse(t, src)
	ifStmt, ok := stmts[0].(*ast.If)
	if !ok {
		t.Fatalf("statement = %T, want *ast.If", stmts[0])
	}
	if len(ifStmt.Elifs) != 1 {
		t.Fatalf("got %d elifs, want 1", len(ifStmt.Elifs))
	}
	if ifStmt.Else == nil || len(ifStmt.Else) != 1 {
		t.Fatalf("else = %+v, want one statement", ifStmt.Else)
	}
}

func TestParsesCStyleForLoop(t *testing.T) {
	src := "for (u32 i = 0; i < 10; i++):\n    print(i)\n"
	stmts := parse(t, src)
	loop, ok := stmts[0].(*ast.ForLoop)
	if !ok {
		t.Fatalf("statement = %T, want *ast.ForLoop", stmts[0])
	}
	if loop.Init == nil || loop.Check == nil || loop.Step == nil {
		t.Fatalf("loop = %+v, want every clause populated", loop)
	}
	if len(loop.Body) != 1 {
		t.Fatalf("got %d body statements, want 1", len(loop.Body))
	}
}

func TestWhileDesugarsToForLoopWithOnlyCheck(t *testing.T) {
	src := "while x < 10:\n    x = x + 1\n"
	stmts := parse(t, src)
	loop, ok := stmts[0].(*ast.ForLoop)
	if !ok {
		t.Fatalf("statement = %T, want *ast.ForLoop", stmts[0])
	}
	if loop.Init != nil || loop.Step != nil || loop.Check == nil {
		t.Fatalf("loop = %+v, want only Check populated", loop)
	}
}

func TestParsesClassWithFieldsAndConstructor(t *testing.T) {
	src := "" +
		"class Animal:\n" +
		"    u32 age\n" +
		"    Animal(u32 startAge):\n" +
		"        this.age = startAge\n"
	stmts := parse(t, src)
	class, ok := stmts[0].(*ast.Class)
	if !ok {
		t.Fatalf("statement = %T, want *ast.Class", stmts[0])
	}
	if class.Name != "Animal" || len(class.Fields) != 1 {
		t.Fatalf("class = %+v", class)
	}
	if class.Ctor == nil || len(class.Ctor.Params) != 1 {
		t.Fatalf("ctor = %+v", class.Ctor)
	}
	assign, ok := class.Ctor.Body[0].(*ast.Assignment)
	if !ok {
		t.Fatalf("ctor body[0] = %T, want *ast.Assignment", class.Ctor.Body[0])
	}
	this, ok := assign.Target.(*ast.This)
	if !ok {
		t.Fatalf("assignment target = %T, want *ast.This", assign.Target)
	}
	field, ok := this.Inner.(*ast.Identifier)
	if !ok || field.Name != "age" {
		t.Fatalf("this.Inner = %+v", this.Inner)
	}
}

func TestParsesListDeclarationAndMethodCall(t *testing.T) {
	src := "list[u32] xs\nxs.add(1)\n"
	stmts := parse(t, src)
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(stmts))
	}
	listDecl, ok := stmts[0].(*ast.List)
	if !ok {
		t.Fatalf("statement = %T, want *ast.List", stmts[0])
	}
	if listDecl.Name != "xs" || listDecl.ElementType.Keyword != "u32" {
		t.Fatalf("listDecl = %+v", listDecl)
	}
	exprStmt, ok := stmts[1].(*ast.ExpressionStmt)
	if !ok {
		t.Fatalf("statement = %T, want *ast.ExpressionStmt", stmts[1])
	}
	root, ok := exprStmt.Expr.(*ast.Identifier)
	if !ok || root.Name != "xs" {
		t.Fatalf("expr = %+v", exprStmt.Expr)
	}
	call, ok := root.Inner.(*ast.Call)
	if !ok || call.Callee != "add" || len(call.Args) != 1 {
		t.Fatalf("call = %+v", root.Inner)
	}
}

func TestParsesInterpolatedStringInPrintln(t *testing.T) {
	src := "println(\"x = {1 + 2}\")\n"
	stmts := parse(t, src)
	printStmt, ok := stmts[0].(*ast.Print)
	if !ok {
		t.Fatalf("statement = %T, want *ast.Print", stmts[0])
	}
	if !printStmt.Newline {
		t.Fatalf("expected println to set Newline")
	}
	str, ok := printStmt.Value.(*ast.String)
	if !ok {
		t.Fatalf("value = %T, want *ast.String", printStmt.Value)
	}
	if len(str.Parts) != 2 {
		t.Fatalf("got %d string parts, want 2", len(str.Parts))
	}
	if str.Parts[0].Literal != "x = " {
		t.Fatalf("parts[0] = %+v", str.Parts[0])
	}
	if str.Parts[1].Expr == nil {
		t.Fatalf("parts[1] should carry an expression")
	}
}

func TestParsesBreakContinueBreakall(t *testing.T) {
	src := "" +
		"while true:\n" +
		"    break\n" +
		"    continue\n" +
		"    breakall 2\n"
	stmts := parse(t, src)
	loop := stmts[0].(*ast.ForLoop)
	if len(loop.Body) != 3 {
		t.Fatalf("got %d body statements, want 3", len(loop.Body))
	}
	if _, ok := loop.Body[0].(*ast.Break); !ok {
		t.Fatalf("body[0] = %T, want *ast.Break", loop.Body[0])
	}
	if _, ok := loop.Body[1].(*ast.Continue); !ok {
		t.Fatalf("body[1] = %T, want *ast.Continue", loop.Body[1])
	}
	breakall, ok := loop.Body[2].(*ast.Breakall)
	if !ok || breakall.Label != "2" {
		t.Fatalf("body[2] = %+v, want Breakall{Label: \"2\"}", loop.Body[2])
	}
}

func TestReportsSyntaxErrorOnMissingColon(t *testing.T) {
	lx := lexer.New("if true\n    return 1\n")
	tokens, _, _ := lx.Tokenize()
	reg := types.NewRegistry()
	resolve.Classes(tokens, reg)
	rewritten, _ := resolve.Apply(tokens, reg)
	_, errs := Make(rewritten).Parse("test.tapl")
	if len(errs) == 0 {
		t.Fatalf("expected a syntax error for a missing ':' after the if condition")
	}
}
