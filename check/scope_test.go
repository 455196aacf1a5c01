package check

import (
	"testing"

	"tapl/ast"
	"tapl/lexer"
	"tapl/parser"
	"tapl/resolve"
	"tapl/types"
)

// buildTree runs the full front-end pipeline up through the parser and
// fails the test if any earlier stage reports an error.
func buildTree(t *testing.T, src string) (*ast.Ast, *types.Registry) {
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
	tree, parseErrs := parser.Make(rewritten).Parse("test.tapl")
	if len(parseErrs) != 0 {
		t.Fatalf("unexpected parse errors: %v", parseErrs)
	}
	return tree, reg
}

func TestScopesAcceptsWellFormedProgram(t *testing.T) {
	src := "" +
		"u32 x = 1\n" +
		"while x < 10:\n" +
		"    x = x + 1\n" +
		"    if x == 5:\n" +
		"        break\n"
	tree, reg := buildTree(t, src)
	if errs := Scopes(tree, reg); len(errs) != 0 {
		t.Fatalf("unexpected scope errors: %v", errs)
	}
}

func TestScopesRejectsUnknownIdentifier(t *testing.T) {
	tree, reg := buildTree(t, "u32 x = y\n")
	errs := Scopes(tree, reg)
	if len(errs) == 0 {
		t.Fatalf("expected an unknown-identifier error")
	}
}

func TestScopesRejectsDuplicateDeclaration(t *testing.T) {
	tree, reg := buildTree(t, "u32 x = 1\nu32 x = 2\n")
	errs := Scopes(tree, reg)
	if len(errs) == 0 {
		t.Fatalf("expected a duplicate-identifier error")
	}
}

func TestScopesAllowsSelfReferentialInitializerAsUnknown(t *testing.T) {
	// scoping_pass.py's VarDeclStatement checks the initializer before
	// adding the name, so `u32 x = x` reports x as unknown rather than
	// resolving to the new declaration.
	tree, reg := buildTree(t, "u32 x = x\n")
	errs := Scopes(tree, reg)
	if len(errs) == 0 {
		t.Fatalf("expected an unknown-identifier error for the initializer")
	}
}

func TestScopesRejectsBreakOutsideLoop(t *testing.T) {
	tree, reg := buildTree(t, "break\n")
	errs := Scopes(tree, reg)
	if len(errs) == 0 {
		t.Fatalf("expected a 'break outside a loop' error")
	}
}

func TestScopesAcceptsRecursiveFunction(t *testing.T) {
	src := "u32 fact(u32 n):\n    return fact(n - 1)\n"
	tree, reg := buildTree(t, src)
	if errs := Scopes(tree, reg); len(errs) != 0 {
		t.Fatalf("unexpected scope errors: %v", errs)
	}
}

func TestScopesValidatesThisMemberAgainstClass(t *testing.T) {
	src := "" +
		"class Animal:\n" +
		"    u32 age\n" +
		"    Animal(u32 startAge):\n" +
		"        this.age = startAge\n"
	tree, reg := buildTree(t, src)
	if errs := Scopes(tree, reg); len(errs) != 0 {
		t.Fatalf("unexpected scope errors: %v", errs)
	}
}

func TestScopesRejectsUnknownClassMember(t *testing.T) {
	src := "" +
		"class Animal:\n" +
		"    u32 age\n" +
		"    Animal(u32 startAge):\n" +
		"        this.weight = startAge\n"
	tree, reg := buildTree(t, src)
	errs := Scopes(tree, reg)
	if len(errs) == 0 {
		t.Fatalf("expected an unknown-member error for this.weight")
	}
}
