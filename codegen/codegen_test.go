package codegen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tapl/ast"
	"tapl/check"
	"tapl/lexer"
	"tapl/parser"
	"tapl/resolve"
	"tapl/types"
)

// buildChecked runs the full front-end pipeline and both check passes,
// failing the test if any stage reports an error.
func buildChecked(t *testing.T, src string) (*ast.Ast, *types.Registry) {
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
	if errs := check.Scopes(tree, reg); len(errs) != 0 {
		t.Fatalf("unexpected scope errors: %v", errs)
	}
	if errs := check.Types(tree, reg); len(errs) != 0 {
		t.Fatalf("unexpected type errors: %v", errs)
	}
	return tree, reg
}

func generate(t *testing.T, src string) map[string]string {
	t.Helper()
	tree, reg := buildChecked(t, src)
	dir := t.TempDir()
	if err := Generate(tree, reg, dir); err != nil {
		t.Fatalf("Generate returned an error: %v", err)
	}
	out := map[string]string{}
	for _, name := range []string{"main.c", "tapl_headers/types.h", "tapl_headers/classes.h", "tapl_headers/functions.h"} {
		contents, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("reading generated %s: %v", name, err)
		}
		out[name] = string(contents)
	}
	return out
}

func TestGenerateTypesHeaderDeclaresScalarTypedefs(t *testing.T) {
	files := generate(t, "u32 x = 1\n")
	h := files["tapl_headers/types.h"]
	for _, want := range []string{"#pragma once", "#include <stdint.h>", "typedef uint32_t u32;"} {
		if !strings.Contains(h, want) {
			t.Errorf("types.h missing %q:\n%s", want, h)
		}
	}
}

func TestGenerateMainWrapsTopLevelStatements(t *testing.T) {
	files := generate(t, "u32 x = 1\nprintln(x)\n")
	main := files["main.c"]
	for _, want := range []string{
		`#include "tapl_headers/types.h"`,
		`#include "tapl_headers/classes.h"`,
		`#include "tapl_headers/functions.h"`,
		`#include "tapl_headers/list.h"`,
		"int main(int argc, char** argv) {",
		"u32 x = 1;",
		`printf("%u\n", x);`,
		"return 0;",
	} {
		if !strings.Contains(main, want) {
			t.Errorf("main.c missing %q:\n%s", want, main)
		}
	}
}

func TestGenerateArithmeticIsFullyParenthesized(t *testing.T) {
	files := generate(t, "u32 x = 1100 + 150 * 2 + 37 - 100\n")
	main := files["main.c"]
	want := "(((1100 + (150 * 2)) + 37) - 100)"
	if !strings.Contains(main, want) {
		t.Errorf("main.c missing fully parenthesized expression %q:\n%s", want, main)
	}
}

func TestGenerateFreeFunctionEmitsPrototypeAndDefinition(t *testing.T) {
	files := generate(t, "u32 add(u32 a, u32 b):\n    return a + b\n")
	fns := files["tapl_headers/functions.h"]
	if !strings.Contains(fns, "u32 add(u32 a, u32 b);") {
		t.Errorf("functions.h missing prototype:\n%s", fns)
	}
	if !strings.Contains(fns, "u32 add(u32 a, u32 b) {") {
		t.Errorf("functions.h missing definition:\n%s", fns)
	}
	if !strings.Contains(fns, "return (a + b);") {
		t.Errorf("functions.h missing return body:\n%s", fns)
	}
}

func TestGenerateClassEmitsStructCtorAndMethod(t *testing.T) {
	src := "" +
		"class Animal:\n" +
		"    u32 age\n" +
		"    u32 getAge():\n" +
		"        return this.age\n" +
		"    Animal(u32 startAge):\n" +
		"        this.age = startAge\n" +
		"Animal a\n" +
		"u32 n = a.getAge()\n"
	files := generate(t, src)
	classes := files["tapl_headers/classes.h"]
	for _, want := range []string{
		"typedef struct Animal_struct Animal;",
		"struct Animal_struct {",
		"u32 age;",
		"Animal Animal_constructor(u32 startAge) {",
		"this->age = startAge;",
		"return this_storage;",
		"u32 Animal_getAge(Animal* this) {",
		"return this->age;",
	} {
		if !strings.Contains(classes, want) {
			t.Errorf("classes.h missing %q:\n%s", want, classes)
		}
	}
	main := files["main.c"]
	if !strings.Contains(main, "Animal_getAge(&a)") {
		t.Errorf("main.c missing method call through a value receiver:\n%s", main)
	}
}

func TestGenerateListMethodsCastThroughElementType(t *testing.T) {
	files := generate(t, "list[u32] xs\nxs.add(1)\nu64 n = xs.size()\n")
	main := files["main.c"]
	if !strings.Contains(main, "List xs = list_create(sizeof(u32));") {
		t.Errorf("main.c missing list declaration:\n%s", main)
	}
	if !strings.Contains(main, "list_add(&xs, &(u32){1});") {
		t.Errorf("main.c missing list_add call:\n%s", main)
	}
	if !strings.Contains(main, "list_size(&xs)") {
		t.Errorf("main.c missing list_size call:\n%s", main)
	}
}

func TestGenerateBreakallJumpsPastOuterLoop(t *testing.T) {
	src := "" +
		"u32 i = 0\n" +
		"while i < 10:\n" +
		"    u32 j = 0\n" +
		"    while j < 10:\n" +
		"        breakall\n" +
		"        j = j + 1\n" +
		"    i = i + 1\n"
	files := generate(t, src)
	main := files["main.c"]
	if !strings.Contains(main, "goto tapl_loop_exit_1;") {
		t.Errorf("main.c missing goto to outer loop exit label:\n%s", main)
	}
	if !strings.Contains(main, "tapl_loop_exit_1:;") {
		t.Errorf("main.c missing outer loop exit label:\n%s", main)
	}
}
