package check

import "testing"

func TestTypesAcceptsConsistentArithmetic(t *testing.T) {
	tree, reg := buildTree(t, "u32 x = 1\nu32 y = x + 2\n")
	if errs := Types(tree, reg); len(errs) != 0 {
		t.Fatalf("unexpected type errors: %v", errs)
	}
}

func TestTypesRejectsOutOfRangeLiteral(t *testing.T) {
	// u8 holds [0, 255]; 9999 overflows it.
	tree, reg := buildTree(t, "u8 x = 9999\n")
	errs := Types(tree, reg)
	if len(errs) == 0 {
		t.Fatalf("expected an out-of-range literal error")
	}
}

func TestTypesRejectsIncompatibleAssignment(t *testing.T) {
	tree, reg := buildTree(t, "u32 x = 1\nf32 y = 2\ny = x\n")
	errs := Types(tree, reg)
	if len(errs) == 0 {
		t.Fatalf("expected an incompatible-types error assigning u32 into f32")
	}
}

func TestTypesAllowsPromotion(t *testing.T) {
	tree, reg := buildTree(t, "u8 x = 1\nu32 y = x\n")
	if errs := Types(tree, reg); len(errs) != 0 {
		t.Fatalf("unexpected type errors promoting u8 into u32: %v", errs)
	}
}

func TestTypesChecksCallArity(t *testing.T) {
	src := "u32 add(u32 a, u32 b):\n    return a + b\nu32 z = add(1)\n"
	tree, reg := buildTree(t, src)
	errs := Types(tree, reg)
	if len(errs) == 0 {
		t.Fatalf("expected an arity error calling add with one argument")
	}
}

func TestTypesChecksReturnAgainstDeclaredType(t *testing.T) {
	src := "void noop():\n    return 1\n"
	tree, reg := buildTree(t, src)
	errs := Types(tree, reg)
	if len(errs) == 0 {
		t.Fatalf("expected a void-function-must-not-return-a-value error")
	}
}

func TestTypesResolvesListMethodCall(t *testing.T) {
	src := "list[u32] xs\nxs.add(1)\nu64 n = xs.size()\n"
	tree, reg := buildTree(t, src)
	if errs := Types(tree, reg); len(errs) != 0 {
		t.Fatalf("unexpected type errors resolving list methods: %v", errs)
	}
}

func TestTypesRejectsUnknownListMethod(t *testing.T) {
	tree, reg := buildTree(t, "list[u32] xs\nxs.pop()\n")
	errs := Types(tree, reg)
	if len(errs) == 0 {
		t.Fatalf("expected an unknown-method error for xs.pop()")
	}
}

func TestTypesResolvesClassFieldAndMethod(t *testing.T) {
	src := "" +
		"class Animal:\n" +
		"    u32 age\n" +
		"    u32 getAge():\n" +
		"        return this.age\n" +
		"    Animal(u32 startAge):\n" +
		"        this.age = startAge\n" +
		"Animal a\n" +
		"u32 n = a.getAge()\n"
	tree, reg := buildTree(t, src)
	if errs := Types(tree, reg); len(errs) != 0 {
		t.Fatalf("unexpected type errors resolving class members: %v", errs)
	}
}
