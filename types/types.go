// Package types implements the type registry and the promotion lattice
// described in spec.md §3: built-in scalars, user-declared class
// types, parametric list types, and the rules for when one numeric
// type may be implicitly widened to another.
package types

import "fmt"

// NumKind distinguishes the three numeric families. Promotion never
// crosses a NumKind: a signed scalar never promotes to unsigned or to
// floating point, and vice versa.
type NumKind int

const (
	Signed NumKind = iota
	Unsigned
	Floating
)

// Variant discriminates the Type union from spec.md §3.
type Variant int

const (
	VariantScalar Variant = iota
	VariantClass
	VariantList
	VariantVoid
	VariantString
	VariantUnknown
	VariantBase // the untyped-literal "base" numeric marker, see §4.6/§9
)

// Type is an immutable (after construction) value shared by reference
// throughout a compilation. Scalars additionally carry a NumKind/Bits
// pair and a promotion list; list types carry their element Type and
// are interned by the type applier so repeated list[T] occurrences
// share one Type.
type Type struct {
	Keyword         string
	Aliases         []string
	UnderlyingCType string // empty for non-scalars

	Variant Variant
	NumKind NumKind // meaningful only when Variant == VariantScalar or VariantBase
	Bits    int     // meaningful only when Variant == VariantScalar

	ClassName string // meaningful only when Variant == VariantClass
	Element   *Type  // meaningful only when Variant == VariantList

	promotions []*Type
}

// AllKeywords returns the canonical keyword followed by any aliases,
// the spellings the tokenizer accepts as naming this type.
func (t *Type) AllKeywords() []string {
	keywords := make([]string, 0, len(t.Aliases)+1)
	keywords = append(keywords, t.Keyword)
	keywords = append(keywords, t.Aliases...)
	return keywords
}

// IsNumeric reports whether t participates in the numeric promotion
// lattice (scalars and the untyped literal "base" marker).
func (t *Type) IsNumeric() bool {
	return t.Variant == VariantScalar || t.Variant == VariantBase
}

// NonVoid reports whether a Return statement inside a function
// declared with this type requires a value.
func (t *Type) NonVoid() bool {
	return t.Variant != VariantVoid
}

// addPromotions registers the scalars t can be implicitly widened to.
func (t *Type) addPromotions(targets ...*Type) {
	t.promotions = append(t.promotions, targets...)
}

// CanPromoteTo reports whether t is identical to other or appears in
// t's promotion list (i.e. t widens to other).
func (t *Type) CanPromoteTo(other *Type) bool {
	if t == other {
		return true
	}
	for _, p := range t.promotions {
		if p == other {
			return true
		}
	}
	return false
}

func (t *Type) String() string {
	return t.Keyword
}

// Registry is the process-local keyword → Type mapping populated with
// built-ins at construction time, extended by the type resolver (class
// names) and by the type applier (interned list[T] types).
type Registry struct {
	byKeyword map[string]*Type
	Base      *Type // the untyped-literal numeric marker shared across int/float literals
}

// NewRegistry builds a Registry pre-populated with every built-in
// scalar type, string, and void, wiring the promotion lattice:
// u1→u8→u16→u32→u64, s8→s16→s32→s64, f32→f64.
func NewRegistry() *Registry {
	r := &Registry{byKeyword: make(map[string]*Type)}

	u1 := r.defineScalar("u1", []string{"bool"}, "bool", Unsigned, 1)
	u8 := r.defineScalar("u8", nil, "uint8_t", Unsigned, 8)
	u16 := r.defineScalar("u16", nil, "uint16_t", Unsigned, 16)
	u32 := r.defineScalar("u32", nil, "uint32_t", Unsigned, 32)
	u64 := r.defineScalar("u64", nil, "uint64_t", Unsigned, 64)
	u1.addPromotions(u8, u16, u32, u64)
	u8.addPromotions(u16, u32, u64)
	u16.addPromotions(u32, u64)
	u32.addPromotions(u64)

	s8 := r.defineScalar("s8", nil, "int8_t", Signed, 8)
	s16 := r.defineScalar("s16", nil, "int16_t", Signed, 16)
	s32 := r.defineScalar("s32", nil, "int32_t", Signed, 32)
	s64 := r.defineScalar("s64", nil, "int64_t", Signed, 64)
	s8.addPromotions(s16, s32, s64)
	s16.addPromotions(s32, s64)
	s32.addPromotions(s64)

	f32 := r.defineScalar("f32", nil, "float", Floating, 32)
	f64 := r.defineScalar("f64", nil, "double", Floating, 64)
	f32.addPromotions(f64)

	// char backs a single-quoted character literal; kept distinct from
	// u8 (rather than reusing it) so the code generator can key its
	// printf format selection purely off the checked Type and still
	// tell a character apart from a one-byte number.
	r.defineScalar("char", nil, "char", Unsigned, 8)

	r.define(&Type{Keyword: "void", Variant: VariantVoid, UnderlyingCType: "void"})
	r.define(&Type{Keyword: "string", Variant: VariantString})

	// the untyped literal marker: numeric (so it unifies with any
	// scalar of a matching kind) but not itself a registry entry.
	// NumKind is Signed so a pure-literal expression (e.g. `1 + 2`)
	// prints with %d, matching the original printf("%d\n", ...) for
	// every printed expression.
	r.Base = &Type{Keyword: "base", Variant: VariantBase, NumKind: Signed}

	return r
}

func (r *Registry) defineScalar(keyword string, aliases []string, cType string, kind NumKind, bits int) *Type {
	t := &Type{
		Keyword:         keyword,
		Aliases:         aliases,
		UnderlyingCType: cType,
		Variant:         VariantScalar,
		NumKind:         kind,
		Bits:            bits,
	}
	r.define(t)
	return t
}

func (r *Registry) define(t *Type) {
	for _, keyword := range t.AllKeywords() {
		r.byKeyword[keyword] = t
	}
}

// Get looks up a Type by canonical keyword or alias.
func (r *Registry) Get(keyword string) (*Type, bool) {
	t, ok := r.byKeyword[keyword]
	return t, ok
}

// AddClass registers keyword as a new, empty class Type. Re-adding an
// already-registered keyword is a no-op, matching the Python original's
// idempotent Types.add.
func (r *Registry) AddClass(keyword string) *Type {
	if existing, ok := r.byKeyword[keyword]; ok {
		return existing
	}
	t := &Type{Keyword: keyword, Variant: VariantClass, ClassName: keyword}
	r.define(t)
	return t
}

// InternList returns the registered list[element] Type, creating and
// registering it on first occurrence. Repeated calls with the same
// element Type return the identical *Type, satisfying the round-trip
// law intern(list[T]) ≡ intern(list[T]).
func (r *Registry) InternList(element *Type) *Type {
	keyword := fmt.Sprintf("list[%s]", element.Keyword)
	if existing, ok := r.byKeyword[keyword]; ok {
		return existing
	}
	t := &Type{Keyword: keyword, Variant: VariantList, Element: element}
	r.define(t)
	return t
}

// ListMethods enumerates the names and declared return-type keywords
// of the built-in methods callable on any list[T] value (spec.md §4.6).
// "set" is included per the Open Question resolution recorded in
// DESIGN.md: the original source has one version with it and one
// without; this repository treats it as part of the language.
func ListMethods(element *Type, reg *Registry) map[string]*Type {
	u64, _ := reg.Get("u64")
	u1, _ := reg.Get("u1")
	voidT, _ := reg.Get("void")
	return map[string]*Type{
		"size":   u64,
		"add":    voidT,
		"get":    element,
		"set":    u1,
		"del":    u1,
		"insert": u1,
	}
}

// ListMethodArity gives the declared parameter count of each built-in
// list method, used by the typing pass for arity checks.
var ListMethodArity = map[string]int{
	"size": 0, "add": 1, "get": 1, "set": 2, "del": 1, "insert": 2,
}
