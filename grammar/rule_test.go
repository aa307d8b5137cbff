package grammar

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func element(t *testing.T, name string, slots ...[]string) Element {
	t.Helper()
	el, err := NewElement(name, slots...)
	require.NoError(t, err)
	return el
}

func TestNewRule(t *testing.T) {
	r, err := NewRule(
		element(t, "S", []string{"u"}, []string{"v"}),
		element(t, "NP", []string{"u"}),
		element(t, "VP", []string{"v"}),
	)
	require.NoError(t, err)

	assert.False(t, r.IsEpsilon())
	assert.Equal(t, "S", r.Left.Name)
	assert.Len(t, r.Right, 2)
	assert.Equal(t, []string{"NP", "S", "VP"}, r.UniqueVariables())
	assert.True(t, r.Mentions("VP"))
	assert.False(t, r.Mentions("S"))
}

func TestParseRule_MatchesConstructedRule(t *testing.T) {
	parsed, err := ParseRule("S(u, v) -> NP(u) VP(v)")
	require.NoError(t, err)

	built, err := NewRule(
		element(t, "S", []string{"u"}, []string{"v"}),
		element(t, "NP", []string{"u"}),
		element(t, "VP", []string{"v"}),
	)
	require.NoError(t, err)

	assert.True(t, parsed.Equal(built))
}

func TestParseRule_Concatenation(t *testing.T) {
	r, err := ParseRule("S(w1u, x1v) -> NP(w1, x1) VP(u, v)")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"w1", "u"}, {"x1", "v"}}, r.Left.Slots)
	assert.Equal(t, "S(w1u, x1v) -> NP(w1, x1) VP(u, v)", r.String())
}

func TestParseRule_Lexical(t *testing.T) {
	r, err := ParseRule("N(human)")
	require.NoError(t, err)

	assert.True(t, r.IsEpsilon())
	assert.Equal(t, "human", r.Terminal)
	assert.Equal(t, "N", r.StringYield())
	assert.Equal(t, "N(human)", r.String())
}

func TestParseRule_LexicalTerminals(t *testing.T) {
	for _, terminal := range []string{"Mädchen", "café", "?", ",", "(", ")", "...", "-", "don't"} {
		t.Run(terminal, func(t *testing.T) {
			r, err := ParseRule("Punct(" + terminal + ")")
			require.NoError(t, err)
			assert.True(t, r.IsEpsilon())
			assert.Equal(t, terminal, r.Terminal)

			built, err := NewLexicalRule("Punct", terminal)
			require.NoError(t, err)
			again, err := ParseRule(built.String())
			require.NoError(t, err)
			assert.True(t, built.Equal(again))
		})
	}
}

func TestParseRule_NonASCIIIsNotAVariable(t *testing.T) {
	_, err := ParseRule("S(ä) -> NP(ä)")
	assert.True(t, errors.Is(err, ErrMalformedRule))
}

func TestStringYield_NonLexical(t *testing.T) {
	r := MustParseRule("S(uv) -> NP(u) VP(v)")
	assert.Equal(t, "", r.StringYield())
}

func TestParseRule_RoundTrip(t *testing.T) {
	for _, text := range []string{
		"S(uv) -> NP(u) VP(v)",
		"Swhmain(v, uw) -> NP(u) VPwh(v, w)",
		"S(uwv) -> Aux(w) Swhmain(u, v)",
		"D(the)",
	} {
		r := MustParseRule(text)
		again, err := ParseRule(r.String())
		require.NoError(t, err, text)
		assert.True(t, r.Equal(again), text)
	}
}

func TestParseRule_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":                "",
		"missing rhs":          "S(uv) ->",
		"unclosed paren":       "S(uv) -> NP(u",
		"missing comma":        "S(u v) -> NP(u) VP(v)",
		"unbound variable":     "S(uv) -> NP(u)",
		"variable used twice":  "S(uu) -> NP(u)",
		"variable bound twice": "S(u) -> NP(u) VP(u)",
		"rhs concatenation":    "S(u) -> NP(uv)",
		"lexical with two":     "N(a, b)",
		"not a variable":       "S(1u) -> NP(u)",
		"missing arrow":        "S(u) NP(u)",
		"wrong arrow":          "S(u) => NP(u)",
		"control character":    "S(u) \f-> NP(u)",
		"comma as variable":    "S(,) -> NP(u)",
		"dangling paren":       "S(u, () -> NP(u)",
		"no arguments":         "S() -> NP(u)",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRule(text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedRule), "%v", err)

			var syn *SyntaxError
			assert.True(t, errors.As(err, &syn))
		})
	}
}

func TestSyntaxError_Offset(t *testing.T) {
	_, err := ParseRule("S(uv) -> NP(u VP(v)")
	var syn *SyntaxError
	require.True(t, errors.As(err, &syn))
	assert.Equal(t, 14, syn.Offset)
}

func TestInstantiate(t *testing.T) {
	r := MustParseRule("S(w1u, x1v) -> NP(w1, x1) VP(u, v)")

	got, err := r.Instantiate(
		NewInstance("NP", Span{1, 2}, Span{5, 7}),
		NewInstance("VP", Span{2, 4}, Span{7, 8}),
	)
	require.NoError(t, err)
	assert.True(t, got.Equal(NewInstance("S", Span{1, 4}, Span{5, 8})), got.String())
}

func TestInstantiate_SlotsAreIndependent(t *testing.T) {
	r := MustParseRule("VPwh(u, v) -> NPwh(u) Vroot(v)")

	got, err := r.Instantiate(NewInstance("NPwh", Span{0, 1}), NewInstance("Vroot", Span{4, 5}))
	require.NoError(t, err)
	assert.Equal(t, "VPwh[0:1,4:5]", got.String())
}

func TestInstantiate_NonAdjacent(t *testing.T) {
	r := MustParseRule("S(w1u, x1v) -> NP(w1, x1) VP(u, v)")
	np := NewInstance("NP", Span{1, 2}, Span{5, 7})
	vp := NewInstance("VP", Span{3, 4}, Span{7, 8})

	for i := 0; i < 3; i++ {
		_, err := r.Instantiate(np, vp)
		assert.True(t, errors.Is(err, ErrNonAdjacent))
	}
}

func TestInstantiate_OrderMatters(t *testing.T) {
	r := MustParseRule("S(uv) -> NP(u) VP(v)")

	_, err := r.Instantiate(NewInstance("NP", Span{1, 2}), NewInstance("VP", Span{0, 1}))
	assert.True(t, errors.Is(err, ErrNonAdjacent))
}

func TestInstantiate_Arity(t *testing.T) {
	r := MustParseRule("S(uv) -> NP(u) VP(v)")

	_, err := r.Instantiate(NewInstance("NP", Span{0, 1}))
	assert.True(t, errors.Is(err, ErrArity))

	_, err = r.Instantiate(NewInstance("VP", Span{0, 1}), NewInstance("VP", Span{1, 2}))
	assert.True(t, errors.Is(err, ErrArity))

	_, err = r.Instantiate(NewInstance("NP", Span{0, 1}, Span{1, 2}), NewInstance("VP", Span{2, 3}))
	assert.True(t, errors.Is(err, ErrArity))
}

func TestNewLexicalRule_Invalid(t *testing.T) {
	_, err := NewLexicalRule("N", "")
	assert.True(t, errors.Is(err, ErrInvalidRule))
}
