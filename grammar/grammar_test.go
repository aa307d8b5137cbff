package grammar

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DeduplicatesRules(t *testing.T) {
	g, err := FromStrings("S",
		"S(uv) -> NP(u) VP(v)",
		"S(uv) -> NP(u) VP(v)",
		"NP(u) -> N(u)",
		"N(dog)",
		"N(dog)",
		"VP(barks)",
	)
	require.NoError(t, err)

	assert.Len(t, g.Rules(), 4)
	assert.Len(t, g.Lexical(), 2)
	assert.Equal(t, "S", g.Start())
}

func TestNew_DefaultStart(t *testing.T) {
	g, err := FromStrings("", "S(u) -> A(u)", "A(x)")
	require.NoError(t, err)
	assert.Equal(t, DefaultStart, g.Start())
}

func TestNew_InconsistentArity(t *testing.T) {
	_, err := FromStrings("S",
		"S(uv) -> NP(u) VP(v)",
		"VP(u, v) -> V(u) NP(v)",
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInconsistentArity))
}

func TestGrammar_Indexes(t *testing.T) {
	g := MustFromStrings("S",
		"S(uv) -> NP(u) VP(v)",
		"NP(uv) -> D(u) N(v)",
		"NP(uv) -> NP(u) PP(v)",
		"PP(uv) -> P(u) NP(v)",
		"D(the)",
		"N(dog)",
		"P(with)",
		"VP(barks)",
	)

	assert.Len(t, g.RulesUsing("NP"), 3)
	assert.Len(t, g.RulesUsing("D"), 1)
	assert.Empty(t, g.RulesUsing("S"))

	n, ok := g.Arity("NP")
	assert.True(t, ok)
	assert.Equal(t, 1, n)
	_, ok = g.Arity("Missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"D", "N", "NP", "P", "PP", "S", "VP"}, g.Nonterminals())
	assert.Equal(t, []string{"barks", "dog", "the", "with"}, g.Terminals())
}

func TestGrammar_RulesUsingListsRuleOncePerName(t *testing.T) {
	g := MustFromStrings("S", "S(uv) -> A(u) A(v)", "A(a)")
	assert.Len(t, g.RulesUsing("A"), 1)
}

func TestFromStrings_ReportsRuleNumber(t *testing.T) {
	_, err := FromStrings("S", "S(uv) -> NP(u) VP(v)", "NP(u ->")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule 2")
	assert.True(t, errors.Is(err, ErrMalformedRule))
}
