package entropy

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_KnownValues(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  float64
	}{
		{"single char", "a", 0},
		{"repeated char", "aaaa", 0},
		{"two distinct", "ab", 1},
		{"two pairs", "aabb", 1},
		{"three distinct", "abc", math.Log2(3)},
		{"four distinct", "abcd", 2},
		{"skewed", "aaab", -(0.75*math.Log2(0.75) + 0.25*math.Log2(0.25))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Compute(tc.input)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-12)
		})
	}
}

func TestCompute_RepeatedCharIsExactlyZero(t *testing.T) {
	for _, s := range []string{"x", "zzzzzzzz", strings.Repeat("é", 100)} {
		got, err := Compute(s)
		require.NoError(t, err)
		assert.Equal(t, 0.0, got, "input %q", s)
		assert.False(t, math.Signbit(got), "entropy of %q should not be negative zero", s)
	}
}

func TestCompute_EmptyInput(t *testing.T) {
	_, err := Compute("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var invalid *InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "input is empty", invalid.Reason)
	assert.Equal(t, "invalid input: input is empty", err.Error())
}

func TestCompute_Bounds(t *testing.T) {
	inputs := []string{
		"hello world",
		"the quick brown fox jumps over the lazy dog",
		"0123456789abcdef",
		"mississippi",
		"日本語のテキスト",
	}

	for _, in := range inputs {
		h, err := Compute(in)
		require.NoError(t, err)

		freq, _ := Frequencies(in)
		upper := math.Log2(float64(len(freq)))
		assert.GreaterOrEqual(t, h, 0.0, "input %q", in)
		assert.LessOrEqual(t, h, upper+1e-12, "input %q", in)
	}
}

func TestCompute_OrderIndependent(t *testing.T) {
	const word = "mississippi"
	base, err := Compute(word)
	require.NoError(t, err)

	runes := []rune(word)
	reversed := make([]rune, len(runes))
	for i, r := range runes {
		reversed[len(runes)-1-i] = r
	}
	perms := []string{string(reversed)}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]rune(nil), runes...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		perms = append(perms, string(shuffled))
	}

	wantFreq, _ := Frequencies(word)
	for _, perm := range perms {
		gotFreq, _ := Frequencies(perm)
		require.Equal(t, wantFreq, gotFreq, "%q is not a permutation of %q", perm, word)

		got, err := Compute(perm)
		require.NoError(t, err)
		assert.Equal(t, base, got, "permutation %q", perm)
	}
}

func TestCompute_CountsRunesNotBytes(t *testing.T) {
	// "éé" is four bytes but a single repeated character.
	got, err := Compute("éé")
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	got, err = Compute("éa")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-12)
}

func TestFrequencies(t *testing.T) {
	freq, n := Frequencies("banana")
	assert.Equal(t, 6, n)
	if diff := cmp.Diff(map[rune]int{'b': 1, 'a': 3, 'n': 2}, freq); diff != "" {
		t.Errorf("frequency table mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyze(t *testing.T) {
	a, err := Analyze("banana")
	require.NoError(t, err)

	assert.Equal(t, 6, a.Length)
	assert.Equal(t, 3, a.Distinct)
	assert.InDelta(t, math.Log2(3), a.MaxEntropy, 1e-12)

	h, err := Compute("banana")
	require.NoError(t, err)
	assert.Equal(t, h, a.Entropy)
	assert.InDelta(t, h/math.Log2(3), a.Normalized, 1e-12)

	gotChars := make([]rune, len(a.Symbols))
	for i, s := range a.Symbols {
		gotChars[i] = s.Char
	}
	if diff := cmp.Diff([]rune{'a', 'n', 'b'}, gotChars); diff != "" {
		t.Errorf("symbol order mismatch (-want +got):\n%s", diff)
	}

	var sum, contrib float64
	for _, s := range a.Symbols {
		sum += s.Probability
		contrib += s.Contribution
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.InDelta(t, a.Entropy, contrib, 1e-12)
}

func TestAnalyze_TiesOrderedByCodePoint(t *testing.T) {
	a, err := Analyze("cba")
	require.NoError(t, err)
	require.Len(t, a.Symbols, 3)
	assert.Equal(t, 'a', a.Symbols[0].Char)
	assert.Equal(t, 'b', a.Symbols[1].Char)
	assert.Equal(t, 'c', a.Symbols[2].Char)
	assert.InDelta(t, 1.0, a.Normalized, 1e-12)
}

func TestAnalyze_SingleSymbol(t *testing.T) {
	a, err := Analyze("qqq")
	require.NoError(t, err)
	assert.Equal(t, 0.0, a.Entropy)
	assert.Equal(t, 0.0, a.MaxEntropy)
	assert.Equal(t, 0.0, a.Normalized)
}

func TestAnalyze_EmptyInput(t *testing.T) {
	a, err := Analyze("")
	assert.Nil(t, a)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
