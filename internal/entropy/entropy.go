// Package entropy computes the Shannon entropy of a string over its characters.
// Characters are Unicode code points; the logarithm is base 2, so results are in bits.
package entropy

import (
	"errors"
	"math"
	"sort"
)

// ErrInvalidInput is matched by every InvalidInputError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError reports input that has no defined entropy.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// Is lets errors.Is(err, ErrInvalidInput) match any InvalidInputError.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func emptyInput() error {
	return &InvalidInputError{Reason: "input is empty"}
}

// Frequencies returns the symbol frequency table of input and its length in characters.
func Frequencies(input string) (map[rune]int, int) {
	freq := make(map[rune]int)
	n := 0
	for _, r := range input {
		freq[r]++
		n++
	}
	return freq, n
}

// Compute returns H = -sum p(c) * log2(p(c)) over the distinct characters of input.
// Empty input fails with an InvalidInputError.
func Compute(input string) (float64, error) {
	if len(input) == 0 {
		return 0, emptyInput()
	}

	freq, n := Frequencies(input)
	return fromCounts(freq, n), nil
}

// fromCounts sums in code point order so repeated runs round identically.
func fromCounts(freq map[rune]int, n int) float64 {
	chars := make([]rune, 0, len(freq))
	for char := range freq {
		chars = append(chars, char)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })

	total := float64(n)
	h := 0.0
	for _, char := range chars {
		h += contribution(float64(freq[char]) / total)
	}
	return h
}

func contribution(p float64) float64 {
	return -p * math.Log2(p)
}

// Symbol is one row of the frequency table.
type Symbol struct {
	Char         rune
	Count        int
	Probability  float64
	Contribution float64 // -p*log2(p), in bits
}

// Analysis is the full breakdown behind an entropy value.
type Analysis struct {
	Length     int
	Distinct   int
	Entropy    float64
	MaxEntropy float64 // log2(Distinct)
	Normalized float64 // Entropy / MaxEntropy, 0 for a single symbol
	Symbols    []Symbol
}

// Analyze computes the entropy of input together with its per-symbol breakdown.
// Symbols are ordered by count (descending) and then by code point.
func Analyze(input string) (*Analysis, error) {
	if len(input) == 0 {
		return nil, emptyInput()
	}

	freq, n := Frequencies(input)
	a := &Analysis{
		Length:   n,
		Distinct: len(freq),
		Entropy:  fromCounts(freq, n),
		Symbols:  make([]Symbol, 0, len(freq)),
	}

	for char, count := range freq {
		p := float64(count) / float64(n)
		a.Symbols = append(a.Symbols, Symbol{
			Char:         char,
			Count:        count,
			Probability:  p,
			Contribution: contribution(p),
		})
	}
	sort.Slice(a.Symbols, func(i, j int) bool {
		if a.Symbols[i].Count != a.Symbols[j].Count {
			return a.Symbols[i].Count > a.Symbols[j].Count
		}
		return a.Symbols[i].Char < a.Symbols[j].Char
	})

	a.MaxEntropy = math.Log2(float64(a.Distinct))
	if a.MaxEntropy > 0 {
		a.Normalized = a.Entropy / a.MaxEntropy
	}
	return a, nil
}
