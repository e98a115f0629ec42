package ui

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"shannon/internal/entropy"
)

// SymbolLabel renders a character for a table cell. Whitespace and
// non-printable characters are shown quoted so they stay visible.
func SymbolLabel(r rune) string {
	if unicode.IsGraphic(r) && !unicode.IsSpace(r) {
		return string(r)
	}
	return strconv.QuoteRune(r)
}

// RenderAnalysis renders the frequency table and summary for an analysis.
func RenderAnalysis(a *entropy.Analysis, styles Styles) string {
	table := NewSimpleTable("Symbol frequencies", []string{"Symbol", "Count", "Probability", "-p·log2(p)"})
	for _, s := range a.Symbols {
		table.AddRow(
			SymbolLabel(s.Char),
			strconv.Itoa(s.Count),
			strconv.FormatFloat(s.Probability, 'f', 4, 64),
			strconv.FormatFloat(s.Contribution, 'f', 4, 64),
		)
	}

	var sb strings.Builder
	sb.WriteString(table.View(styles))
	sb.WriteString("\n")

	summary := [][2]string{
		{"Length", strconv.Itoa(a.Length)},
		{"Distinct", strconv.Itoa(a.Distinct)},
		{"Entropy", entropy.Format(a.Entropy) + " bits"},
		{"Max entropy", entropy.Format(a.MaxEntropy) + " bits"},
		{"Normalized", fmt.Sprintf("%.4f", a.Normalized)},
	}
	for _, kv := range summary {
		sb.WriteString(styles.Muted.Render(fmt.Sprintf("%-12s", kv[0])))
		sb.WriteString(styles.Value.Render(kv[1]))
		sb.WriteString("\n")
	}
	return sb.String()
}
