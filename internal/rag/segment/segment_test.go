package segment

import (
	"errors"
	"testing"

	"github.com/akolanti/studyrag/internal/domain/ragErrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestTokenize_Markers(t *testing.T) {
	tokens := Tokenize("Cells divide. They grow!\n\n- one")
	assert.Equal(t, []TokenKind{
		Text, SentenceEnd, Text, SentenceEnd,
		ParagraphBreak,
		Bullet, Text, SentenceEnd,
	}, kinds(tokens))
	assert.Equal(t, "Cells divide.", tokens[0].Text)
	assert.Equal(t, "They grow!", tokens[2].Text)
	assert.Equal(t, "one", tokens[6].Text, "bullet glyph is stripped")
}

func TestTokenize_LeadingBlankLines(t *testing.T) {
	tokens := Tokenize("\n\n\nHello")
	assert.Equal(t, []TokenKind{Text, SentenceEnd}, kinds(tokens))
}

func TestSections(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "paragraphs",
			raw:      "First paragraph.\nStill first.\n\nSecond paragraph.",
			expected: []string{"First paragraph. Still first.", "Second paragraph."},
		},
		{
			name:     "header keeps its body",
			raw:      "Mitosis:\nCells divide. They grow!",
			expected: []string{"Mitosis: Cells divide. They grow!"},
		},
		{
			name:     "numbered and bulleted items",
			raw:      "Steps\n1. Prophase begins\n2. Metaphase follows\n* spindle forms\n• chromosomes align",
			expected: []string{"Steps", "1. Prophase begins", "2. Metaphase follows", "spindle forms", "chromosomes align"},
		},
		{
			name:     "windows line endings",
			raw:      "One.\r\n\r\nTwo.\rThree.",
			expected: []string{"One.", "Two. Three."},
		},
		{
			name:     "whitespace collapsed",
			raw:      "  lots    of\t\tspace  ",
			expected: []string{"lots of space"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sections(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSections_ParseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", " \n\n\t \r\n"},
		{"invalid utf8", "valid start \xff\xfe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Sections(tt.raw)
			if !errors.Is(err, ragErrors.ErrParse) {
				t.Errorf("expected ParseError, got %v", err)
			}
		})
	}
}

func TestSections_Pure(t *testing.T) {
	raw := "Intro:\nA. B? C!\n\n- x\n- y\n\n3. z"
	first, err := Sections(raw)
	require.NoError(t, err)
	second, err := Sections(raw)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
