// Package segment turns extracted document text into ordered logical sections.
//
// The text is first tokenized into a sequence of Text tokens and structural markers
// (ParagraphBreak, SentenceEnd, ListItem, Bullet, Header). Sections are then assembled by
// splitting on the section-level markers; SentenceEnd markers only fold back into a single space.
package segment

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/akolanti/studyrag/internal/domain/ragErrors"
)

type TokenKind int

const (
	Text TokenKind = iota
	ParagraphBreak
	SentenceEnd
	ListItem
	Bullet
	Header
)

func (k TokenKind) String() string {
	switch k {
	case Text:
		return "Text"
	case ParagraphBreak:
		return "ParagraphBreak"
	case SentenceEnd:
		return "SentenceEnd"
	case ListItem:
		return "ListItem"
	case Bullet:
		return "Bullet"
	case Header:
		return "Header"
	}
	return "Unknown"
}

// splitsSection reports whether the marker starts a new section.
func (k TokenKind) splitsSection() bool {
	return k == ParagraphBreak || k == ListItem || k == Bullet || k == Header
}

type Token struct {
	Kind TokenKind
	Text string
}

var (
	numberedItem = regexp.MustCompile(`^\s*\d+\.\s+`)
	bulletItem   = regexp.MustCompile(`^\s*[-*•▪◦‣]\s+`)
	headerLine   = regexp.MustCompile(`^\s*[A-Z][A-Za-z0-9 ,'()&/\-]{0,80}:\s*$`)
	sentenceStop = regexp.MustCompile(`[.!?]["')\]]?\s+`)
	whitespace   = regexp.MustCompile(`\s+`)
)

var errEmpty = errors.New("document has no extractable text")

// Tokenize produces the marker sequence for raw text. It never fails; validation happens in Sections.
func Tokenize(raw string) []Token {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var tokens []Token
	blank := false
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			if !blank && len(tokens) > 0 {
				tokens = append(tokens, Token{Kind: ParagraphBreak})
			}
			blank = true
			continue
		}
		blank = false

		switch {
		case numberedItem.MatchString(line):
			tokens = append(tokens, Token{Kind: ListItem})
		case bulletItem.MatchString(line):
			tokens = append(tokens, Token{Kind: Bullet})
			line = bulletItem.ReplaceAllString(line, "")
		case headerLine.MatchString(line):
			tokens = append(tokens, Token{Kind: Header})
		}
		tokens = append(tokens, sentenceTokens(line)...)
	}
	return tokens
}

// sentenceTokens splits one line on sentence-final punctuation followed by whitespace.
func sentenceTokens(line string) []Token {
	var tokens []Token
	last := 0
	for _, loc := range sentenceStop.FindAllStringIndex(line, -1) {
		// keep the punctuation (and closing quote) with the sentence
		end := loc[0] + 1
		if loc[1]-loc[0] > 1 && strings.ContainsAny(line[loc[0]+1:loc[0]+2], `"')]`) {
			end++
		}
		tokens = append(tokens, Token{Kind: Text, Text: line[last:end]}, Token{Kind: SentenceEnd})
		last = loc[1]
	}
	if last < len(line) {
		tokens = append(tokens, Token{Kind: Text, Text: line[last:]})
	}
	// a line break inside a paragraph reads as a space
	tokens = append(tokens, Token{Kind: SentenceEnd})
	return tokens
}

// Assemble folds a token sequence into sections.
func Assemble(tokens []Token) []string {
	var sections []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(whitespace.ReplaceAllString(current.String(), " "))
		if s != "" {
			sections = append(sections, s)
		}
		current.Reset()
	}

	for _, t := range tokens {
		switch {
		case t.Kind == Text:
			current.WriteString(t.Text)
		case t.Kind == SentenceEnd:
			current.WriteByte(' ')
		case t.Kind.splitsSection():
			flush()
		}
	}
	flush()
	return sections
}

// Sections is the segmenter entry point. It is a pure function of its input.
func Sections(raw string) ([]string, error) {
	if !utf8.ValidString(raw) {
		return nil, ragErrors.New(ragErrors.KindParse, "segment", errors.New("text is not valid UTF-8"))
	}
	sections := Assemble(Tokenize(raw))
	if len(sections) == 0 {
		return nil, ragErrors.New(ragErrors.KindParse, "segment", errEmpty)
	}
	return sections, nil
}
