package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/akolanti/studyrag/internal/domain/commonModels"
	"github.com/akolanti/studyrag/internal/domain/ragErrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockEmbedder struct {
	batchFunc func(ctx context.Context, chunks []string) ([][]float32, error)
}

func (m *mockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return nil, nil
}
func (m *mockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	return m.batchFunc(ctx, chunks)
}

func TestGetDocType(t *testing.T) {
	tests := []struct {
		path     string
		expected commonModels.DocType
	}{
		{"test.pdf", commonModels.PDF},
		{"DOC.DOCX", commonModels.DOCX},
		{"notes.txt", commonModels.TXT},
		{"readme.md", commonModels.TXT},
		{"image.png", commonModels.ERR},
	}

	for _, tt := range tests {
		if got := GetDocType(tt.path); got != tt.expected {
			t.Errorf("GetDocType(%s) = %v; want %v", tt.path, got, tt.expected)
		}
	}
}

func TestExtractText_Unsupported(t *testing.T) {
	_, err := ExtractText("diagram.png")
	if !errors.Is(err, ragErrors.ErrParse) {
		t.Errorf("expected ParseError, got %v", err)
	}
}

func sentences(n int) string {
	s := make([]string, n)
	for i := range s {
		s[i] = fmt.Sprintf("Sentence %02d %s.", i, strings.Repeat("x", 36))
	}
	return strings.Join(s, " ")
}

func TestChunker_ShortSectionVerbatim(t *testing.T) {
	c := DefaultChunker()
	chunks := c.Split([]string{"A short section.", "Another one."})
	assert.Equal(t, []string{"A short section.", "Another one."}, chunks)
}

func TestChunker_SnapsToSentenceBoundary(t *testing.T) {
	section := sentences(14) // 699 runes, periods at 48, 98, ...
	chunks := DefaultChunker().Split([]string{section})

	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 499, "first chunk ends just after the last period past 70%")
	assert.True(t, strings.HasSuffix(chunks[0], "."))
	assert.True(t, strings.HasSuffix(section, chunks[1]))
}

func TestChunker_NoSentenceBoundary(t *testing.T) {
	section := strings.Repeat("a", 1200)
	chunks := NewChunker(512, 50).Split([]string{section})

	// windows start at 0, 462, 924
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 512)
	assert.Len(t, chunks[1], 512)
	assert.Len(t, chunks[2], 276)
}

func TestChunker_EarlyPeriodIgnored(t *testing.T) {
	// the only period sits before 70% of the window, so the cut is forced at the window edge
	section := "Intro. " + strings.Repeat("b", 700)
	chunks := NewChunker(512, 50).Split([]string{section})
	require.NotEmpty(t, chunks)
	assert.Len(t, chunks[0], 512)
}

// coverage: removing each chunk's overlap with its predecessor rebuilds the section.
func TestChunker_CoverageAndOverlapBound(t *testing.T) {
	inputs := []string{
		sentences(14),
		sentences(40),
		strings.Repeat("word ", 400),
		"Short. " + strings.Repeat("Medium sentence here. ", 60),
		strings.Repeat("é", 1500),
	}
	c := NewChunker(512, 50)

	for i, section := range inputs {
		t.Run(fmt.Sprintf("input_%d", i), func(t *testing.T) {
			normalized := strings.TrimSpace(section)
			raw := c.splitSection(normalized)
			require.NotEmpty(t, raw)

			rebuilt := raw[0]
			for j := 1; j < len(raw); j++ {
				overlap := longestSuffixPrefix(raw[j-1], raw[j], c.Overlap)
				assert.GreaterOrEqual(t, overlap, 0)
				assert.LessOrEqual(t, overlap, c.Overlap)
				rebuilt += string([]rune(raw[j])[overlap:])
			}
			assert.Equal(t, normalized, rebuilt)

			for _, chunk := range raw {
				assert.LessOrEqual(t, len([]rune(chunk)), c.Size)
			}
		})
	}
}

// longestSuffixPrefix finds how far b restarts inside the tail of a, bounded by limit.
func longestSuffixPrefix(a, b string, limit int) int {
	ar, br := []rune(a), []rune(b)
	for n := min(limit, len(ar), len(br)); n > 0; n-- {
		if string(ar[len(ar)-n:]) == string(br[:n]) {
			return n
		}
	}
	return 0
}

func TestChunker_Idempotent(t *testing.T) {
	sections := []string{sentences(30), "tail section", strings.Repeat("z", 900)}
	c := DefaultChunker()
	assert.Equal(t, c.Split(sections), c.Split(sections))
}

func TestNewChunker_Defaults(t *testing.T) {
	assert.Equal(t, Chunker{Size: 512, Overlap: 0}, NewChunker(0, 600))
	assert.Equal(t, Chunker{Size: 100, Overlap: 0}, NewChunker(100, -1))
}

func TestPrepareChunks(t *testing.T) {
	chunks := PrepareChunks([]string{"one", "two"})
	require.Len(t, chunks, 2)
	assert.Equal(t, 0, chunks[0].Position)
	assert.Equal(t, 1, chunks[1].Position)
	assert.NotEmpty(t, chunks[0].ChunkId)
	assert.NotEqual(t, chunks[0].ChunkId, chunks[1].ChunkId)
}

func TestIndexChunks_Batches(t *testing.T) {
	chunks := make([]commonModels.DocChunk, 150) // two batches: 100 + 50
	for i := range chunks {
		chunks[i] = commonModels.DocChunk{Chunk: fmt.Sprintf("chunk %d", i)}
	}

	var calls int
	emb := &mockEmbedder{
		batchFunc: func(ctx context.Context, ch []string) ([][]float32, error) {
			calls++
			out := make([][]float32, len(ch))
			for i, text := range ch {
				var n int
				fmt.Sscanf(text, "chunk %d", &n)
				out[i] = []float32{float32(n), 0}
			}
			return out, nil
		},
	}

	vectors, err := IndexChunks(context.Background(), emb, chunks)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, vectors, 150)
	for i, v := range vectors {
		assert.Equal(t, float32(i), v[0], "vector %d is out of order", i)
	}
}

func TestIndexChunks_Errors(t *testing.T) {
	tests := []struct {
		name  string
		batch func(ctx context.Context, ch []string) ([][]float32, error)
	}{
		{"service error", func(ctx context.Context, ch []string) ([][]float32, error) {
			return nil, errors.New("quota")
		}},
		{"count mismatch", func(ctx context.Context, ch []string) ([][]float32, error) {
			return make([][]float32, len(ch)-1), nil
		}},
		{"mixed dimensions", func(ctx context.Context, ch []string) ([][]float32, error) {
			return [][]float32{{1, 2}, {1, 2, 3}}, nil
		}},
		{"empty vector", func(ctx context.Context, ch []string) ([][]float32, error) {
			return [][]float32{{}, {}}, nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := IndexChunks(context.Background(), &mockEmbedder{batchFunc: tt.batch},
				[]commonModels.DocChunk{{Chunk: "a"}, {Chunk: "b"}})
			assert.ErrorIs(t, err, ragErrors.ErrEmbeddingService)
		})
	}
}
