package ingest

import (
	"strings"

	"github.com/akolanti/studyrag/internal/adapter/utils"
	"github.com/akolanti/studyrag/internal/config"
	"github.com/akolanti/studyrag/internal/domain/commonModels"
)

// Chunker splits sections into bounded, overlapping chunks. Sizes are in characters (runes).
type Chunker struct {
	Size    int
	Overlap int
}

func NewChunker(size, overlap int) Chunker {
	if size <= 0 {
		size = config.DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	return Chunker{Size: size, Overlap: overlap}
}

func DefaultChunker() Chunker {
	return NewChunker(config.DefaultChunkSize, config.DefaultChunkOverlap)
}

// Split chunks every section in order. Sections that fit become one chunk verbatim.
func (c Chunker) Split(sections []string) []string {
	var chunks []string
	for _, section := range sections {
		for _, chunk := range c.splitSection(section) {
			if chunk = strings.TrimSpace(chunk); chunk != "" {
				chunks = append(chunks, chunk)
			}
		}
	}
	return chunks
}

func (c Chunker) splitSection(section string) []string {
	text := []rune(section)
	if len(text) <= c.Size {
		return []string{section}
	}

	snapAfter := int(float64(c.Size) * config.SentenceSnapRatio)
	var chunks []string
	start := 0
	for start < len(text) {
		end := start + c.Size
		if end >= len(text) {
			chunks = append(chunks, string(text[start:]))
			break
		}

		// snap to the last sentence end in the window when it is far enough in
		if dot := lastPeriod(text[start:end]); dot > snapAfter {
			end = start + dot + 1
		}
		chunks = append(chunks, string(text[start:end]))

		// overlap is measured back from the boundary that actually ended this chunk; stepping from
		// start+Size would drop the text after a snapped end
		next := end - c.Overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

func lastPeriod(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if window[i] == '.' {
			return i
		}
	}
	return -1
}

// PrepareChunks assigns ids and positions to chunk texts.
func PrepareChunks(texts []string) []commonModels.DocChunk {
	chunks := make([]commonModels.DocChunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, commonModels.DocChunk{
			ChunkId:  utils.GetNewUUID(),
			Chunk:    text,
			Position: i,
		})
	}
	return chunks
}
