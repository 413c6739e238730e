package rag_test

import (
	"context"
	"sync"

	"github.com/akolanti/studyrag/internal/domain/commonModels"
	"github.com/akolanti/studyrag/internal/rag/llm"
)

// MockEmbedder implements embedding.Embedder. By default a text embeds to its rune length.
type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)

	mu         sync.Mutex
	BatchCalls int
}

func lengthVector(text string) []float32 {
	return []float32{float32(len([]rune(text))), 1}
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	m.mu.Lock()
	m.BatchCalls++
	m.mu.Unlock()
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks)
	}
	out := make([][]float32, len(chunks))
	for i, c := range chunks {
		out[i] = lengthVector(c)
	}
	return out, nil
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return lengthVector(query), nil
}

// MockLLM implements llm.Provider. Structured calls are flashcard generation, free text
// calls are breadth ratings.
type MockLLM struct {
	OnFlashcards func(ctx context.Context, group string) (string, error)
	OnBreadth    func(ctx context.Context, topic string) (string, error)

	mu               sync.Mutex
	FlashcardCalls   int
	BreadthCalls     int
	LastTemperatures []float32
}

func (m *MockLLM) Complete(ctx context.Context, systemPrompt string, userContent string, opts llm.CompletionOptions) (string, error) {
	m.mu.Lock()
	if opts.Temperature != nil {
		m.LastTemperatures = append(m.LastTemperatures, *opts.Temperature)
	}
	structured := opts.Structured != nil
	if structured {
		m.FlashcardCalls++
	} else {
		m.BreadthCalls++
	}
	m.mu.Unlock()

	if structured {
		if m.OnFlashcards != nil {
			return m.OnFlashcards(ctx, userContent)
		}
		return `{"flashcards":[{"question":"What is a cell?","answer":"The basic unit of life."}]}`, nil
	}
	if m.OnBreadth != nil {
		return m.OnBreadth(ctx, userContent)
	}
	return "0.5", nil
}

// MockAuditLog implements commonModels.QueryAuditLog.
type MockAuditLog struct {
	OnAppend func(ctx context.Context, classroomId string, entry commonModels.QueryLogEntry) error

	mu      sync.Mutex
	Entries []commonModels.QueryLogEntry
}

func (m *MockAuditLog) Append(ctx context.Context, classroomId string, entry commonModels.QueryLogEntry) error {
	m.mu.Lock()
	m.Entries = append(m.Entries, entry)
	m.mu.Unlock()
	if m.OnAppend != nil {
		return m.OnAppend(ctx, classroomId, entry)
	}
	return nil
}

func (m *MockAuditLog) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Entries)
}
