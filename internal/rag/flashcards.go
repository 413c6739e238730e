package rag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/studyrag/internal/adapter/utils"
	"github.com/akolanti/studyrag/internal/config"
	"github.com/akolanti/studyrag/internal/domain/commonModels"
	"github.com/akolanti/studyrag/internal/domain/ragErrors"
	"github.com/akolanti/studyrag/internal/metrics"
	"github.com/akolanti/studyrag/internal/rag/embedding"
	"github.com/akolanti/studyrag/internal/rag/llm"
	"github.com/akolanti/studyrag/internal/rag/vectorDB"
	"github.com/akolanti/studyrag/pkg/logger_i"
	"golang.org/x/sync/errgroup"
)

const flashcardSystemPrompt = `You write study flashcards for students.
From the study material you are given, write up to %d question and answer pairs covering its key facts and concepts.
Every question must make sense on its own, without the material: never mention "the text", "the section" or "the passage".
Answers are short, factual and complete sentences.
Reply only with the JSON object {"flashcards": [{"question": "...", "answer": "..."}]}.`

// questions that point back at the source document are not self-contained
var documentRelativeTerms = []string{"the text", "section", "passage"}

var flashcardSchema = &llm.StructuredOutput{
	Name: "flashcards",
	Schema: &llm.Schema{
		Type: "object",
		Properties: map[string]*llm.Schema{
			"flashcards": {
				Type:     "array",
				MaxItems: config.FlashcardsPerGroup,
				Items: &llm.Schema{
					Type: "object",
					Properties: map[string]*llm.Schema{
						"question": {Type: "string"},
						"answer":   {Type: "string"},
					},
					Required: []string{"question", "answer"},
				},
			},
		},
		Required: []string{"flashcards"},
	},
}

// GenerationResult is the typed outcome of one group's generation: either Flashcards
// (possibly empty) or a Failure explaining why the reply could not be used.
type GenerationResult struct {
	Flashcards []commonModels.Flashcard
	Failure    error
}

func (r GenerationResult) Ok() bool { return r.Failure == nil }

// ParseGeneration validates a structured reply against the flashcard shape.
func ParseGeneration(raw string) GenerationResult {
	var reply struct {
		Flashcards *[]struct {
			Question *string `json:"question"`
			Answer   *string `json:"answer"`
		} `json:"flashcards"`
	}
	body := stripCodeFence(raw)
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		return GenerationResult{Failure: ragErrors.New(ragErrors.KindMalformedGeneration, "parse flashcards", err)}
	}
	if reply.Flashcards == nil {
		return GenerationResult{Failure: ragErrors.New(ragErrors.KindMalformedGeneration, "parse flashcards", errors.New(`missing "flashcards"`))}
	}

	cards := make([]commonModels.Flashcard, 0, len(*reply.Flashcards))
	for _, c := range *reply.Flashcards {
		if c.Question == nil || c.Answer == nil {
			continue
		}
		cards = append(cards, commonModels.Flashcard{
			Question: strings.TrimSpace(*c.Question),
			Answer:   strings.TrimSpace(*c.Answer),
		})
	}
	if len(cards) > config.FlashcardsPerGroup {
		cards = cards[:config.FlashcardsPerGroup]
	}
	return GenerationResult{Flashcards: cards}
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

// KeepFlashcard reports whether a generated pair is usable: both sides non-empty and the
// question self-contained.
func KeepFlashcard(card commonModels.Flashcard) bool {
	if strings.TrimSpace(card.Question) == "" || strings.TrimSpace(card.Answer) == "" {
		return false
	}
	q := strings.ToLower(card.Question)
	for _, term := range documentRelativeTerms {
		if strings.Contains(q, term) {
			return false
		}
	}
	return true
}

// GroupChunks joins consecutive chunks into groups of size, separated by a blank line.
func GroupChunks(chunks []string, size int) []string {
	if size <= 0 {
		size = config.FlashcardGroupSize
	}
	groups := make([]string, 0, (len(chunks)+size-1)/size)
	for i := 0; i < len(chunks); i += size {
		end := min(i+size, len(chunks))
		groups = append(groups, strings.Join(chunks[i:end], "\n\n"))
	}
	return groups
}

type flashcardSynthesizer struct {
	partitions  *vectorDB.Manager
	llmProvider llm.Provider
	embedder    embedding.Embedder
	batchDelay  time.Duration
	logger      *logger_i.Logger
}

func newFlashcardSynthesizer(partitions *vectorDB.Manager, provider llm.Provider, embedder embedding.Embedder, delay time.Duration) *flashcardSynthesizer {
	if delay == 0 {
		delay = config.FlashcardBatchDelay
	}
	return &flashcardSynthesizer{
		partitions:  partitions,
		llmProvider: provider,
		embedder:    embedder,
		batchDelay:  delay,
		logger:      logger_i.NewLogger("Flashcard Synthesizer"),
	}
}

type embeddedCard struct {
	card   commonModels.Flashcard
	vector []float32
}

// Synthesize generates flashcards for the chunks and stores them as the partition's
// flashcards collection in one write. Only that write can fail the call.
func (f *flashcardSynthesizer) Synthesize(ctx context.Context, chunks []string, p vectorDB.Partition) (int, error) {
	log := f.logger.WithTrace(ctx).With("partition", p.Path())
	groups := GroupChunks(chunks, config.FlashcardGroupSize)
	log.Info("starting flashcard synthesis", "groups", len(groups))

	var all []embeddedCard
	for b := 0; b < len(groups); b += config.FlashcardBatchConcurrency {
		if b > 0 {
			if err := sleepCtx(ctx, f.batchDelay); err != nil {
				return 0, err
			}
		}
		batch := groups[b:min(b+config.FlashcardBatchConcurrency, len(groups))]
		results := make([][]embeddedCard, len(batch))

		var g errgroup.Group
		g.SetLimit(config.FlashcardBatchConcurrency)
		for i, group := range batch {
			g.Go(func() error {
				results[i] = f.processGroup(ctx, log.With("group", b+i), group)
				return nil
			})
		}
		_ = g.Wait()

		for _, r := range results {
			all = append(all, r...)
		}
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(all) == 0 {
		log.Warn("no flashcards survived generation, nothing stored")
		return 0, nil
	}
	return f.store(ctx, p, all)
}

// processGroup never fails: every problem skips the group.
func (f *flashcardSynthesizer) processGroup(ctx context.Context, log *logger_i.Logger, group string) []embeddedCard {
	raw, err := f.llmProvider.Complete(ctx,
		fmt.Sprintf(flashcardSystemPrompt, config.FlashcardsPerGroup),
		group,
		llm.CompletionOptions{
			Temperature: llm.WithTemperature(config.FlashcardTemperature),
			Structured:  flashcardSchema,
		})
	if err != nil {
		log.Warn("flashcard generation failed, skipping group", "error", err)
		metrics.IncrementGroupsSkipped("completion")
		return nil
	}

	result := ParseGeneration(raw)
	if !result.Ok() {
		log.Warn("malformed flashcard reply, skipping group", "error", result.Failure)
		metrics.IncrementGroupsSkipped("malformed")
		return nil
	}

	kept := make([]commonModels.Flashcard, 0, len(result.Flashcards))
	questions := make([]string, 0, len(result.Flashcards))
	for _, card := range result.Flashcards {
		if KeepFlashcard(card) {
			kept = append(kept, card)
			questions = append(questions, card.Question)
		}
	}
	if len(kept) == 0 {
		metrics.IncrementGroupsSkipped("filtered")
		return nil
	}

	vectors, err := f.embedder.BatchEmbedding(ctx, questions)
	if err != nil || len(vectors) != len(kept) {
		log.Warn("question embedding failed, skipping group", "error", err)
		metrics.IncrementGroupsSkipped("embedding")
		return nil
	}

	out := make([]embeddedCard, len(kept))
	for i := range kept {
		kept[i].Id = utils.GetNewUUID()
		out[i] = embeddedCard{card: kept[i], vector: vectors[i]}
	}
	return out
}

func (f *flashcardSynthesizer) store(ctx context.Context, p vectorDB.Partition, cards []embeddedCard) (int, error) {
	records := make([]vectorDB.Record, len(cards))
	for i, c := range cards {
		records[i] = vectorDB.Record{
			Id:     c.card.Id,
			Vector: c.vector,
			Payload: map[string]any{
				vectorDB.FieldQuestion: c.card.Question,
				vectorDB.FieldAnswer:   c.card.Answer,
			},
		}
	}

	if _, err := f.partitions.CreateOrOpen(ctx, p, vectorDB.FlashcardCollection, records); err != nil {
		return 0, err
	}
	metrics.AddFlashcardsGenerated(len(records))
	f.logger.WithTrace(ctx).Info("flashcards stored", "partition", p.Path(), "count", len(records))
	return len(records), nil
}
