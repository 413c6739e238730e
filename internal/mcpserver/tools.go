package mcpserver

import (
	"context"
	"errors"

	"github.com/akolanti/studyrag/internal/domain/ragErrors"
	"github.com/akolanti/studyrag/internal/rag"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ContentInput struct {
	ClassroomId string `json:"classroom_id" jsonschema:"classroom that owns the document"`
	DocumentId  string `json:"document_id" jsonschema:"document to search"`
	Query       string `json:"query" jsonschema:"question or phrase to look up"`
	TopK        int    `json:"top_k,omitempty" jsonschema:"number of passages to return (default 4)"`
	Username    string `json:"username,omitempty" jsonschema:"who is asking, recorded in the classroom audit log"`
}

type ContentOutput struct {
	Results []ContentResultOutput `json:"results"`
	Count   int                   `json:"count"`
}

type ContentResultOutput struct {
	Text  string  `json:"text"`
	Score float32 `json:"score"`
}

type FlashcardInput struct {
	ClassroomId string `json:"classroom_id" jsonschema:"classroom that owns the document"`
	DocumentId  string `json:"document_id" jsonschema:"document whose flashcards to search"`
	Topic       string `json:"topic" jsonschema:"study topic, broad topics return more cards"`
	MaxResults  int    `json:"max_results,omitempty" jsonschema:"upper bound on returned cards (default 25)"`
	Username    string `json:"username,omitempty" jsonschema:"who is asking, recorded in the classroom audit log"`
}

type FlashcardOutput struct {
	Flashcards []FlashcardResultOutput `json:"flashcards"`
	Count      int                     `json:"count"`
	Ready      bool                    `json:"ready"`
}

type FlashcardResultOutput struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Score    float32 `json:"score"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query_content",
		Description: "Find the passages of an ingested course document closest to a query",
	}, s.handleQueryContent)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query_flashcards",
		Description: "Find study flashcards generated from a course document for a topic",
	}, s.handleQueryFlashcards)
}

func (s *Server) handleQueryContent(ctx context.Context, _ *mcp.CallToolRequest, input ContentInput) (*mcp.CallToolResult, ContentOutput, error) {
	if input.ClassroomId == "" || input.DocumentId == "" || input.Query == "" {
		return nil, ContentOutput{}, errors.New("classroom_id, document_id and query are required")
	}
	results, err := s.ragService.QueryContent(ctx, rag.ContentQuery{
		ClassroomId: input.ClassroomId,
		DocumentId:  input.DocumentId,
		Username:    input.Username,
		QueryText:   input.Query,
		TopK:        input.TopK,
	})
	if err != nil {
		s.logger.WithTrace(ctx).Error("query_content failed", "error", err)
		return nil, ContentOutput{}, err
	}

	output := ContentOutput{Results: make([]ContentResultOutput, len(results)), Count: len(results)}
	for i, r := range results {
		output.Results[i] = ContentResultOutput{Text: r.Text, Score: r.Score}
	}
	return nil, output, nil
}

// handleQueryFlashcards reports a document without flashcards as ready=false rather than as a tool error.
func (s *Server) handleQueryFlashcards(ctx context.Context, _ *mcp.CallToolRequest, input FlashcardInput) (*mcp.CallToolResult, FlashcardOutput, error) {
	if input.ClassroomId == "" || input.DocumentId == "" || input.Topic == "" {
		return nil, FlashcardOutput{}, errors.New("classroom_id, document_id and topic are required")
	}
	results, err := s.ragService.QueryFlashcards(ctx, rag.FlashcardQuery{
		ClassroomId: input.ClassroomId,
		DocumentId:  input.DocumentId,
		Username:    input.Username,
		Topic:       input.Topic,
		MaxResults:  input.MaxResults,
	})
	if ragErrors.IsNotReady(err) {
		return nil, FlashcardOutput{Flashcards: []FlashcardResultOutput{}}, nil
	}
	if err != nil {
		s.logger.WithTrace(ctx).Error("query_flashcards failed", "error", err)
		return nil, FlashcardOutput{}, err
	}

	output := FlashcardOutput{Flashcards: make([]FlashcardResultOutput, len(results)), Count: len(results), Ready: true}
	for i, r := range results {
		output.Flashcards[i] = FlashcardResultOutput{Question: r.Question, Answer: r.Answer, Score: r.Score}
	}
	return nil, output, nil
}
