package adapter

import (
	"github.com/akolanti/studyrag/internal/api"
	"github.com/akolanti/studyrag/internal/domain/commonModels"
	"github.com/akolanti/studyrag/internal/domain/ragErrors"
)

func ToContentQueryResponse(classroomId, documentId string, results []commonModels.ContentResult) api.ContentQueryResponse {
	matches := make([]api.ContentMatch, 0, len(results))
	for _, r := range results {
		matches = append(matches, api.ContentMatch{Text: r.Text, Score: r.Score})
	}
	return api.ContentQueryResponse{ClassroomId: classroomId, DocumentId: documentId, Results: matches}
}

func ToFlashcardQueryResponse(classroomId, documentId string, results []commonModels.FlashcardResult) api.FlashcardQueryResponse {
	cards := make([]api.FlashcardMatch, 0, len(results))
	for _, r := range results {
		cards = append(cards, api.FlashcardMatch{Question: r.Question, Answer: r.Answer, Score: r.Score})
	}
	return api.FlashcardQueryResponse{ClassroomId: classroomId, DocumentId: documentId, Flashcards: cards}
}

// ToQueryError exposes the error kind and retry hint, never the upstream message.
func ToQueryError(id string, err error) api.JobResponse {
	message := "Internal Server Error"
	if kind, ok := ragErrors.KindOf(err); ok {
		message = string(kind)
	}
	res := BadRequest(id, message, ragErrors.HTTPStatus(err))
	res.Error.Retry = ragErrors.Retryable(err)
	return res
}
