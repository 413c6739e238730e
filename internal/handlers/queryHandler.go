package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/akolanti/studyrag/internal/adapter"
	"github.com/akolanti/studyrag/internal/adapter/utils"
	"github.com/akolanti/studyrag/internal/api"
	"github.com/akolanti/studyrag/internal/config"
	"github.com/akolanti/studyrag/internal/rag"
	"github.com/akolanti/studyrag/pkg/logger_i"
)

var logQH *logger_i.Logger

// queries are answered inline; only ingestion goes through the job queue

// QueryContentHandler godoc
// @Summary      Query document content
// @Description  Returns the content chunks nearest to the query, closest first. A document that is still being processed answers with a single placeholder result.
// @Tags         Retrieval
// @Accept       json
// @Produce      json
// @Param        classroomId  path  string                   true  "Classroom ID"
// @Param        documentId   path  string                   true  "Document ID"
// @Param        request      body  api.ContentQueryRequest  true  "Query text and optional result count"
// @Success      200  {object}  api.ContentQueryResponse
// @Failure      400  {object}  api.JobResponse "Invalid request"
// @Failure      502  {object}  api.JobResponse "Embedding service failure"
// @Failure      503  {object}  api.JobResponse "Vector store unavailable"
// @Router       /classrooms/{classroomId}/documents/{documentId}/query [post]
func QueryContentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logQH.Warn("Invalid Context by request", "remote", r.RemoteAddr)
		return
	}
	classroomId := utils.GetChiURLParam(r, "classroomId")
	documentId := utils.GetChiURLParam(r, "documentId")

	var req api.ContentQueryRequest
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" || req.TopK < 0 {
		logQH.WithTrace(r.Context()).Warn("Bad content query", "err", err)
		WriteErrorResponse(w, http.StatusBadRequest, documentId, "query is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.QueryTimeout)
	defer cancel()
	results, err := handlerInstance.ragService.QueryContent(ctx, rag.ContentQuery{
		ClassroomId: classroomId,
		DocumentId:  documentId,
		Username:    req.Username,
		QueryText:   req.Query,
		TopK:        req.TopK,
	})
	if err != nil {
		logQH.WithTrace(r.Context()).Error("Content query failed", "classroomId", classroomId, "documentId", documentId, "err", err)
		writeQueryError(w, documentId, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToContentQueryResponse(classroomId, documentId, results))
}

// QueryFlashcardsHandler godoc
// @Summary      Query document flashcards
// @Description  Returns the flashcards nearest to the topic. Broad topics return more cards, up to max_results.
// @Tags         Retrieval
// @Accept       json
// @Produce      json
// @Param        classroomId  path  string                     true  "Classroom ID"
// @Param        documentId   path  string                     true  "Document ID"
// @Param        request      body  api.FlashcardQueryRequest  true  "Topic and optional maximum result count"
// @Success      200  {object}  api.FlashcardQueryResponse
// @Failure      400  {object}  api.JobResponse "Invalid request"
// @Failure      404  {object}  api.JobResponse "Flashcards not generated yet"
// @Failure      502  {object}  api.JobResponse "Embedding service failure"
// @Router       /classrooms/{classroomId}/documents/{documentId}/flashcards/query [post]
func QueryFlashcardsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logQH.Warn("Invalid Context by request", "remote", r.RemoteAddr)
		return
	}
	classroomId := utils.GetChiURLParam(r, "classroomId")
	documentId := utils.GetChiURLParam(r, "documentId")

	var req api.FlashcardQueryRequest
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Topic == "" || req.MaxResults < 0 {
		logQH.WithTrace(r.Context()).Warn("Bad flashcard query", "err", err)
		WriteErrorResponse(w, http.StatusBadRequest, documentId, "topic is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.QueryTimeout)
	defer cancel()
	results, err := handlerInstance.ragService.QueryFlashcards(ctx, rag.FlashcardQuery{
		ClassroomId: classroomId,
		DocumentId:  documentId,
		Username:    req.Username,
		Topic:       req.Topic,
		MaxResults:  req.MaxResults,
	})
	if err != nil {
		logQH.WithTrace(r.Context()).Warn("Flashcard query failed", "classroomId", classroomId, "documentId", documentId, "err", err)
		writeQueryError(w, documentId, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToFlashcardQueryResponse(classroomId, documentId, results))
}

func writeQueryError(w http.ResponseWriter, id string, err error) {
	res := adapter.ToQueryError(id, err)
	writeJsonResponse(w, res.Error.Code, res)
}
