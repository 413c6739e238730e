package commonModels

import (
	"context"
	"fmt"
	"time"
)

// Document is immutable once ingested; re-ingesting creates a new partition.
type Document struct {
	ClassroomId         string    `json:"classroom_id"`
	Id                  string    `json:"document_id"`
	Name                string    `json:"doc_name"`
	LastIngestTimestamp time.Time `json:"ingested_at"`
	ContentType         DocType   `json:"contentType"`
}

type DocChunk struct {
	ChunkId  string `json:"chunk_id"`
	Chunk    string `json:"content"`
	Position int    `json:"position"`
}

type Flashcard struct {
	Id       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ContentResult is a ranked content match. Lower score is closer.
type ContentResult struct {
	Text  string  `json:"text"`
	Score float32 `json:"score"`
}

type FlashcardResult struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Score    float32 `json:"score"`
}

type QueryLogEntry struct {
	Timestamp  time.Time
	Username   string
	DocumentId string
	QueryText  string
}

// Line renders the entry as `timestamp | username | documentId | queryText`.
func (e QueryLogEntry) Line() string {
	return fmt.Sprintf("%s | %s | %s | %s", e.Timestamp.UTC().Format(time.RFC3339), e.Username, e.DocumentId, e.QueryText)
}

type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var TXT DocType = "TXT"
var ERR DocType = "ERROR"

// QueryAuditLog records retrieval queries. Append failures must never fail the query.
type QueryAuditLog interface {
	Append(ctx context.Context, classroomId string, entry QueryLogEntry) error
}
