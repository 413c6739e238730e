package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type Result struct {
	Status string         `json:"status"`
	Step   string         `json:"step,omitempty" example:"FlashcardSynthesis"`
	Ingest *IngestSummary `json:"ingest,omitempty"`
}

// IngestSummary describes what an ingest job stored for one document.
type IngestSummary struct {
	ClassroomId    string `json:"classroom_id" example:"bio-101"`
	DocumentId     string `json:"document_id" example:"cell-division"`
	ChunkCount     int    `json:"chunk_count" example:"42"`
	FlashcardCount int    `json:"flashcard_count" example:"37"`
	ContentCreated bool   `json:"content_created" example:"true"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type ContentMatch struct {
	Text  string  `json:"text"`
	Score float32 `json:"score" example:"0.42"`
}

type ContentQueryResponse struct {
	ClassroomId string         `json:"classroom_id"`
	DocumentId  string         `json:"document_id"`
	Results     []ContentMatch `json:"results"`
}

type FlashcardMatch struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Score    float32 `json:"score"`
}

type FlashcardQueryResponse struct {
	ClassroomId string           `json:"classroom_id"`
	DocumentId  string           `json:"document_id"`
	Flashcards  []FlashcardMatch `json:"flashcards"`
}

// requests---------------------

type ContentQueryRequest struct {
	Query    string `json:"query" validate:"required" example:"what happens during metaphase"`
	TopK     int    `json:"top_k,omitempty" example:"4"`
	Username string `json:"username,omitempty" example:"alice"`
}

type FlashcardQueryRequest struct {
	Topic      string `json:"topic" validate:"required" example:"mitosis"`
	MaxResults int    `json:"max_results,omitempty" example:"25"`
	Username   string `json:"username,omitempty" example:"alice"`
}

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}
