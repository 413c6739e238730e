package jobModel

import (
	"context"
	"time"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	IngestInit         InternalStatus = "IngestInit"
	ExtractionCall     InternalStatus = "Extraction"
	SegmentationCall   InternalStatus = "Segmentation"
	ChunkingCall       InternalStatus = "Chunking"
	EmbeddingAPICall   InternalStatus = "EmbeddingAPI"
	VectorDBCall       InternalStatus = "VectorDB"
	FlashcardSynthesis InternalStatus = "FlashcardSynthesis"
	Error              InternalStatus = "Error"
	Complete           InternalStatus = "Complete"

	JobTypeIngest JobType = "Ingest"
)

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	ClassroomId    string `json:"classroom_id"`
	DocumentId     string `json:"document_id"`
	Username       string `json:"username,omitempty"`
	IngestFileName string `json:"ingest_file_name,omitempty"`
	IngestURL      string `json:"ingest_url,omitempty"`

	ChunkCount     int  `json:"chunk_count,omitempty"`
	FlashcardCount int  `json:"flashcard_count,omitempty"`
	ContentCreated bool `json:"content_created,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
