package adapter

import (
	"fmt"

	"github.com/akolanti/studyrag/internal/api"
	"github.com/akolanti/studyrag/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id), //pass "status/job.Id"
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status: string(job.Status),
		Step:   string(job.CurrentStep),
		Ingest: ToIngestSummary(job.JobPayload),
	}

	return api.JobResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToIngestSummary(payload jobModel.JobPayload) *api.IngestSummary {
	if payload.ClassroomId == "" && payload.DocumentId == "" {
		return nil
	}
	return &api.IngestSummary{
		ClassroomId:    payload.ClassroomId,
		DocumentId:     payload.DocumentId,
		ChunkCount:     payload.ChunkCount,
		FlashcardCount: payload.FlashcardCount,
		ContentCreated: payload.ContentCreated,
	}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id: id,
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
