package rag

import (
	"context"
	"time"

	"github.com/akolanti/studyrag/internal/domain/commonModels"
	"github.com/akolanti/studyrag/internal/domain/jobModel"
	"github.com/akolanti/studyrag/internal/domain/ragErrors"
	"github.com/akolanti/studyrag/pkg/logger_i"
)

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("IngestDocument", "Current Status", job.CurrentStep)
	return job
}

func (s *service) jobError(ctx context.Context, job jobModel.Job, err error, message string) jobModel.Job {
	s.logger.WithTrace(ctx).Error(message, "JobId", job.Id, "step", job.CurrentStep, "error", err)

	job.Error = jobModel.JobError{
		Code:    ragErrors.HTTPStatus(err),
		Message: errorMessage(err),
		Retry:   ragErrors.Retryable(err),
	}
	job.Status = jobModel.JobStatusError
	job.CurrentStep = jobModel.Error
	return job
}

// errorMessage exposes the error kind but not upstream details.
func errorMessage(err error) string {
	if kind, ok := ragErrors.KindOf(err); ok {
		return string(kind)
	}
	return "Internal Server Error"
}

// audit is best-effort: failures are logged and swallowed.
func (s *service) audit(ctx context.Context, classroomId string, username string, documentId string, text string) {
	if s.auditLog == nil {
		return
	}
	entry := commonModels.QueryLogEntry{
		Timestamp:  time.Now(),
		Username:   username,
		DocumentId: documentId,
		QueryText:  text,
	}
	if err := s.auditLog.Append(ctx, classroomId, entry); err != nil {
		s.logger.WithTrace(ctx).Warn("audit log append failed", "classroomId", classroomId, "error", err)
	}
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
