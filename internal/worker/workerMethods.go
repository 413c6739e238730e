package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/studyrag/internal/config"
	jobmodel "github.com/akolanti/studyrag/internal/domain/jobModel"
	"github.com/akolanti/studyrag/internal/metrics"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, jobTimeout)
	defer cancel()
	log := logger.WithTrace(ctx)
	log.Debug("Processing job", "jobId", job.Id, "type", job.JobType)

	job = saveJobState(ctx, job, jobmodel.JobStatusRunning)

	switch job.JobType {
	case jobmodel.JobTypeIngest:
		job = _ragService.IngestDocument(ctx, job)
	default:
		log.Error("Unknown job type", "jobId", job.Id, "type", job.JobType)
		job.Status = jobmodel.JobStatusError
		job.CurrentStep = jobmodel.Error
		job.Error = jobmodel.JobError{Code: 400, Message: "unknown job type"}
	}

	job.EndTime = time.Now()
	if job.Status != jobmodel.JobStatusError {
		job.Status = jobmodel.JobStatusComplete
	}
	saveJobState(ctx, job, job.Status)
	log.Info("Job finished", "jobId", job.Id, "status", job.Status, "step", job.CurrentStep)
}

func removeWorker(reason string) {
	retireWorker(reason, atomic.AddInt64(&currentWorkerCount, -1))
}

// retireWorker runs after the worker count was already decremented.
func retireWorker(reason string, count int64) {
	workerWaitGroup.Done()
	logger.Info("Removed worker", "reason", reason, "workerCount", count)
	metrics.DecrementActiveWorkerCount()
}

// saveJobState persists with a context that outlives the job timeout so a timed out job
// can still record its final state.
func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus) jobmodel.Job {
	job.Status = jobStatus
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := _jobService.JobStore.SaveJob(saveCtx, job); err != nil {
		logger.WithTrace(ctx).Error("Failed to update job status", "jobId", job.Id, "err", err)
	}
	return job
}
