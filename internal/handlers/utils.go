package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/akolanti/studyrag/internal/adapter"
	"github.com/akolanti/studyrag/internal/adapter/utils"
	"github.com/akolanti/studyrag/internal/config"
	"github.com/akolanti/studyrag/internal/domain/jobModel"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response", "err", err)
	}
}

func validateId(id string, traceId string) (result jobModel.Job, isFound bool) {
	if id == "" {
		logRH.Warn("Empty Job ID")
		return jobModel.Job{}, false
	}
	return GetJobStatus(id, traceId)
}

func traceId(ctx context.Context) string {
	trace, _ := ctx.Value(config.TRACE_ID_KEY).(string)
	return trace
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.WithTrace(ctx).Warn("context error", "err", ctx.Err())
		return false
	}
	return handlerInstance != nil
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

func getTargetDirectory(dir string) (string, string) {
	if dir == "" {
		dir = config.UploadDirName
	}
	if !filepath.IsAbs(dir) {
		root, err := os.Getwd()
		if err != nil {
			return "", "Storage Error"
		}
		dir = filepath.Join(root, dir)
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", "Storage Error"
	}
	return dir, ""
}

func processNewJobData(request *http.Request, w http.ResponseWriter, upload uploadData) {
	newJob := newJobData{
		id:             utils.GetNewUUID(),
		traceId:        traceId(request.Context()),
		classroomId:    upload.classroomId,
		documentId:     upload.documentId,
		username:       upload.username,
		documentName:   upload.documentName,
		documentSource: upload.path,
	}
	CreateNewJob(newJob)
	res := adapter.ToInitJobResponse(newJob.id)
	writeJsonResponse(w, http.StatusAccepted, res)
}
