package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/studyrag/internal/adapter"
	"github.com/akolanti/studyrag/internal/adapter/utils"
	"github.com/akolanti/studyrag/internal/config"
	"github.com/akolanti/studyrag/internal/domain/commonModels"
	"github.com/akolanti/studyrag/internal/rag/ingest"
	"github.com/akolanti/studyrag/pkg/logger_i"
)

var logRH *logger_i.Logger

type newJobData struct {
	id             string
	traceId        string
	classroomId    string
	documentId     string
	username       string
	documentName   string
	documentSource string
}

type uploadData struct {
	classroomId  string
	documentId   string
	username     string
	documentName string
	path         string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of an ingest job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.JobResponse   "Successful retrieval of job status"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request", "remote", r.RemoteAddr)
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	result, isFound := validateId(idString, traceId(r.Context()))

	logRH.WithTrace(r.Context()).Debug("Get Status Request", "URL path", r.URL.Path)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

// PostIngestHandler handles the uploading of course documents for ingestion.
// @Summary      Upload a document for ingestion
// @Description  Receives a file via multipart/form-data, saves it to a temporary directory, and queues an ingest job for the classroom document.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        classroomId  path      string  true   "Classroom ID"
// @Param        documentId   path      string  true   "Document ID"
// @Param        document     formData  file    true   "The PDF, DOCX, ODT, RTF, TXT or MD file to upload"
// @Param        username     formData  string  false  "Uploader"
// @Success      202  {object}  api.InitJobResponse "Accepted - returns job id and status url"
// @Failure      400  {object}  api.JobResponse "Bad Request - Missing fields or file too large"
// @Failure      422  {object}  api.JobResponse "Unsupported document type"
// @Failure      500  {object}  api.JobResponse "Internal Server Error - Storage or Write Error"
// @Router       /classrooms/{classroomId}/documents/{documentId} [post]
func PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request", "remote", r.RemoteAddr)
		return
	}
	log := logRH.WithTrace(r.Context())

	classroomId := utils.GetChiURLParam(r, "classroomId")
	documentId := utils.GetChiURLParam(r, "documentId")
	if classroomId == "" || documentId == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "classroomId and documentId are required")
		return
	}

	targetDir, errString := getTargetDirectory(handlerInstance.uploadDir)
	if errString != "" {
		log.Error("Couldn't get target directory", "err", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, documentId, errString)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, documentId, "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, documentId, "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	// reject what the extractor cannot read before queueing
	if ingest.GetDocType(fileMetadata.Filename) == commonModels.ERR {
		WriteErrorResponse(w, http.StatusUnprocessableEntity, documentId, "Unsupported document type")
		return
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(fileMetadata.Filename))
	tempFilePath := filepath.Join(targetDir, filename)
	destinationFileWriter, err := os.Create(tempFilePath)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, documentId, "Storage error")
		return
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, documentId, "Write error")
		return
	}
	log.Debug("Document stored for ingestion", "path", tempFilePath, "classroomId", classroomId, "documentId", documentId)

	processNewJobData(r, w, uploadData{
		classroomId:  classroomId,
		documentId:   documentId,
		username:     r.FormValue("username"),
		documentName: fileMetadata.Filename,
		path:         tempFilePath,
	})
}
