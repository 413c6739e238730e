package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/akolanti/studyrag/internal/api"
	"github.com/akolanti/studyrag/internal/data/store"
	"github.com/akolanti/studyrag/internal/domain/commonModels"
	"github.com/akolanti/studyrag/internal/domain/jobModel"
	"github.com/akolanti/studyrag/internal/domain/ragErrors"
	"github.com/akolanti/studyrag/internal/job"
	"github.com/akolanti/studyrag/internal/rag"
	"github.com/akolanti/studyrag/pkg/logger_i"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRagService struct {
	OnQueryContent    func(ctx context.Context, q rag.ContentQuery) ([]commonModels.ContentResult, error)
	OnQueryFlashcards func(ctx context.Context, q rag.FlashcardQuery) ([]commonModels.FlashcardResult, error)
}

func (m *mockRagService) IngestDocument(ctx context.Context, j jobModel.Job) jobModel.Job { return j }

func (m *mockRagService) ProcessDocument(ctx context.Context, rawText, classroomId, documentId string) (rag.IngestResult, error) {
	return rag.IngestResult{}, nil
}

func (m *mockRagService) QueryContent(ctx context.Context, q rag.ContentQuery) ([]commonModels.ContentResult, error) {
	return m.OnQueryContent(ctx, q)
}

func (m *mockRagService) QueryFlashcards(ctx context.Context, q rag.FlashcardQuery) ([]commonModels.FlashcardResult, error) {
	return m.OnQueryFlashcards(ctx, q)
}

type fixture struct {
	router  chi.Router
	jobs    *job.Service
	ragMock *mockRagService
	dir     string
}

// setup bypasses InitJobHandler's once so every test gets fresh state.
func setup(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		jobs: job.InitJobService(job.ServiceConfig{
			JobChannel:        make(chan jobModel.Job, 4),
			DispatcherChannel: make(chan bool, 1),
			JobStore:          store.InitInMemoryJobStore(),
		}),
		ragMock: &mockRagService{},
		dir:     t.TempDir(),
	}
	handlerInstance = &JobHandler{service: f.jobs, ragService: f.ragMock, uploadDir: f.dir}
	logJH = logger_i.NewLogger("JobHandler")
	logRH = logger_i.NewLogger("RequestHandler")
	logQH = logger_i.NewLogger("QueryHandler")

	r := chi.NewRouter()
	r.Get("/status/{id}", GetStatusHandler)
	r.Post("/classrooms/{classroomId}/documents/{documentId}", PostIngestHandler)
	r.Post("/classrooms/{classroomId}/documents/{documentId}/query", QueryContentHandler)
	r.Post("/classrooms/{classroomId}/documents/{documentId}/flashcards/query", QueryFlashcardsHandler)
	f.router = r
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, url, filename, content string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if filename != "" {
		part, err := w.CreateFormFile("document", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.WriteField("username", "alice"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, url, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) api.JobResponse {
	t.Helper()
	var res api.JobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotNil(t, res.Error)
	return res
}

func TestPostIngestHandler_QueuesJob(t *testing.T) {
	f := setup(t)

	rec := f.do(uploadRequest(t, "/classrooms/bio-101/documents/doc-1", "notes.txt", "Cells divide."))
	require.Equal(t, http.StatusAccepted, rec.Code)

	var res api.InitJobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.Id)
	assert.Equal(t, "status/"+res.Id, res.StatusURL)

	queued := <-f.jobs.JobChannel
	assert.Equal(t, res.Id, queued.Id)
	assert.Equal(t, jobModel.JobTypeIngest, queued.JobType)
	assert.Equal(t, "bio-101", queued.JobPayload.ClassroomId)
	assert.Equal(t, "doc-1", queued.JobPayload.DocumentId)
	assert.Equal(t, "alice", queued.JobPayload.Username)
	assert.True(t, strings.HasPrefix(queued.JobPayload.IngestURL, f.dir))

	stored, err := os.ReadFile(queued.JobPayload.IngestURL)
	require.NoError(t, err)
	assert.Equal(t, "Cells divide.", string(stored))

	saved, found := f.jobs.JobStore.GetJob(context.Background(), res.Id)
	require.True(t, found)
	assert.Equal(t, jobModel.JobStatusQueued, saved.Status)
}

func TestPostIngestHandler_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected int
	}{
		{"missing file", "", http.StatusBadRequest},
		{"unsupported type", "diagram.png", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			rec := f.do(uploadRequest(t, "/classrooms/bio-101/documents/doc-1", tt.filename, "data"))
			assert.Equal(t, tt.expected, rec.Code)
			assert.Equal(t, tt.expected, decodeError(t, rec).Error.Code)
			assert.Empty(t, f.jobs.JobChannel)
		})
	}
}

func TestGetStatusHandler(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.jobs.JobStore.SaveJob(context.Background(), jobModel.Job{
		Id:          "job-1",
		Status:      jobModel.JobStatusComplete,
		CurrentStep: jobModel.Complete,
		JobPayload:  jobModel.JobPayload{ClassroomId: "bio-101", DocumentId: "doc-1", ChunkCount: 3, FlashcardCount: 7},
	}))

	t.Run("found", func(t *testing.T) {
		rec := f.do(httptest.NewRequest(http.MethodGet, "/status/job-1", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var res api.JobResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "COMPLETE", res.Result.Status)
		require.NotNil(t, res.Result.Ingest)
		assert.Equal(t, 3, res.Result.Ingest.ChunkCount)
		assert.Equal(t, 7, res.Result.Ingest.FlashcardCount)
		assert.Nil(t, res.Error)
	})

	t.Run("not found writes a single response", func(t *testing.T) {
		rec := f.do(httptest.NewRequest(http.MethodGet, "/status/missing", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		dec := json.NewDecoder(rec.Body)
		var first api.JobResponse
		require.NoError(t, dec.Decode(&first))
		assert.False(t, dec.More(), "only one JSON document expected")
	})
}

func TestQueryContentHandler(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		results   []commonModels.ContentResult
		err       error
		expected  int
		canRetry  bool
		wantQuery *rag.ContentQuery
	}{
		{
			name:     "success",
			body:     `{"query":"metaphase","top_k":2,"username":"alice"}`,
			results:  []commonModels.ContentResult{{Text: "Chromosomes align.", Score: 0.2}},
			expected: http.StatusOK,
			wantQuery: &rag.ContentQuery{
				ClassroomId: "bio-101", DocumentId: "doc-1", Username: "alice", QueryText: "metaphase", TopK: 2,
			},
		},
		{name: "empty query", body: `{"query":""}`, expected: http.StatusBadRequest},
		{name: "malformed body", body: `{`, expected: http.StatusBadRequest},
		{name: "negative top_k", body: `{"query":"x","top_k":-1}`, expected: http.StatusBadRequest},
		{
			name:     "vector store down",
			body:     `{"query":"metaphase"}`,
			err:      ragErrors.New(ragErrors.KindVectorStoreConnection, "search", errors.New("refused")),
			expected: http.StatusServiceUnavailable,
			canRetry: true,
		},
		{
			name:     "embedding failure",
			body:     `{"query":"metaphase"}`,
			err:      ragErrors.New(ragErrors.KindEmbeddingService, "embed query", errors.New("bad key")),
			expected: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			var got *rag.ContentQuery
			f.ragMock.OnQueryContent = func(ctx context.Context, q rag.ContentQuery) ([]commonModels.ContentResult, error) {
				got = &q
				return tt.results, tt.err
			}

			req := httptest.NewRequest(http.MethodPost, "/classrooms/bio-101/documents/doc-1/query", strings.NewReader(tt.body))
			rec := f.do(req)
			require.Equal(t, tt.expected, rec.Code)

			if tt.expected != http.StatusOK {
				res := decodeError(t, rec)
				assert.Equal(t, tt.canRetry, res.Error.Retry)
				return
			}
			assert.Equal(t, tt.wantQuery, got)
			var res api.ContentQueryResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.Equal(t, "bio-101", res.ClassroomId)
			require.Len(t, res.Results, 1)
			assert.Equal(t, "Chromosomes align.", res.Results[0].Text)
		})
	}
}

func TestQueryFlashcardsHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := setup(t)
		f.ragMock.OnQueryFlashcards = func(ctx context.Context, q rag.FlashcardQuery) ([]commonModels.FlashcardResult, error) {
			assert.Equal(t, "mitosis", q.Topic)
			assert.Equal(t, 10, q.MaxResults)
			return []commonModels.FlashcardResult{{Question: "What is mitosis?", Answer: "Nuclear division."}}, nil
		}
		req := httptest.NewRequest(http.MethodPost, "/classrooms/bio-101/documents/doc-1/flashcards/query",
			strings.NewReader(`{"topic":"mitosis","max_results":10}`))
		rec := f.do(req)
		require.Equal(t, http.StatusOK, rec.Code)

		var res api.FlashcardQueryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		require.Len(t, res.Flashcards, 1)
		assert.Equal(t, "Nuclear division.", res.Flashcards[0].Answer)
	})

	t.Run("flashcards not ready", func(t *testing.T) {
		f := setup(t)
		f.ragMock.OnQueryFlashcards = func(ctx context.Context, q rag.FlashcardQuery) ([]commonModels.FlashcardResult, error) {
			return nil, ragErrors.New(ragErrors.KindCollectionMissing, "query flashcards", errors.New("bio-101/doc-1"))
		}
		req := httptest.NewRequest(http.MethodPost, "/classrooms/bio-101/documents/doc-1/flashcards/query",
			strings.NewReader(`{"topic":"mitosis"}`))
		rec := f.do(req)
		require.Equal(t, http.StatusNotFound, rec.Code)
		res := decodeError(t, rec)
		assert.Equal(t, string(ragErrors.KindCollectionMissing), res.Error.Message)
		assert.True(t, res.Error.Retry)
	})

	t.Run("missing topic", func(t *testing.T) {
		f := setup(t)
		req := httptest.NewRequest(http.MethodPost, "/classrooms/bio-101/documents/doc-1/flashcards/query",
			strings.NewReader(`{"max_results":3}`))
		assert.Equal(t, http.StatusBadRequest, f.do(req).Code)
	})
}
