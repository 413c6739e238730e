// Package ragErrors holds the error kinds shared by ingestion and retrieval.
package ragErrors

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Kind string

const (
	KindParse                 Kind = "ParseError"
	KindEmbeddingService      Kind = "EmbeddingServiceError"
	KindCompletionService     Kind = "CompletionServiceError"
	KindVectorStoreConnection Kind = "VectorStoreConnectionError"
	KindPartitionNotFound     Kind = "PartitionNotFoundError"
	KindMalformedGeneration   Kind = "MalformedGenerationError"
	KindCollectionMissing     Kind = "CollectionMissingError"
	KindCollectionExists      Kind = "CollectionExistsError"
	KindInvalidArgument       Kind = "InvalidArgumentError"
)

var (
	ErrParse                 = &Error{Kind: KindParse}
	ErrEmbeddingService      = &Error{Kind: KindEmbeddingService}
	ErrCompletionService     = &Error{Kind: KindCompletionService}
	ErrVectorStoreConnection = &Error{Kind: KindVectorStoreConnection}
	ErrPartitionNotFound     = &Error{Kind: KindPartitionNotFound}
	ErrMalformedGeneration   = &Error{Kind: KindMalformedGeneration}
	ErrCollectionMissing     = &Error{Kind: KindCollectionMissing}
	ErrCollectionExists      = &Error{Kind: KindCollectionExists}
	ErrInvalidArgument       = &Error{Kind: KindInvalidArgument}
)

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind so errors.Is(err, ErrParse) works for any wrapped parse error.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsNotReady reports "no data yet" conditions, as opposed to service failures.
func IsNotReady(err error) bool {
	return errors.Is(err, ErrPartitionNotFound) || errors.Is(err, ErrCollectionMissing)
}

// Retryable reports failures where re-submitting the same request later can succeed.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if IsNotReady(err) || errors.Is(err, ErrVectorStoreConnection) {
		return true
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		if s, ok := status.FromError(e); ok {
			switch s.Code() {
			case codes.ResourceExhausted, codes.Unavailable, codes.DeadlineExceeded:
				return true
			}
		}
	}
	return false
}

// HTTPStatus maps an error to the status code reported to callers.
func HTTPStatus(err error) int {
	kind, _ := KindOf(err)
	switch {
	case err == nil:
		return http.StatusOK
	case IsNotReady(err):
		return http.StatusNotFound
	case kind == KindParse:
		return http.StatusUnprocessableEntity
	case kind == KindInvalidArgument:
		return http.StatusBadRequest
	case kind == KindVectorStoreConnection:
		return http.StatusServiceUnavailable
	case kind == KindEmbeddingService, kind == KindCompletionService:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
