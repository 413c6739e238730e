package vectorDB

import (
	"context"
	"encoding/hex"
	"net/url"
)

const (
	ContentCollection   = "content"
	FlashcardCollection = "flashcards"
)

// payload keys
const (
	FieldText     = "text"
	FieldQuestion = "question"
	FieldAnswer   = "answer"
	FieldPosition = "position"
)

// Partition is the storage scope of one document's derived data.
type Partition struct {
	ClassroomId string
	DocumentId  string
}

// Path is the partition address `{classroomId}/{documentId}`. Each id is path-escaped, so a
// '/' inside an id cannot move the separator.
func (p Partition) Path() string {
	return url.PathEscape(p.ClassroomId) + "/" + url.PathEscape(p.DocumentId)
}

// CollectionName flattens the partition address and collection into one store-safe name.
// Ids are hex encoded: distinct pairs never share a name and '_' only ever separates.
func (p Partition) CollectionName(name string) string {
	return "p" + hex.EncodeToString([]byte(p.ClassroomId)) + "_" + hex.EncodeToString([]byte(p.DocumentId)) + "_" + name
}

type Record struct {
	Id      string
	Vector  []float32
	Payload map[string]any
}

type Hit struct {
	Id      string
	Score   float32
	Payload map[string]string
}

// DataProcessor is the physical partition store. Search results are ordered best first
// (ascending distance).
type DataProcessor interface {
	EnsurePartition(ctx context.Context, p Partition) error
	ListCollections(ctx context.Context, p Partition) ([]string, error)
	// CreateCollection fails with ragErrors.ErrCollectionExists if the collection is present.
	CreateCollection(ctx context.Context, p Partition, name string, records []Record) error
	Search(ctx context.Context, p Partition, name string, vector []float32, limit int) ([]Hit, error)
}

// BreadthCache remembers breadth ratings of topics by embedding similarity.
type BreadthCache interface {
	GetCachedBreadth(ctx context.Context, topicVector []float32) (float64, bool, error)
	SaveBreadth(ctx context.Context, id string, topicVector []float32, breadth float64) error
}

// PartitionLocker serialises check-then-create on one partition.
type PartitionLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
