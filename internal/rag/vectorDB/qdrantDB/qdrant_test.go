package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/akolanti/studyrag/internal/data/store"
	"github.com/akolanti/studyrag/internal/domain/ragErrors"
	"github.com/akolanti/studyrag/internal/rag/vectorDB"
	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// fakeQdrant keeps collections in memory. OnUpsert, when set, decides the outcome of the
// nth upsert call (1-based) across the fake's lifetime.
type fakeQdrant struct {
	mu          sync.Mutex
	collections map[string]int
	upserts     int
	deleted     []string
	OnUpsert    func(call int) error
}

func newFakeQdrant() *fakeQdrant {
	return &fakeQdrant{collections: make(map[string]int)}
}

func (f *fakeQdrant) HealthCheck(context.Context) (*qdrant.HealthCheckReply, error) {
	return &qdrant.HealthCheckReply{}, nil
}

func (f *fakeQdrant) ListCollections(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.collections))
	for name := range f.collections {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeQdrant) CollectionExists(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.collections[name]
	return ok, nil
}

func (f *fakeQdrant) CreateCollection(_ context.Context, req *qdrant.CreateCollection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.collections[req.CollectionName]; ok {
		return status.Error(codes.AlreadyExists, req.CollectionName)
	}
	f.collections[req.CollectionName] = 0
	return nil
}

func (f *fakeQdrant) DeleteCollection(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.collections, name)
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeQdrant) Upsert(_ context.Context, req *qdrant.UpsertPoints) (*qdrant.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	if f.OnUpsert != nil {
		if err := f.OnUpsert(f.upserts); err != nil {
			return nil, err
		}
	}
	f.collections[req.CollectionName] += len(req.Points)
	return &qdrant.UpdateResult{}, nil
}

func (f *fakeQdrant) Query(context.Context, *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error) {
	return nil, nil
}

func (f *fakeQdrant) points(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.collections[name]
}

func testRecords(n int) []vectorDB.Record {
	out := make([]vectorDB.Record, n)
	for i := range out {
		out[i] = vectorDB.Record{
			Id:      fmt.Sprintf("00000000-0000-0000-0000-%012d", i),
			Vector:  []float32{float32(i), 1},
			Payload: map[string]any{vectorDB.FieldText: strings.Repeat("x", i%7)},
		}
	}
	return out
}

var testPartition = vectorDB.Partition{ClassroomId: "bio", DocumentId: "l1"}

func TestCreateCollection_WritesInBatches(t *testing.T) {
	fake := newFakeQdrant()
	db := &ClientHolder{QObj: fake}
	name := testPartition.CollectionName(vectorDB.ContentCollection)

	require.NoError(t, db.CreateCollection(context.Background(), testPartition, vectorDB.ContentCollection, testRecords(300)))
	assert.Equal(t, 2, fake.upserts)
	assert.Equal(t, 300, fake.points(name))
	assert.Empty(t, fake.deleted)
}

func TestCreateCollection_FailedBatchDropsCollection(t *testing.T) {
	tests := []struct {
		name      string
		failCall  int
		upsertErr error
		wantKind  ragErrors.Kind
	}{
		{"first batch unavailable", 1, status.Error(codes.Unavailable, "qdrant down"), ragErrors.KindVectorStoreConnection},
		{"second batch unavailable", 2, status.Error(codes.Unavailable, "qdrant down"), ragErrors.KindVectorStoreConnection},
		{"second batch timeout", 2, status.Error(codes.DeadlineExceeded, "slow"), ragErrors.KindVectorStoreConnection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeQdrant()
			fake.OnUpsert = func(call int) error {
				if call == tt.failCall {
					return tt.upsertErr
				}
				return nil
			}
			db := &ClientHolder{QObj: fake}
			name := testPartition.CollectionName(vectorDB.ContentCollection)

			err := db.CreateCollection(context.Background(), testPartition, vectorDB.ContentCollection, testRecords(300))
			require.Error(t, err)
			kind, ok := ragErrors.KindOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, kind)

			exists, _ := fake.CollectionExists(context.Background(), name)
			assert.False(t, exists, "a partially written collection must not survive")
			assert.Equal(t, []string{name}, fake.deleted)
		})
	}
}

func TestCreateOrOpen_RetryAfterFailedWriteRebuilds(t *testing.T) {
	ctx := context.Background()
	fake := newFakeQdrant()
	fake.OnUpsert = func(call int) error {
		if call == 2 {
			return status.Error(codes.Unavailable, "qdrant down")
		}
		return nil
	}
	m := vectorDB.NewManager(&ClientHolder{QObj: fake}, store.InitInMemoryPartitionLock())
	records := testRecords(300)

	_, err := m.CreateOrOpen(ctx, testPartition, vectorDB.ContentCollection, records)
	require.Error(t, err)
	assert.True(t, ragErrors.Retryable(err))
	assert.False(t, m.HasCollection(ctx, testPartition, vectorDB.ContentCollection))

	created, err := m.CreateOrOpen(ctx, testPartition, vectorDB.ContentCollection, records)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 300, fake.points(testPartition.CollectionName(vectorDB.ContentCollection)))
}

func TestListCollections_OnlyOwnPartition(t *testing.T) {
	ctx := context.Background()
	fake := newFakeQdrant()
	db := &ClientHolder{QObj: fake}
	other := vectorDB.Partition{ClassroomId: "bio", DocumentId: "l1x"}

	require.NoError(t, db.CreateCollection(ctx, testPartition, vectorDB.ContentCollection, testRecords(1)))
	require.NoError(t, db.CreateCollection(ctx, other, vectorDB.FlashcardCollection, testRecords(1)))

	names, err := db.ListCollections(ctx, testPartition)
	require.NoError(t, err)
	assert.Equal(t, []string{vectorDB.ContentCollection}, names)
}

func TestMapError(t *testing.T) {
	assert.True(t, errors.Is(mapError("op", status.Error(codes.NotFound, "x")), ragErrors.ErrCollectionMissing))
	assert.True(t, errors.Is(mapError("op", status.Error(codes.AlreadyExists, "x")), ragErrors.ErrCollectionExists))
	_, ok := ragErrors.KindOf(mapError("op", errors.New("plain")))
	assert.False(t, ok)
}
