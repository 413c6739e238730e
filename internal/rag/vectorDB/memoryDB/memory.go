package memoryDB

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/akolanti/studyrag/internal/config"
	"github.com/akolanti/studyrag/internal/domain/ragErrors"
	"github.com/akolanti/studyrag/internal/rag/vectorDB"
)

// Storage keeps partitions in process memory and searches them by brute-force L2 distance.
// Used for tests and when no Qdrant instance is available.
type Storage struct {
	mu         sync.RWMutex
	partitions map[string]map[string]*collection
	breadths   []cachedBreadth
}

type collection struct {
	dimension int
	records   []vectorDB.Record
}

type cachedBreadth struct {
	id      string
	vector  []float32
	breadth float64
}

func NewStorage() *Storage {
	return &Storage{partitions: make(map[string]map[string]*collection)}
}

func (s *Storage) EnsurePartition(_ context.Context, p vectorDB.Partition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.partitions[p.Path()]; !ok {
		s.partitions[p.Path()] = make(map[string]*collection)
	}
	return nil
}

func (s *Storage) ListCollections(_ context.Context, p vectorDB.Partition) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cols, ok := s.partitions[p.Path()]
	if !ok {
		return nil, ragErrors.New(ragErrors.KindPartitionNotFound, "list collections", errors.New(p.Path()))
	}
	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Storage) CreateCollection(_ context.Context, p vectorDB.Partition, name string, records []vectorDB.Record) error {
	if len(records) == 0 {
		return ragErrors.New(ragErrors.KindInvalidArgument, "create collection", errors.New("no records"))
	}
	dimension := len(records[0].Vector)
	for _, r := range records {
		if len(r.Vector) != dimension || dimension == 0 {
			return ragErrors.New(ragErrors.KindInvalidArgument, "create collection", errors.New("vector dimension mismatch"))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cols, ok := s.partitions[p.Path()]
	if !ok {
		return ragErrors.New(ragErrors.KindPartitionNotFound, "create collection", errors.New(p.Path()))
	}
	if _, exists := cols[name]; exists {
		return ragErrors.New(ragErrors.KindCollectionExists, "create collection", errors.New(p.CollectionName(name)))
	}
	cols[name] = &collection{
		dimension: dimension,
		records:   append([]vectorDB.Record(nil), records...),
	}
	return nil
}

func (s *Storage) Search(_ context.Context, p vectorDB.Partition, name string, vector []float32, limit int) ([]vectorDB.Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	col, ok := s.partitions[p.Path()][name]
	if !ok {
		return nil, ragErrors.New(ragErrors.KindCollectionMissing, "search "+name, errors.New(p.CollectionName(name)))
	}
	if len(vector) != col.dimension {
		return nil, ragErrors.New(ragErrors.KindInvalidArgument, "search "+name, errors.New("vector dimension mismatch"))
	}

	hits := make([]vectorDB.Hit, 0, len(col.records))
	for _, r := range col.records {
		hits = append(hits, vectorDB.Hit{
			Id:      r.Id,
			Score:   euclidean(r.Vector, vector),
			Payload: stringPayload(r.Payload),
		})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score < hits[j].Score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (s *Storage) GetCachedBreadth(_ context.Context, topicVector []float32) (float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	best, found := float32(-1), -1
	for i, c := range s.breadths {
		if sim := cosine(c.vector, topicVector); sim > best {
			best, found = sim, i
		}
	}
	if found < 0 || best < config.CacheSimilarityCutoff {
		return 0, false, nil
	}
	return s.breadths[found].breadth, true, nil
}

func (s *Storage) SaveBreadth(_ context.Context, id string, topicVector []float32, breadth float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.breadths = append(s.breadths, cachedBreadth{id: id, vector: topicVector, breadth: breadth})
	return nil
}

// only string payload values are surfaced, as with the Qdrant backend
func stringPayload(payload map[string]any) map[string]string {
	out := make(map[string]string, len(payload))
	for k, v := range payload {
		if str, ok := v.(string); ok {
			out[k] = str
		}
	}
	return out
}

func euclidean(a, b []float32) float32 {
	var sum float64
	for i := range a {
		d := float64(a[i] - b[i])
		sum += d * d
	}
	return float32(math.Sqrt(sum))
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
