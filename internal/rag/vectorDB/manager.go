package vectorDB

import (
	"context"
	"errors"
	"slices"

	"github.com/akolanti/studyrag/internal/domain/ragErrors"
	"github.com/akolanti/studyrag/pkg/logger_i"
)

// Manager maps (classroom, document) to partitions and owns collection creation.
type Manager struct {
	store  DataProcessor
	locker PartitionLocker
	logger *logger_i.Logger
}

func NewManager(store DataProcessor, locker PartitionLocker) *Manager {
	return &Manager{
		store:  store,
		locker: locker,
		logger: logger_i.NewLogger("Partition Manager"),
	}
}

func (m *Manager) Store() DataProcessor { return m.store }

// EnsurePartition is idempotent and never deletes.
func (m *Manager) EnsurePartition(ctx context.Context, p Partition) error {
	if err := m.store.EnsurePartition(ctx, p); err != nil {
		if _, ok := ragErrors.KindOf(err); ok {
			return err
		}
		return ragErrors.New(ragErrors.KindVectorStoreConnection, "ensure partition "+p.Path(), err)
	}
	return nil
}

// HasCollection treats a failed listing as "absent": an untouched partition cannot be listed.
func (m *Manager) HasCollection(ctx context.Context, p Partition, name string) bool {
	names, err := m.store.ListCollections(ctx, p)
	if err != nil {
		m.logger.WithTrace(ctx).Debug("collection listing failed, treating as absent", "partition", p.Path(), "error", err)
		return false
	}
	return slices.Contains(names, name)
}

// CreateOrOpen creates the collection with records unless it already exists.
// The existence check and the creation run under the partition lock.
func (m *Manager) CreateOrOpen(ctx context.Context, p Partition, name string, records []Record) (bool, error) {
	log := m.logger.WithTrace(ctx).With("partition", p.Path(), "collection", name)
	if len(records) == 0 {
		return false, ragErrors.New(ragErrors.KindInvalidArgument, "create collection", errors.New("no records"))
	}

	unlock, err := m.locker.Lock(ctx, p.CollectionName(name))
	if err != nil {
		return false, ragErrors.New(ragErrors.KindVectorStoreConnection, "lock partition "+p.Path(), err)
	}
	defer unlock()

	if m.HasCollection(ctx, p, name) {
		log.Info("collection already exists, opening")
		return false, nil
	}
	err = m.store.CreateCollection(ctx, p, name, records)
	if errors.Is(err, ragErrors.ErrCollectionExists) {
		return false, nil
	}
	if err != nil {
		if _, ok := ragErrors.KindOf(err); ok {
			return false, err
		}
		return false, ragErrors.New(ragErrors.KindVectorStoreConnection, "create collection "+name, err)
	}
	log.Info("collection created", "records", len(records))
	return true, nil
}
