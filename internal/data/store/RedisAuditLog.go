package store

import (
	"context"

	"github.com/akolanti/studyrag/internal/config"
	"github.com/akolanti/studyrag/internal/data/redisStore"
	"github.com/akolanti/studyrag/internal/domain/commonModels"
	"github.com/akolanti/studyrag/pkg/logger_i"
)

const auditKeyPrefix = "audit:"

// RedisAuditLog appends one list entry per query under audit:{classroomId}.
type RedisAuditLog struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisAuditLog(ctx context.Context, settings config.Settings) *RedisAuditLog {
	s := redisStore.GetRedisStore(ctx, settings, config.RedisAuditStore)
	if s == nil {
		return nil
	}
	return &RedisAuditLog{
		store:  s,
		logger: logger_i.NewLogger("AuditLog"),
	}
}

func (s *RedisAuditLog) Append(ctx context.Context, classroomId string, entry commonModels.QueryLogEntry) error {
	log := s.logger.WithTrace(ctx).With("classroomId", classroomId)
	err := s.store.ListPush(ctx, auditKeyPrefix+classroomId, entry.Line())
	if err != nil {
		log.Error("error appending audit entry", "error", err)
		return err
	}
	log.Debug("audit entry saved")
	return nil
}

// Entries returns the classroom's audit lines, oldest first.
func (s *RedisAuditLog) Entries(ctx context.Context, classroomId string) ([]string, error) {
	return s.store.ListGetAll(ctx, auditKeyPrefix+classroomId)
}

func NewRedisAuditLog(store *redisStore.Store) *RedisAuditLog {
	return &RedisAuditLog{
		store:  store,
		logger: logger_i.NewLogger("test audit"),
	}
}
