package store

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/akolanti/studyrag/internal/domain/commonModels"
	"github.com/akolanti/studyrag/pkg/logger_i"
)

var unsafeFileName = regexp.MustCompile(`[^A-Za-z0-9._\-]+`)

// FileAuditLog writes one append-only file per classroom: {dir}/{classroomId}.log
type FileAuditLog struct {
	dir    string
	mu     sync.Mutex
	logger *logger_i.Logger
}

func NewFileAuditLog(dir string) *FileAuditLog {
	return &FileAuditLog{
		dir:    dir,
		logger: logger_i.NewLogger("FileAuditLog"),
	}
}

func (s *FileAuditLog) Path(classroomId string) string {
	return filepath.Join(s.dir, unsafeFileName.ReplaceAllString(classroomId, "_")+".log")
}

func (s *FileAuditLog) Append(ctx context.Context, classroomId string, entry commonModels.QueryLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0750); err != nil {
		s.logger.WithTrace(ctx).Error("could not create audit directory", "dir", s.dir, "error", err)
		return err
	}
	f, err := os.OpenFile(s.Path(classroomId), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		s.logger.WithTrace(ctx).Error("could not open audit file", "classroomId", classroomId, "error", err)
		return err
	}
	defer f.Close()

	_, err = f.WriteString(entry.Line() + "\n")
	return err
}
