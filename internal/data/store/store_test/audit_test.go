package store_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/akolanti/studyrag/internal/config"
	"github.com/akolanti/studyrag/internal/data/redisStore"
	"github.com/akolanti/studyrag/internal/data/store"
	"github.com/akolanti/studyrag/internal/domain/commonModels"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func auditEntry(user, doc, text string) commonModels.QueryLogEntry {
	return commonModels.QueryLogEntry{
		Timestamp:  time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
		Username:   user,
		DocumentId: doc,
		QueryText:  text,
	}
}

func TestRedisAuditLog_Append(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	auditLog := store.NewRedisAuditLog(redisStore.NewTestStore(client))
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "audit-trace")

	if err := auditLog.Append(ctx, "bio-101", auditEntry("alice", "doc-1", "what is mitosis")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := auditLog.Append(ctx, "bio-101", auditEntry("bob", "doc-2", "cell wall")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	lines, err := auditLog.Entries(ctx, "bio-101")
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	want := []string{
		"2026-03-04T10:00:00Z | alice | doc-1 | what is mitosis",
		"2026-03-04T10:00:00Z | bob | doc-2 | cell wall",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}

	other, _ := auditLog.Entries(ctx, "chem-200")
	if len(other) != 0 {
		t.Errorf("classrooms must not share a log, got %v", other)
	}
}

func TestFileAuditLog_Append(t *testing.T) {
	dir := t.TempDir()
	auditLog := store.NewFileAuditLog(dir)
	ctx := context.Background()

	for _, text := range []string{"first", "second"} {
		if err := auditLog.Append(ctx, "bio-101", auditEntry("alice", "doc-1", text)); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	data, err := os.ReadFile(auditLog.Path("bio-101"))
	if err != nil {
		t.Fatalf("reading audit file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), data)
	}
	if lines[1] != "2026-03-04T10:00:00Z | alice | doc-1 | second" {
		t.Errorf("unexpected line %q", lines[1])
	}
}

func TestFileAuditLog_UnwritableDir(t *testing.T) {
	dir := t.TempDir()
	blocker := dir + "/blocked"
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	auditLog := store.NewFileAuditLog(blocker)
	if err := auditLog.Append(context.Background(), "bio-101", auditEntry("a", "b", "c")); err == nil {
		t.Error("expected an error when the audit directory is a file")
	}
}
