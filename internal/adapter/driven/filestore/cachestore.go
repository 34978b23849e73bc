// Package filestore implements the cache and credential ports on top of plain
// files in per-user directories.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"

	"github.com/ericfisherdev/canvasdue/internal/domain/model"
	"github.com/ericfisherdev/canvasdue/internal/domain/port/driven"
)

// snapshotVersion is bumped whenever the on-disk layout changes. Snapshots
// written with any other version are treated as misses and rebuilt.
const snapshotVersion = 2

// Compile-time interface satisfaction check.
var _ driven.CacheStore = (*CacheStore)(nil)

// CacheStore is the file implementation of the CacheStore port. Each cache
// kind lives in its own JSON document so kinds expire independently.
type CacheStore struct {
	pathFor func(model.CacheKind) string
	windows map[model.CacheKind]time.Duration
	clock   driven.Clock
}

// NewCacheStore creates a CacheStore. pathFor maps a kind to its file;
// windows gives each kind's staleness window. A kind without a window is never fresh.
func NewCacheStore(pathFor func(model.CacheKind) string, windows map[model.CacheKind]time.Duration, clock driven.Clock) *CacheStore {
	return &CacheStore{pathFor: pathFor, windows: windows, clock: clock}
}

// envelope is the on-disk representation shared by every kind.
type envelope struct {
	Version   int             `json:"version"`
	Kind      model.CacheKind `json:"kind"`
	CreatedAt time.Time       `json:"created_at"`
	Value     json.RawMessage `json:"value"`
}

type courseRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type rowRecord struct {
	CourseName     string      `json:"course_name"`
	AssignmentName string      `json:"assignment_name"`
	Date           *model.Date `json:"date,omitempty"`
	DaysLeft       int         `json:"days_left"`
}

// LoadCourses returns the cached course list, or ErrCacheMiss.
func (s *CacheStore) LoadCourses(ctx context.Context) (model.Snapshot[[]model.Course], error) {
	var records []courseRecord
	snap, err := load(ctx, s, model.CacheKindCourses, &records)
	if err != nil {
		return model.Snapshot[[]model.Course]{}, err
	}

	courses := make([]model.Course, 0, len(records))
	for _, r := range records {
		courses = append(courses, model.Course{ID: r.ID, Name: r.Name})
	}

	return model.Snapshot[[]model.Course]{Kind: snap.Kind, CreatedAt: snap.CreatedAt, Value: courses}, nil
}

// SaveCourses overwrites the cached course list.
func (s *CacheStore) SaveCourses(ctx context.Context, courses []model.Course) error {
	records := make([]courseRecord, 0, len(courses))
	for _, c := range courses {
		records = append(records, courseRecord{ID: c.ID, Name: c.Name})
	}
	return s.save(ctx, model.CacheKindCourses, records)
}

// LoadRows returns the cached assignment view, or ErrCacheMiss.
func (s *CacheStore) LoadRows(ctx context.Context) (model.Snapshot[[]model.ViewRow], error) {
	var records []rowRecord
	snap, err := load(ctx, s, model.CacheKindAssignments, &records)
	if err != nil {
		return model.Snapshot[[]model.ViewRow]{}, err
	}

	rows := make([]model.ViewRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, model.ViewRow{
			CourseName:     r.CourseName,
			AssignmentName: r.AssignmentName,
			Date:           r.Date,
			DaysLeft:       r.DaysLeft,
		})
	}

	return model.Snapshot[[]model.ViewRow]{Kind: snap.Kind, CreatedAt: snap.CreatedAt, Value: rows}, nil
}

// SaveRows overwrites the cached assignment view.
func (s *CacheStore) SaveRows(ctx context.Context, rows []model.ViewRow) error {
	records := make([]rowRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, rowRecord{
			CourseName:     r.CourseName,
			AssignmentName: r.AssignmentName,
			Date:           r.Date,
			DaysLeft:       r.DaysLeft,
		})
	}
	return s.save(ctx, model.CacheKindAssignments, records)
}

// Clear removes the snapshot file for kind.
func (s *CacheStore) Clear(_ context.Context, kind model.CacheKind) error {
	path := s.pathFor(kind)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: removing %s snapshot %s: %v", driven.ErrPersist, kind, path, err)
	}
	return nil
}

// load reads and validates the envelope for kind and decodes its value into dst.
// Every failure is reported as ErrCacheMiss; the underlying cause is only logged.
func load(ctx context.Context, s *CacheStore, kind model.CacheKind, dst any) (model.Snapshot[struct{}], error) {
	if err := ctx.Err(); err != nil {
		return model.Snapshot[struct{}]{}, err
	}

	path := s.pathFor(kind)
	miss := func(reason string, err error) (model.Snapshot[struct{}], error) {
		slog.Debug("cache miss", "kind", kind, "path", path, "reason", reason, "error", err)
		if err != nil {
			return model.Snapshot[struct{}]{}, fmt.Errorf("%w: %s snapshot %s: %v", driven.ErrCacheMiss, kind, reason, err)
		}
		return model.Snapshot[struct{}]{}, fmt.Errorf("%w: %s snapshot %s", driven.ErrCacheMiss, kind, reason)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return miss("absent", nil)
		}
		return miss("unreadable", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return miss("corrupt", err)
	}
	if env.Version != snapshotVersion {
		return miss(fmt.Sprintf("version %d", env.Version), nil)
	}
	if env.Kind != kind {
		return miss(fmt.Sprintf("holds kind %q", env.Kind), nil)
	}

	snap := model.Snapshot[struct{}]{Kind: env.Kind, CreatedAt: env.CreatedAt}
	window, ok := s.windows[kind]
	if !ok || !snap.FreshAt(s.clock.Now(), window) {
		return miss("stale", nil)
	}

	if err := json.Unmarshal(env.Value, dst); err != nil {
		return miss("corrupt", err)
	}

	slog.Debug("cache hit", "kind", kind, "path", path, "age", s.clock.Now().Sub(env.CreatedAt).Round(time.Second))
	return snap, nil
}

// save writes value as the snapshot for kind, stamped with the current time.
// The file is replaced atomically so a crash never leaves a partial snapshot.
func (s *CacheStore) save(ctx context.Context, kind model.CacheKind, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encoding %s snapshot: %v", driven.ErrPersist, kind, err)
	}

	env := envelope{
		Version:   snapshotVersion,
		Kind:      kind,
		CreatedAt: s.clock.Now().UTC(),
		Value:     raw,
	}
	data, err := json.MarshalIndent(&env, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding %s snapshot: %v", driven.ErrPersist, kind, err)
	}

	path := s.pathFor(kind)
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("%w: writing %s snapshot: %v", driven.ErrPersist, kind, err)
	}

	slog.Debug("cache saved", "kind", kind, "path", path, "bytes", len(data))
	return nil
}

// writeFileAtomic creates the parent directory and replaces path with data
// via a temp file and rename.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
