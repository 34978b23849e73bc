package driven

import (
	"context"

	"github.com/ericfisherdev/canvasdue/internal/domain/model"
)

// CacheStore defines the driven port for time-bounded snapshots.
//
// Load methods return ErrCacheMiss when no fresh snapshot is available, which
// includes absent, unreadable, corrupt and expired snapshots. Save methods
// stamp the snapshot with the current time and return ErrPersist on failure.
type CacheStore interface {
	LoadCourses(ctx context.Context) (model.Snapshot[[]model.Course], error)
	SaveCourses(ctx context.Context, courses []model.Course) error

	LoadRows(ctx context.Context) (model.Snapshot[[]model.ViewRow], error)
	SaveRows(ctx context.Context, rows []model.ViewRow) error

	// Clear removes the snapshot of the given kind. Removing an absent snapshot is not an error.
	Clear(ctx context.Context, kind model.CacheKind) error
}
