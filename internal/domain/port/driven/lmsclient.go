package driven

import (
	"context"

	"github.com/ericfisherdev/canvasdue/internal/domain/model"
)

// LMSClient defines the driven port for the learning-management REST API.
// Implementations make exactly one remote call per method invocation: no
// retries and no caching. Errors match ErrConfigMissing, ErrUnauthenticated,
// ErrTransport or ErrDecode via errors.Is.
type LMSClient interface {
	ListFavoriteCourses(ctx context.Context) ([]model.Course, error)
	ListAssignments(ctx context.Context, courseID int64) ([]model.Assignment, error)
}
