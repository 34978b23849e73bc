package driven

import (
	"context"

	"github.com/ericfisherdev/canvasdue/internal/domain/model"
)

// CredentialStore defines the driven port for the persisted access token.
type CredentialStore interface {
	// Get returns the stored credential. Returns ErrConfigMissing if no token
	// has been stored yet.
	Get(ctx context.Context) (model.Credential, error)

	// Set replaces the stored credential. Returns ErrPersist if it cannot be written.
	Set(ctx context.Context, cred model.Credential) error

	// Location returns a human-readable description of where the credential lives.
	Location() string
}
