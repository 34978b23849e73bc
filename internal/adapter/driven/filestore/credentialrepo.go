package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/canvasdue/internal/domain/model"
	"github.com/ericfisherdev/canvasdue/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*CredentialRepo)(nil)

// CredentialRepo stores the access token as a small YAML document.
type CredentialRepo struct {
	path string
}

// NewCredentialRepo creates a CredentialRepo backed by the file at path.
func NewCredentialRepo(path string) *CredentialRepo {
	return &CredentialRepo{path: path}
}

type credentialDoc struct {
	Token string `yaml:"token"`
}

// Get reads the stored credential. A missing file or an empty token yields ErrConfigMissing.
func (r *CredentialRepo) Get(ctx context.Context) (model.Credential, error) {
	if err := ctx.Err(); err != nil {
		return model.Credential{}, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.Credential{}, driven.ErrConfigMissing
		}
		return model.Credential{}, fmt.Errorf("reading credential %s: %w", r.path, err)
	}

	var doc credentialDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return model.Credential{}, fmt.Errorf("parsing credential %s: %w", r.path, err)
	}
	if strings.TrimSpace(doc.Token) == "" {
		return model.Credential{}, driven.ErrConfigMissing
	}

	return model.Credential{Token: doc.Token}, nil
}

// Set replaces the stored credential. The document is written atomically.
func (r *CredentialRepo) Set(ctx context.Context, cred model.Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if strings.TrimSpace(cred.Token) == "" {
		return errors.New("refusing to store an empty token")
	}

	data, err := yaml.Marshal(credentialDoc{Token: cred.Token})
	if err != nil {
		return fmt.Errorf("%w: encoding credential: %v", driven.ErrPersist, err)
	}

	if err := writeFileAtomic(r.path, data); err != nil {
		return fmt.Errorf("%w: writing credential: %v", driven.ErrPersist, err)
	}
	// The temp file is already private, but an older file may not be.
	if err := os.Chmod(r.path, 0o600); err != nil {
		return fmt.Errorf("%w: restricting credential permissions: %v", driven.ErrPersist, err)
	}
	return nil
}

// Location returns the credential file path.
func (r *CredentialRepo) Location() string {
	return r.path
}
