package sync

import (
	"context"
	"encoding/json"
	"fmt"

	"tabvault/internal/model"
	"tabvault/internal/storage"
	"tabvault/pkg/github"
	"tabvault/pkg/log"
)

const (
	// BackupFileName is the file the local document is stored under inside
	// the gist. Remote documents created by other clients may use a
	// different name; reads fall back to the first file present.
	BackupFileName = "tabvault-backup.json"

	gistDescription = "TabVault backup"
)

// Syncer maps the local storage document to and from a single gist file.
// Tokens are always supplied by the caller (via the AuthRunner for the
// WithRetry entry points); the syncer never fetches credentials itself.
type Syncer struct {
	l     log.Logger
	store *storage.Store
	gh    GistClient
	auth  AuthRunner
}

// New creates a Syncer.
func New(l log.Logger, store *storage.Store, gh GistClient, auth AuthRunner) *Syncer {
	return &Syncer{
		l:     l,
		store: store,
		gh:    gh,
		auth:  auth,
	}
}

// CreateGist serializes the local document and creates a new secret gist
// holding it. Returns the new gist id.
func (s *Syncer) CreateGist(ctx context.Context, token string) (string, error) {
	content, err := s.serializeLocal()
	if err != nil {
		return "", err
	}

	gist, err := s.gh.CreateGist(ctx, token, github.CreateGistRequest{
		Description: gistDescription,
		Public:      false,
		Files: map[string]github.GistFile{
			BackupFileName: {Content: content},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create remote backup: %w", err)
	}
	return gist.ID, nil
}

// UpdateGist overwrites an existing gist with the local document. The
// existing gist is read first, best-effort, to discover the actual file
// name; a "not found" on that read is fatal, any other read failure falls
// back to the default file name.
func (s *Syncer) UpdateGist(ctx context.Context, token, gistID string) error {
	content, err := s.serializeLocal()
	if err != nil {
		return err
	}

	fileName := BackupFileName
	existing, err := s.gh.GetGist(ctx, token, gistID)
	switch {
	case github.IsNotFound(err):
		return fmt.Errorf("%w: %s", ErrGistNotFound, gistID)
	case err != nil:
		s.l.Warnf(ctx, "could not inspect gist %s before update, using default file name: %v", gistID, err)
	default:
		fileName = pickBackupFile(existing)
	}

	if _, err := s.gh.UpdateGist(ctx, token, gistID, github.UpdateGistRequest{
		Description: gistDescription,
		Files: map[string]github.GistFile{
			fileName: {Content: content},
		},
	}); err != nil {
		return fmt.Errorf("failed to update remote backup: %w", err)
	}
	return nil
}

// FetchGist downloads the remote document, validates it, overwrites the
// local store with it (full overwrite, not merge) and returns it.
func (s *Syncer) FetchGist(ctx context.Context, token, gistID string) (model.StorageData, error) {
	gist, err := s.gh.GetGist(ctx, token, gistID)
	if err != nil {
		if github.IsNotFound(err) {
			return model.StorageData{}, fmt.Errorf("%w: %s", ErrGistNotFound, gistID)
		}
		return model.StorageData{}, fmt.Errorf("failed to fetch remote backup: %w", err)
	}

	if len(gist.Files) == 0 {
		return model.StorageData{}, ErrNoFiles
	}

	file, ok := gist.Files[pickBackupFile(gist)]
	if !ok {
		return model.StorageData{}, ErrNoFiles
	}

	data, err := parseBackup([]byte(file.Content))
	if err != nil {
		return model.StorageData{}, err
	}

	if err := s.store.Write(data); err != nil {
		return model.StorageData{}, fmt.Errorf("failed to persist fetched backup: %w", err)
	}
	return data, nil
}

// SyncToGist pushes the local document: updates the given gist, or creates
// a new one and persists its id into Settings when no id is given.
// Returns the gist id used.
func (s *Syncer) SyncToGist(ctx context.Context, token, gistID string) (string, error) {
	if gistID != "" {
		return gistID, s.UpdateGist(ctx, token, gistID)
	}

	id, err := s.CreateGist(ctx, token)
	if err != nil {
		return "", err
	}

	settings, err := s.store.GetSettings()
	if err != nil {
		return "", err
	}
	settings.GistID = id
	if err := s.store.SaveSettings(settings); err != nil {
		return "", fmt.Errorf("failed to persist gist id: %w", err)
	}

	s.l.Infof(ctx, "created remote backup %s", id)
	return id, nil
}

// SyncToGistWithRetry pushes the local document under the authenticated
// retry policy. This is the entry point the delivery layer calls.
func (s *Syncer) SyncToGistWithRetry(ctx context.Context, gistID string) (string, error) {
	var id string
	err := s.auth.RunWithAuthRetry(ctx, func(ctx context.Context, token string) error {
		var opErr error
		id, opErr = s.SyncToGist(ctx, token, gistID)
		return opErr
	})
	return id, err
}

// SyncFromGistWithRetry pulls the remote document under the authenticated
// retry policy.
func (s *Syncer) SyncFromGistWithRetry(ctx context.Context, gistID string) (model.StorageData, error) {
	var data model.StorageData
	err := s.auth.RunWithAuthRetry(ctx, func(ctx context.Context, token string) error {
		var opErr error
		data, opErr = s.FetchGist(ctx, token, gistID)
		return opErr
	})
	return data, err
}

// CreateGistWithRetry creates a fresh remote backup under the authenticated
// retry policy and persists its id.
func (s *Syncer) CreateGistWithRetry(ctx context.Context) (string, error) {
	var id string
	err := s.auth.RunWithAuthRetry(ctx, func(ctx context.Context, token string) error {
		var opErr error
		id, opErr = s.SyncToGist(ctx, token, "")
		return opErr
	})
	return id, err
}

// serializeLocal renders the local document as pretty JSON. Round-trip
// fidelity must hold exactly for every field.
func (s *Syncer) serializeLocal() (string, error) {
	data, err := s.store.Read()
	if err != nil {
		return "", err
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize local document: %w", err)
	}
	return string(raw), nil
}

// pickBackupFile returns the expected backup file name if present, else the
// first file in the gist.
func pickBackupFile(gist *github.Gist) string {
	if _, ok := gist.Files[BackupFileName]; ok {
		return BackupFileName
	}
	for name := range gist.Files {
		return name
	}
	return BackupFileName
}

func parseBackup(raw []byte) (model.StorageData, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return model.StorageData{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if _, ok := probe["groups"]; !ok {
		return model.StorageData{}, ErrInvalidFormat
	}
	if _, ok := probe["settings"]; !ok {
		return model.StorageData{}, ErrInvalidFormat
	}

	var data model.StorageData
	if err := json.Unmarshal(raw, &data); err != nil {
		return model.StorageData{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return data, nil
}
