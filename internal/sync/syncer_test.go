package sync_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"tabvault/internal/model"
	"tabvault/internal/storage"
	syncer "tabvault/internal/sync"
	"tabvault/pkg/github"
	"tabvault/pkg/log"
)

// fakeGistClient is an in-memory gist store.
type fakeGistClient struct {
	gists  map[string]*github.Gist
	nextID int

	createErr error
	getErr    error
	updateErr error
}

func newFakeGistClient() *fakeGistClient {
	return &fakeGistClient{gists: map[string]*github.Gist{}, nextID: 1}
}

func (f *fakeGistClient) CreateGist(ctx context.Context, token string, req github.CreateGistRequest) (*github.Gist, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	id := "gist-" + string(rune('0'+f.nextID))
	f.nextID++
	g := &github.Gist{ID: id, Description: req.Description, Public: req.Public, Files: req.Files}
	f.gists[id] = g
	return g, nil
}

func (f *fakeGistClient) GetGist(ctx context.Context, token, id string) (*github.Gist, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	g, ok := f.gists[id]
	if !ok {
		return nil, &github.APIError{StatusCode: 404}
	}
	return g, nil
}

func (f *fakeGistClient) UpdateGist(ctx context.Context, token, id string, req github.UpdateGistRequest) (*github.Gist, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	g, ok := f.gists[id]
	if !ok {
		return nil, &github.APIError{StatusCode: 404}
	}
	for name, file := range req.Files {
		g.Files[name] = file
	}
	return g, nil
}

// fakeAuthRunner hands the op a fixed token without any retry logic.
type fakeAuthRunner struct {
	token string
	err   error
}

func (f *fakeAuthRunner) RunWithAuthRetry(ctx context.Context, op func(ctx context.Context, token string) error) error {
	if f.err != nil {
		return f.err
	}
	return op(ctx, f.token)
}

func newTestSyncer(t *testing.T) (*syncer.Syncer, *storage.Store, *fakeGistClient) {
	t.Helper()

	kv, err := storage.NewFileKV(filepath.Join(t.TempDir(), "tabvault.json"), log.Noop())
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}
	t.Cleanup(kv.Close)

	store := storage.New(kv, log.Noop())
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	gh := newFakeGistClient()
	s := syncer.New(log.Noop(), store, gh, &fakeAuthRunner{token: "gho_token"})
	return s, store, gh
}

func TestCreateGist(t *testing.T) {
	ctx := context.Background()
	s, store, gh := newTestSyncer(t)

	if _, err := store.CreateGroup("Work", "stuff"); err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	id, err := s.CreateGist(ctx, "gho_token")
	if err != nil {
		t.Fatalf("CreateGist: %v", err)
	}

	gist := gh.gists[id]
	if gist == nil {
		t.Fatal("gist not created")
	}
	if gist.Public {
		t.Error("backup gist must be secret")
	}
	file, ok := gist.Files[syncer.BackupFileName]
	if !ok {
		t.Fatalf("expected file %s, got %v", syncer.BackupFileName, gist.Files)
	}

	var data model.StorageData
	if err := json.Unmarshal([]byte(file.Content), &data); err != nil {
		t.Fatalf("content is not valid JSON: %v", err)
	}
	if len(data.Groups) != 2 {
		t.Errorf("expected 2 groups in backup, got %d", len(data.Groups))
	}
}

func TestUpdateGist(t *testing.T) {
	ctx := context.Background()

	t.Run("writes to the existing file name", func(t *testing.T) {
		s, _, gh := newTestSyncer(t)
		gh.gists["g1"] = &github.Gist{ID: "g1", Files: map[string]github.GistFile{
			"legacy-name.json": {Content: "{}"},
		}}

		if err := s.UpdateGist(ctx, "gho_token", "g1"); err != nil {
			t.Fatalf("UpdateGist: %v", err)
		}
		if _, ok := gh.gists["g1"].Files["legacy-name.json"]; !ok {
			t.Error("expected content under the gist's own file name")
		}
	})

	t.Run("missing gist is fatal", func(t *testing.T) {
		s, _, _ := newTestSyncer(t)

		err := s.UpdateGist(ctx, "gho_token", "nope")
		if !errors.Is(err, syncer.ErrGistNotFound) {
			t.Errorf("expected ErrGistNotFound, got %v", err)
		}
	})
}

func TestFetchGist(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip preserves the document", func(t *testing.T) {
		s, store, _ := newTestSyncer(t)

		g, _ := store.CreateGroup("Work", "stuff")
		if _, err := store.AddTabsToGroup(g.ID, []model.Tab{
			{Title: "Example", URL: "https://example.com", FavIconURL: "https://example.com/icon.png"},
		}); err != nil {
			t.Fatalf("AddTabsToGroup: %v", err)
		}
		before, _ := store.Read()

		id, err := s.CreateGist(ctx, "gho_token")
		if err != nil {
			t.Fatalf("CreateGist: %v", err)
		}

		// Wipe local state, then pull.
		if err := store.Write(model.NewDefaultData()); err != nil {
			t.Fatalf("Write: %v", err)
		}

		fetched, err := s.FetchGist(ctx, "gho_token", id)
		if err != nil {
			t.Fatalf("FetchGist: %v", err)
		}
		if !reflect.DeepEqual(fetched, before) {
			t.Errorf("round trip mismatch:\nbefore: %+v\nafter:  %+v", before, fetched)
		}

		after, _ := store.Read()
		if !reflect.DeepEqual(after, before) {
			t.Error("local store must be overwritten with the fetched document")
		}
	})

	t.Run("rejects documents missing required keys", func(t *testing.T) {
		s, _, gh := newTestSyncer(t)
		gh.gists["g1"] = &github.Gist{ID: "g1", Files: map[string]github.GistFile{
			syncer.BackupFileName: {Content: `{"groups": []}`},
		}}

		if _, err := s.FetchGist(ctx, "gho_token", "g1"); !errors.Is(err, syncer.ErrInvalidFormat) {
			t.Errorf("expected ErrInvalidFormat, got %v", err)
		}
	})

	t.Run("rejects non-JSON content", func(t *testing.T) {
		s, _, gh := newTestSyncer(t)
		gh.gists["g1"] = &github.Gist{ID: "g1", Files: map[string]github.GistFile{
			syncer.BackupFileName: {Content: "not json"},
		}}

		if _, err := s.FetchGist(ctx, "gho_token", "g1"); !errors.Is(err, syncer.ErrInvalidFormat) {
			t.Errorf("expected ErrInvalidFormat, got %v", err)
		}
	})

	t.Run("rejects gists with no files", func(t *testing.T) {
		s, _, gh := newTestSyncer(t)
		gh.gists["g1"] = &github.Gist{ID: "g1", Files: map[string]github.GistFile{}}

		if _, err := s.FetchGist(ctx, "gho_token", "g1"); !errors.Is(err, syncer.ErrNoFiles) {
			t.Errorf("expected ErrNoFiles, got %v", err)
		}
	})

	t.Run("missing gist", func(t *testing.T) {
		s, _, _ := newTestSyncer(t)

		if _, err := s.FetchGist(ctx, "gho_token", "nope"); !errors.Is(err, syncer.ErrGistNotFound) {
			t.Errorf("expected ErrGistNotFound, got %v", err)
		}
	})
}

func TestSyncToGist(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and remembers a gist when none configured", func(t *testing.T) {
		s, store, gh := newTestSyncer(t)

		id, err := s.SyncToGist(ctx, "gho_token", "")
		if err != nil {
			t.Fatalf("SyncToGist: %v", err)
		}
		if _, ok := gh.gists[id]; !ok {
			t.Error("gist not created")
		}

		settings, _ := store.GetSettings()
		if settings.GistID != id {
			t.Errorf("gist id not persisted, got %q", settings.GistID)
		}
	})

	t.Run("updates the configured gist", func(t *testing.T) {
		s, _, gh := newTestSyncer(t)
		gh.gists["g1"] = &github.Gist{ID: "g1", Files: map[string]github.GistFile{
			syncer.BackupFileName: {Content: "{}"},
		}}

		id, err := s.SyncToGist(ctx, "gho_token", "g1")
		if err != nil {
			t.Fatalf("SyncToGist: %v", err)
		}
		if id != "g1" {
			t.Errorf("expected existing gist id, got %q", id)
		}
		if len(gh.gists) != 1 {
			t.Error("no new gist may be created")
		}
	})
}

func TestWithRetryEntryPoints(t *testing.T) {
	ctx := context.Background()

	t.Run("push goes through the auth runner", func(t *testing.T) {
		s, store, _ := newTestSyncer(t)

		id, err := s.SyncToGistWithRetry(ctx, "")
		if err != nil {
			t.Fatalf("SyncToGistWithRetry: %v", err)
		}
		settings, _ := store.GetSettings()
		if settings.GistID != id {
			t.Error("gist id not persisted")
		}
	})

	t.Run("auth runner failures propagate", func(t *testing.T) {
		kv, err := storage.NewFileKV(filepath.Join(t.TempDir(), "tabvault.json"), log.Noop())
		if err != nil {
			t.Fatalf("NewFileKV: %v", err)
		}
		defer kv.Close()
		store := storage.New(kv, log.Noop())
		if err := store.Init(); err != nil {
			t.Fatalf("Init: %v", err)
		}

		authErr := errors.New("sign in required")
		s := syncer.New(log.Noop(), store, newFakeGistClient(), &fakeAuthRunner{err: authErr})

		if _, err := s.CreateGistWithRetry(ctx); !errors.Is(err, authErr) {
			t.Errorf("expected auth error, got %v", err)
		}
	})
}
