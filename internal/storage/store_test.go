package storage_test

import (
	"errors"
	"path/filepath"
	"testing"

	"tabvault/internal/model"
	"tabvault/internal/storage"
	"tabvault/pkg/log"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()

	kv, err := storage.NewFileKV(filepath.Join(t.TempDir(), "tabvault.json"), log.Noop())
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}
	t.Cleanup(kv.Close)

	s := storage.New(kv, log.Noop())
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return s
}

func TestInit(t *testing.T) {
	t.Run("creates default group on empty storage", func(t *testing.T) {
		s := newTestStore(t)

		groups, err := s.GetGroups()
		if err != nil {
			t.Fatalf("GetGroups: %v", err)
		}
		if len(groups) != 1 {
			t.Fatalf("expected 1 group, got %d", len(groups))
		}
		if groups[0].ID != model.DefaultGroupID {
			t.Errorf("expected default group id, got %q", groups[0].ID)
		}

		settings, err := s.GetSettings()
		if err != nil {
			t.Fatalf("GetSettings: %v", err)
		}
		if !settings.CloseAndSave {
			t.Error("expected closeAndSave default true")
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		s := newTestStore(t)
		if _, err := s.CreateGroup("Work", ""); err != nil {
			t.Fatalf("CreateGroup: %v", err)
		}

		if err := s.Init(); err != nil {
			t.Fatalf("second Init: %v", err)
		}

		groups, _ := s.GetGroups()
		if len(groups) != 2 {
			t.Fatalf("expected 2 groups after re-init, got %d", len(groups))
		}
	})

	t.Run("reinserts missing default group first", func(t *testing.T) {
		s := newTestStore(t)

		data, _ := s.Read()
		data.Groups = []model.Group{{ID: "other", Name: "Other"}}
		if err := s.Write(data); err != nil {
			t.Fatalf("Write: %v", err)
		}

		if err := s.Init(); err != nil {
			t.Fatalf("Init: %v", err)
		}
		groups, _ := s.GetGroups()
		if len(groups) != 2 || groups[0].ID != model.DefaultGroupID {
			t.Errorf("expected default group first, got %+v", groups)
		}
	})
}

func TestCreateGroup(t *testing.T) {
	t.Run("generates id and timestamps", func(t *testing.T) {
		s := newTestStore(t)

		g, err := s.CreateGroup("  Work  ", "projects")
		if err != nil {
			t.Fatalf("CreateGroup: %v", err)
		}
		if g.ID == "" {
			t.Error("expected generated id")
		}
		if g.Name != "Work" {
			t.Errorf("expected trimmed name, got %q", g.Name)
		}
		if g.Description != "projects" {
			t.Errorf("unexpected description %q", g.Description)
		}
		if g.Tabs == nil || len(g.Tabs) != 0 {
			t.Errorf("expected empty tab slice, got %v", g.Tabs)
		}
		if g.CreatedAt.IsZero() || g.UpdatedAt.IsZero() {
			t.Error("expected timestamps to be set")
		}
	})

	t.Run("rejects empty name", func(t *testing.T) {
		s := newTestStore(t)

		if _, err := s.CreateGroup("   ", ""); !errors.Is(err, storage.ErrEmptyGroupName) {
			t.Errorf("expected ErrEmptyGroupName, got %v", err)
		}
	})

	t.Run("rejects duplicate name case-insensitively", func(t *testing.T) {
		s := newTestStore(t)

		if _, err := s.CreateGroup("Work", ""); err != nil {
			t.Fatalf("CreateGroup: %v", err)
		}
		if _, err := s.CreateGroup("  wOrK ", ""); !errors.Is(err, storage.ErrDuplicateGroupName) {
			t.Errorf("expected ErrDuplicateGroupName, got %v", err)
		}
	})

	t.Run("save does not re-check uniqueness", func(t *testing.T) {
		s := newTestStore(t)

		a, _ := s.CreateGroup("A", "")
		if _, err := s.CreateGroup("B", ""); err != nil {
			t.Fatalf("CreateGroup: %v", err)
		}

		if _, err := s.SaveGroup(a.ID, "B", ""); err != nil {
			t.Errorf("expected rename to duplicate to succeed, got %v", err)
		}
	})
}

func TestDeleteGroup(t *testing.T) {
	t.Run("protects the default group", func(t *testing.T) {
		s := newTestStore(t)

		if err := s.DeleteGroup(model.DefaultGroupID); !errors.Is(err, storage.ErrDefaultGroupProtected) {
			t.Errorf("expected ErrDefaultGroupProtected, got %v", err)
		}
	})

	t.Run("deletes other groups with their tabs", func(t *testing.T) {
		s := newTestStore(t)

		g, _ := s.CreateGroup("Work", "")
		if _, err := s.AddTabsToGroup(g.ID, []model.Tab{{URL: "https://example.com"}}); err != nil {
			t.Fatalf("AddTabsToGroup: %v", err)
		}

		if err := s.DeleteGroup(g.ID); err != nil {
			t.Fatalf("DeleteGroup: %v", err)
		}
		groups, _ := s.GetGroups()
		if len(groups) != 1 {
			t.Errorf("expected only default group, got %d", len(groups))
		}
	})

	t.Run("unknown group", func(t *testing.T) {
		s := newTestStore(t)

		if err := s.DeleteGroup("nope"); !errors.Is(err, storage.ErrGroupNotFound) {
			t.Errorf("expected ErrGroupNotFound, got %v", err)
		}
	})
}

func TestAddTabsToGroup(t *testing.T) {
	t.Run("drops tabs whose url already exists", func(t *testing.T) {
		s := newTestStore(t)
		g, _ := s.CreateGroup("Work", "")

		first, err := s.AddTabsToGroup(g.ID, []model.Tab{
			{Title: "Example", URL: "https://example.com"},
		})
		if err != nil {
			t.Fatalf("AddTabsToGroup: %v", err)
		}
		originalID := first.Tabs[0].ID

		second, err := s.AddTabsToGroup(g.ID, []model.Tab{
			{Title: "Example again", URL: "https://example.com"},
			{Title: "Other", URL: "https://other.com"},
		})
		if err != nil {
			t.Fatalf("AddTabsToGroup: %v", err)
		}

		if len(second.Tabs) != 2 {
			t.Fatalf("expected 2 tabs, got %d", len(second.Tabs))
		}
		if second.Tabs[0].ID != originalID {
			t.Error("existing tab should win on url collision")
		}
		if second.Tabs[0].Title != "Example" {
			t.Errorf("existing tab title should be untouched, got %q", second.Tabs[0].Title)
		}
	})

	t.Run("leaves UpdatedAt alone when nothing was added", func(t *testing.T) {
		s := newTestStore(t)
		g, _ := s.CreateGroup("Work", "")

		g1, _ := s.AddTabsToGroup(g.ID, []model.Tab{{URL: "https://example.com"}})
		g2, err := s.AddTabsToGroup(g.ID, []model.Tab{{URL: "https://example.com"}})
		if err != nil {
			t.Fatalf("AddTabsToGroup: %v", err)
		}
		if !g2.UpdatedAt.Equal(g1.UpdatedAt) {
			t.Error("UpdatedAt should not change on no-op add")
		}
	})

	t.Run("generates tab ids", func(t *testing.T) {
		s := newTestStore(t)
		g, _ := s.CreateGroup("Work", "")

		out, _ := s.AddTabsToGroup(g.ID, []model.Tab{{URL: "https://example.com"}})
		if out.Tabs[0].ID == "" {
			t.Error("expected generated tab id")
		}
		if out.Tabs[0].CreatedAt.IsZero() {
			t.Error("expected tab CreatedAt to be set")
		}
	})
}

func TestRemoveTabFromGroup(t *testing.T) {
	s := newTestStore(t)
	g, _ := s.CreateGroup("Work", "")
	out, _ := s.AddTabsToGroup(g.ID, []model.Tab{
		{URL: "https://a.com"},
		{URL: "https://b.com"},
	})

	if err := s.RemoveTabFromGroup(g.ID, out.Tabs[0].ID); err != nil {
		t.Fatalf("RemoveTabFromGroup: %v", err)
	}
	groups, _ := s.GetGroups()
	for _, gr := range groups {
		if gr.ID != g.ID {
			continue
		}
		if len(gr.Tabs) != 1 || gr.Tabs[0].URL != "https://b.com" {
			t.Errorf("unexpected tabs after removal: %+v", gr.Tabs)
		}
	}

	if err := s.RemoveTabFromGroup(g.ID, "nope"); !errors.Is(err, storage.ErrTabNotFound) {
		t.Errorf("expected ErrTabNotFound, got %v", err)
	}
}

func TestReorderTabsInGroup(t *testing.T) {
	setup := func(t *testing.T) (*storage.Store, model.Group) {
		s := newTestStore(t)
		g, _ := s.CreateGroup("Work", "")
		out, err := s.AddTabsToGroup(g.ID, []model.Tab{
			{URL: "https://a.com"},
			{URL: "https://b.com"},
			{URL: "https://c.com"},
		})
		if err != nil {
			t.Fatalf("AddTabsToGroup: %v", err)
		}
		return s, out
	}

	t.Run("applies a full permutation", func(t *testing.T) {
		s, g := setup(t)

		order := []string{g.Tabs[2].ID, g.Tabs[0].ID, g.Tabs[1].ID}
		if err := s.ReorderTabsInGroup(g.ID, order); err != nil {
			t.Fatalf("ReorderTabsInGroup: %v", err)
		}

		groups, _ := s.GetGroups()
		for _, gr := range groups {
			if gr.ID != g.ID {
				continue
			}
			for i, id := range order {
				if gr.Tabs[i].ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, gr.Tabs[i].ID)
				}
			}
		}
	})

	t.Run("rejects missing ids", func(t *testing.T) {
		s, g := setup(t)

		err := s.ReorderTabsInGroup(g.ID, []string{g.Tabs[0].ID, g.Tabs[1].ID})
		if !errors.Is(err, storage.ErrBadPermutation) {
			t.Errorf("expected ErrBadPermutation, got %v", err)
		}
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		s, g := setup(t)

		err := s.ReorderTabsInGroup(g.ID, []string{g.Tabs[0].ID, g.Tabs[0].ID, g.Tabs[1].ID})
		if !errors.Is(err, storage.ErrBadPermutation) {
			t.Errorf("expected ErrBadPermutation, got %v", err)
		}
	})

	t.Run("rejects unknown ids", func(t *testing.T) {
		s, g := setup(t)

		err := s.ReorderTabsInGroup(g.ID, []string{g.Tabs[0].ID, g.Tabs[1].ID, "nope"})
		if !errors.Is(err, storage.ErrBadPermutation) {
			t.Errorf("expected ErrBadPermutation, got %v", err)
		}
	})
}

func TestReorderGroups(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.CreateGroup("A", "")
	b, _ := s.CreateGroup("B", "")

	if err := s.ReorderGroups([]string{b.ID, a.ID, model.DefaultGroupID}); err != nil {
		t.Fatalf("ReorderGroups: %v", err)
	}
	groups, _ := s.GetGroups()
	if groups[0].ID != b.ID || groups[2].ID != model.DefaultGroupID {
		t.Errorf("unexpected order: %v", groups)
	}

	if err := s.ReorderGroups([]string{a.ID}); !errors.Is(err, storage.ErrBadPermutation) {
		t.Errorf("expected ErrBadPermutation, got %v", err)
	}
}

func TestMoveTabBetweenGroups(t *testing.T) {
	t.Run("same group move is a no-op", func(t *testing.T) {
		s := newTestStore(t)
		g, _ := s.CreateGroup("Work", "")
		out, _ := s.AddTabsToGroup(g.ID, []model.Tab{{URL: "https://a.com"}})

		g1, _ := s.GetGroups()
		if err := s.MoveTabBetweenGroups(out.Tabs[0].ID, g.ID, g.ID); err != nil {
			t.Fatalf("MoveTabBetweenGroups: %v", err)
		}
		g2, _ := s.GetGroups()

		for i := range g1 {
			if !g1[i].UpdatedAt.Equal(g2[i].UpdatedAt) {
				t.Error("same-group move must not touch UpdatedAt")
			}
		}
	})

	t.Run("replaces same-url tab in target", func(t *testing.T) {
		s := newTestStore(t)
		from, _ := s.CreateGroup("From", "")
		to, _ := s.CreateGroup("To", "")

		fromOut, _ := s.AddTabsToGroup(from.ID, []model.Tab{
			{Title: "Moved", URL: "https://dup.com"},
		})
		if _, err := s.AddTabsToGroup(to.ID, []model.Tab{
			{Title: "Old", URL: "https://dup.com"},
			{Title: "Keep", URL: "https://keep.com"},
		}); err != nil {
			t.Fatalf("AddTabsToGroup: %v", err)
		}

		if err := s.MoveTabBetweenGroups(fromOut.Tabs[0].ID, from.ID, to.ID); err != nil {
			t.Fatalf("MoveTabBetweenGroups: %v", err)
		}

		groups, _ := s.GetGroups()
		for _, g := range groups {
			switch g.ID {
			case from.ID:
				if len(g.Tabs) != 0 {
					t.Errorf("source should be empty, got %d tabs", len(g.Tabs))
				}
			case to.ID:
				if len(g.Tabs) != 2 {
					t.Fatalf("target should have 2 tabs, got %d", len(g.Tabs))
				}
				last := g.Tabs[len(g.Tabs)-1]
				if last.Title != "Moved" || last.URL != "https://dup.com" {
					t.Errorf("moved tab should be appended last, got %+v", last)
				}
			}
		}
	})

	t.Run("unknown tab", func(t *testing.T) {
		s := newTestStore(t)
		from, _ := s.CreateGroup("From", "")
		to, _ := s.CreateGroup("To", "")

		if err := s.MoveTabBetweenGroups("nope", from.ID, to.ID); !errors.Is(err, storage.ErrTabNotFound) {
			t.Errorf("expected ErrTabNotFound, got %v", err)
		}
	})
}

func TestSettings(t *testing.T) {
	s := newTestStore(t)

	settings, _ := s.GetSettings()
	settings.GistID = "abc123"
	settings.OAuthToken = "gho_secret"
	if err := s.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	got, _ := s.GetSettings()
	if got.GistID != "abc123" || got.OAuthToken != "gho_secret" {
		t.Errorf("settings round trip failed: %+v", got)
	}

	groups, _ := s.GetGroups()
	if len(groups) != 1 {
		t.Error("SaveSettings must not touch groups")
	}
}

func TestVerifier(t *testing.T) {
	s := newTestStore(t)

	if _, ok, _ := s.LoadVerifier(); ok {
		t.Fatal("expected no verifier initially")
	}

	if err := s.SaveVerifier("ver123"); err != nil {
		t.Fatalf("SaveVerifier: %v", err)
	}
	v, ok, err := s.LoadVerifier()
	if err != nil || !ok || v != "ver123" {
		t.Fatalf("LoadVerifier: %q %v %v", v, ok, err)
	}

	if err := s.ClearVerifier(); err != nil {
		t.Fatalf("ClearVerifier: %v", err)
	}
	if _, ok, _ := s.LoadVerifier(); ok {
		t.Error("expected verifier cleared")
	}
}
