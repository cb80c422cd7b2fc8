package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tabvault/internal/storage"
	"tabvault/pkg/log"
)

func newTestKV(t *testing.T) (*storage.FileKV, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tabvault.json")
	kv, err := storage.NewFileKV(path, log.Noop())
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}
	t.Cleanup(kv.Close)
	return kv, path
}

func TestFileKV(t *testing.T) {
	t.Run("get on missing key and missing file", func(t *testing.T) {
		kv, _ := newTestKV(t)

		var out string
		ok, err := kv.Get("nope", &out)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if ok {
			t.Error("expected miss on empty store")
		}
	})

	t.Run("set then get round trip", func(t *testing.T) {
		kv, _ := newTestKV(t)

		type payload struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		}
		if err := kv.Set("key", payload{Name: "x", Count: 3}, "origin-a"); err != nil {
			t.Fatalf("Set: %v", err)
		}

		var got payload
		ok, err := kv.Get("key", &got)
		if err != nil || !ok {
			t.Fatalf("Get: ok=%v err=%v", ok, err)
		}
		if got.Name != "x" || got.Count != 3 {
			t.Errorf("unexpected value: %+v", got)
		}
	})

	t.Run("delete missing key is a no-op", func(t *testing.T) {
		kv, _ := newTestKV(t)

		if err := kv.Delete("nope", "origin-a"); err != nil {
			t.Errorf("Delete: %v", err)
		}
	})

	t.Run("writes survive reopening", func(t *testing.T) {
		kv, path := newTestKV(t)
		if err := kv.Set("key", "value", "origin-a"); err != nil {
			t.Fatalf("Set: %v", err)
		}
		kv.Close()

		kv2, err := storage.NewFileKV(path, log.Noop())
		if err != nil {
			t.Fatalf("NewFileKV: %v", err)
		}
		defer kv2.Close()

		var got string
		ok, err := kv2.Get("key", &got)
		if err != nil || !ok || got != "value" {
			t.Errorf("reopen round trip failed: %q ok=%v err=%v", got, ok, err)
		}
	})
}

func TestFileKVEvents(t *testing.T) {
	t.Run("set notifies with the writer origin", func(t *testing.T) {
		kv, _ := newTestKV(t)

		ch, unsub := kv.Subscribe()
		defer unsub()

		if err := kv.Set("key", "value", "origin-a"); err != nil {
			t.Fatalf("Set: %v", err)
		}

		select {
		case ev := <-ch:
			if ev.Key != "key" || ev.Origin != "origin-a" {
				t.Errorf("unexpected event %+v", ev)
			}
		case <-time.After(time.Second):
			t.Fatal("no event received")
		}
	})

	t.Run("unsubscribe closes the channel", func(t *testing.T) {
		kv, _ := newTestKV(t)

		ch, unsub := kv.Subscribe()
		unsub()

		if _, ok := <-ch; ok {
			t.Error("expected closed channel")
		}
	})

	t.Run("external file edits surface with empty origin", func(t *testing.T) {
		kv, path := newTestKV(t)
		if err := kv.Set("key", "mine", "origin-a"); err != nil {
			t.Fatalf("Set: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := kv.Watch(ctx); err != nil {
			t.Fatalf("Watch: %v", err)
		}

		ch, unsub := kv.Subscribe()
		defer unsub()

		// Simulate another process replacing the file.
		if err := os.WriteFile(path, []byte(`{"key": "theirs"}`), 0o600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}

		select {
		case ev := <-ch:
			if ev.Key != "key" {
				t.Errorf("unexpected key %q", ev.Key)
			}
			if ev.Origin != "" {
				t.Errorf("external edit must have empty origin, got %q", ev.Origin)
			}
		case <-time.After(3 * time.Second):
			t.Fatal("no external change event received")
		}
	})

	t.Run("own writes do not echo through the watcher", func(t *testing.T) {
		kv, _ := newTestKV(t)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := kv.Watch(ctx); err != nil {
			t.Fatalf("Watch: %v", err)
		}

		ch, unsub := kv.Subscribe()
		defer unsub()

		if err := kv.Set("key", "value", "origin-a"); err != nil {
			t.Fatalf("Set: %v", err)
		}

		// The direct notification arrives first; the watcher must not
		// produce a second, origin-less echo of the same write.
		select {
		case ev := <-ch:
			if ev.Origin != "origin-a" {
				t.Fatalf("expected direct event, got %+v", ev)
			}
		case <-time.After(time.Second):
			t.Fatal("no direct event received")
		}

		select {
		case ev := <-ch:
			t.Errorf("unexpected watcher echo %+v", ev)
		case <-time.After(500 * time.Millisecond):
		}
	})
}
