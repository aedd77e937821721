package localstore

import (
	"path/filepath"
	"testing"

	"github.com/shoplite/client/repository"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state.db"), "snapshots")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveLoadRoundtrip(t *testing.T) {
	store := openTestStore(t)

	type payload struct {
		Name  string  `json:"name"`
		Total float64 `json:"total"`
	}
	in := payload{Name: "cart", Total: 120.5}
	if err := store.Save(repository.SnapshotCart, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var out payload
	found, err := store.Load(repository.SnapshotCart, &out)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !found {
		t.Fatal("saved key not found")
	}
	if out != in {
		t.Errorf("roundtrip = %+v, want %+v", out, in)
	}
}

func TestLoadMissingKeyIsNotAnError(t *testing.T) {
	store := openTestStore(t)

	var out map[string]interface{}
	found, err := store.Load("never-written", &out)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if found {
		t.Error("missing key reported as found")
	}
}

func TestSaveReplacesPriorSnapshot(t *testing.T) {
	store := openTestStore(t)

	if err := store.Save(repository.SnapshotSession, map[string]string{"v": "one"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(repository.SnapshotSession, map[string]string{"v": "two"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var out map[string]string
	if _, err := store.Load(repository.SnapshotSession, &out); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out["v"] != "two" {
		t.Errorf("value = %q, want two", out["v"])
	}
}

func TestDeleteRemovesSnapshot(t *testing.T) {
	store := openTestStore(t)

	if err := store.Save(repository.SnapshotSession, "x"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(repository.SnapshotSession); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var out string
	found, err := store.Load(repository.SnapshotSession, &out)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if found {
		t.Error("deleted key still present")
	}
}

func TestKeysListsStoredSnapshots(t *testing.T) {
	store := openTestStore(t)

	for _, key := range []string{repository.SnapshotSession, repository.SnapshotCart} {
		if err := store.Save(key, "x"); err != nil {
			t.Fatalf("Save(%s): %v", key, err)
		}
	}
	keys, err := store.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("keys = %v, want 2 entries", keys)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := Open(path, "snapshots")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Save(repository.SnapshotSession, map[string]bool{"isAuth": true}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path, "snapshots")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	var out map[string]bool
	found, err := reopened.Load(repository.SnapshotSession, &out)
	if err != nil || !found {
		t.Fatalf("Load after reopen: found=%v err=%v", found, err)
	}
	if !out["isAuth"] {
		t.Error("snapshot lost across reopen")
	}
}
