package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/vanderheijden86/connections/pkg/model"
	"github.com/vanderheijden86/connections/pkg/store"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "session.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoad_Empty(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.Load(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Errorf("Load on empty db = %v, want ErrNoSession", err)
	}
}

func TestSaveLoadClear(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, payload := range []string{`{"version":1}`, `{"version":1,"tabs":[]}`} {
		if err := db.Save(ctx, []byte(payload)); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, err := db.Load(ctx)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if string(got) != payload {
			t.Errorf("Load = %s, want %s", got, payload)
		}
	}

	if err := db.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := db.Load(ctx); !errors.Is(err, ErrNoSession) {
		t.Errorf("Load after Clear = %v", err)
	}
}

func TestStoreSnapshotRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	src := store.New(store.Options{Language: model.LangEN})
	a := src.CreatePerson(10, 20)
	b := src.CreatePerson(30, 40)
	src.CreateConnection(a, b, model.KindFamily, model.RoleSister)
	src.NewTab()
	src.CreatePerson(0, 0)

	data, err := src.EncodeSnapshot()
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	if err := db.Save(ctx, data); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := db.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	dst := store.New(store.Options{})
	if !dst.RestoreSession(loaded) {
		t.Fatal("RestoreSession rejected a saved snapshot")
	}
	if n := len(dst.Tabs()); n != 2 {
		t.Fatalf("tabs = %d, want 2", n)
	}
	dst.CycleTab(-1)
	doc := dst.Doc()
	if len(doc.People) != 2 || len(doc.Connections) != 1 {
		t.Errorf("first tab has %d people and %d connections", len(doc.People), len(doc.Connections))
	}
	if doc.Connections[0].FamilyRole != model.RoleSister {
		t.Errorf("role = %q", doc.Connections[0].FamilyRole)
	}
}

func TestRecent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	db.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	for _, p := range []string{"/a.connections", "/b.connections", "/c.connections", "/a.connections"} {
		if err := db.Touch(ctx, p); err != nil {
			t.Fatalf("Touch: %v", err)
		}
	}
	got, err := db.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 || got[0] != "/a.connections" || got[1] != "/c.connections" {
		t.Errorf("Recent = %v", got)
	}
}
