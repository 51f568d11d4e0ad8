package memory

import (
	"context"
	"testing"

	webstorage "github.com/gdresist/optimizer/internal/services/web/storage"
)

func TestLocalViewIsolatesClients(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := New()
	alice := webstorage.Scope(store, "client-a")
	bob := webstorage.Scope(store, "client-b")

	if err := alice.SetItem(ctx, "activeTab", "slots"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, err := bob.GetItem(ctx, "activeTab"); err != nil || ok {
		t.Fatalf("bob sees alice's key: ok=%t err=%v", ok, err)
	}
	value, ok, err := alice.GetItem(ctx, "activeTab")
	if err != nil || !ok || value != "slots" {
		t.Fatalf("get = %q, %t, %v", value, ok, err)
	}

	if err := alice.RemoveItem(ctx, "activeTab"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := alice.RemoveItem(ctx, "activeTab"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	if keys := store.Keys("client-a"); len(keys) != 0 {
		t.Fatalf("keys = %v, want none", keys)
	}
}

func TestStoreValidatesAndCloses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := New()
	if err := store.Set(ctx, "", "k", "v"); err == nil {
		t.Fatal("expected blank client id to be rejected")
	}
	if err := store.Set(ctx, "c", " ", "v"); err == nil {
		t.Fatal("expected blank key to be rejected")
	}
	if _, _, err := webstorage.Scope(nil, "c").GetItem(ctx, "k"); err == nil {
		t.Fatal("expected unconfigured view to fail")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := store.Set(ctx, "c", "k", "v"); err == nil {
		t.Fatal("expected closed store to fail")
	}
}
