package docstore

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestJoinAndPathHelpers(t *testing.T) {
	p := Join("users", "u1", "todos", "t1", "history")
	if p != "users/u1/todos/t1/history" {
		t.Fatalf("Join = %q", p)
	}
	if !p.IsCollection() || p.IsDoc() {
		t.Fatalf("expected collection path")
	}
	if got := p.Names(); len(got) != 3 || got[0] != "users" || got[1] != "todos" || got[2] != "history" {
		t.Fatalf("Names = %v", got)
	}
	if got := p.Parent(); got != "users/u1/todos/t1" {
		t.Fatalf("Parent = %q", got)
	}
	doc := p.Child("h1")
	if !doc.IsDoc() || doc.ID() != "h1" {
		t.Fatalf("Child = %q", doc)
	}
}

func TestJoinRejectsBadSegments(t *testing.T) {
	for _, segs := range [][]string{
		{"users", ""},
		{"users", "a/b"},
	} {
		if p := Join(segs...); p != "" {
			t.Fatalf("Join(%v) = %q, want empty", segs, p)
		}
	}
	if Path("users//x").Valid() {
		t.Fatalf("double slash path should be invalid")
	}
}

func TestNewIDIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID()
		if len(id) != 32 {
			t.Fatalf("id length = %d", len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestNewIDSortsInCreationOrder(t *testing.T) {
	prev := NewID()
	for i := 0; i < 2000; i++ {
		id := NewID()
		if id <= prev {
			t.Fatalf("id %d: %s does not sort after %s", i, id, prev)
		}
		prev = id
	}
}

func TestResolveReplacesSentinelDeep(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	in := Fields{
		"created_at": ServerTimestamp,
		"settings":   map[string]any{"touched_at": ServerTimestamp, "theme": "dark"},
		"name":       "x",
	}
	out := Resolve(in, now)
	if out["created_at"] != now {
		t.Fatalf("created_at = %v", out["created_at"])
	}
	nested := out["settings"].(Fields)
	if nested["touched_at"] != now || nested["theme"] != "dark" {
		t.Fatalf("nested = %v", nested)
	}
	if !IsServerTimestamp(in["created_at"]) {
		t.Fatalf("input must not be mutated")
	}
}

func TestFlatten(t *testing.T) {
	out := Flatten(Fields{
		"settings": Fields{"theme": "dark", "notifications": map[string]any{"email": true}},
		"name":     "Ann",
		"empty":    Fields{},
	})
	want := map[string]any{
		"settings.theme":               "dark",
		"settings.notifications.email": true,
		"name":                         "Ann",
	}
	for k, v := range want {
		if out[k] != v {
			t.Fatalf("%s = %v, want %v", k, out[k], v)
		}
	}
	if _, ok := out["empty"]; !ok {
		t.Fatalf("empty nested map should be kept")
	}
}

func TestClockIsStrictlyIncreasing(t *testing.T) {
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 123456789, time.UTC)
	c := NewClock(func() time.Time { return fixed })
	a, b := c.Now(), c.Now()
	if !b.After(a) {
		t.Fatalf("expected %v after %v", b, a)
	}
	if a.Nanosecond()%int(time.Millisecond) != 0 {
		t.Fatalf("timestamp not truncated to ms: %v", a)
	}
}

func TestBatchCollectsWrites(t *testing.T) {
	var got []Write
	b := NewBatch(func(ctx context.Context, w []Write) error {
		got = w
		return nil
	})
	doc := b.Add(Join("users", "u1", "categories"), Fields{"name": "Food"})
	b.Set(Join("users", "u1"), Fields{"name": "A"}, WithMerge())
	b.Delete(Join("users", "u1", "todos", "t1"))
	if err := b.Commit(context.Background()); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("writes = %d", len(got))
	}
	if got[0].Path != doc || got[0].Kind != WriteSet || got[0].Merge {
		t.Fatalf("add write = %+v", got[0])
	}
	if !got[1].Merge {
		t.Fatalf("merge flag lost")
	}
	if err := b.Commit(context.Background()); err == nil {
		t.Fatalf("second commit should fail")
	}
}

func TestBatchReportsInvalidPath(t *testing.T) {
	called := false
	b := NewBatch(func(ctx context.Context, w []Write) error {
		called = true
		return nil
	})
	b.Set(Path("users"), Fields{})
	if err := b.Commit(context.Background()); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("err = %v", err)
	}
	if called {
		t.Fatalf("commit func should not run")
	}
}
