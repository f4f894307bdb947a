package data

import (
	"context"
	"path/filepath"
	"testing"
)

func TestExclusionRoundTrip(t *testing.T) {
	r, err := NewExclusionRepo(filepath.Join(t.TempDir(), "exclusions.db"))
	if err != nil {
		t.Fatalf("create exclusion repo: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	ctx := context.Background()

	added, err := r.AddExcludedChat(ctx, "oc_abc")
	if err != nil || !added {
		t.Fatalf("add = (%v, %v), want (true, nil)", added, err)
	}
	// Adding again is a no-op
	added, err = r.AddExcludedChat(ctx, "oc_abc")
	if err != nil || added {
		t.Fatalf("re-add = (%v, %v), want (false, nil)", added, err)
	}

	chats, err := r.GetExcludedChats(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(chats) != 1 || chats[0] != "oc_abc" {
		t.Errorf("chats = %v", chats)
	}

	removed, err := r.RemoveExcludedChat(ctx, "oc_abc")
	if err != nil || !removed {
		t.Fatalf("remove = (%v, %v), want (true, nil)", removed, err)
	}
	removed, err = r.RemoveExcludedChat(ctx, "oc_abc")
	if err != nil || removed {
		t.Fatalf("re-remove = (%v, %v), want (false, nil)", removed, err)
	}
}
