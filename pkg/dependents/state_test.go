package dependents

import (
	"testing"

	"github.com/quarrybuild/quarry/pkg/model"
)

func TestStateRegisterKeepsInsertionOrder(t *testing.T) {
	st := newState()
	first := newBinary(":b", "x", "debug")
	second := newBinary(":a", "y", "debug")
	st.register(first)
	st.register(second)
	st.register(first) // duplicate key must not reorder

	want := []string{":b:x:debug", ":a:y:debug"}
	if len(st.keys) != len(want) {
		t.Fatalf("Expected %d keys, got %v", len(want), st.keys)
	}
	for i, key := range want {
		if st.keys[i] != key {
			t.Errorf("keys[%d] = %q, want %q", i, st.keys[i], key)
		}
	}
}

func TestStateDependentsOfCachesFirstScan(t *testing.T) {
	target := newBinary(":p", "a", "debug")
	dependent := newBinary(":p", "b", "debug")
	st := newState()
	st.register(target)
	st.register(dependent)
	st.dependencies[dependent.ID().Key()] = []model.NativeBinary{target}

	got := st.dependentsOf(target)
	if len(got) != 1 || got[0].ID() != dependent.id {
		t.Fatalf("Expected [b], got %v", got)
	}

	// A second call must serve the cache, not rescan.
	st.dependencies[dependent.ID().Key()] = nil
	cached := st.dependentsOf(target)
	if len(cached) != 1 {
		t.Errorf("Expected cached scan result, got %v", cached)
	}
}

func TestStateDependentsOfEmpty(t *testing.T) {
	st := newState()
	target := newBinary(":p", "a", "debug")
	st.register(target)
	st.dependencies[target.ID().Key()] = nil

	if got := st.dependentsOf(target); len(got) != 0 {
		t.Errorf("Expected no dependents, got %v", got)
	}
}
