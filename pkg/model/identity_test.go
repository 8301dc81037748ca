package model

import "testing"

func TestBinaryIDKey(t *testing.T) {
	tests := []struct {
		name string
		id   BinaryID
		want string
	}{
		{
			name: "nested scope",
			id:   BinaryID{ScopePath: ":app:core", Component: "lib", Variant: "debug"},
			want: ":app:core:lib:debug",
		},
		{
			name: "top level scope",
			id:   BinaryID{ScopePath: ":app", Component: "exe", Variant: "release"},
			want: ":app:exe:release",
		},
		{
			name: "root scope uses separator sentinel",
			id:   BinaryID{ScopePath: "", Component: "lib", Variant: "debug"},
			want: "::lib:debug",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.id.Key(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBinaryIDKeyDistinguishesIdentities(t *testing.T) {
	ids := []BinaryID{
		{ScopePath: "", Component: "lib", Variant: "debug"},
		{ScopePath: ":lib", Component: "lib", Variant: "debug"},
		{ScopePath: ":app", Component: "lib", Variant: "debug"},
		{ScopePath: ":app", Component: "lib", Variant: "release"},
		{ScopePath: ":app", Component: "exe", Variant: "debug"},
	}
	seen := make(map[string]BinaryID)
	for _, id := range ids {
		key := id.Key()
		if prior, dup := seen[key]; dup {
			t.Errorf("Key %q produced by both %+v and %+v", key, prior, id)
		}
		seen[key] = id
	}
}

func TestBinaryIDStringMatchesKey(t *testing.T) {
	id := BinaryID{ScopePath: ":app", Component: "lib", Variant: "debug"}
	if id.String() != id.Key() {
		t.Errorf("String() = %q, Key() = %q", id.String(), id.Key())
	}
}
