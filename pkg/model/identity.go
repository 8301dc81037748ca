package model

// PathSeparator joins the segments of a canonical binary key. It is reserved:
// component and variant names must not contain it, and scope paths may only
// use it as their segment separator. That keeps Key injective over distinct
// identities.
const PathSeparator = ":"

// BinaryID identifies a binary by its owning scope, component and variant.
// The zero ScopePath means the root scope.
type BinaryID struct {
	ScopePath string `json:"scopePath"`
	Component string `json:"component"`
	Variant   string `json:"variant"`
}

// Key returns the canonical string key for this identity, used for map
// lookups and deduplication. An absent scope path is encoded as the bare
// separator so that root-scope binaries still produce a distinct key.
func (id BinaryID) Key() string {
	key := id.ScopePath
	if key == "" {
		key = PathSeparator
	}
	return key + PathSeparator + id.Component + PathSeparator + id.Variant
}

func (id BinaryID) String() string {
	return id.Key()
}
