package model

// BinaryKind names the family of build artifact a Binary belongs to. The
// resolution engine for one kind declines targets of any other kind so that
// a dispatching layer can try another strategy.
type BinaryKind string

const (
	// KindNative marks binaries built from native components in this build.
	KindNative BinaryKind = "native"
	// KindPrebuilt marks externally supplied artifacts. They can appear as
	// forward dependencies but have no dependents of their own to track.
	KindPrebuilt BinaryKind = "prebuilt"
)

// Binary is any build artifact known to the orchestrator.
type Binary interface {
	ID() BinaryID
	Kind() BinaryKind
}

// NativeBinary is a binary produced from a native component variant.
type NativeBinary interface {
	Binary

	// Buildable reports whether the binary can actually be built in the
	// current environment.
	Buildable() bool

	// TestSuite reports whether the binary is a test suite executable.
	TestSuite() bool

	// Dependencies returns the binary's declared forward dependencies in
	// declaration order. The list may include prebuilt binaries.
	Dependencies() []Binary
}

// Scope is an independent unit of the build (a project) that may register
// its own binaries. The root scope has path ":".
type Scope interface {
	Path() string

	// HasNativeModel reports whether the scope participates in the native
	// component model.
	HasNativeModel() bool

	NativeComponents() []NativeComponent
}

// NativeComponent is a source component that produces one binary per variant.
type NativeComponent interface {
	Name() string
	Binaries() []NativeBinary
}

// ScopeRegistry enumerates every scope in the build. Enumeration failures
// are configuration or environment errors and propagate to the caller
// unmodified.
type ScopeRegistry interface {
	AllScopes() ([]Scope, error)
}
