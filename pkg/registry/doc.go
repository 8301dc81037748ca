// Package registry provides a concrete scope registry backed by YAML
// workspace manifests.
//
// Each manifest file describes one scope: its path, whether it participates
// in the native component model, and its components with their binary
// variants. Dependencies are declared by canonical binary key and linked in
// a second pass after every manifest has been parsed, so declaration order
// across files does not matter. A reference that matches no registered
// binary is a load error unless the owning binary declares it as a prebuilt
// library.
//
// The loader caches parsed manifests keyed by path and modification time,
// so repeated reloads only re-parse files that changed. A Watcher can keep
// a registry fresh from filesystem events with a scheduled rescan as a
// fallback for edits the watcher misses.
package registry
