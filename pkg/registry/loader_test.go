package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrybuild/quarry/pkg/dependents"
	"github.com/quarrybuild/quarry/pkg/model"
)

func writeManifest(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "lib.yaml", `
scope: ":lib"
native: true
components:
  - name: core
    binaries:
      - variant: debug
      - variant: release
`)
	writeManifest(t, dir, "app.yaml", `
scope: ":app"
native: true
components:
  - name: exe
    binaries:
      - variant: debug
        dependencies:
          - ":lib:core:debug"
`)

	reg, err := NewLoader(dir, nil).Load()
	require.NoError(t, err)

	assert.Equal(t, 2, reg.ScopeCount())
	assert.Equal(t, 3, reg.BinaryCount())

	exe, ok := reg.FindBinary(":app:exe:debug")
	require.True(t, ok)
	native, ok := exe.(model.NativeBinary)
	require.True(t, ok)
	require.Len(t, native.Dependencies(), 1)
	assert.Equal(t, ":lib:core:debug", native.Dependencies()[0].ID().Key())
}

func TestLoaderLoad_EmptyWorkspace(t *testing.T) {
	_, err := NewLoader(t.TempDir(), nil).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scope manifests")
}

func TestLoaderLoad_UnknownDependency(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "app.yaml", `
scope: ":app"
native: true
components:
  - name: exe
    binaries:
      - variant: debug
        dependencies:
          - ":lib:core:debug"
`)

	_, err := NewLoader(dir, nil).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown binary ":lib:core:debug"`)
}

func TestLoaderLoad_DuplicateBinary(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "a.yaml", `
scope: ":app"
native: true
components:
  - name: exe
    binaries:
      - variant: debug
`)
	writeManifest(t, dir, "b.yaml", `
scope: ":app"
native: true
components:
  - name: exe
    binaries:
      - variant: debug
`)

	_, err := NewLoader(dir, nil).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate binary")
}

func TestLoaderLoad_RootScopeAndPrebuilt(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "root.yaml", `
scope: ":"
native: true
components:
  - name: util
    binaries:
      - variant: debug
        buildable: false
        prebuilt:
          - ssl
`)

	reg, err := NewLoader(dir, nil).Load()
	require.NoError(t, err)

	util, ok := reg.FindBinary("::util:debug")
	require.True(t, ok, "root-scope binaries are keyed with the separator sentinel")
	native := util.(model.NativeBinary)
	assert.False(t, native.Buildable())

	require.Len(t, native.Dependencies(), 1)
	dep := native.Dependencies()[0]
	assert.Equal(t, model.KindPrebuilt, dep.Kind())
	_, isNative := dep.(model.NativeBinary)
	assert.False(t, isNative, "prebuilt libraries must not satisfy NativeBinary")
}

func TestLoaderLoad_NonNativeScope(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "docs.yaml", `
scope: ":docs"
native: false
`)
	writeManifest(t, dir, "lib.yaml", `
scope: ":lib"
native: true
components:
  - name: core
    binaries:
      - variant: debug
`)

	reg, err := NewLoader(dir, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, 2, reg.ScopeCount())
	assert.Equal(t, 1, reg.BinaryCount())
}

func TestParseManifest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "scope without leading separator",
			yaml:    "scope: app\nnative: true\n",
			wantErr: "must start with",
		},
		{
			name: "component name with separator",
			yaml: `
scope: ":app"
native: true
components:
  - name: "bad:name"
    binaries:
      - variant: debug
`,
			wantErr: "reserved separator",
		},
		{
			name: "empty variant",
			yaml: `
scope: ":app"
native: true
components:
  - name: exe
    binaries:
      - testSuite: true
`,
			wantErr: "empty variant",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseManifest_RootScopeNormalized(t *testing.T) {
	m, err := ParseManifest([]byte("native: true\n"))
	require.NoError(t, err)
	assert.Equal(t, ":", m.Scope)
	assert.Equal(t, "", m.scopePath())
}

// Loading a workspace and resolving through it exercises the full path from
// manifests to result trees.
func TestLoadedRegistryResolution(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "lib.yaml", `
scope: ":lib"
native: true
components:
  - name: core
    binaries:
      - variant: debug
`)
	writeManifest(t, dir, "app.yaml", `
scope: ":app"
native: true
components:
  - name: exe
    binaries:
      - variant: debug
        dependencies:
          - ":lib:core:debug"
  - name: tests
    binaries:
      - variant: debug
        testSuite: true
        dependencies:
          - ":app:exe:debug"
`)

	reg, err := NewLoader(dir, nil).Load()
	require.NoError(t, err)

	target, ok := reg.FindBinary(":lib:core:debug")
	require.True(t, ok)

	results, supported, err := dependents.NewResolver(reg).ResolveDependents(target)
	require.NoError(t, err)
	require.True(t, supported)

	require.Len(t, results, 1)
	assert.Equal(t, ":app:exe:debug", results[0].ID.Key())
	require.Len(t, results[0].Children, 1)
	assert.Equal(t, ":app:tests:debug", results[0].Children[0].ID.Key())
	assert.True(t, results[0].Children[0].TestSuite)
}
