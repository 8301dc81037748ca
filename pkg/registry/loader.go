package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"

	"github.com/quarrybuild/quarry/pkg/model"
)

const (
	manifestCacheSize = 256
	manifestCacheTTL  = 10 * time.Minute
)

// Loader discovers scope manifests in a workspace directory and builds
// registries from them. Parsed manifests are cached by path and modification
// time so repeated loads only re-parse files that changed on disk.
type Loader struct {
	dir   string
	cache *lru.LRU[string, *Manifest]
	log   *logrus.Logger
}

// NewLoader creates a loader for the manifests under dir.
func NewLoader(dir string, log *logrus.Logger) *Loader {
	if log == nil {
		log = logrus.New()
	}
	return &Loader{
		dir:   dir,
		cache: lru.NewLRU[string, *Manifest](manifestCacheSize, nil, manifestCacheTTL),
		log:   log,
	}
}

// Load parses every manifest in the workspace and links dependency
// references into a Registry. Parse and link failures abort the whole load;
// a registry is never built from a partially readable workspace.
func (l *Loader) Load() (*Registry, error) {
	paths, err := l.manifestPaths()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scope manifests found in %s", l.dir)
	}

	manifests := make([]*Manifest, 0, len(paths))
	for _, path := range paths {
		m, err := l.parse(path)
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, m)
	}

	reg, err := link(manifests)
	if err != nil {
		return nil, err
	}

	l.log.WithFields(logrus.Fields{
		"scopes":   reg.ScopeCount(),
		"binaries": reg.BinaryCount(),
	}).Info("workspace manifests loaded")
	return reg, nil
}

// manifestPaths returns the workspace's manifest files in sorted order.
func (l *Loader) manifestPaths() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("reading workspace %s: %w", l.dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(l.dir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (l *Loader) parse(path string) (*Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	cacheKey := fmt.Sprintf("%s|%d", path, info.ModTime().UnixNano())
	if m, ok := l.cache.Get(cacheKey); ok {
		return m, nil
	}
	m, err := ParseManifestFile(path)
	if err != nil {
		return nil, err
	}
	l.cache.Add(cacheKey, m)
	l.log.WithField("path", path).Debug("manifest parsed")
	return m, nil
}

// link builds concrete scopes and binaries from parsed manifests, then
// resolves dependency keys to binary values in a second pass.
func link(manifests []*Manifest) (*Registry, error) {
	reg := &Registry{byKey: make(map[string]model.Binary)}

	type pending struct {
		owner    *binary
		manifest BinaryManifest
		scope    string
	}
	var toLink []pending

	for _, m := range manifests {
		s := &scope{path: m.Scope, native: m.Native}
		for _, cm := range m.Components {
			c := &component{name: cm.Name}
			for _, bm := range cm.Binaries {
				buildable := true
				if bm.Buildable != nil {
					buildable = *bm.Buildable
				}
				b := &binary{
					id: model.BinaryID{
						ScopePath: m.scopePath(),
						Component: cm.Name,
						Variant:   bm.Variant,
					},
					buildable: buildable,
					testSuite: bm.TestSuite,
				}
				key := b.id.Key()
				if _, dup := reg.byKey[key]; dup {
					return nil, fmt.Errorf("scope %s: duplicate binary %s", m.Scope, key)
				}
				reg.byKey[key] = b
				reg.binaries++
				c.binaries = append(c.binaries, b)
				toLink = append(toLink, pending{owner: b, manifest: bm, scope: m.Scope})
			}
			s.components = append(s.components, c)
		}
		reg.scopes = append(reg.scopes, s)
	}

	for _, p := range toLink {
		for _, depKey := range p.manifest.Dependencies {
			dep, ok := reg.byKey[depKey]
			if !ok {
				return nil, fmt.Errorf("scope %s: binary %s depends on unknown binary %q", p.scope, p.owner.id, depKey)
			}
			p.owner.deps = append(p.owner.deps, dep)
		}
		for _, name := range p.manifest.Prebuilt {
			p.owner.deps = append(p.owner.deps, &prebuilt{
				id: model.BinaryID{
					ScopePath: p.owner.id.ScopePath,
					Component: name,
					Variant:   "prebuilt",
				},
			})
		}
	}

	return reg, nil
}
