package loader

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/pkg/errors"
)

// Format identifies the file format backend to use.
type Format int

const (
	// FormatYAML selects the YAML rig document backend (.yaml, .yml).
	FormatYAML Format = iota

	// FormatGLTF selects the glTF JSON backend (.gltf).
	FormatGLTF

	// FormatGLB selects the binary glTF backend (.glb).
	FormatGLB
)

// String returns the file extension associated with the format, without the dot.
func (f Format) String() string {
	switch f {
	case FormatGLTF:
		return "gltf"
	case FormatGLB:
		return "glb"
	default:
		return "yaml"
	}
}

// FormatFromPath picks a Format from a file extension.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Format: the matching format
//   - error: error if the extension is not supported
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".gltf":
		return FormatGLTF, nil
	case ".glb":
		return FormatGLB, nil
	default:
		return 0, errors.Errorf("unsupported rig format: %q", ext)
	}
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu *sync.RWMutex

	ticksPerSecond float32

	assetCache map[string]*Asset

	backends map[Format]loaderBackend
}

// Loader defines the public-facing interface for loading, saving and caching rig assets.
// It abstracts the file format (YAML, glTF, GLB) behind a backend chosen by file extension
// and manages a cache of previously loaded assets keyed by path or name.
type Loader interface {
	// Load imports a rig file and caches the result.
	// If the asset is already cached (by file path), the cached version is returned.
	//
	// Parameters:
	//   - path: the file path to the rig file
	//
	// Returns:
	//   - *Asset: the loaded and cached asset
	//   - error: error if loading fails
	Load(path string) (*Asset, error)

	// Reload drops any cached copy of path and loads it again.
	//
	// Parameters:
	//   - path: the file path to the rig file
	//
	// Returns:
	//   - *Asset: the freshly loaded asset
	//   - error: error if loading fails; the previous cache entry is kept in that case
	Reload(path string) (*Asset, error)

	// LoadReader imports a rig from a stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded asset
	//   - r: the reader providing rig data
	//   - format: the encoding of the stream
	//
	// Returns:
	//   - *Asset: the loaded asset
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, format Format) (*Asset, error)

	// Get retrieves a cached asset by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *Asset: the cached asset or nil
	Get(name string) *Asset

	// Assets returns a copy of the asset cache.
	//
	// Returns:
	//   - map[string]*Asset: all cached assets keyed by name
	Assets() map[string]*Asset

	// Invalidate removes an asset from the cache.
	//
	// Parameters:
	//   - name: the cache key
	//
	// Returns:
	//   - bool: true if the asset was cached
	Invalidate(name string) bool

	// Save encodes an asset to a file, choosing the format from the extension,
	// and caches it under that path.
	//
	// Parameters:
	//   - path: the destination file path
	//   - asset: the asset to save
	//
	// Returns:
	//   - error: error if encoding or writing fails
	Save(path string, asset *Asset) error

	// Write encodes an asset to a stream in the given format.
	//
	// Parameters:
	//   - w: the destination writer
	//   - format: the encoding to use
	//   - asset: the asset to encode
	//
	// Returns:
	//   - error: error if encoding fails
	Write(w io.Writer, format Format, asset *Asset) error

	// Watch reloads path whenever it changes on disk and reports each result to
	// onChange. Watching stops when ctx is done.
	//
	// Parameters:
	//   - ctx: controls the lifetime of the watch
	//   - path: the rig file to watch
	//   - onChange: receives the reloaded asset, or the error that prevented the reload
	//
	// Returns:
	//   - error: error if the watch could not be established
	Watch(ctx context.Context, path string, onChange func(*Asset, error)) error

	// TicksPerSecond returns the tick rate used to convert seconds-based formats.
	//
	// Returns:
	//   - float32: ticks per second
	TicksPerSecond() float32
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with all format backends registered and options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided options
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:             &sync.RWMutex{},
		ticksPerSecond: animator.DefaultTicksPerSecond,
		assetCache:     make(map[string]*Asset),
	}

	for _, option := range options {
		option(l)
	}

	l.backends = map[Format]loaderBackend{
		FormatYAML: newYAMLLoaderBackend(l.ticksPerSecond),
		FormatGLTF: newGLTFLoaderBackend(l.ticksPerSecond, false),
		FormatGLB:  newGLTFLoaderBackend(l.ticksPerSecond, true),
	}
	return l
}

func (l *loader) Load(path string) (*Asset, error) {
	l.mu.RLock()
	if cached, ok := l.assetCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	return l.load(path)
}

func (l *loader) Reload(path string) (*Asset, error) {
	return l.load(path)
}

func (l *loader) LoadReader(name string, r io.Reader, format Format) (*Asset, error) {
	l.mu.RLock()
	if cached, ok := l.assetCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, ok := l.backends[format]
	if !ok {
		return nil, errors.Errorf("no backend for format %d", format)
	}

	asset, err := backend.LoadReader(r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s from reader %q", format, name)
	}
	if asset.Name == "" {
		asset.Name = name
	}

	l.store(name, asset)
	return asset, nil
}

func (l *loader) Get(name string) *Asset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.assetCache[name]
}

func (l *loader) Assets() map[string]*Asset {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*Asset, len(l.assetCache))
	for k, v := range l.assetCache {
		result[k] = v
	}
	return result
}

func (l *loader) Invalidate(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.assetCache[name]; !ok {
		return false
	}
	delete(l.assetCache, name)
	return true
}

func (l *loader) Save(path string, asset *Asset) error {
	if asset == nil {
		return errors.New("cannot save a nil asset")
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := l.Write(f, format, asset); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to save %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", path)
	}

	l.store(path, asset)
	log.Printf("[Loader] saved %q as %s", path, format)
	return nil
}

func (l *loader) Write(w io.Writer, format Format, asset *Asset) error {
	if asset == nil {
		return errors.New("cannot write a nil asset")
	}
	backend, ok := l.backends[format]
	if !ok {
		return errors.Errorf("no backend for format %d", format)
	}
	return backend.Write(w, asset)
}

func (l *loader) TicksPerSecond() float32 {
	return l.ticksPerSecond
}

// load resolves a backend for path, decodes it and replaces the cache entry.
func (l *loader) load(path string) (*Asset, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	asset, err := l.backends[format].Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	if asset.Name == "" {
		asset.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	l.store(path, asset)
	log.Printf("[Loader] loaded %q: %d nodes, %d tracks, %d ticks", path, len(asset.Nodes()), asset.Timeline.Len(), asset.Timeline.MaxTick())
	return asset, nil
}

func (l *loader) store(name string, asset *Asset) {
	if asset.Timeline == nil {
		asset.Timeline = animator.NewTimeline(animator.WithTimelineName(asset.Name))
	}
	if asset.TicksPerSecond <= 0 {
		asset.TicksPerSecond = l.ticksPerSecond
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.assetCache[name] = asset
}
