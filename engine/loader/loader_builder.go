package loader

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithTicksPerSecond sets the tick rate used to convert between ticks and the
// seconds-based glTF timestamps, and the default for YAML documents that omit one.
// Non-positive values keep the default.
//
// Parameters:
//   - tps: ticks per second
//
// Returns:
//   - LoaderBuilderOption: a function that applies the tick rate option to a loader
func WithTicksPerSecond(tps float32) LoaderBuilderOption {
	return func(l *loader) {
		if tps > 0 {
			l.ticksPerSecond = tps
		}
	}
}

// WithAsset is an option builder that pre-populates the asset cache.
//
// Parameters:
//   - key: the cache key for the asset
//   - asset: the asset to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the asset option to a loader
func WithAsset(key string, asset *Asset) LoaderBuilderOption {
	return func(l *loader) {
		if asset != nil {
			l.assetCache[key] = asset
		}
	}
}
