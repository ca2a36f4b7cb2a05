// Package internal holds the supporting machinery of rxgen that is not part
// of its public API.
//
// Key components:
//
// Cache: keeps compiled patterns keyed by their source text, with an optional
// maximum age and least-recently-used eviction once full. The Engine consults
// it before compiling.
//
// Watcher: observes one file, normally the configuration file, and calls a
// handler when its content changes. Bursts of writes are debounced and
// rewrites with identical content are ignored by comparing md5 hashes.
//
// Usage:
//
//	w, err := internal.NewWatcher(".rxgen.yaml", logger, func(path string) {
//	    // reload
//	})
//	if err != nil {
//	    // handle error
//	}
//	if err := w.StartWatching(); err != nil {
//	    // handle error
//	}
//	defer w.StopWatching()
package internal
