package nxview

import (
	"fmt"
	"os"
	"time"
)

// loadStats holds timing for one texture cache miss.
// Only populated when Viewer.debug is true.
type loadStats struct {
	path     string
	loadTime time.Duration
	err      error
}

// debugLogLoad prints a cache miss to stderr.
func (v *Viewer) debugLogLoad(stats loadStats) {
	if !v.debug {
		return
	}
	if stats.err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "[nxview] load %s failed after %v: %v\n",
			stats.path, stats.loadTime, stats.err)
		return
	}
	cs := v.cache.Stats()
	_, _ = fmt.Fprintf(os.Stderr, "[nxview] load %s: %v | textures: %d | hits: %d | misses: %d\n",
		stats.path, stats.loadTime, v.cache.Len(), cs.Hits, cs.Misses)
}

// debugLogSearch prints search timing to stderr.
func (v *Viewer) debugLogSearch(query string, results int, elapsed time.Duration) {
	if !v.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[nxview] search %q: %d results in %v\n", query, results, elapsed)
}

// debugMaxChildCount is the fanout above which expanding a node warns.
const debugMaxChildCount = 1000

// debugCheckChildCount warns on stderr when an expanded node has more than
// debugMaxChildCount children. Each path warns once.
func (v *Viewer) debugCheckChildCount(path string, n Node) {
	if !v.debug || v.warned[path] {
		return
	}
	if count := len(n.Children()); count > debugMaxChildCount {
		v.warned[path] = true
		_, _ = fmt.Fprintf(os.Stderr, "[nxview] warning: %s has %d children (threshold %d)\n",
			path, count, debugMaxChildCount)
	}
}
