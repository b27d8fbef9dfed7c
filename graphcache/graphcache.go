// Package graphcache is an optional disk-backed cache of canonical
// key -> quality pairs, attachable to a graph.Graph so a later
// dispersed-frontier run on the same machine can skip re-deriving
// qualities a previous run already settled. It wraps BadgerDB with
// plain db.View/db.Update transactions over a byte-keyed store, with
// no schema beyond what each caller encodes into the value.
//
// graphcache is enrichment, not the persistence format: it has no
// notion of a call stack or pending edges, and it is never the only
// copy of a result. It is consulted as a hint; the only durable
// snapshot format is the one in package persist.
package graphcache

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/gridmaster/graph"
)

// Cache wraps a BadgerDB directory holding canonical-key -> quality
// byte pairs.
type Cache struct {
	db *badger.DB
}

// Open opens (creating if absent) a cache rooted at dir.
func Open(dir string) (*Cache, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("graphcache: open: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Get returns the cached quality for a canonical key, if present.
func (c *Cache) Get(key string) (graph.Quality, bool, error) {
	var quality graph.Quality
	found := false

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 1 {
				return fmt.Errorf("graphcache: corrupt value for key %q", key)
			}
			quality = graph.Quality(val[0])
			found = true
			return nil
		})
	})
	if err != nil {
		return graph.Unknown, false, fmt.Errorf("graphcache: get: %w", err)
	}
	return quality, found, nil
}

// Set stores a key's quality.
func (c *Cache) Set(key string, quality graph.Quality) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte{byte(quality)})
	})
	if err != nil {
		return fmt.Errorf("graphcache: set: %w", err)
	}
	return nil
}

// WarmGraph populates every already-labelled vertex of gr into the
// cache, for a future run to consult.
func (c *Cache) WarmGraph(gr *graph.Graph) error {
	return c.db.Update(func(txn *badger.Txn) error {
		for _, v := range gr.All() {
			if v.Quality == graph.Unknown {
				continue
			}
			if err := txn.Set([]byte(v.Key), []byte{byte(v.Quality)}); err != nil {
				return err
			}
		}
		return nil
	})
}

// ApplyTo copies every cached quality this cache knows about onto
// matching unlabelled vertices already present in gr (it never creates
// new vertices). Callers typically run this immediately after
// inserting a fresh root vertex and before exploring, so exploration
// can skip anything the cache already resolved.
func (c *Cache) ApplyTo(gr *graph.Graph) error {
	return c.db.View(func(txn *badger.Txn) error {
		for _, v := range gr.All() {
			if v.Quality != graph.Unknown {
				continue
			}
			item, err := txn.Get([]byte(v.Key))
			if err == badger.ErrKeyNotFound {
				continue
			}
			if err != nil {
				return err
			}
			if err := item.Value(func(val []byte) error {
				if len(val) == 1 {
					v.Quality = graph.Quality(val[0])
				}
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
}
