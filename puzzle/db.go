package puzzle

import "sync"

// DB is an in-memory index of known programs by tree hash, used to
// recover the full puzzle reveal for a coin's commitment hash.
type DB struct {
	mu     sync.RWMutex
	byHash map[Hash]*Program
}

func NewDB() *DB {
	return &DB{byHash: make(map[Hash]*Program)}
}

// Add indexes p and returns its tree hash.
func (db *DB) Add(p *Program) Hash {
	h := p.TreeHash()
	db.mu.Lock()
	db.byHash[h] = p
	db.mu.Unlock()
	return h
}

// Get returns nil when the hash is unknown.
func (db *DB) Get(h Hash) *Program {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.byHash[h]
}
