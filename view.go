package singletonindexer

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/shruggr/singleton-indexer/puzzle"
)

// LedgerView is the consumed chain interface: confirmed spends for a
// set of coin ids, and the current height. Implementations are owned by
// the node/peer collaborator.
type LedgerView interface {
	SpendsFor(coinIDs []puzzle.Hash) ([]*Spend, error)
	CurrentHeight() (uint32, error)
}

// CachedView memoizes confirmed spends by coin id. A confirmed spend is
// immutable, so a bounded LRU is safe; rollback does not need to
// invalidate because a re-orged spend is simply never asked for again
// by id.
type CachedView struct {
	inner LedgerView
	cache *lru.Cache[puzzle.Hash, *Spend]
}

func NewCachedView(inner LedgerView, size int) (*CachedView, error) {
	cache, err := lru.New[puzzle.Hash, *Spend](size)
	if err != nil {
		return nil, err
	}
	return &CachedView{inner: inner, cache: cache}, nil
}

func (v *CachedView) SpendsFor(coinIDs []puzzle.Hash) ([]*Spend, error) {
	spends := make([]*Spend, 0, len(coinIDs))
	var misses []puzzle.Hash
	for _, id := range coinIDs {
		if s, ok := v.cache.Get(id); ok {
			spends = append(spends, s)
		} else {
			misses = append(misses, id)
		}
	}
	if len(misses) > 0 {
		fetched, err := v.inner.SpendsFor(misses)
		if err != nil {
			return nil, err
		}
		for _, s := range fetched {
			v.cache.Add(s.Coin.ID(), s)
			spends = append(spends, s)
		}
	}
	return spends, nil
}

func (v *CachedView) CurrentHeight() (uint32, error) {
	return v.inner.CurrentHeight()
}
