package blockhash

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Provider caches the latest block for ttl. A failed fetch is returned as
// is: callers never receive a stale or empty hash in its place.
type Provider struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	cached    Block
	fetchedAt time.Time
}

func NewProvider(source Source, ttl time.Duration) *Provider {
	return &Provider{source: source, ttl: ttl, now: time.Now}
}

func (p *Provider) Current(ctx context.Context) (Block, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached.Hash != "" && p.now().Sub(p.fetchedAt) < p.ttl {
		return p.cached, nil
	}

	block, err := p.source.Latest(ctx)
	if err != nil {
		p.cached = Block{}
		return Block{}, err
	}
	if isZeroHash(block.Hash) {
		p.cached = Block{}
		return Block{}, ErrNoBlockHash
	}
	p.cached = block
	p.fetchedAt = p.now()
	return block, nil
}

func isZeroHash(hash string) bool {
	h := strings.TrimPrefix(strings.TrimPrefix(hash, "0x"), "0X")
	return strings.Trim(h, "0") == ""
}
