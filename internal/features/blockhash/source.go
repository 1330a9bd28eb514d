package blockhash

import (
	"context"
	"errors"
	"time"
)

// ErrNoBlockHash is returned when a source answers with an empty hash.
var ErrNoBlockHash = errors.New("no block hash available")

// Block is a reference-chain block captured at signing time.
type Block struct {
	Hash   string    `json:"hash"`
	Number uint64    `json:"number"`
	Time   time.Time `json:"time"`
}

// Source reports the latest block of a reference chain.
type Source interface {
	Latest(ctx context.Context) (Block, error)
}

// TimeLookup resolves the timestamp of a block by hash.
type TimeLookup interface {
	BlockTime(ctx context.Context, hash string) (time.Time, error)
}

// ErrUnknownBlock is returned by a TimeLookup for hashes the chain does not know.
var ErrUnknownBlock = errors.New("unknown block")
