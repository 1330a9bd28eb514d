package blockhash

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/xssnick/tonutils-go/liteclient"
	"github.com/xssnick/tonutils-go/ton"
)

type masterchainReader interface {
	CurrentMasterchainInfo(ctx context.Context) (*ton.BlockIDExt, error)
}

// TonSource binds messages to the TON masterchain. It carries no block
// time, so proof-of-age checks need the Ethereum source.
type TonSource struct {
	api  masterchainReader
	pool *liteclient.ConnectionPool
}

func DialTon(ctx context.Context, configURL string) (*TonSource, error) {
	pool := liteclient.NewConnectionPool()
	if err := pool.AddConnectionsFromConfigUrl(ctx, configURL); err != nil {
		return nil, fmt.Errorf("connect lite servers: %w", err)
	}
	return &TonSource{api: ton.NewAPIClient(pool).WithRetry(), pool: pool}, nil
}

func (s *TonSource) Latest(ctx context.Context) (Block, error) {
	master, err := s.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return Block{}, fmt.Errorf("masterchain info: %w", err)
	}
	if master == nil || len(master.RootHash) == 0 {
		return Block{}, ErrNoBlockHash
	}
	return Block{
		Hash:   "0x" + hex.EncodeToString(master.RootHash),
		Number: uint64(master.SeqNo),
	}, nil
}

func (s *TonSource) Close() {
	if s.pool != nil {
		s.pool.Stop()
	}
}
