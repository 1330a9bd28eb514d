package blockhash

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

type headerReader interface {
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	HeaderByHash(ctx context.Context, hash common.Hash) (*types.Header, error)
}

// EthereumSource reads block headers over JSON-RPC.
type EthereumSource struct {
	client headerReader
	closer func()
}

func DialEthereum(ctx context.Context, rpcURL string) (*EthereumSource, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial ethereum rpc: %w", err)
	}
	return &EthereumSource{client: client, closer: client.Close}, nil
}

func (s *EthereumSource) Latest(ctx context.Context) (Block, error) {
	header, err := s.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return Block{}, fmt.Errorf("latest header: %w", err)
	}
	if header == nil {
		return Block{}, ErrNoBlockHash
	}
	block := Block{
		Hash: header.Hash().Hex(),
		Time: time.Unix(int64(header.Time), 0).UTC(),
	}
	if header.Number != nil {
		block.Number = header.Number.Uint64()
	}
	return block, nil
}

func (s *EthereumSource) BlockTime(ctx context.Context, hash string) (time.Time, error) {
	h := common.HexToHash(hash)
	if h == (common.Hash{}) {
		return time.Time{}, ErrUnknownBlock
	}
	header, err := s.client.HeaderByHash(ctx, h)
	if errors.Is(err, ethereum.NotFound) {
		return time.Time{}, ErrUnknownBlock
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("header by hash: %w", err)
	}
	return time.Unix(int64(header.Time), 0).UTC(), nil
}

func (s *EthereumSource) Close() {
	if s.closer != nil {
		s.closer()
	}
}
