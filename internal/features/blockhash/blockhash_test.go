package blockhash

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xssnick/tonutils-go/ton"

	apperrors "verifiable-media-backend/internal/common/errors"
)

type stubSource struct {
	blocks []Block
	errs   []error
	calls  int
}

func (s *stubSource) Latest(context.Context) (Block, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return Block{}, s.errs[i]
	}
	if i < len(s.blocks) {
		return s.blocks[i], nil
	}
	return s.blocks[len(s.blocks)-1], nil
}

func TestProviderCachesForTTL(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	src := &stubSource{blocks: []Block{{Hash: "0xaa"}, {Hash: "0xbb"}}}
	p := NewProvider(src, 5*time.Second)
	p.now = func() time.Time { return now }

	b, err := p.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0xaa", b.Hash)

	now = now.Add(4 * time.Second)
	b, _ = p.Current(context.Background())
	assert.Equal(t, "0xaa", b.Hash)
	assert.Equal(t, 1, src.calls)

	now = now.Add(time.Second)
	b, err = p.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0xbb", b.Hash)
	assert.Equal(t, 2, src.calls)
}

func TestProviderNeverReturnsStaleOnError(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	boom := errors.New("rpc down")
	src := &stubSource{blocks: []Block{{Hash: "0xaa"}, {}, {Hash: "0xcc"}}, errs: []error{nil, boom}}
	p := NewProvider(src, time.Second)
	p.now = func() time.Time { return now }

	_, err := p.Current(context.Background())
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	b, err := p.Current(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, b.Hash)

	b, err = p.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0xcc", b.Hash)
	assert.Equal(t, 3, src.calls)
}

func TestProviderRejectsZeroHash(t *testing.T) {
	for _, hash := range []string{"", "0x", "0x0000000000000000000000000000000000000000000000000000000000000000"} {
		p := NewProvider(&stubSource{blocks: []Block{{Hash: hash}}}, time.Second)
		_, err := p.Current(context.Background())
		assert.ErrorIs(t, err, ErrNoBlockHash, hash)
	}
}

type stubHeaders struct {
	latest *types.Header
	byHash map[common.Hash]*types.Header
	err    error
}

func (s *stubHeaders) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return s.latest, s.err
}

func (s *stubHeaders) HeaderByHash(_ context.Context, hash common.Hash) (*types.Header, error) {
	if s.err != nil {
		return nil, s.err
	}
	h, ok := s.byHash[hash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return h, nil
}

func TestEthereumSource(t *testing.T) {
	header := &types.Header{Number: big.NewInt(19_000_000), Time: 1_700_000_000, Difficulty: big.NewInt(0)}
	hash := header.Hash()
	src := &EthereumSource{client: &stubHeaders{latest: header, byHash: map[common.Hash]*types.Header{hash: header}}}

	b, err := src.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, hash.Hex(), b.Hash)
	assert.Equal(t, uint64(19_000_000), b.Number)
	assert.Equal(t, time.Unix(1_700_000_000, 0).UTC(), b.Time)

	minted, err := src.BlockTime(context.Background(), hash.Hex())
	require.NoError(t, err)
	assert.Equal(t, b.Time, minted)

	_, err = src.BlockTime(context.Background(), "0x1234")
	assert.ErrorIs(t, err, ErrUnknownBlock)
	_, err = src.BlockTime(context.Background(), "not-a-hash")
	assert.ErrorIs(t, err, ErrUnknownBlock)
}

type stubMasterchain struct {
	block *ton.BlockIDExt
}

func (s stubMasterchain) CurrentMasterchainInfo(context.Context) (*ton.BlockIDExt, error) {
	return s.block, nil
}

func TestTonSource(t *testing.T) {
	root := make([]byte, 32)
	root[31] = 0xff
	src := &TonSource{api: stubMasterchain{block: &ton.BlockIDExt{Workchain: -1, SeqNo: 42, RootHash: root}}}

	b, err := src.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(42), b.Number)
	assert.Equal(t, "0x00000000000000000000000000000000000000000000000000000000000000ff", b.Hash)

	_, err = (&TonSource{api: stubMasterchain{block: &ton.BlockIDExt{}}}).Latest(context.Background())
	assert.ErrorIs(t, err, ErrNoBlockHash)
}

type stubLookup struct {
	minted time.Time
	err    error
}

func (s stubLookup) BlockTime(context.Context, string) (time.Time, error) {
	return s.minted, s.err
}

func TestAgeChecker(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	check := func(lookup TimeLookup, hash string) error {
		a := NewAgeChecker(lookup, 10*time.Minute)
		a.now = func() time.Time { return now }
		return a.Check(context.Background(), hash)
	}

	assert.NoError(t, check(stubLookup{minted: now.Add(-time.Minute)}, "0xaa"))

	err := check(stubLookup{minted: now.Add(-time.Hour)}, "0xaa")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeStaleBlockHash))

	err = check(stubLookup{err: ErrUnknownBlock}, "0xaa")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeStaleBlockHash))

	err = check(stubLookup{}, "")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeStaleBlockHash))

	err = check(stubLookup{err: errors.New("timeout")}, "0xaa")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeRemoteFetch))
}
