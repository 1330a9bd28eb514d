package message

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "verifiable-media-backend/internal/common/errors"
	"verifiable-media-backend/internal/features/blockhash"
)

type fixedBlocks struct {
	block blockhash.Block
	err   error
}

func (f fixedBlocks) Current(context.Context) (blockhash.Block, error) {
	return f.block, f.err
}

func TestCanonicalJSONSortsKeys(t *testing.T) {
	out, err := CanonicalJSON(map[string]interface{}{
		"title": "demo",
		"b":     []interface{}{map[string]interface{}{"z": 1, "a": 2}},
		"a":     12345678901234,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":12345678901234,"b":[{"a":2,"z":1}],"title":"demo"}`, string(out))
}

func TestStream(t *testing.T) {
	c := NewCanonicalizer(fixedBlocks{block: blockhash.Block{Hash: "0xabc"}})

	msg, err := c.Stream(context.Background(), "  my-stream ")
	require.NoError(t, err)
	assert.Equal(t, StreamMessage{Name: "my-stream", BlockHash: "0xabc"}, msg)

	_, err = c.Stream(context.Background(), " ")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
}

func TestStreamBlockFailure(t *testing.T) {
	c := NewCanonicalizer(fixedBlocks{err: errors.New("rpc down")})

	_, err := c.Stream(context.Background(), "live")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeRemoteFetch))
}

func TestVideoUpload(t *testing.T) {
	c := NewCanonicalizer(fixedBlocks{block: blockhash.Block{Hash: "0xdef"}})

	msg, err := c.VideoUpload(context.Background(), "ipfs://QmHash", map[string]interface{}{"title": "t", "author": "a"})
	require.NoError(t, err)
	assert.Equal(t, "0xdef", msg.CreationBlockHash)

	fields, err := msg.TypedMessage()
	require.NoError(t, err)
	assert.Equal(t, `{"author":"a","title":"t"}`, fields["metadata"])

	for _, bad := range []string{"", "QmHash", "ipfs://"} {
		_, err := c.VideoUpload(context.Background(), bad, nil)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation), bad)
	}
}

func TestAttestation(t *testing.T) {
	c := NewCanonicalizer(fixedBlocks{})
	signer := "0x00000000000000000000000000000000000000aa"
	now := time.UnixMilli(1_700_000_000_123)

	msg, err := c.Attestation("ipfs://video", signer, []Attestation{{Role: "creator", Address: common.HexToAddress(signer)}}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1_700_000_000_123), msg.Timestamp)

	fields, err := msg.TypedMessage()
	require.NoError(t, err)
	assert.Equal(t, float64(1_700_000_000_123), fields["timestamp"])
	require.Len(t, fields["attestations"], 1)

	_, err = c.Attestation("ipfs://video", "nobody", nil, now)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
	_, err = c.Attestation("ipfs://video", signer, []Attestation{{Role: ""}}, now)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
}

func TestSignedMessageFields(t *testing.T) {
	m := SignedMessage{Version: EnvelopeVersion, Kind: "stream", Message: []byte(`{"name":"x","blockHash":"0x1"}`)}
	fields, err := m.Fields()
	require.NoError(t, err)
	assert.Equal(t, "x", fields["name"])

	_, err = SignedMessage{Message: []byte(`null`)}.Fields()
	assert.Error(t, err)
	_, err = SignedMessage{Message: []byte(`[1]`)}.Fields()
	assert.Error(t, err)
}

func TestNewAttestation(t *testing.T) {
	att, err := NewAttestation(" creator ", "0x2c7536e3605d9c16a7a3d7b1898e529396a65c23")
	require.NoError(t, err)
	assert.Equal(t, "creator", att.Role)
	assert.Equal(t, common.HexToAddress("0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"), att.Address)

	_, err = NewAttestation("", "0x2c7536e3605d9c16a7a3d7b1898e529396a65c23")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
	_, err = NewAttestation("creator", "alice")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
}
