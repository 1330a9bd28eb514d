package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "verifiable-media-backend/internal/common/errors"
	"verifiable-media-backend/internal/features/message"
	"verifiable-media-backend/internal/features/schema"
	"verifiable-media-backend/internal/features/signature"
	"verifiable-media-backend/internal/platform/ipfs"
)

const testKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

type memoryPinner struct {
	pinned map[string][]byte
	err    error
}

func (m *memoryPinner) Add(_ context.Context, filename string, r io.Reader) (*ipfs.AddResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.pinned == nil {
		m.pinned = map[string][]byte{}
	}
	hash := "Qm" + filename
	m.pinned[hash] = data
	return &ipfs.AddResult{Hash: hash, Name: filename}, nil
}

func fixture(t *testing.T) (*schema.Registry, *signature.KeySigner) {
	t.Helper()
	registry, err := schema.NewRegistry(schema.Domain{Name: "Livepeer", Version: "1.0.0", ChainID: 42161})
	require.NoError(t, err)
	signer, err := signature.NewKeySigner(testKey)
	require.NoError(t, err)
	return registry, signer
}

func TestUploadVideo(t *testing.T) {
	pinner := &memoryPinner{}
	svc := NewUploadService(pinner, nil)

	res, err := svc.UploadVideo(context.Background(), "clip.mp4", strings.NewReader("frames"))
	require.NoError(t, err)
	assert.Equal(t, "Qmclip.mp4", res.Hash)
	assert.Equal(t, "frames", string(pinner.pinned["Qmclip.mp4"]))

	pinner.err = errors.New("infura down")
	_, err = svc.UploadVideo(context.Background(), "clip.mp4", strings.NewReader("frames"))
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeExternalAPI))
}

func TestUploadMetadataPinsVerifiedEnvelope(t *testing.T) {
	registry, signer := fixture(t)
	doc, _ := registry.Lookup(schema.KindVOD)
	signed, err := signature.Sign(context.Background(), signer, doc, message.VideoUploadMessage{
		ContentID: "ipfs://QmVideo", CreationBlockHash: "0xabc",
	})
	require.NoError(t, err)

	pinner := &memoryPinner{}
	res, err := NewUploadService(pinner, registry).UploadMetadata(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, strings.ToLower(signer.Address().Hex()), res.Signer)

	var pinned message.SignedMessage
	require.NoError(t, json.Unmarshal(pinner.pinned[res.Hash], &pinned))
	assert.Equal(t, signed, pinned)
}

func TestUploadMetadataRejects(t *testing.T) {
	registry, _ := fixture(t)
	svc := NewUploadService(&memoryPinner{}, registry)

	cases := map[string]struct {
		msg  message.SignedMessage
		code apperrors.ErrorCode
	}{
		"version":   {message.SignedMessage{Version: 2, Kind: "vod"}, apperrors.ErrCodeValidation},
		"stream":    {message.SignedMessage{Version: 1, Kind: "stream"}, apperrors.ErrCodeValidation},
		"unknown":   {message.SignedMessage{Version: 1, Kind: "poster"}, apperrors.ErrCodeUnknownSchema},
		"signature": {message.SignedMessage{Version: 1, Kind: "vod", Message: []byte(`{"contentID":"ipfs://x","creationBlockHash":"0x1","metadata":"{}"}`), Signature: []byte{1}}, apperrors.ErrCodeSignatureRecovery},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.UploadMetadata(context.Background(), tc.msg)
			assert.True(t, apperrors.Is(err, tc.code), "%v", err)
		})
	}
}
