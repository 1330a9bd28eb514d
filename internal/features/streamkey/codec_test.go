package streamkey

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "verifiable-media-backend/internal/common/errors"
	"verifiable-media-backend/internal/features/message"
)

func sample() message.SignedMessage {
	sig := make([]byte, 65)
	for i := range sig {
		sig[i] = byte(i + 200)
	}
	return message.SignedMessage{
		Version:   message.EnvelopeVersion,
		Kind:      "stream",
		Message:   json.RawMessage(`{"blockHash":"0xabc","name":"live"}`),
		Signature: sig,
	}
}

func TestRoundTrip(t *testing.T) {
	in := sample()

	token, err := Encode(in)
	require.NoError(t, err)
	assert.NotContains(t, token, "=")
	assert.NotContains(t, token, "/")
	assert.NotContains(t, token, "+")

	out, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeAcceptsPaddedAndStandardBase64(t *testing.T) {
	raw, err := json.Marshal(sample())
	require.NoError(t, err)

	for _, enc := range []*base64.Encoding{base64.URLEncoding, base64.StdEncoding, base64.RawStdEncoding} {
		out, err := Decode(enc.EncodeToString(raw))
		require.NoError(t, err)
		assert.Equal(t, sample(), out)
	}
}

func TestDecodeMalformed(t *testing.T) {
	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	cases := map[string]string{
		"empty":          "",
		"not base64":     "%%%",
		"not json":       enc("hello"),
		"legacy form":    enc("ipfs://Qm|0xdeadbeef"),
		"missing v":      enc(`{"kind":"stream","message":{"name":"x"},"signature":"0x01"}`),
		"future v":       enc(`{"v":2,"kind":"stream","message":{"name":"x"},"signature":"0x01"}`),
		"missing kind":   enc(`{"v":1,"message":{"name":"x"},"signature":"0x01"}`),
		"array message":  enc(`{"v":1,"kind":"stream","message":[1],"signature":"0x01"}`),
		"no signature":   enc(`{"v":1,"kind":"stream","message":{"name":"x"}}`),
		"bad signature":  enc(`{"v":1,"kind":"stream","message":{"name":"x"},"signature":"zz"}`),
		"unknown fields": enc(`{"v":1,"kind":"stream","message":{"name":"x"},"signature":"0x01","extra":1}`),
		"trailing data":  enc(`{"v":1,"kind":"stream","message":{"name":"x"},"signature":"0x01"}garbage`),
		"second value":   enc(`{"v":1,"kind":"stream","message":{"name":"x"},"signature":"0x01"}{}`),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedToken))
			assert.True(t, apperrors.Is(err, apperrors.ErrCodeMalformedToken))
		})
	}
}

func TestEncodeRejectsIncompleteMessage(t *testing.T) {
	m := sample()
	m.Signature = nil
	_, err := Encode(m)
	assert.ErrorIs(t, err, ErrMalformedToken)

	m = sample()
	m.Version = 0
	token, err := Encode(m)
	require.NoError(t, err)
	out, err := Decode(" " + token + "\n")
	require.NoError(t, err)
	assert.Equal(t, message.EnvelopeVersion, out.Version)
}
