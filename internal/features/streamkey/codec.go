// Package streamkey converts signed messages to and from the opaque stream
// key that travels in RTMP push URLs and webhook bodies.
package streamkey

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	apperrors "verifiable-media-backend/internal/common/errors"
	"verifiable-media-backend/internal/features/message"
)

// ErrMalformedToken is wrapped by every Decode failure.
var ErrMalformedToken = errors.New("malformed stream key token")

// Encode renders m as unpadded base64url of its JSON envelope. The token
// needs no escaping inside a URL path.
func Encode(m message.SignedMessage) (string, error) {
	if m.Version == 0 {
		m.Version = message.EnvelopeVersion
	}
	if err := validate(m); err != nil {
		return "", err
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode envelope: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode parses a token. It checks the envelope shape only, never the
// message content.
func Decode(token string) (message.SignedMessage, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return message.SignedMessage{}, malformed("empty token", ErrMalformedToken)
	}
	raw, err := decodeLooseBase64(token)
	if err != nil {
		return message.SignedMessage{}, malformed("invalid base64", fmt.Errorf("%w: %v", ErrMalformedToken, err))
	}

	var m message.SignedMessage
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return message.SignedMessage{}, malformed("invalid envelope", fmt.Errorf("%w: %v", ErrMalformedToken, err))
	}
	if _, err := dec.Token(); err != io.EOF {
		return message.SignedMessage{}, malformed("trailing data after envelope", ErrMalformedToken)
	}
	if err := validate(m); err != nil {
		return message.SignedMessage{}, err
	}
	return m, nil
}

func validate(m message.SignedMessage) error {
	switch {
	case m.Version != message.EnvelopeVersion:
		return malformed(fmt.Sprintf("unsupported version %d", m.Version), ErrMalformedToken)
	case m.Kind == "":
		return malformed("missing kind", ErrMalformedToken)
	case len(m.Message) == 0 || m.Message[0] != '{':
		return malformed("message must be an object", ErrMalformedToken)
	case len(m.Signature) == 0:
		return malformed("missing signature", ErrMalformedToken)
	}
	return nil
}

func decodeLooseBase64(s string) ([]byte, error) {
	encodings := []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.StdEncoding,
		base64.RawStdEncoding,
	}
	var lastErr error
	for _, enc := range encodings {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func malformed(reason string, cause error) *apperrors.AppError {
	return apperrors.NewMalformedTokenError(reason, cause)
}
