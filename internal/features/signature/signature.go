package signature

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	apperrors "verifiable-media-backend/internal/common/errors"
	"verifiable-media-backend/internal/features/message"
	"verifiable-media-backend/internal/features/schema"
)

// Signer produces 65 byte [R || S || V] signatures over typed data, V in {27, 28}.
type Signer interface {
	SignTypedData(ctx context.Context, doc schema.Document, fields map[string]interface{}) ([]byte, error)
}

// Hash returns the EIP-712 digest of fields under doc.
func Hash(doc schema.Document, fields map[string]interface{}) ([]byte, error) {
	hash, _, err := apitypes.TypedDataAndHash(doc.TypedData(fields))
	if err != nil {
		return nil, err
	}
	return hash, nil
}

// KeySigner signs with a locally held secp256k1 key.
type KeySigner struct {
	key *ecdsa.PrivateKey
}

func NewKeySigner(hexKey string) (*KeySigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return &KeySigner{key: key}, nil
}

func NewKeySignerFromKey(key *ecdsa.PrivateKey) *KeySigner {
	return &KeySigner{key: key}
}

func (s *KeySigner) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

func (s *KeySigner) SignTypedData(ctx context.Context, doc schema.Document, fields map[string]interface{}) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hash, err := Hash(doc, fields)
	if err != nil {
		return nil, fmt.Errorf("hash typed data: %w", err)
	}
	sig, err := crypto.Sign(hash, s.key)
	if err != nil {
		return nil, fmt.Errorf("sign typed data: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

// Sign canonicalizes msg, signs it and returns the envelope.
func Sign(ctx context.Context, signer Signer, doc schema.Document, msg message.Typed) (message.SignedMessage, error) {
	if msg.Kind() != doc.Kind {
		return message.SignedMessage{}, fmt.Errorf("message kind %q does not match document %q", msg.Kind(), doc.Kind)
	}
	fields, err := msg.TypedMessage()
	if err != nil {
		return message.SignedMessage{}, err
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return message.SignedMessage{}, fmt.Errorf("encode message: %w", err)
	}
	sig, err := signer.SignTypedData(ctx, doc, fields)
	if err != nil {
		return message.SignedMessage{}, err
	}
	return message.SignedMessage{
		Version:   message.EnvelopeVersion,
		Kind:      doc.Kind,
		Message:   raw,
		Signature: sig,
	}, nil
}

// Recover returns the address that signed fields under doc. A tampered
// message recovers a different address rather than an error.
func Recover(doc schema.Document, fields map[string]interface{}, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, recoveryError(fmt.Errorf("signature must be %d bytes, got %d", crypto.SignatureLength, len(sig)))
	}
	hash, err := Hash(doc, fields)
	if err != nil {
		return common.Address{}, recoveryError(err)
	}

	normalized := make([]byte, len(sig))
	copy(normalized, sig)
	if normalized[crypto.RecoveryIDOffset] >= 27 {
		normalized[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(hash, normalized)
	if err != nil {
		return common.Address{}, recoveryError(err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// RecoverSigned decodes a SignedMessage and recovers its signer.
func RecoverSigned(doc schema.Document, signed message.SignedMessage) (common.Address, error) {
	fields, err := signed.Fields()
	if err != nil {
		return common.Address{}, recoveryError(err)
	}
	return Recover(doc, fields, signed.Signature)
}

func recoveryError(err error) *apperrors.AppError {
	return apperrors.Wrap(err, apperrors.ErrCodeSignatureRecovery, "signature recovery failed")
}
