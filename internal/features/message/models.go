package message

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	apperrors "verifiable-media-backend/internal/common/errors"
	"verifiable-media-backend/internal/common/validation"
	"verifiable-media-backend/internal/features/schema"
)

// EnvelopeVersion is the only SignedMessage layout in circulation.
const EnvelopeVersion = 1

// SignedMessage is a typed-data message together with its signature.
// Message holds the compact JSON of the fields that were signed.
type SignedMessage struct {
	Version   int             `json:"v"`
	Kind      string          `json:"kind"`
	Message   json.RawMessage `json:"message"`
	Signature hexutil.Bytes   `json:"signature"`
}

// Fields decodes Message into the generic form consumed by typed-data hashing.
func (m SignedMessage) Fields() (map[string]interface{}, error) {
	var fields map[string]interface{}
	if err := json.Unmarshal(m.Message, &fields); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("message is not an object")
	}
	return fields, nil
}

// Typed is a message variant that can be signed as typed data.
type Typed interface {
	Kind() string
	TypedMessage() (map[string]interface{}, error)
}

// StreamMessage authorizes a live stream.
type StreamMessage struct {
	Name      string `json:"name"`
	BlockHash string `json:"blockHash"`
}

func (StreamMessage) Kind() string { return schema.KindStream }

func (m StreamMessage) TypedMessage() (map[string]interface{}, error) {
	return map[string]interface{}{
		"name":      m.Name,
		"blockHash": m.BlockHash,
	}, nil
}

// VideoUploadMessage attests an uploaded video. Metadata is signed as its
// canonical JSON string.
type VideoUploadMessage struct {
	ContentID         string                 `json:"contentID"`
	CreationBlockHash string                 `json:"creationBlockHash"`
	Metadata          map[string]interface{} `json:"metadata"`
}

func (VideoUploadMessage) Kind() string { return schema.KindVOD }

func (m VideoUploadMessage) TypedMessage() (map[string]interface{}, error) {
	fields := m.Metadata
	if fields == nil {
		fields = map[string]interface{}{}
	}
	metadata, err := CanonicalJSON(fields)
	if err != nil {
		return nil, fmt.Errorf("canonical metadata: %w", err)
	}
	return map[string]interface{}{
		"contentID":         m.ContentID,
		"creationBlockHash": m.CreationBlockHash,
		"metadata":          string(metadata),
	}, nil
}

type Attestation struct {
	Role    string         `json:"role"`
	Address common.Address `json:"address"`
}

func NewAttestation(role, address string) (Attestation, error) {
	role = strings.TrimSpace(role)
	if err := validation.ValidateRole(role); err != nil {
		return Attestation{}, apperrors.NewValidationError("attestations.role", err.Error())
	}
	if !common.IsHexAddress(strings.TrimSpace(address)) {
		return Attestation{}, apperrors.NewValidationError("attestations.address", "address must be a hex address")
	}
	return Attestation{Role: role, Address: common.HexToAddress(strings.TrimSpace(address))}, nil
}

// AttestationMessage binds a set of role holders to a video.
type AttestationMessage struct {
	Video        string         `json:"video"`
	Timestamp    int64          `json:"timestamp"`
	Signer       common.Address `json:"signer"`
	Attestations []Attestation  `json:"attestations"`
}

func (AttestationMessage) Kind() string { return schema.KindAttestation }

func (m AttestationMessage) TypedMessage() (map[string]interface{}, error) {
	attestations := make([]interface{}, 0, len(m.Attestations))
	for _, a := range m.Attestations {
		attestations = append(attestations, map[string]interface{}{
			"role":    a.Role,
			"address": a.Address.Hex(),
		})
	}
	return map[string]interface{}{
		"video": m.Video,
		// float64 is what typed-data hashing expects from decoded JSON;
		// millisecond timestamps are exact in it.
		"timestamp":    float64(m.Timestamp),
		"signer":       m.Signer.Hex(),
		"attestations": attestations,
	}, nil
}

// CanonicalJSON encodes v with object keys sorted at every level and no
// insignificant whitespace.
func CanonicalJSON(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic interface{}
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := writeCanonical(&buf, generic); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v interface{}) error {
	switch t := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, _ := json.Marshal(k)
			buf.Write(kb)
			buf.WriteByte(':')
			if err := writeCanonical(buf, t[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []interface{}:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}
