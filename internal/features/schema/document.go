package schema

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

const (
	KindStream      = "stream"
	KindVOD         = "vod"
	KindAttestation = "attestation"
)

// Source resolves the typed-data document for a message kind.
type Source interface {
	Document(ctx context.Context, kind string) (Document, error)
}

// Domain is the EIP-712 domain separator. Zero values are omitted from
// both the domain hash and the derived EIP712Domain type.
type Domain struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
	ChainID int64  `json:"chainId,omitempty"`
}

// AttestationDomain is the fixed domain of video attestations.
var AttestationDomain = Domain{Name: "Verifiable Video", Version: "1"}

func (d Domain) TypedDataDomain() apitypes.TypedDataDomain {
	td := apitypes.TypedDataDomain{Name: d.Name, Version: d.Version}
	if d.ChainID != 0 {
		td.ChainId = (*math.HexOrDecimal256)(big.NewInt(d.ChainID))
	}
	return td
}

// Fields lists the EIP712Domain members in canonical order.
func (d Domain) Fields() []apitypes.Type {
	fields := make([]apitypes.Type, 0, 3)
	if d.Name != "" {
		fields = append(fields, apitypes.Type{Name: "name", Type: "string"})
	}
	if d.Version != "" {
		fields = append(fields, apitypes.Type{Name: "version", Type: "string"})
	}
	if d.ChainID != 0 {
		fields = append(fields, apitypes.Type{Name: "chainId", Type: "uint256"})
	}
	return fields
}

// Document describes how one message kind is hashed and signed.
type Document struct {
	Kind        string         `json:"kind"`
	Domain      Domain         `json:"domain"`
	PrimaryType string         `json:"primaryType"`
	Types       apitypes.Types `json:"types"`
	// ProofOfAgeField names the block hash field, empty when the kind has none.
	ProofOfAgeField string `json:"proofOfAgeField,omitempty"`
}

// SchemaDocument is the public `{kind}.schema.json` shape.
type SchemaDocument struct {
	Domain      Domain         `json:"domain"`
	PrimaryType string         `json:"primaryType"`
	Types       apitypes.Types `json:"types"`
}

func (d Document) Schema() SchemaDocument {
	return SchemaDocument{Domain: d.Domain, PrimaryType: d.PrimaryType, Types: d.Types}
}

// AllTypes returns the document types plus the EIP712Domain entry.
func (d Document) AllTypes() apitypes.Types {
	types := make(apitypes.Types, len(d.Types)+1)
	for name, fields := range d.Types {
		types[name] = fields
	}
	types["EIP712Domain"] = d.Domain.Fields()
	return types
}

// TypedData binds a message to this document.
func (d Document) TypedData(message map[string]interface{}) apitypes.TypedData {
	return apitypes.TypedData{
		Types:       d.AllTypes(),
		PrimaryType: d.PrimaryType,
		Domain:      d.Domain.TypedDataDomain(),
		Message:     message,
	}
}

// Validate checks that the primary type exists and that every struct
// reference resolves.
func (d Document) Validate() error {
	if _, ok := d.Types[d.PrimaryType]; !ok {
		return fmt.Errorf("primary type %q is not defined", d.PrimaryType)
	}
	for name, fields := range d.Types {
		if len(fields) == 0 {
			return fmt.Errorf("type %q has no fields", name)
		}
		for _, f := range fields {
			if f.Name == "" || f.Type == "" {
				return fmt.Errorf("type %q has an unnamed or untyped field", name)
			}
			base := strings.TrimSuffix(f.Type, "[]")
			if isPrimitive(base) {
				continue
			}
			if _, ok := d.Types[base]; !ok {
				return fmt.Errorf("type %q references undefined type %q", name, base)
			}
		}
	}
	if d.ProofOfAgeField != "" && !d.hasField(d.ProofOfAgeField) {
		return fmt.Errorf("proof-of-age field %q is not part of %s", d.ProofOfAgeField, d.PrimaryType)
	}
	return nil
}

func (d Document) hasField(name string) bool {
	for _, f := range d.Types[d.PrimaryType] {
		if f.Name == name {
			return true
		}
	}
	return false
}

func isPrimitive(t string) bool {
	switch t {
	case "string", "address", "bool", "bytes":
		return true
	}
	for _, prefix := range []string{"uint", "int", "bytes"} {
		if strings.HasPrefix(t, prefix) && len(t) > len(prefix) {
			return true
		}
	}
	return false
}
