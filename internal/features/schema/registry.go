package schema

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	apperrors "verifiable-media-backend/internal/common/errors"
)

//go:embed documents/*.types.json
var documents embed.FS

type kindInfo struct {
	primaryType     string
	proofOfAgeField string
	// fixedDomain overrides the configured domain when set.
	fixedDomain *Domain
}

var kinds = map[string]kindInfo{
	KindStream:      {primaryType: "Stream", proofOfAgeField: "blockHash"},
	KindVOD:         {primaryType: "Video", proofOfAgeField: "creationBlockHash"},
	KindAttestation: {primaryType: "VideoAttestation", fixedDomain: &AttestationDomain},
}

// Registry holds the embedded documents. It is read-only after construction.
type Registry struct {
	docs map[string]Document
}

// NewRegistry loads every embedded document, binding stream and vod kinds
// to the given domain.
func NewRegistry(domain Domain) (*Registry, error) {
	if domain.Name == "" || domain.Version == "" {
		return nil, fmt.Errorf("domain name and version are required")
	}
	r := &Registry{docs: make(map[string]Document, len(kinds))}
	for kind, info := range kinds {
		raw, err := documents.ReadFile("documents/" + kind + ".types.json")
		if err != nil {
			return nil, fmt.Errorf("read %s types: %w", kind, err)
		}
		var types apitypes.Types
		if err := json.Unmarshal(raw, &types); err != nil {
			return nil, fmt.Errorf("parse %s types: %w", kind, err)
		}
		doc := info.document(kind, domain)
		doc.Types = types
		if err := doc.Validate(); err != nil {
			return nil, fmt.Errorf("invalid %s document: %w", kind, err)
		}
		r.docs[kind] = doc
	}
	return r, nil
}

func (s kindInfo) document(kind string, domain Domain) Document {
	if s.fixedDomain != nil {
		domain = *s.fixedDomain
	}
	return Document{
		Kind:            kind,
		Domain:          domain,
		PrimaryType:     s.primaryType,
		ProofOfAgeField: s.proofOfAgeField,
	}
}

// Lookup returns the document for kind or an UNKNOWN_SCHEMA error.
func (r *Registry) Lookup(kind string) (Document, error) {
	doc, ok := r.docs[kind]
	if !ok {
		return Document{}, unknownSchema(kind)
	}
	return doc, nil
}

func (r *Registry) Document(_ context.Context, kind string) (Document, error) {
	return r.Lookup(kind)
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	out := make([]string, 0, len(r.docs))
	for kind := range r.docs {
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}

func unknownSchema(kind string) *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeUnknownSchema, fmt.Sprintf("unknown schema kind %q", kind)).
		WithDetail("kind", kind)
}
