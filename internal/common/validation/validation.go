package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

const (
	MaxStreamNameLength  = 256
	MaxContentHashLength = 128
	MaxContentURILength  = 2048
	MaxRoleLength        = 64
)

// CIDv0 and CIDv1 are both plain base58/base32 strings.
var contentHashRegex = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// ValidateStreamName checks a user supplied stream name. Media servers read
// webhook bodies line by line, so control characters are rejected.
func ValidateStreamName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("stream name must not be empty")
	}
	if len(name) > MaxStreamNameLength {
		return fmt.Errorf("stream name cannot exceed %d characters", MaxStreamNameLength)
	}
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return fmt.Errorf("stream name must not contain control characters")
	}
	return nil
}

// ValidateContentHash checks an IPFS content hash.
func ValidateContentHash(hash string) error {
	if hash == "" {
		return fmt.Errorf("content hash cannot be empty")
	}
	if len(hash) > MaxContentHashLength {
		return fmt.Errorf("content hash cannot exceed %d characters", MaxContentHashLength)
	}
	if !contentHashRegex.MatchString(hash) {
		return fmt.Errorf("content hash must be alphanumeric")
	}
	return nil
}

// ValidateContentURI requires a scheme prefix such as ipfs:// followed by
// a non-empty location.
func ValidateContentURI(uri string) error {
	if uri == "" {
		return fmt.Errorf("content id must not be empty")
	}
	if len(uri) > MaxContentURILength {
		return fmt.Errorf("content id cannot exceed %d characters", MaxContentURILength)
	}
	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" || len(uri) <= len(u.Scheme)+len("://") {
		return fmt.Errorf("content id must carry a scheme prefix such as ipfs://")
	}
	return nil
}

// ValidateRole checks an attestation role label.
func ValidateRole(role string) error {
	role = strings.TrimSpace(role)
	if role == "" {
		return fmt.Errorf("role must not be empty")
	}
	if len(role) > MaxRoleLength {
		return fmt.Errorf("role cannot exceed %d characters", MaxRoleLength)
	}
	return nil
}
