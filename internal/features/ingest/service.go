package ingest

import (
	"context"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	apperrors "verifiable-media-backend/internal/common/errors"
	"verifiable-media-backend/internal/common/logger"
	"verifiable-media-backend/internal/features/schema"
	"verifiable-media-backend/internal/features/signature"
	"verifiable-media-backend/internal/features/streamkey"
)

const pushPathPrefix = "/live/"

// AgeCheck enforces freshness of a bound block hash.
type AgeCheck interface {
	Check(ctx context.Context, hash string) error
}

// Decision is the outcome of a successful authorization.
type Decision struct {
	StreamName string
	Signer     common.Address
	Kind       string
}

type Service struct {
	schemas    schema.Source
	authorizer Authorizer
	ages       AgeCheck
	prefix     string
}

// NewService wires the gateway. ages may be nil to skip freshness checks.
func NewService(schemas schema.Source, authorizer Authorizer, ages AgeCheck, streamPrefix string) *Service {
	if authorizer == nil {
		authorizer = AllowAll{}
	}
	return &Service{schemas: schemas, authorizer: authorizer, ages: ages, prefix: streamPrefix}
}

// Authorize verifies a stream key and returns the routed stream name.
func (s *Service) Authorize(ctx context.Context, token string) (Decision, error) {
	signed, err := streamkey.Decode(token)
	if err != nil {
		return Decision{}, err
	}
	// Only stream messages grant publishing. vod and attestation envelopes
	// are public once pinned and must not double as stream keys.
	if signed.Kind != schema.KindStream {
		return Decision{}, apperrors.New(apperrors.ErrCodeUnknownSchema, "stream key must carry a stream message").
			WithDetail("kind", signed.Kind)
	}
	doc, err := s.schemas.Document(ctx, schema.KindStream)
	if err != nil {
		return Decision{}, err
	}
	fields, err := signed.Fields()
	if err != nil {
		return Decision{}, apperrors.NewMalformedTokenError("invalid message", err)
	}
	signer, err := signature.Recover(doc, fields, signed.Signature)
	if err != nil {
		return Decision{}, err
	}

	if s.ages != nil && doc.ProofOfAgeField != "" {
		hash, _ := fields[doc.ProofOfAgeField].(string)
		if err := s.ages.Check(ctx, hash); err != nil {
			return Decision{}, err
		}
	}
	if err := s.authorizer.Authorize(ctx, signer); err != nil {
		return Decision{}, err
	}

	decision := Decision{
		StreamName: s.StreamName(strings.ToLower(signer.Hex())),
		Signer:     signer,
		Kind:       signed.Kind,
	}
	logger.Info().
		Str("address", strings.ToLower(signer.Hex())).
		Str("kind", signed.Kind).
		Msg("Stream key authorized")
	return decision, nil
}

func (s *Service) StreamName(name string) string {
	return s.prefix + "+" + name
}

// PushRewriteToken extracts the stream key from a PUSH_REWRITE payload,
// whose first line is the full push URL.
func PushRewriteToken(body string) (string, error) {
	line := strings.TrimSpace(payloadLine(body, 0))
	u, err := url.Parse(line)
	if err != nil || line == "" {
		return "", apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "invalid push url")
	}
	if u.Scheme != "rtmp" {
		return "", apperrors.New(apperrors.ErrCodeInvalidURLScheme, "only rtmp urls allowed for now").
			WithDetail("scheme", u.Scheme)
	}
	if !strings.HasPrefix(u.Path, pushPathPrefix) {
		return "", apperrors.New(apperrors.ErrCodeMissingPathPrefix, "RTMP URLs must start with "+pushPathPrefix)
	}
	return strings.TrimPrefix(u.Path, pushPathPrefix), nil
}

// DefaultStreamName returns the requested stream name, the second line of
// a DEFAULT_STREAM payload.
func DefaultStreamName(body string) string {
	return strings.TrimSpace(payloadLine(body, 1))
}

func payloadLine(body string, index int) string {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	if index >= len(lines) {
		return ""
	}
	return lines[index]
}
