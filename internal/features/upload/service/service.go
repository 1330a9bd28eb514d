package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	apperrors "verifiable-media-backend/internal/common/errors"
	"verifiable-media-backend/internal/common/logger"
	"verifiable-media-backend/internal/features/message"
	"verifiable-media-backend/internal/features/schema"
	"verifiable-media-backend/internal/features/signature"
	"verifiable-media-backend/internal/features/upload/models"
	"verifiable-media-backend/internal/platform/ipfs"
)

type Pinner interface {
	Add(ctx context.Context, filename string, r io.Reader) (*ipfs.AddResult, error)
}

type UploadService interface {
	UploadVideo(ctx context.Context, filename string, r io.Reader) (*models.UploadResponse, error)
	UploadMetadata(ctx context.Context, signed message.SignedMessage) (*models.MetadataUploadResponse, error)
}

type uploadService struct {
	pinner  Pinner
	schemas schema.Source
}

func NewUploadService(pinner Pinner, schemas schema.Source) UploadService {
	return &uploadService{pinner: pinner, schemas: schemas}
}

func (s *uploadService) UploadVideo(ctx context.Context, filename string, r io.Reader) (*models.UploadResponse, error) {
	res, err := s.pinner.Add(ctx, filename, r)
	if err != nil {
		return nil, apperrors.NewExternalAPIError("ipfs add", err)
	}
	logger.Info().Str("hash", res.Hash).Str("filename", filename).Msg("Video pinned")
	return &models.UploadResponse{Hash: res.Hash}, nil
}

// UploadMetadata pins a signed message once its signature is recoverable
// under the registered document of its kind.
func (s *uploadService) UploadMetadata(ctx context.Context, signed message.SignedMessage) (*models.MetadataUploadResponse, error) {
	if signed.Version != message.EnvelopeVersion {
		return nil, apperrors.NewValidationError("v", fmt.Sprintf("unsupported version %d", signed.Version))
	}
	if signed.Kind == schema.KindStream {
		return nil, apperrors.NewValidationError("kind", "stream keys are not pinned")
	}
	doc, err := s.schemas.Document(ctx, signed.Kind)
	if err != nil {
		return nil, err
	}
	signer, err := signature.RecoverSigned(doc, signed)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(signed)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to encode signed message")
	}
	res, err := s.pinner.Add(ctx, "index.json", strings.NewReader(string(payload)))
	if err != nil {
		return nil, apperrors.NewExternalAPIError("ipfs add", err)
	}

	address := strings.ToLower(signer.Hex())
	logger.Info().Str("hash", res.Hash).Str("kind", signed.Kind).Str("address", address).Msg("Signed metadata pinned")
	return &models.MetadataUploadResponse{Hash: res.Hash, Signer: address}, nil
}
