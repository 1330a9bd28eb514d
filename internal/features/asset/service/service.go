package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	apperrors "verifiable-media-backend/internal/common/errors"
	"verifiable-media-backend/internal/common/logger"
	"verifiable-media-backend/internal/common/validation"
	"verifiable-media-backend/internal/features/asset/models"
	"verifiable-media-backend/internal/features/message"
	"verifiable-media-backend/internal/features/schema"
	"verifiable-media-backend/internal/features/signature"
	"verifiable-media-backend/internal/platform/livepeer"
)

const maxMetadataBytes = 1 << 20

type ContentStore interface {
	Cat(ctx context.Context, cid string, limit int64) ([]byte, error)
	GatewayURL(cid string) string
}

type Studio interface {
	ImportAsset(ctx context.Context, name, sourceURL string) (*livepeer.ImportResult, error)
	GetAsset(ctx context.Context, id string) (*livepeer.Asset, error)
}

type AssetService interface {
	Create(ctx context.Context, hash string) (*models.CreateAssetResponse, error)
	Get(ctx context.Context, id string) (*livepeer.Asset, error)
}

type assetService struct {
	content ContentStore
	studio  Studio
	schemas schema.Source
}

func NewAssetService(content ContentStore, studio Studio, schemas schema.Source) AssetService {
	return &assetService{content: content, studio: studio, schemas: schemas}
}

// Create reads the signed video metadata pinned at hash, checks its
// signature and starts a Studio import of the referenced content.
func (s *assetService) Create(ctx context.Context, hash string) (*models.CreateAssetResponse, error) {
	hash = strings.TrimSpace(hash)
	if err := validation.ValidateContentHash(hash); err != nil {
		return nil, apperrors.NewValidationError("hash", "Bad IPFS hash").WithDetail("reason", err.Error())
	}

	raw, err := s.content.Cat(ctx, hash, maxMetadataBytes)
	if err != nil {
		return nil, apperrors.NewRemoteFetchError("signed metadata", err).WithDetail("hash", hash)
	}
	var signed message.SignedMessage
	if err := json.Unmarshal(raw, &signed); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "pinned object is not a signed message").
			WithDetail("hash", hash)
	}
	if signed.Kind != schema.KindVOD {
		return nil, apperrors.NewValidationError("kind", "pinned object is not a signed video")
	}

	doc, err := s.schemas.Document(ctx, signed.Kind)
	if err != nil {
		return nil, err
	}
	signer, err := signature.RecoverSigned(doc, signed)
	if err != nil {
		return nil, err
	}

	fields, _ := signed.Fields()
	contentID, _ := fields["contentID"].(string)
	cid := strings.TrimPrefix(contentID, "ipfs://")
	if cid == "" || cid == contentID {
		return nil, apperrors.NewValidationError("contentID", "content id must be an ipfs:// uri")
	}

	sourceURL := s.content.GatewayURL(cid)
	result, err := s.studio.ImportAsset(ctx, contentID, sourceURL)
	if err != nil {
		return nil, apperrors.NewExternalAPIError("asset import", err)
	}

	logger.Info().
		Str("hash", hash).
		Str("asset_id", result.Task.OutputAssetID).
		Str("address", strings.ToLower(signer.Hex())).
		Msg("Asset import started")

	return &models.CreateAssetResponse{
		Hash:          hash,
		URL:           sourceURL,
		OutputAssetID: result.Task.OutputAssetID,
		SignedVideo:   signed,
		Signer:        strings.ToLower(signer.Hex()),
	}, nil
}

func (s *assetService) Get(ctx context.Context, id string) (*livepeer.Asset, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewValidationError("id", "asset id is required")
	}
	asset, err := s.studio.GetAsset(ctx, id)
	if err != nil {
		var apiErr *livepeer.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, apperrors.NewNotFoundError("asset", id)
		}
		return nil, apperrors.NewExternalAPIError("get asset", err)
	}
	return asset, nil
}
