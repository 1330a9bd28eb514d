package attestation

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	apperrors "verifiable-media-backend/internal/common/errors"
	"verifiable-media-backend/internal/features/schema"
	"verifiable-media-backend/internal/features/signature"
)

type VerifyRequest struct {
	Message   json.RawMessage `json:"message" binding:"required" swaggertype:"object"`
	Signature hexutil.Bytes   `json:"signature" binding:"required" swaggertype:"string" example:"0x..."`
}

type VerifyResponse struct {
	Signer string `json:"signer"`
	// Valid reports whether the recovered signer is the one the message names.
	Valid bool `json:"valid"`
}

type Service struct {
	schemas schema.Source
}

func NewService(schemas schema.Source) *Service {
	return &Service{schemas: schemas}
}

func (s *Service) Verify(ctx context.Context, req VerifyRequest) (*VerifyResponse, error) {
	doc, err := s.schemas.Document(ctx, schema.KindAttestation)
	if err != nil {
		return nil, err
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(req.Message, &fields); err != nil || fields == nil {
		return nil, apperrors.NewValidationError("message", "message must be a JSON object")
	}
	claimed, _ := fields["signer"].(string)
	if !common.IsHexAddress(claimed) {
		return nil, apperrors.NewValidationError("message.signer", "signer must be a hex address")
	}

	recovered, err := signature.Recover(doc, fields, req.Signature)
	if err != nil {
		return nil, err
	}
	return &VerifyResponse{
		Signer: strings.ToLower(recovered.Hex()),
		Valid:  recovered == common.HexToAddress(claimed),
	}, nil
}
