package message

import (
	"context"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	apperrors "verifiable-media-backend/internal/common/errors"
	"verifiable-media-backend/internal/common/validation"
	"verifiable-media-backend/internal/features/blockhash"
)

// BlockSource supplies the block hash bound into proof-of-age messages.
type BlockSource interface {
	Current(ctx context.Context) (blockhash.Block, error)
}

// Canonicalizer assembles signable messages from user input.
type Canonicalizer struct {
	blocks BlockSource
}

func NewCanonicalizer(blocks BlockSource) *Canonicalizer {
	return &Canonicalizer{blocks: blocks}
}

func (c *Canonicalizer) Stream(ctx context.Context, name string) (StreamMessage, error) {
	name = strings.TrimSpace(name)
	if err := validation.ValidateStreamName(name); err != nil {
		return StreamMessage{}, apperrors.NewValidationError("name", err.Error())
	}
	block, err := c.currentBlock(ctx)
	if err != nil {
		return StreamMessage{}, err
	}
	return StreamMessage{Name: name, BlockHash: block.Hash}, nil
}

// VideoUpload binds a content identifier such as ipfs://<cid> and its
// metadata to the current block.
func (c *Canonicalizer) VideoUpload(ctx context.Context, contentID string, metadata map[string]interface{}) (VideoUploadMessage, error) {
	contentID = strings.TrimSpace(contentID)
	if err := validation.ValidateContentURI(contentID); err != nil {
		return VideoUploadMessage{}, apperrors.NewValidationError("contentID", err.Error())
	}
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	block, err := c.currentBlock(ctx)
	if err != nil {
		return VideoUploadMessage{}, err
	}
	return VideoUploadMessage{ContentID: contentID, CreationBlockHash: block.Hash, Metadata: metadata}, nil
}

func (c *Canonicalizer) Attestation(video, signer string, attestations []Attestation, now time.Time) (AttestationMessage, error) {
	video = strings.TrimSpace(video)
	if video == "" {
		return AttestationMessage{}, apperrors.NewValidationError("video", "video must not be empty")
	}
	if !common.IsHexAddress(signer) {
		return AttestationMessage{}, apperrors.NewValidationError("signer", "signer must be a hex address")
	}
	for _, a := range attestations {
		if err := validation.ValidateRole(a.Role); err != nil {
			return AttestationMessage{}, apperrors.NewValidationError("attestations.role", err.Error())
		}
	}
	if attestations == nil {
		attestations = []Attestation{}
	}
	return AttestationMessage{
		Video:        video,
		Timestamp:    now.UnixMilli(),
		Signer:       common.HexToAddress(signer),
		Attestations: attestations,
	}, nil
}

func (c *Canonicalizer) currentBlock(ctx context.Context) (blockhash.Block, error) {
	block, err := c.blocks.Current(ctx)
	if err != nil {
		return blockhash.Block{}, apperrors.NewRemoteFetchError("block hash", err)
	}
	return block, nil
}
