package models

import (
	"verifiable-media-backend/internal/features/message"
)

type CreateAssetRequest struct {
	Hash string `json:"hash" binding:"required" example:"QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"`
}

// CreateAssetResponse reports the Studio import started for a signed video.
type CreateAssetResponse struct {
	Hash          string                `json:"hash"`
	URL           string                `json:"url"`
	OutputAssetID string                `json:"outputAssetId"`
	SignedVideo   message.SignedMessage `json:"signedVideo"`
	Signer        string                `json:"signer"`
}
