package models

type UploadResponse struct {
	Hash string `json:"hash"`
}

type MetadataUploadResponse struct {
	Hash   string `json:"hash"`
	Signer string `json:"signer"`
}
