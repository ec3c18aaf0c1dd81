package models

import (
	"time"

	"skyvault/internal/filetype"
)

type File struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Category        filetype.Category `json:"category"`
	Extension       string            `json:"extension"`
	URL             string            `json:"url"`
	SizeBytes       int64             `json:"size_bytes"`
	OwnerID         int64             `json:"owner_id"`
	AccountID       string            `json:"account_id"`
	SharedWith      []string          `json:"shared_with"`
	StorageObjectID string            `json:"storage_object_id"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
