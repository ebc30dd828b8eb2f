package service

import (
	"context"

	"brandkit/models"
)

// DriveServiceInterface defines the contract for Google Drive operations
type DriveServiceInterface interface {
	ListImages(ctx context.Context, folderID string) ([]models.DriveFile, error)
	DownloadImage(ctx context.Context, fileID string) ([]byte, error)
	UploadFile(ctx context.Context, folderID, name, mimeType string, data []byte) (string, error)
}
