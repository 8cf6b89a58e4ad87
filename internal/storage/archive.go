// Package storage persists rendered report PDFs in Azure Blob Storage so
// they can be retrieved later by report ID.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"go.uber.org/zap"
)

// ReportArchive wraps the Azure Blob Storage SDK for report persistence.
type ReportArchive struct {
	client        *azblob.Client
	containerName string
	logger        *zap.Logger
}

// NewReportArchive creates a new ReportArchive backed by a shared-key
// credential.
func NewReportArchive(accountName, accountKey, containerName string, logger *zap.Logger) (*ReportArchive, error) {
	if accountName == "" || accountKey == "" || containerName == "" {
		return nil, fmt.Errorf("accountName, accountKey, and containerName are required")
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", accountName)

	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create shared key credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &ReportArchive{
		client:        client,
		containerName: containerName,
		logger:        logger,
	}, nil
}

// Put stores a rendered report PDF under its report ID and returns the blob
// name it was stored as.
func (a *ReportArchive) Put(ctx context.Context, reportID string, data []byte) (string, error) {
	a.logger.Info("archiving report PDF",
		zap.String("report_id", reportID),
		zap.Int("size_bytes", len(data)),
	)

	blobName := blobNameFor(reportID)

	blobClient := a.client.ServiceClient().NewContainerClient(a.containerName).NewBlockBlobClient(blobName)

	_, err := blobClient.UploadBuffer(ctx, data, &azblob.UploadBufferOptions{
		Metadata: map[string]*string{
			"contenttype": toPtr("application/pdf"),
		},
	})
	if err != nil {
		a.logger.Error("failed to archive report PDF",
			zap.String("report_id", reportID),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to archive report PDF: %w", err)
	}

	a.logger.Info("report PDF archived successfully",
		zap.String("blob_name", blobName),
	)

	return blobName, nil
}

// Get retrieves an archived report PDF by its report ID.
func (a *ReportArchive) Get(ctx context.Context, reportID string) ([]byte, error) {
	blobName := blobNameFor(reportID)

	a.logger.Info("fetching archived report PDF",
		zap.String("blob_name", blobName),
	)

	blobClient := a.client.ServiceClient().NewContainerClient(a.containerName).NewBlockBlobClient(blobName)

	downloadResponse, err := blobClient.DownloadStream(ctx, nil)
	if err != nil {
		a.logger.Error("failed to fetch archived report PDF",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to fetch archived report PDF: %w", err)
	}
	defer downloadResponse.Body.Close()

	data, err := io.ReadAll(downloadResponse.Body)
	if err != nil {
		a.logger.Error("failed to read archived report data",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to read archived report data: %w", err)
	}

	a.logger.Info("archived report PDF fetched successfully",
		zap.String("blob_name", blobName),
		zap.Int("size_bytes", len(data)),
	)

	return data, nil
}

func blobNameFor(reportID string) string {
	return fmt.Sprintf("reports/%s.pdf", reportID)
}

// toPtr is a helper function to convert a value to a pointer
func toPtr(s string) *string {
	return &s
}
