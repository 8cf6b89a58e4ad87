package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewReportArchive_MissingSettings(t *testing.T) {
	tests := []struct {
		name        string
		accountName string
		accountKey  string
		container   string
	}{
		{
			name:       "missing account name",
			accountKey: "a2V5",
			container:  "reports",
		},
		{
			name:        "missing account key",
			accountName: "vitalscan",
			container:   "reports",
		},
		{
			name:        "missing container",
			accountName: "vitalscan",
			accountKey:  "a2V5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive, err := NewReportArchive(tt.accountName, tt.accountKey, tt.container, zap.NewNop())
			assert.Error(t, err)
			assert.Nil(t, archive)
		})
	}
}

func TestNewReportArchive_ValidSettings(t *testing.T) {
	// Arrange: base64 is the shared-key format Azure expects.
	archive, err := NewReportArchive("vitalscan", "dGVzdC1rZXk=", "reports", zap.NewNop())

	// Assert
	require.NoError(t, err)
	require.NotNil(t, archive)
	assert.Equal(t, "reports", archive.containerName)
}

func TestBlobNameFor(t *testing.T) {
	assert.Equal(t, "reports/LOYW3V28.pdf", blobNameFor("LOYW3V28"))
}
