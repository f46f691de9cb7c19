package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/park1112/next-snp-management-sub002/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(baseURL string) *S3Storage {
	return NewS3Storage(context.Background(), &config.S3Config{
		Region:          "ap-northeast-2",
		Bucket:          "snp-receipts",
		AccessKeyID:     "AKIATEST",
		SecretAccessKey: "secret",
		BaseURL:         baseURL,
	})
}

func TestPresignReceiptUpload(t *testing.T) {
	s := newTestStorage("")

	resp, err := s.PresignReceiptUpload(context.Background(), "pay-1", "영수증.JPG", "image/jpeg")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.Key, "receipts/pay-1/"))
	assert.True(t, strings.HasSuffix(resp.Key, ".jpg"))
	assert.Contains(t, resp.UploadURL, "X-Amz-Signature")
	assert.Equal(t, "https://snp-receipts.s3.ap-northeast-2.amazonaws.com/"+resp.Key, resp.FileURL)
	assert.False(t, resp.ExpiresAt.IsZero())
}

func TestPresignReceiptUpload_RejectsType(t *testing.T) {
	s := newTestStorage("")

	_, err := s.PresignReceiptUpload(context.Background(), "pay-1", "run.exe", "application/octet-stream")
	assert.ErrorIs(t, err, ErrContentTypeNotAllowed)
}

func TestFileURL_BaseURL(t *testing.T) {
	s := newTestStorage("https://cdn.example.com/")
	assert.Equal(t, "https://cdn.example.com/receipts/a.pdf", s.fileURL("receipts/a.pdf"))
}

func TestFileStorageImplementation(t *testing.T) {
	var _ FileStorage = (*S3Storage)(nil)
}
