package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	appconfig "github.com/park1112/next-snp-management-sub002/config"
	"github.com/park1112/next-snp-management-sub002/pkg/logger"
)

const (
	receiptFolder   = "receipts"
	statementFolder = "statements"
	presignExpiry   = 15 * time.Minute
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// 영수증으로 받는 파일 형식
var receiptContentTypes = []string{"image/jpeg", "image/png", "image/webp", "application/pdf"}

var ErrContentTypeNotAllowed = errors.New("content type not allowed")

// PresignedURLResponse 클라이언트가 직접 PUT 할 주소와 저장 후 참조값
type PresignedURLResponse struct {
	UploadURL string    `json:"uploadUrl"`
	FileURL   string    `json:"fileUrl"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// FileStorage 영수증 업로드 주소 발급과 정산서 보관
type FileStorage interface {
	PresignReceiptUpload(ctx context.Context, paymentID, filename, contentType string) (*PresignedURLResponse, error)
	PutStatement(ctx context.Context, name string, data []byte) (string, error)
}

type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3Storage(ctx context.Context, cfg *appconfig.S3Config) *S3Storage {
	var awsCfg aws.Config
	var err error

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		}
	} else {
		// 환경 변수, ~/.aws/credentials, IAM role 순으로 찾는다
		awsCfg, err = config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
		if err != nil {
			logger.Warn("Failed to load default AWS config, using region only", map[string]interface{}{
				"error": err.Error(),
			})
			awsCfg = aws.Config{Region: cfg.Region}
		}
	}

	return &S3Storage{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

func (s *S3Storage) fileURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
}

// receiptKey receipts/<paymentID>/<uuid><ext>
func receiptKey(paymentID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s/%s%s", receiptFolder, paymentID, uuid.New().String(), ext)
}

// PresignReceiptUpload 영수증 업로드용 PUT 주소 발급 (15분 유효)
func (s *S3Storage) PresignReceiptUpload(ctx context.Context, paymentID, filename, contentType string) (*PresignedURLResponse, error) {
	if err := ValidateReceiptContentType(contentType); err != nil {
		return nil, err
	}

	key := receiptKey(paymentID, filename)
	presignClient := s3.NewPresignClient(s.client)
	req, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	logger.Debug("Receipt upload URL issued", map[string]interface{}{
		"payment_id": paymentID,
		"key":        key,
	})

	return &PresignedURLResponse{
		UploadURL: req.URL,
		FileURL:   s.fileURL(key),
		Key:       key,
		ExpiresAt: time.Now().Add(presignExpiry),
	}, nil
}

// PutStatement 정산서 엑셀 파일을 보관하고 주소를 돌려준다.
func (s *S3Storage) PutStatement(ctx context.Context, name string, data []byte) (string, error) {
	key := fmt.Sprintf("%s/%s/%s", statementFolder, time.Now().Format("200601"), name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(xlsxContentType),
	})
	if err != nil {
		logger.Error("Failed to store statement", err, map[string]interface{}{
			"key": key,
		})
		return "", fmt.Errorf("failed to store statement: %w", err)
	}
	return s.fileURL(key), nil
}

// ValidateReceiptContentType 영수증은 이미지와 PDF 만 허용
func ValidateReceiptContentType(contentType string) error {
	return ValidateContentType(contentType, receiptContentTypes)
}

// ValidateContentType validates the content type
func ValidateContentType(contentType string, allowedTypes []string) error {
	for _, allowed := range allowedTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrContentTypeNotAllowed, contentType)
}
