package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/ikkim/canteen-backend/config"
	"github.com/ikkim/canteen-backend/pkg/logger"
)

const presignExpiry = 15 * time.Minute

var (
	ErrUnsupportedContentType = errors.New("only image files are allowed")
	ErrInvalidFolder          = errors.New("invalid upload folder")
)

// 업로드 가능한 이미지 형식 -> 기본 확장자
var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// 매장 이미지, 메뉴 이미지
var allowedFolders = map[string]bool{
	"stores": true,
	"items":  true,
}

type PresignedUpload struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	Key       string `json:"key"`
}

// Presigner 업로드 URL 발급 (컨트롤러 테스트에서는 가짜 구현 사용)
type Presigner interface {
	PresignUpload(ctx context.Context, folder, filename, contentType string) (*PresignedUpload, error)
}

type S3Storage struct {
	client  *s3.Client
	bucket  string
	region  string
	baseURL string
}

func NewS3Storage(ctx context.Context, cfg config.S3Config) (*S3Storage, error) {
	var awsCfg aws.Config

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region:      cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		}
	} else {
		// 환경변수, ~/.aws/credentials, IAM role 순으로 탐색
		loaded, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load aws config: %w", err)
		}
		awsCfg = loaded
	}

	logger.Info("S3 storage configured", map[string]interface{}{
		"region": cfg.Region,
		"bucket": cfg.Bucket,
	})

	return &S3Storage{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// ObjectKey folder/uuid.ext 형식의 저장 키 생성
func ObjectKey(folder, filename, contentType string) (string, error) {
	defaultExt, ok := allowedContentTypes[strings.ToLower(contentType)]
	if !ok {
		return "", ErrUnsupportedContentType
	}
	if !allowedFolders[folder] {
		return "", ErrInvalidFolder
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = defaultExt
	}
	return fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext), nil
}

// PresignUpload generates a pre-signed PUT URL valid for 15 minutes
func (s *S3Storage) PresignUpload(ctx context.Context, folder, filename, contentType string) (*PresignedUpload, error) {
	key, err := ObjectKey(folder, filename, contentType)
	if err != nil {
		return nil, err
	}

	presignClient := s3.NewPresignClient(s.client)
	req, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignedUpload{
		UploadURL: req.URL,
		FileURL:   s.fileURL(key),
		Key:       key,
	}, nil
}

func (s *S3Storage) fileURL(key string) string {
	if s.baseURL != "" {
		// CloudFront or custom domain
		return s.baseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
