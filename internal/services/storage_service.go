// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/commodity-admin/internal/config"
)

// CSVArchiver keeps a copy of every CSV handed to the bulk importer.
type CSVArchiver interface {
	ArchiveCSV(ctx context.Context, filename string, data []byte, uploadedBy string) (*ArchiveResult, error)
}

type StorageService struct {
	s3Client *s3.S3
	config   config.AWSConfig
}

type ArchiveResult struct {
	Key      string `json:"key"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	Archived bool   `json:"archived"`
}

func NewStorageService(cfg config.AWSConfig) (*StorageService, error) {
	if cfg.AccessKeyID == "" || cfg.S3Bucket == "" {
		// Without credentials archives are only logged
		return &StorageService{config: cfg}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   cfg,
	}, nil
}

func (s *StorageService) Enabled() bool {
	return s.s3Client != nil
}

func (s *StorageService) ArchiveCSV(ctx context.Context, filename string, data []byte, uploadedBy string) (*ArchiveResult, error) {
	key := s.generateKey(filename)

	if s.s3Client == nil {
		logrus.WithFields(logrus.Fields{
			"key":  key,
			"size": len(data),
		}).Debug("CSV archive skipped, S3 not configured")
		return &ArchiveResult{Key: key, Size: int64(len(data))}, nil
	}

	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.config.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String("text/csv"),
		ContentLength: aws.Int64(int64(len(data))),
		Metadata: map[string]*string{
			"original-name": aws.String(filename),
			"uploaded-by":   aws.String(uploadedBy),
		},
	}

	if _, err := s.s3Client.PutObjectWithContext(ctx, params); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &ArchiveResult{
		Key:      key,
		URL:      s.getS3URL(key),
		Size:     int64(len(data)),
		Archived: true,
	}, nil
}

func (s *StorageService) generateKey(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".csv"
	}
	timestamp := time.Now().UTC().Format("20060102")
	name := fmt.Sprintf("%s_%s%s", timestamp, uuid.New().String()[:8], ext)

	if s.config.ArchivePrefix != "" {
		return fmt.Sprintf("%s/%s", strings.Trim(s.config.ArchivePrefix, "/"), name)
	}
	return name
}

func (s *StorageService) getS3URL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.S3Bucket, s.config.Region, key)
}
