package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var (
	s3Client     *s3.Client
	backupBucket string
)

// InitS3 wires the backup store. Backups are optional: with no bucket
// configured the endpoints report unconfigured instead of the server
// refusing to start.
func InitS3() {
	backupBucket = os.Getenv("BACKUP_S3_BUCKET")
	if backupBucket == "" {
		log.Printf("backup: BACKUP_S3_BUCKET not set, backups disabled")
		return
	}

	region := os.Getenv("S3_REGION")
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(region))
	if err != nil {
		log.Fatalf("Unable to load AWS config for S3: %v", err)
	}
	s3Client = s3.NewFromConfig(cfg)
}

// BackupConfigured reports whether snapshots can be stored.
func BackupConfigured() bool {
	return s3Client != nil
}

// UploadSnapshot stores a JSON snapshot and returns its object key.
func UploadSnapshot(data []byte) (string, error) {
	if s3Client == nil {
		return "", fmt.Errorf("backup storage is not configured")
	}
	key := fmt.Sprintf("backups/%s-%s.json", time.Now().UTC().Format("20060102-150405"), uuid.NewString())

	_, err := s3Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(backupBucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot: %w", err)
	}
	return key, nil
}

// ListSnapshots returns the stored snapshot keys, newest naming first.
func ListSnapshots() ([]string, error) {
	if s3Client == nil {
		return nil, fmt.Errorf("backup storage is not configured")
	}
	out, err := s3Client.ListObjectsV2(context.TODO(), &s3.ListObjectsV2Input{
		Bucket: aws.String(backupBucket),
		Prefix: aws.String("backups/"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	keys := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		keys = append(keys, aws.ToString(obj.Key))
	}
	return keys, nil
}

// DownloadSnapshot fetches one snapshot by key.
func DownloadSnapshot(key string) ([]byte, error) {
	if s3Client == nil {
		return nil, fmt.Errorf("backup storage is not configured")
	}
	out, err := s3Client.GetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(backupBucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download snapshot %s: %w", key, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}
