package s3

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"pet-alert/internal/ports/filestore"
)

// Store guarda imágenes en un bucket S3 (o compatible, ej. MinIO).
// Las referencias son keys con esquema s3:// para distinguirlas de las locales.
type Store struct {
	client *awss3.Client
	bucket string
}

type Config struct {
	Bucket   string
	Region   string
	Endpoint string // opcional, para MinIO
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3: bucket requerido")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Store{client: client, bucket: cfg.Bucket}, nil
}

func (s *Store) SaveBase64(ctx context.Context, payloads []string, prefix string) ([]string, error) {
	refs := make([]string, 0, len(payloads))

	for _, payload := range payloads {
		raw, err := decodeBase64Image(payload)
		if err != nil {
			return nil, err
		}

		key := fmt.Sprintf("%s/%s.jpg", strings.Trim(prefix, "/"), uuid.NewString())
		_, err = s.client.PutObject(ctx, &awss3.PutObjectInput{
			Bucket:      &s.bucket,
			Key:         &key,
			Body:        bytes.NewReader(raw),
			ContentType: aws.String("image/jpeg"),
		})
		if err != nil {
			return nil, fmt.Errorf("s3 put %s: %w", key, err)
		}

		refs = append(refs, "s3://"+s.bucket+"/"+key)
	}

	return refs, nil
}

func (s *Store) Delete(ctx context.Context, refs []string) error {
	for _, ref := range refs {
		key, ok := s.keyFromRef(ref)
		if !ok {
			continue
		}
		if _, err := s.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
			Bucket: &s.bucket,
			Key:    &key,
		}); err != nil {
			return fmt.Errorf("s3 delete %s: %w", key, err)
		}
	}
	return nil
}

func (s *Store) keyFromRef(ref string) (string, bool) {
	want := "s3://" + s.bucket + "/"
	if !strings.HasPrefix(ref, want) {
		return "", false
	}
	key := strings.TrimPrefix(ref, want)
	return key, key != ""
}

func decodeBase64Image(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, filestore.ErrEmptyPayload
	}
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decodificar base64: %w", err)
	}
	return raw, nil
}
