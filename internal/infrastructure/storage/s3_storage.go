// Package storage adaptador de almacenamiento de objetos sobre S3 o un servicio
// compatible (MinIO, LocalStack).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jhoicas/sgsst-docs-api/internal/application/ports"
	"github.com/jhoicas/sgsst-docs-api/pkg/config"
)

var _ ports.ObjectStorage = (*S3Storage)(nil)

// S3Storage implementa ports.ObjectStorage. Cada bucket lógico se traduce al
// bucket físico configurado.
type S3Storage struct {
	client    *s3.Client
	presigner *s3.PresignClient
	buckets   map[ports.Bucket]string
}

// NewS3Storage carga la configuración de AWS. Con access key explícita usa
// credenciales estáticas; con Endpoint apunta a un servicio compatible.
func NewS3Storage(ctx context.Context, cfg config.StorageConfig) (*S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &S3Storage{
		client:    client,
		presigner: s3.NewPresignClient(client),
		buckets:   BucketNames(cfg),
	}, nil
}

// BucketNames nombres físicos de los buckets lógicos.
func BucketNames(cfg config.StorageConfig) map[ports.Bucket]string {
	return map[ports.Bucket]string{
		ports.BucketDocuments:       cfg.BucketDocuments,
		ports.BucketRecordTemplates: cfg.BucketRecordTemplates,
		ports.BucketRecordEntries:   cfg.BucketRecordEntries,
	}
}

func (s *S3Storage) bucket(b ports.Bucket) (string, error) {
	name, ok := s.buckets[b]
	if !ok || name == "" {
		return "", fmt.Errorf("bucket %q sin configurar", b)
	}
	return name, nil
}

// Put sube el objeto; la ruta guardada es la misma recibida.
func (s *S3Storage) Put(ctx context.Context, b ports.Bucket, path string, data []byte, contentType string) (string, error) {
	name, err := s.bucket(b)
	if err != nil {
		return "", err
	}
	in := &s3.PutObjectInput{
		Bucket:        aws.String(name),
		Key:           aws.String(path),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("put object %s/%s: %w", name, path, err)
	}
	return path, nil
}

// DownloadURL URL GET prefirmada.
func (s *S3Storage) DownloadURL(ctx context.Context, b ports.Bucket, path string, ttl time.Duration) (string, error) {
	name, err := s.bucket(b)
	if err != nil {
		return "", err
	}
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(name),
		Key:    aws.String(path),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign get object: %w", err)
	}
	return req.URL, nil
}

// Delete borra el objeto; S3 no falla si no existe.
func (s *S3Storage) Delete(ctx context.Context, b ports.Bucket, path string) error {
	name, err := s.bucket(b)
	if err != nil {
		return err
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(name),
		Key:    aws.String(path),
	}); err != nil {
		return fmt.Errorf("delete object %s/%s: %w", name, path, err)
	}
	return nil
}
