package ports

import (
	"context"
	"time"
)

// Bucket bucket lógico del almacenamiento de objetos. El nombre físico lo decide el adaptador.
type Bucket string

const (
	BucketDocuments       Bucket = "documents"
	BucketRecordTemplates Bucket = "record-templates"
	BucketRecordEntries   Bucket = "record-entries"
)

// ObjectStorage define el puerto de salida hacia el almacenamiento de archivos (S3 o memoria).
type ObjectStorage interface {
	// Put sube el contenido y devuelve la ruta con la que quedó guardado.
	Put(ctx context.Context, bucket Bucket, path string, data []byte, contentType string) (string, error)
	// DownloadURL devuelve una URL firmada de descarga válida por ttl.
	DownloadURL(ctx context.Context, bucket Bucket, path string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, bucket Bucket, path string) error
}

// URLCache guarda URLs firmadas mientras siguen vigentes.
type URLCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, url string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
