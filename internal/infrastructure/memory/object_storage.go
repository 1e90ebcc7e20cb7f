package memory

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/jhoicas/sgsst-docs-api/internal/application/ports"
)

var _ ports.ObjectStorage = (*ObjectStorage)(nil)

// ObjectStorage almacenamiento de archivos en memoria (desarrollo y tests).
type ObjectStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
	now     func() time.Time
}

// NewObjectStorage crea un almacenamiento vacío.
func NewObjectStorage() *ObjectStorage {
	return &ObjectStorage{objects: map[string][]byte{}, now: time.Now}
}

func objectKey(bucket ports.Bucket, path string) string {
	return string(bucket) + "/" + path
}

func (s *ObjectStorage) Put(ctx context.Context, bucket ports.Bucket, path string, data []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectKey(bucket, path)] = append([]byte(nil), data...)
	return path, nil
}

func (s *ObjectStorage) DownloadURL(_ context.Context, bucket ports.Bucket, path string, ttl time.Duration) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.objects[objectKey(bucket, path)]; !ok {
		return "", fmt.Errorf("objeto %s/%s no existe", bucket, path)
	}
	exp := s.now().Add(ttl).Unix()
	return fmt.Sprintf("memory://%s/%s?expires=%d", bucket, url.PathEscape(path), exp), nil
}

func (s *ObjectStorage) Delete(_ context.Context, bucket ports.Bucket, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectKey(bucket, path))
	return nil
}

// Exists informa si el objeto está guardado.
func (s *ObjectStorage) Exists(bucket ports.Bucket, path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[objectKey(bucket, path)]
	return ok
}

// Len número de objetos guardados.
func (s *ObjectStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
