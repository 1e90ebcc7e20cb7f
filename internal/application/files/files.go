// Package files reúne lo que comparten las subidas de versiones y de registros
// llenos: validación del archivo, convención de rutas y URLs firmadas.
package files

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jhoicas/sgsst-docs-api/internal/application/ports"
	"github.com/jhoicas/sgsst-docs-api/internal/domain"
	"github.com/jhoicas/sgsst-docs-api/internal/domain/entity"
	"github.com/jhoicas/sgsst-docs-api/pkg/logger"
)

// Upload archivo recibido del cliente.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Policy límites de subida.
type Policy struct {
	MaxBytes          int64
	AllowedExtensions []string
}

// Validate devuelve la extensión (sin punto, en minúsculas) o ErrValidation.
func (p Policy) Validate(f Upload) (string, error) {
	if len(f.Data) == 0 {
		return "", fmt.Errorf("%w: archivo vacío", domain.ErrValidation)
	}
	if p.MaxBytes > 0 && int64(len(f.Data)) > p.MaxBytes {
		return "", fmt.Errorf("%w: el archivo supera %d bytes", domain.ErrValidation, p.MaxBytes)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Name), "."))
	if ext == "" {
		return "", fmt.Errorf("%w: archivo sin extensión", domain.ErrValidation)
	}
	if len(p.AllowedExtensions) == 0 {
		return ext, nil
	}
	for _, a := range p.AllowedExtensions {
		if strings.EqualFold(strings.TrimPrefix(a, "."), ext) {
			return ext, nil
		}
	}
	return "", fmt.Errorf("%w: tipo de archivo .%s no permitido", domain.ErrValidation, ext)
}

// ObjectPath {companyId}/{projectId}/{entityId}/{versionOrEntryId}/{timestamp}.{ext}
func ObjectPath(companyID, projectID, entityID, subID string, ts time.Time, ext string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%d.%s", companyID, projectID, entityID, subID, ts.UnixMilli(), ext)
}

// BucketFor bucket de las versiones según el tipo de elemento.
func BucketFor(kind entity.Kind) ports.Bucket {
	if kind == entity.KindRecord {
		return ports.BucketRecordTemplates
	}
	return ports.BucketDocuments
}

// Descriptor arma el FileDescriptor de lo que se subió.
func Descriptor(f Upload, path string) entity.FileDescriptor {
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	return entity.FileDescriptor{Name: f.Name, Path: path, Size: int64(len(f.Data)), ContentType: ct}
}

// Links emite URLs firmadas y las cachea mientras siguen vigentes.
type Links struct {
	storage ports.ObjectStorage
	cache   ports.URLCache
	ttl     time.Duration
	log     *logger.Logger
}

// NewLinks construye el emisor de URLs. cache puede ser nil.
func NewLinks(storage ports.ObjectStorage, cache ports.URLCache, ttl time.Duration, log *logger.Logger) *Links {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Links{storage: storage, cache: cache, ttl: ttl, log: log}
}

// URL devuelve la URL de descarga de un objeto.
func (l *Links) URL(ctx context.Context, bucket ports.Bucket, path string) (string, error) {
	key := cacheKey(bucket, path)
	if l.cache != nil {
		if url, ok, err := l.cache.Get(ctx, key); err == nil && ok {
			return url, nil
		} else if err != nil {
			l.log.Warn().Err(err).Str("key", key).Msg("cache de URLs no disponible")
		}
	}
	url, err := l.storage.DownloadURL(ctx, bucket, path, l.ttl)
	if err != nil {
		return "", fmt.Errorf("url de descarga: %w", err)
	}
	if l.cache != nil {
		// margen para no entregar una URL a punto de vencer
		if ttl := l.ttl - l.ttl/5; ttl > 0 {
			if err := l.cache.Set(ctx, key, url, ttl); err != nil {
				l.log.Warn().Err(err).Str("key", key).Msg("no se pudo cachear la URL")
			}
		}
	}
	return url, nil
}

// Forget invalida la URL cacheada de un objeto borrado.
func (l *Links) Forget(ctx context.Context, bucket ports.Bucket, path string) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Delete(ctx, cacheKey(bucket, path)); err != nil {
		l.log.Warn().Err(err).Msg("no se pudo invalidar la URL cacheada")
	}
}

func cacheKey(bucket ports.Bucket, path string) string {
	return "download-url:" + string(bucket) + ":" + path
}
