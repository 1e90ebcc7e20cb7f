package http

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sgsst-docs-api/internal/application/files"
	"github.com/jhoicas/sgsst-docs-api/internal/application/usecase"
	"github.com/jhoicas/sgsst-docs-api/internal/domain"
)

// formUpload lee el campo multipart "file".
func formUpload(c *fiber.Ctx) (files.Upload, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return files.Upload{}, fmt.Errorf("%w: el campo file es obligatorio", domain.ErrValidation)
	}
	f, err := fh.Open()
	if err != nil {
		return files.Upload{}, fmt.Errorf("abrir archivo: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return files.Upload{}, fmt.Errorf("leer archivo: %w", err)
	}
	contentType := fh.Header.Get(fiber.HeaderContentType)
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	return files.Upload{Name: fh.Filename, ContentType: contentType, Data: data}, nil
}

// formDate fecha opcional 2006-01-02 de un campo de formulario.
func formDate(c *fiber.Ctx, key string) (*time.Time, error) {
	s := strings.TrimSpace(c.FormValue(key))
	if s == "" {
		return nil, nil
	}
	t, err := usecase.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
