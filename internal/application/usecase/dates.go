package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/sgsst-docs-api/internal/domain"
)

const dateLayout = "2006-01-02"

// ParseDate fecha de calendario (2006-01-02) en UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q, se espera AAAA-MM-DD", domain.ErrValidation, s)
	}
	return t, nil
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
