package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/precise-ai/backend/internal/models"
)

func wrapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	return err
}

// Page size bounds shared by list endpoints.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// ClampLimit returns def for a non-positive limit and caps anything above max.
func ClampLimit(limit, def, max int) int {
	switch {
	case limit <= 0:
		return def
	case limit > max:
		return max
	}
	return limit
}
