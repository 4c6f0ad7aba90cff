package models

import (
	"time"

	"github.com/google/uuid"
)

// Brand is one row of the brand directory. Aliases are alternate spellings
// that resolve to the canonical Name during parsing.
type Brand struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Aliases   []string  `db:"aliases"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
