package domain

import (
	"time"

	"github.com/aussiebroadwan/tasktab/pkg/idx"
)

type User struct {
	ID           idx.ID
	Username     string
	PasswordHash string // argon2id encoded
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
