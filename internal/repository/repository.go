package repository

import (
	"github.com/adilzhan-dev/tulpar-backend/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	Account AccountRepository
	Token   TokenRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		Account: NewAccountRepository(db),
		Token:   NewTokenRepository(db),
	}
}
