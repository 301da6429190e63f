package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/loginrecords"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/memory"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

// MemoryRepositoryManager serves one shared in-memory store per instance.
// The DBTX arguments are ignored; nothing it returns is transactional.
type MemoryRepositoryManager struct {
	users        *memory.UserRepository
	loginRecords *memory.LoginRecordRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:        memory.NewUserRepository(),
		loginRecords: memory.NewLoginRecordRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *MemoryRepositoryManager) LoginRecords(dbx.DBTX) loginrecords.Repository {
	return m.loginRecords
}
