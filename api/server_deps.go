package api

import (
	"database/sql"

	"ministore/core/bootstrap"
)

// ServerDeps carries what the server needs from main. Services may be nil,
// in which case they are built on DB.
type ServerDeps struct {
	DB       *sql.DB
	Services *bootstrap.Services
}
