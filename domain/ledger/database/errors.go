package database

import (
	"github.com/kaspanet/ledgerd/infrastructure/db/database"
)

// ErrNotFound is returned by stores for keys that do not exist
var ErrNotFound = database.ErrNotFound

// IsNotFoundError returns whether err wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return database.IsNotFoundError(err)
}
