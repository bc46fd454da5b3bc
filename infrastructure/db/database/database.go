package database

// Database is a DataAccessor that can begin transactions and be closed.
// It is kept apart from DataAccessor so that a Transaction, which is a
// DataAccessor too, doesn't need to implement Begin and Close.
type Database interface {
	DataAccessor

	// Begin starts a new transaction over the database.
	Begin() (Transaction, error)

	// Close closes the database. Cursors and transactions must be closed
	// beforehand.
	Close() error
}
