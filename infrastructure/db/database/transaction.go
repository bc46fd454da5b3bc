package database

// Transaction is a DataAccessor over a snapshot of the database taken when
// the transaction began. Writes are applied atomically on Commit and are
// not visible to reads made through the same transaction.
type Transaction interface {
	DataAccessor

	// Rollback discards the transaction.
	Rollback() error

	// Commit applies all the writes of the transaction.
	Commit() error

	// RollbackUnlessClosed discards the transaction unless it was already
	// committed or rolled back. It is meant to be deferred right after
	// Begin.
	RollbackUnlessClosed() error
}
