package model

// DBCursor walks the entries of a bucket in key order. First, Next and
// Seek panic once the cursor is closed.
type DBCursor interface {
	// Next advances the cursor and returns false once it is exhausted
	Next() bool
	// First moves to the first entry and returns false if there is none
	First() bool
	// Seek moves to key, returning ErrNotFound if key is not in the bucket
	Seek(key DBKey) error
	// Key returns the current key, or ErrNotFound once exhausted. It is
	// only valid until the next move.
	Key() (DBKey, error)
	// Value returns the current value, or ErrNotFound once exhausted. It is
	// only valid until the next move.
	Value() ([]byte, error)
	Close() error
}

// DBReader is read access to either the database or a transaction
type DBReader interface {
	// Get returns ErrNotFound if key does not exist
	Get(key DBKey) ([]byte, error)
	Has(key DBKey) (bool, error)
	Cursor(bucket DBBucket) (DBCursor, error)
}

// DBWriter is read and write access to either the database or a transaction
type DBWriter interface {
	DBReader
	Put(key DBKey, value []byte) error
	// Delete does not fail if key does not exist
	Delete(key DBKey) error
}

// DBTransaction is a DBWriter whose writes are applied atomically on Commit.
// Stores commit their staging shards through it.
type DBTransaction interface {
	DBWriter
	Rollback() error
	Commit() error
	// RollbackUnlessClosed is meant to be deferred right after Begin
	RollbackUnlessClosed() error
}

// DBManager is the database the ledger reads from and commits to
type DBManager interface {
	DBWriter
	Begin() (DBTransaction, error)
}

// DBKey is a key inside a DBBucket
type DBKey interface {
	Bytes() []byte
	Bucket() DBBucket
	Suffix() []byte
}

// DBBucket is a namespace of keys. Buckets nest, so every chain keeps its
// stores under a bucket named after its chain id.
type DBBucket interface {
	Bucket(bucketBytes []byte) DBBucket
	Key(suffix []byte) DBKey
	Path() []byte
}
