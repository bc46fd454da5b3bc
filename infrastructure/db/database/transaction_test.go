package database_test

import (
	"bytes"
	"testing"

	"github.com/kaspanet/ledgerd/infrastructure/db/database"
)

func TestTransactionCommitForLevelDBMethods(t *testing.T) {
	testForAllDatabaseTypes(t, "TestTransactionCommitForLevelDBMethods", testTransactionCommitForLevelDBMethods)
}

func testTransactionCommitForLevelDBMethods(t *testing.T, db database.Database, testName string) {
	// Put a value into the database
	key1 := database.MakeBucket([]byte("bucket")).Key([]byte("key1"))
	value1 := []byte("value1")
	err := db.Put(key1, value1)
	if err != nil {
		t.Fatalf("%s: Put unexpectedly failed: %s", testName, err)
	}

	// Begin a new transaction
	dbTx, err := db.Begin()
	if err != nil {
		t.Fatalf("%s: Begin unexpectedly failed: %s", testName, err)
	}
	defer func() {
		err := dbTx.RollbackUnlessClosed()
		if err != nil {
			t.Fatalf("%s: RollbackUnlessClosed unexpectedly failed: %s", testName, err)
		}
	}()

	// Delete the value and put a different one in the transaction
	err = dbTx.Delete(key1)
	if err != nil {
		t.Fatalf("%s: Delete unexpectedly failed: %s", testName, err)
	}
	key2 := database.MakeBucket([]byte("bucket")).Key([]byte("key2"))
	value2 := []byte("value2")
	err = dbTx.Put(key2, value2)
	if err != nil {
		t.Fatalf("%s: Put unexpectedly failed: %s", testName, err)
	}

	// Nothing is visible outside the transaction before commit
	exists, err := db.Has(key2)
	if err != nil {
		t.Fatalf("%s: Has unexpectedly failed: %s", testName, err)
	}
	if exists {
		t.Fatalf("%s: Has unexpectedly returned that the value exists before commit", testName)
	}

	err = dbTx.Commit()
	if err != nil {
		t.Fatalf("%s: Commit unexpectedly failed: %s", testName, err)
	}

	// Both changes are visible after commit
	_, err = db.Get(key1)
	if !database.IsNotFoundError(err) {
		t.Fatalf("%s: Get of a deleted key returned wrong error: %v", testName, err)
	}
	returnedValue, err := db.Get(key2)
	if err != nil {
		t.Fatalf("%s: Get unexpectedly failed: %s", testName, err)
	}
	if !bytes.Equal(returnedValue, value2) {
		t.Fatalf("%s: Get returned wrong value. Want: %s, got: %s",
			testName, string(value2), string(returnedValue))
	}
}

func TestTransactionRollback(t *testing.T) {
	testForAllDatabaseTypes(t, "TestTransactionRollback", testTransactionRollback)
}

func testTransactionRollback(t *testing.T, db database.Database, testName string) {
	entries := populateDatabaseForTest(t, db, testName)

	dbTx, err := db.Begin()
	if err != nil {
		t.Fatalf("%s: Begin unexpectedly failed: %s", testName, err)
	}
	for _, entry := range entries {
		err := dbTx.Delete(entry.key)
		if err != nil {
			t.Fatalf("%s: Delete unexpectedly failed: %s", testName, err)
		}
	}
	err = dbTx.Rollback()
	if err != nil {
		t.Fatalf("%s: Rollback unexpectedly failed: %s", testName, err)
	}

	for _, entry := range entries {
		exists, err := db.Has(entry.key)
		if err != nil {
			t.Fatalf("%s: Has unexpectedly failed: %s", testName, err)
		}
		if !exists {
			t.Fatalf("%s: key %s unexpectedly missing after rollback", testName, entry.key)
		}
	}
}

func TestCursorIteratesBucketOnly(t *testing.T) {
	testForAllDatabaseTypes(t, "TestCursorIteratesBucketOnly", testCursorIteratesBucketOnly)
}

func testCursorIteratesBucketOnly(t *testing.T, db database.Database, testName string) {
	entries := populateDatabaseForTest(t, db, testName)

	// A sibling bucket whose name shares a prefix must not leak into the cursor
	err := db.Put(database.MakeBucket([]byte("populated-other")).Key([]byte("key")), []byte("other"))
	if err != nil {
		t.Fatalf("%s: Put unexpectedly failed: %s", testName, err)
	}

	cursor, err := db.Cursor(database.MakeBucket([]byte("populated")))
	if err != nil {
		t.Fatalf("%s: Cursor unexpectedly failed: %s", testName, err)
	}
	defer cursor.Close()

	count := 0
	for ok := cursor.First(); ok; ok = cursor.Next() {
		key, err := cursor.Key()
		if err != nil {
			t.Fatalf("%s: Key unexpectedly failed: %s", testName, err)
		}
		if !bytes.Equal(key.Suffix(), entries[count].key.Suffix()) {
			t.Fatalf("%s: cursor returned wrong key. Want: %s, got: %s",
				testName, entries[count].key.Suffix(), key.Suffix())
		}
		count++
	}
	if count != len(entries) {
		t.Fatalf("%s: cursor returned %d entries, want %d", testName, count, len(entries))
	}
}
