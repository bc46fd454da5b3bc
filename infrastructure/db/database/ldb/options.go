package ldb

import "github.com/syndtr/goleveldb/leveldb/opt"

// Options returns the leveldb options ledgerd opens its database with.
// Half of the cache size goes to the write buffer. Seek compaction is
// disabled since rollbacks read many keys they later delete.
func Options(cacheSizeMiB int) *opt.Options {
	return &opt.Options{
		Compression:            opt.NoCompression,
		BlockCacheCapacity:     cacheSizeMiB * opt.MiB,
		WriteBuffer:            cacheSizeMiB * opt.MiB / 2,
		DisableSeeksCompaction: true,
	}
}
