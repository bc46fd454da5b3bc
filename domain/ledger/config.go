package ledger

import "github.com/kaspanet/ledgerd/domain/ledger/model/externalapi"

const (
	defaultBlockCacheSize       = 200
	defaultTransactionCacheSize = 10_000
	defaultStateCacheSize       = 10_000
)

// Config holds the parameters of a single ledger
type Config struct {
	ChainID *externalapi.DomainChainID

	// BlockCacheSize bounds the header, body and canonical index caches
	BlockCacheSize int

	// TransactionCacheSize bounds the transaction and trace caches
	TransactionCacheSize int

	StateCacheSize int
}

func (c *Config) withDefaults() *Config {
	withDefaults := *c
	if withDefaults.BlockCacheSize <= 0 {
		withDefaults.BlockCacheSize = defaultBlockCacheSize
	}
	if withDefaults.TransactionCacheSize <= 0 {
		withDefaults.TransactionCacheSize = defaultTransactionCacheSize
	}
	if withDefaults.StateCacheSize <= 0 {
		withDefaults.StateCacheSize = defaultStateCacheSize
	}
	return &withDefaults
}
