package model

import "github.com/pkg/errors"

// ErrInvalidState is returned when an operation is not valid given the
// current canonical chain, e.g. appending a block that does not extend
// the current tip.
var ErrInvalidState = errors.New("invalid chain state")

// ErrMissingTransactionTrace is returned when the trace of a transaction
// that has to be reverted cannot be found.
var ErrMissingTransactionTrace = errors.New("missing transaction trace")

// ErrTransactionNotMined is returned when a merkle path is requested for a
// transaction whose result is not mined.
var ErrTransactionNotMined = errors.New("transaction is not mined")
