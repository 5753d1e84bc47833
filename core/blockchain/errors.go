package blockchain

import "errors"

var (
	// ErrAuthorization is returned when a keypair tries to sign a transfer from another address.
	ErrAuthorization = errors.New("cannot sign transaction for other wallet")
	// ErrMissingSignature is returned when a transfer is verified before it was signed.
	ErrMissingSignature = errors.New("no signature in this transaction")
	// ErrIncompleteTransaction is returned when a submitted transaction lacks a sender or recipient.
	ErrIncompleteTransaction = errors.New("transaction must include from and to address")
	// ErrAmountTooLarge is returned when a transfer amount does not fit a signed 64 bit balance.
	ErrAmountTooLarge = errors.New("transaction amount exceeds the maximum balance")
	// ErrInvalidSignature is returned when a signature does not verify against the sender.
	ErrInvalidSignature = errors.New("cannot add invalid transaction to chain")
)
