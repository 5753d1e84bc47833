package blockchain

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// TxKind tags a transaction as a signed transfer or a system minted reward.
type TxKind uint8

const (
	KindTransfer TxKind = iota
	KindMinted
)

func (k TxKind) String() string {
	switch k {
	case KindTransfer:
		return "transfer"
	case KindMinted:
		return "minted"
	default:
		return fmt.Sprintf("TxKind(%d)", uint8(k))
	}
}

type Transaction struct {
	Kind      TxKind `json:"kind"`
	From      string `json:"from,omitempty"`
	To        string `json:"to"`
	Amount    uint64 `json:"amount"`
	Signature string `json:"signature,omitempty"`
}

// NewTransaction builds an unsigned transfer. Fields are stored verbatim.
func NewTransaction(from, to string, amount uint64) *Transaction {
	return &Transaction{
		Kind:   KindTransfer,
		From:   from,
		To:     to,
		Amount: amount,
	}
}

// NewMintedTransaction builds a reward with no sender.
func NewMintedTransaction(to string, amount uint64) *Transaction {
	return &Transaction{
		Kind:   KindMinted,
		To:     to,
		Amount: amount,
	}
}

func (tx *Transaction) IsMinted() bool {
	return tx.Kind == KindMinted
}

// Hash is the digest the sender signs. It covers kind, sender, recipient and amount.
func (tx *Transaction) Hash() []byte {
	buf := make([]byte, 0, 1+8+len(tx.From)+8+len(tx.To)+8)
	buf = append(buf, byte(tx.Kind))
	buf = appendField(buf, tx.From)
	buf = appendField(buf, tx.To)
	buf = binary.BigEndian.AppendUint64(buf, tx.Amount)

	return digest(buf)
}

func (tx *Transaction) ID() string {
	return hex.EncodeToString(tx.Hash())
}

// Sign signs the transaction with kp. Only the keypair whose public identity
// equals From may sign; otherwise ErrAuthorization is returned and the
// signature is left untouched.
func (tx *Transaction) Sign(kp *Keypair) error {
	if tx.IsMinted() {
		return fmt.Errorf("%w: minted transactions carry no signature", ErrAuthorization)
	}
	if kp == nil || kp.PublicIdentity() != tx.From {
		return ErrAuthorization
	}

	sig, err := kp.Sign(tx.Hash())
	if err != nil {
		return fmt.Errorf("Error generating signature: %w", err)
	}
	tx.Signature = sig
	return nil
}

// IsValid reports whether the signature authenticates the sender.
// Minted transactions are always valid. An unsigned transfer yields ErrMissingSignature.
func (tx *Transaction) IsValid() (bool, error) {
	if tx.IsMinted() {
		return true, nil
	}

	if len(tx.Signature) == 0 {
		return false, ErrMissingSignature
	}

	return Verify(tx.Hash(), tx.Signature, tx.From), nil
}

func (tx *Transaction) String() string {
	if tx.IsMinted() {
		return fmt.Sprintf("minted %d -> %s", tx.Amount, IdentityToFingerprint(tx.To))
	}
	return fmt.Sprintf("%s -> %s: %d", IdentityToFingerprint(tx.From), IdentityToFingerprint(tx.To), tx.Amount)
}
