package blockchain

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/minio/sha256-simd"
)

// GenesisMarker is the fixed payload carried by the genesis block in place of transactions.
const GenesisMarker = "Genesis block"

type Block struct {
	Index        uint64        `json:"index"`
	Timestamp    int64         `json:"timestamp"` // unix milliseconds
	Transactions []Transaction `json:"transactions"`
	Marker       string        `json:"marker,omitempty"`
	PrevHash     string        `json:"prev_hash"`
	Hash         string        `json:"hash"`
	Nonce        uint64        `json:"nonce"`
}

// NewBlock builds an unmined block with nonce 0 and its initial hash.
func NewBlock(index uint64, timestamp int64, txs []Transaction, prevHash string) *Block {
	if prevHash == "" {
		prevHash = "0"
	}
	b := &Block{
		Index:        index,
		Timestamp:    timestamp,
		Transactions: txs,
		PrevHash:     prevHash,
	}
	b.Hash = b.CalculateHash()
	return b
}

func NewGenesisBlock(timestamp int64) *Block {
	b := &Block{
		Index:     0,
		Timestamp: timestamp,
		Marker:    GenesisMarker,
		PrevHash:  "0",
	}
	b.Hash = b.CalculateHash()
	return b
}

func (b *Block) IsGenesis() bool {
	return b.Index == 0 && b.Marker == GenesisMarker
}

// CalculateHash digests the block content at the current nonce.
func (b *Block) CalculateHash() string {
	return b.hashWithNonce(b.header(), b.Nonce)
}

// header is everything hashed except the nonce. It is computed once per
// mining round so the search loop only appends the nonce.
func (b *Block) header() []byte {
	var sb strings.Builder
	sb.WriteString(strconv.FormatUint(b.Index, 10))
	sb.WriteByte('|')
	sb.WriteString(b.PrevHash)
	sb.WriteByte('|')
	sb.WriteString(strconv.FormatInt(b.Timestamp, 10))
	sb.WriteByte('|')
	sb.WriteString(b.payload())
	sb.WriteByte('|')
	return []byte(sb.String())
}

// payload is the canonical serialization of the transactions, or the genesis marker.
func (b *Block) payload() string {
	if b.Marker != "" {
		return strconv.Quote(b.Marker)
	}
	txs := b.Transactions
	if txs == nil {
		txs = []Transaction{}
	}
	data, err := json.Marshal(txs)
	if err != nil {
		// Transaction holds only strings and integers.
		panic(fmt.Sprintf("marshal transactions: %v", err))
	}
	return string(data)
}

func (b *Block) hashWithNonce(header []byte, nonce uint64) string {
	buf := make([]byte, 0, len(header)+20)
	buf = append(buf, header...)
	buf = strconv.AppendUint(buf, nonce, 10)
	h := sha256.Sum256(buf)
	return hex.EncodeToString(h[:])
}

// MeetsDifficulty reports whether the stored hash starts with difficulty zero hex digits.
func (b *Block) MeetsDifficulty(difficulty int) bool {
	return strings.HasPrefix(b.Hash, targetPrefix(difficulty))
}

// HasValidTransactions reports whether every transaction authenticates.
// The first validation error is returned wrapped with the offending position.
func (b *Block) HasValidTransactions() (bool, error) {
	for i := range b.Transactions {
		ok, err := b.Transactions[i].IsValid()
		if err != nil {
			return false, fmt.Errorf("transaction %d of block %d: %w", i, b.Index, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Clone returns a deep copy so callers cannot mutate chain state.
func (b *Block) Clone() *Block {
	c := *b
	if b.Transactions != nil {
		c.Transactions = make([]Transaction, len(b.Transactions))
		copy(c.Transactions, b.Transactions)
	}
	return &c
}

func targetPrefix(difficulty int) string {
	if difficulty < 0 {
		difficulty = 0
	}
	return strings.Repeat("0", difficulty)
}
