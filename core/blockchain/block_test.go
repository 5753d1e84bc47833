package blockchain

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlockComputesInitialHash(t *testing.T) {
	b := NewBlock(1, 1700000000000, []Transaction{*NewMintedTransaction("R", 100)}, "abc")

	assert.Equal(t, uint64(0), b.Nonce)
	assert.Equal(t, b.CalculateHash(), b.Hash)
	assert.Len(t, b.Hash, 64)
}

func TestNewBlockDefaultsPrevHash(t *testing.T) {
	b := NewBlock(0, 1, nil, "")
	assert.Equal(t, "0", b.PrevHash)
}

func TestBlockHashIsStableAndContentSensitive(t *testing.T) {
	txs := []Transaction{*NewTransaction("A", "B", 10), *NewMintedTransaction("R", 100)}
	b1 := NewBlock(3, 42, txs, "prev")
	b2 := NewBlock(3, 42, []Transaction{*NewTransaction("A", "B", 10), *NewMintedTransaction("R", 100)}, "prev")
	assert.Equal(t, b1.Hash, b2.Hash)

	mutations := map[string]func(b *Block){
		"index":     func(b *Block) { b.Index++ },
		"timestamp": func(b *Block) { b.Timestamp++ },
		"prev hash": func(b *Block) { b.PrevHash = "other" },
		"nonce":     func(b *Block) { b.Nonce++ },
		"amount":    func(b *Block) { b.Transactions[0].Amount = 11 },
		"order":     func(b *Block) { b.Transactions[0], b.Transactions[1] = b.Transactions[1], b.Transactions[0] },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			c := b1.Clone()
			mutate(c)
			assert.NotEqual(t, b1.Hash, c.CalculateHash())
		})
	}
}

func TestEmptyAndNilTransactionListsHashTheSame(t *testing.T) {
	assert.Equal(t, NewBlock(1, 1, nil, "p").Hash, NewBlock(1, 1, []Transaction{}, "p").Hash)
}

func TestGenesisBlock(t *testing.T) {
	g := NewGenesisBlock(7)

	assert.True(t, g.IsGenesis())
	assert.Equal(t, uint64(0), g.Index)
	assert.Equal(t, "0", g.PrevHash)
	assert.Equal(t, GenesisMarker, g.Marker)
	assert.Empty(t, g.Transactions)
	assert.Equal(t, g.CalculateHash(), g.Hash)
	assert.NotEqual(t, NewBlock(0, 7, nil, "0").Hash, g.Hash, "marker is part of the hash")
}

func TestMinePostcondition(t *testing.T) {
	for _, difficulty := range []int{0, 1, 2, 3} {
		b := NewBlock(1, time.Now().UnixMilli(), []Transaction{*NewMintedTransaction("R", 1)}, "prev")

		require.NoError(t, b.Mine(context.Background(), difficulty))
		assert.True(t, strings.HasPrefix(b.Hash, strings.Repeat("0", difficulty)), "difficulty %d hash %s", difficulty, b.Hash)
		assert.True(t, b.MeetsDifficulty(difficulty))
		assert.Equal(t, b.CalculateHash(), b.Hash)
	}
}

func TestMineStopsOnCancelledContext(t *testing.T) {
	b := NewBlock(1, 1, nil, "prev")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// 64 leading zeros is never reached; only cancellation can end the search
	err := b.mine(ctx, 64, 8)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMineStopsOnDeadline(t *testing.T) {
	b := NewBlock(1, 1, nil, "prev")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := b.Mine(ctx, 64)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, b.Nonce, uint64(0))
}

func TestMineParallelPostcondition(t *testing.T) {
	b := NewBlock(5, time.Now().UnixMilli(), []Transaction{*NewTransaction("A", "B", 3)}, "prev")

	require.NoError(t, b.MineParallel(context.Background(), 3, 4))
	assert.True(t, b.MeetsDifficulty(3))
	assert.Equal(t, b.CalculateHash(), b.Hash)
}

func TestMineParallelCancelledLeavesBlockUntouched(t *testing.T) {
	b := NewBlock(5, 1, nil, "prev")
	before := *b
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := b.MineParallel(ctx, 64, 3)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, before.Nonce, b.Nonce)
	assert.Equal(t, before.Hash, b.Hash)
}

func TestHasValidTransactions(t *testing.T) {
	kp := newTestKeypair(t)
	signed := newSignedTx(t, kp, "B", 10)

	b := NewBlock(1, 1, []Transaction{*signed, *NewMintedTransaction("R", 100)}, "p")
	ok, err := b.HasValidTransactions()
	require.NoError(t, err)
	assert.True(t, ok)

	b.Transactions[0].Amount = 99
	ok, err = b.HasValidTransactions()
	require.NoError(t, err)
	assert.False(t, ok)

	unsigned := NewBlock(1, 1, []Transaction{*NewTransaction(kp.PublicIdentity(), "B", 1)}, "p")
	ok, err = unsigned.HasValidTransactions()
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrMissingSignature)
}

func TestCloneIsDeep(t *testing.T) {
	b := NewBlock(1, 1, []Transaction{*NewTransaction("A", "B", 1)}, "p")
	c := b.Clone()
	c.Transactions[0].Amount = 2

	assert.Equal(t, uint64(1), b.Transactions[0].Amount)
}
