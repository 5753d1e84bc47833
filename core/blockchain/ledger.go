package blockchain

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shu8h0-null/minledger/core/logger"
	"golang.org/x/sync/semaphore"
)

var log = logger.NewLogger()

const (
	DefaultDifficulty   = 4
	DefaultMiningReward = 100
)

type index map[string]uint64

// Ledger is the chain of mined blocks plus the pool of transactions waiting
// for the next block.
type Ledger struct {
	chain      []*Block
	blockIndex index
	mempool    *Mempool
	mu         sync.RWMutex
	mineSem    *semaphore.Weighted // one mining round at a time

	difficulty    int
	reward        uint64
	workers       int
	checkInterval uint64
	now           func() time.Time
	events        *EventBus
}

type Option func(*Ledger)

func WithDifficulty(difficulty int) Option {
	return func(l *Ledger) {
		if difficulty > 0 {
			l.difficulty = difficulty
		}
	}
}

func WithMiningReward(reward uint64) Option {
	return func(l *Ledger) {
		if reward > 0 && reward <= math.MaxInt64 {
			l.reward = reward
		}
	}
}

// WithMiningWorkers spreads the nonce search over n goroutines.
func WithMiningWorkers(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.workers = n
		}
	}
}

func WithCheckInterval(n uint64) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.checkInterval = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

func WithEventBus(bus *EventBus) Option {
	return func(l *Ledger) {
		l.events = bus
	}
}

// NewLedger creates a ledger holding only the genesis block.
func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{
		blockIndex:    make(index),
		mempool:       NewMempool(),
		mineSem:       semaphore.NewWeighted(1),
		difficulty:    DefaultDifficulty,
		reward:        DefaultMiningReward,
		workers:       1,
		checkInterval: MineCheckInterval,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	genesis := NewGenesisBlock(l.now().UnixMilli())
	l.chain = append(l.chain, genesis)
	l.blockIndex[genesis.Hash] = genesis.Index

	return l
}

func (l *Ledger) Difficulty() int {
	return l.difficulty
}

func (l *Ledger) MiningReward() uint64 {
	return l.reward
}

// LatestBlock returns a copy of the last block. The chain is never empty.
func (l *Ledger) LatestBlock() *Block {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.chain[len(l.chain)-1].Clone()
}

func (l *Ledger) Height() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.chain[len(l.chain)-1].Index
}

// Chain returns copies of every block, genesis first.
func (l *Ledger) Chain() []*Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	blocks := make([]*Block, len(l.chain))
	for i, b := range l.chain {
		blocks[i] = b.Clone()
	}
	return blocks
}

func (l *Ledger) BlockByIndex(i uint64) (*Block, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i >= uint64(len(l.chain)) {
		return nil, false
	}
	return l.chain[i].Clone(), true
}

func (l *Ledger) BlockByHash(hash string) (*Block, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i, exists := l.blockIndex[hash]
	if !exists {
		return nil, false
	}
	return l.chain[i].Clone(), true
}

// Pending returns the transactions waiting for the next mining round.
func (l *Ledger) Pending() []Transaction {
	txs, _ := l.mempool.Snapshot()
	return txs
}

// AddTransaction validates tx and queues it for the next block. Sender
// balances are not checked.
func (l *Ledger) AddTransaction(tx *Transaction) error {
	if tx == nil || tx.IsMinted() || tx.From == "" || tx.To == "" {
		rejectedTransactions.WithLabelValues("incomplete").Inc()
		return ErrIncompleteTransaction
	}
	if tx.Amount > math.MaxInt64 {
		rejectedTransactions.WithLabelValues("amount_too_large").Inc()
		return ErrAmountTooLarge
	}

	ok, err := tx.IsValid()
	if err != nil {
		rejectedTransactions.WithLabelValues("missing_signature").Inc()
		return err
	}
	if !ok {
		rejectedTransactions.WithLabelValues("invalid_signature").Inc()
		return ErrInvalidSignature
	}

	l.mempool.AddTx(*tx)
	log.Infof("Transaction %s accepted: %s", shortHash(tx.ID()), tx)
	return nil
}

// MinePendingTransactions seals the pending pool into a new block, appends it
// and leaves a reward for rewardAddress pending. The reward is only recorded
// on chain by the following round. If ctx ends while waiting for another
// round or before a nonce is found, the chain and the pool are left as they were.
func (l *Ledger) MinePendingTransactions(ctx context.Context, rewardAddress string) (*Block, error) {
	if err := l.mineSem.Acquire(ctx, 1); err != nil {
		miningRounds.WithLabelValues("cancelled").Inc()
		return nil, fmt.Errorf("waiting for mining round: %w", err)
	}
	defer l.mineSem.Release(1)

	latest := l.LatestBlock()
	txs, consumed := l.mempool.Snapshot()
	block := NewBlock(latest.Index+1, l.now().UnixMilli(), txs, latest.Hash)

	jobID := uuid.NewString()
	mlog := log.With("job", jobID[:8])
	mlog.Infof("Mining for new Block:[%d] with %d transaction(s) at difficulty %d", block.Index, len(txs), l.difficulty)

	start := time.Now()
	err := block.mineParallel(ctx, l.difficulty, l.workers, l.checkInterval)
	miningDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		miningRounds.WithLabelValues("cancelled").Inc()
		mlog.Warnf("Mining aborted for Block:[%d]: %v", block.Index, err)
		return nil, fmt.Errorf("mining block %d: %w", block.Index, err)
	}

	l.mu.Lock()
	l.chain = append(l.chain, block)
	l.blockIndex[block.Hash] = block.Index
	l.mu.Unlock()

	l.mempool.Replace(consumed, *NewMintedTransaction(rewardAddress, l.reward))

	miningRounds.WithLabelValues("mined").Inc()
	blocksMined.Inc()
	mlog.Infof("Block:[%d]:[%s] mined with nonce %d in %s", block.Index, shortHash(block.Hash), block.Nonce, time.Since(start).Round(time.Millisecond))

	if l.events != nil {
		l.events.BlockFeed.Send(BlockMinedEvent{Index: block.Index, Hash: block.Hash, TxCount: len(block.Transactions)})
	}
	return block.Clone(), nil
}

// BalanceOf replays every transaction on chain. Pending transactions do not count.
// The result saturates at the int64 bounds.
func (l *Ledger) BalanceOf(address string) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var balance int64
	for _, b := range l.chain {
		for _, tx := range b.Transactions {
			if !tx.IsMinted() && tx.From == address {
				balance = addSaturating(balance, -clampAmount(tx.Amount))
			}
			if tx.To == address {
				balance = addSaturating(balance, clampAmount(tx.Amount))
			}
		}
	}
	return balance
}

func clampAmount(amount uint64) int64 {
	if amount > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(amount)
}

func addSaturating(a, b int64) int64 {
	sum := a + b
	switch {
	case b > 0 && sum < a:
		return math.MaxInt64
	case b < 0 && sum > a:
		return math.MinInt64
	}
	return sum
}

// History returns every transaction on chain sent or received by address, in chain order.
func (l *Ledger) History(address string) []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var txHistory []Transaction
	for _, b := range l.chain {
		for _, tx := range b.Transactions {
			if (!tx.IsMinted() && tx.From == address) || tx.To == address {
				txHistory = append(txHistory, tx)
			}
		}
	}
	return txHistory
}

var (
	errBadIndex    = errors.New("invalid block index")
	errBadTxs      = errors.New("block holds invalid transactions")
	errBadPrevHash = errors.New("previous block hash not matched")
	errBadHash     = errors.New("invalid hash")
)

// Verify walks the chain from the block after genesis and returns the first
// integrity failure, or nil. Errors raised while validating a transaction are
// reported as an invalid block.
func (l *Ledger) Verify() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := 1; i < len(l.chain); i++ {
		current := l.chain[i]
		previous := l.chain[i-1]

		if current.Index != previous.Index+1 {
			return fmt.Errorf("block %d: %w: expected %d, got %d", i, errBadIndex, previous.Index+1, current.Index)
		}

		ok, err := current.HasValidTransactions()
		if err != nil {
			return fmt.Errorf("block %d: %w: %w", i, errBadTxs, err)
		}
		if !ok {
			return fmt.Errorf("block %d: %w", i, errBadTxs)
		}

		if current.PrevHash != previous.Hash {
			return fmt.Errorf("block %d: %w", i, errBadPrevHash)
		}

		if current.Hash != current.CalculateHash() {
			return fmt.Errorf("block %d: %w", i, errBadHash)
		}
	}
	return nil
}

func (l *Ledger) IsChainValid() bool {
	if err := l.Verify(); err != nil {
		log.Errorf("Chain validation failed: %v", err)
		return false
	}
	return true
}
