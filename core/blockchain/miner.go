package blockchain

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// MineCheckInterval is how many nonces are tried between cancellation checks.
const MineCheckInterval = 1024

// Mine performs proof-of-work in place: the nonce is incremented and the hash
// recomputed until the hash carries difficulty leading zeros. It returns
// ctx.Err() if the context is done first.
func (b *Block) Mine(ctx context.Context, difficulty int) error {
	return b.mine(ctx, difficulty, MineCheckInterval)
}

func (b *Block) mine(ctx context.Context, difficulty int, checkInterval uint64) error {
	if checkInterval == 0 {
		checkInterval = MineCheckInterval
	}
	prefix := targetPrefix(difficulty)
	header := b.header()

	var tried uint64
	for !strings.HasPrefix(b.Hash, prefix) {
		if tried%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				hashAttempts.Add(float64(tried))
				return err
			}
		}
		b.Nonce++
		b.Hash = b.hashWithNonce(header, b.Nonce)
		tried++
	}
	hashAttempts.Add(float64(tried))
	return nil
}

// MineParallel searches with workers goroutines, worker i trying nonces
// i+1, i+1+workers, ... The block is only written once, with the first
// winning nonce; the other workers stop and their results are discarded.
func (b *Block) MineParallel(ctx context.Context, difficulty int, workers int) error {
	return b.mineParallel(ctx, difficulty, workers, MineCheckInterval)
}

func (b *Block) mineParallel(ctx context.Context, difficulty int, workers int, checkInterval uint64) error {
	if workers <= 1 {
		return b.mine(ctx, difficulty, checkInterval)
	}
	if checkInterval == 0 {
		checkInterval = MineCheckInterval
	}

	prefix := targetPrefix(difficulty)
	if strings.HasPrefix(b.Hash, prefix) {
		return nil
	}
	header := b.header()
	start := b.Nonce

	var (
		once     sync.Once
		winNonce uint64
		winHash  string
	)
	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(searchCtx)
	for w := 0; w < workers; w++ {
		offset := uint64(w) + 1
		g.Go(func() error {
			var tried uint64
			defer func() { hashAttempts.Add(float64(tried)) }()

			for nonce := start + offset; ; nonce += uint64(workers) {
				if tried%checkInterval == 0 && gctx.Err() != nil {
					return nil
				}
				tried++
				hash := b.hashWithNonce(header, nonce)
				if strings.HasPrefix(hash, prefix) {
					once.Do(func() {
						winNonce = nonce
						winHash = hash
						cancel()
					})
					return nil
				}
			}
		})
	}
	_ = g.Wait()

	if winHash == "" {
		return ctx.Err()
	}
	b.Nonce = winNonce
	b.Hash = winHash
	return nil
}
