package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	blkchn "github.com/shu8h0-null/minledger/core/blockchain"
	"github.com/shu8h0-null/minledger/core/config"
	"github.com/shu8h0-null/minledger/core/logger"
	"github.com/shu8h0-null/minledger/core/rpc"
)

var log = logger.NewLogger()

// Node serves one in-memory ledger over JSON-RPC and optionally mines it.
type Node struct {
	cfg    config.Config
	ledger *blkchn.Ledger
	events *blkchn.EventBus
}

func NewNode(cfg config.Config, ledger *blkchn.Ledger, events *blkchn.EventBus) (*Node, error) {
	if ledger == nil {
		return nil, errors.New("Ledger cannot be nil")
	}
	if events == nil {
		return nil, errors.New("Event bus cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Node{
		cfg:    cfg,
		ledger: ledger,
		events: events,
	}, nil
}

// InitNode builds the ledger described by cfg and wraps it in a Node.
func InitNode(cfg config.Config) (*Node, error) {
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}

	events := blkchn.NewEventBus()
	ledger := blkchn.NewLedger(
		blkchn.WithDifficulty(cfg.Ledger.Difficulty),
		blkchn.WithMiningReward(cfg.Ledger.MiningReward),
		blkchn.WithMiningWorkers(cfg.Ledger.Workers),
		blkchn.WithCheckInterval(cfg.Ledger.CheckInterval),
		blkchn.WithEventBus(events),
	)
	return NewNode(cfg, ledger, events)
}

func (n *Node) Ledger() *blkchn.Ledger {
	return n.ledger
}

// RunMiner mines rounds back to back until ctx is done. Each round is bounded
// by the configured round timeout; a timed out round is retried.
func (n *Node) RunMiner(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		roundCtx := ctx
		cancel := context.CancelFunc(func() {})
		if n.cfg.Node.RoundTimeout > 0 {
			roundCtx, cancel = context.WithTimeout(ctx, n.cfg.Node.RoundTimeout)
		}
		_, err := n.ledger.MinePendingTransactions(roundCtx, n.cfg.Node.RewardAddress)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warnf("Mining round failed, retrying: %v", err)
			continue
		}
	}
}

// logBlocks reports every mined block until ctx is done.
func (n *Node) logBlocks(ctx context.Context) {
	ch := make(chan blkchn.BlockMinedEvent, 16)
	id := n.events.BlockFeed.SubscribeAnon(ch)
	defer n.events.BlockFeed.UnSubscribe(id)

	for {
		select {
		case ev := <-ch:
			log.Infof("Block:[%d]:[%s] finalized with %d transaction(s), chain valid: %t",
				ev.Index, ev.Hash, ev.TxCount, n.ledger.IsChainValid())
		case <-ctx.Done():
			return
		}
	}
}

// Run serves RPC (and mines when enabled) until ctx is done or a quit signal arrives.
func (n *Node) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	listenForQuitSignal(ctx, cancel)

	go n.logBlocks(ctx)
	if n.cfg.Node.Mine {
		log.Infof("Miner enabled, rewards go to %s", n.cfg.Node.RewardAddress)
		go n.RunMiner(ctx)
	}

	start := time.Now()
	err := rpc.StartRPC(ctx, n.cfg.Node.Addr, rpc.NewRPCHandler(n.ledger))
	log.Infof("Cleaning Up... node ran for %s at height %d", time.Since(start).Round(time.Second), n.ledger.Height())
	return err
}

func listenForQuitSignal(ctx context.Context, cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			log.Infof("Received signal: %s, shutting down...", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
}
