package core

import (
	"context"
	"testing"
	"time"

	blkchn "github.com/shu8h0-null/minledger/core/blockchain"
	"github.com/shu8h0-null/minledger/core/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Ledger.Difficulty = 1
	cfg.Node.Addr = "127.0.0.1:0"
	cfg.Node.Mine = true
	cfg.Node.RewardAddress = "miner"
	return cfg
}

func TestNewNodeRejectsNilDependencies(t *testing.T) {
	_, err := NewNode(testConfig(), nil, blkchn.NewEventBus())
	assert.Error(t, err)

	_, err = NewNode(testConfig(), blkchn.NewLedger(), nil)
	assert.Error(t, err)
}

func TestInitNodeRejectsBadLogLevel(t *testing.T) {
	cfg := testConfig()
	cfg.Log.Level = "loud"
	_, err := InitNode(cfg)
	assert.Error(t, err)
}

func TestRunMinerGrowsChainUntilCancelled(t *testing.T) {
	n, err := InitNode(testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		n.RunMiner(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return n.Ledger().Height() >= 3 }, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("miner did not stop")
	}

	assert.True(t, n.Ledger().IsChainValid())
	assert.Positive(t, n.Ledger().BalanceOf("miner"))
}

func TestRunStopsOnContextCancel(t *testing.T) {
	n, err := InitNode(testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- n.Run(ctx) }()

	require.Eventually(t, func() bool { return n.Ledger().Height() >= 1 }, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("node did not stop")
	}
}
