package rpc

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shu8h0-null/minledger/core/blockchain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*blockchain.Ledger, *Client) {
	t.Helper()
	ledger := blockchain.NewLedger(blockchain.WithDifficulty(1))
	srv := httptest.NewServer(NewRouter(NewRPCHandler(ledger)))
	t.Cleanup(srv.Close)

	client, closer, err := Dial(context.Background(), srv.URL+Path)
	require.NoError(t, err)
	t.Cleanup(closer)
	return ledger, client
}

func TestHandlerBlockNotFound(t *testing.T) {
	h := NewRPCHandler(blockchain.NewLedger(blockchain.WithDifficulty(1)))

	_, err := h.BlockByIndex(3)
	assert.ErrorIs(t, err, ErrBlockNotFound)

	_, err = h.BlockByHash("missing")
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestRPCRoundTrip(t *testing.T) {
	ledger, client := newTestServer(t)
	ctx := context.Background()

	kp, err := blockchain.NewKeypair()
	require.NoError(t, err)
	tx := blockchain.NewTransaction(kp.PublicIdentity(), "B", 10)
	require.NoError(t, tx.Sign(kp))

	id, err := client.SubmitTransaction(ctx, *tx)
	require.NoError(t, err)
	assert.Equal(t, tx.ID(), id)

	pending, err := client.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, *tx, pending[0])

	mined, err := client.Mine(ctx, kp.PublicIdentity())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), mined.Index)

	height, err := client.Height(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), height)

	byHash, err := client.BlockByHash(ctx, mined.Hash)
	require.NoError(t, err)
	assert.Equal(t, mined.Hash, byHash.Hash)
	assert.Equal(t, mined.CalculateHash(), byHash.CalculateHash(), "hash survives the JSON round trip")

	latest, err := client.LatestBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, mined.Hash, latest.Hash)

	balance, err := client.Balance(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance)

	history, err := client.History(ctx, "B")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, tx.ID(), history[0].ID())

	history, err = client.History(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, history)

	valid, err := client.IsChainValid(ctx)
	require.NoError(t, err)
	assert.True(t, valid)
	assert.True(t, ledger.IsChainValid())
}

func TestRPCRejectsUnsignedTransaction(t *testing.T) {
	_, client := newTestServer(t)

	_, err := client.SubmitTransaction(context.Background(), *blockchain.NewTransaction("A", "B", 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), blockchain.ErrMissingSignature.Error())

	_, err = client.BlockByIndex(context.Background(), 9)
	assert.Error(t, err)
}

func TestMetricsEndpoint(t *testing.T) {
	ledger := blockchain.NewLedger(blockchain.WithDifficulty(1))
	_, err := ledger.MinePendingTransactions(context.Background(), "R")
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(NewRPCHandler(ledger)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "minledger_miner_blocks_mined_total"))
}
