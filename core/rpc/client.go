package rpc

import (
	"context"
	"net/http"

	"github.com/filecoin-project/go-jsonrpc"
	"github.com/shu8h0-null/minledger/core/blockchain"
)

// Client mirrors RPCHandler for use with jsonrpc.NewClient.
type Client struct {
	LatestBlock       func(ctx context.Context) (*blockchain.Block, error)
	Height            func(ctx context.Context) (uint64, error)
	BlockByIndex      func(ctx context.Context, index uint64) (*blockchain.Block, error)
	BlockByHash       func(ctx context.Context, hash string) (*blockchain.Block, error)
	Balance           func(ctx context.Context, address string) (int64, error)
	History           func(ctx context.Context, address string) ([]blockchain.Transaction, error)
	Pending           func(ctx context.Context) ([]blockchain.Transaction, error)
	IsChainValid      func(ctx context.Context) (bool, error)
	SubmitTransaction func(ctx context.Context, tx blockchain.Transaction) (string, error)
	Mine              func(ctx context.Context, rewardAddress string) (*blockchain.Block, error)
}

// Dial connects to a node; addr is a full URL such as http://localhost:8080/rpc/v0.
func Dial(ctx context.Context, addr string) (*Client, jsonrpc.ClientCloser, error) {
	var client Client
	closer, err := jsonrpc.NewClient(ctx, addr, Namespace, &client, http.Header{})
	if err != nil {
		return nil, nil, err
	}
	return &client, closer, nil
}
