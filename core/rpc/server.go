package rpc

import (
	"context"

	"github.com/shu8h0-null/minledger/core/blockchain"
)

type server interface {
	LatestBlock() *blockchain.Block
	Height() uint64
	BlockByIndex(i uint64) (*blockchain.Block, bool)
	BlockByHash(hash string) (*blockchain.Block, bool)
	BalanceOf(address string) int64
	History(address string) []blockchain.Transaction
	Pending() []blockchain.Transaction
	IsChainValid() bool
	AddTransaction(tx *blockchain.Transaction) error
	MinePendingTransactions(ctx context.Context, rewardAddress string) (*blockchain.Block, error)
}
