package rpc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/filecoin-project/go-jsonrpc"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shu8h0-null/minledger/core/blockchain"
	"github.com/shu8h0-null/minledger/core/logger"
)

const (
	Namespace = "Ledger"
	Path      = "/rpc/v0"
)

var log = logger.NewLogger()

var ErrBlockNotFound = errors.New("block not found")

type RPCHandler struct {
	rpcServer server
}

func NewRPCHandler(s server) *RPCHandler {
	return &RPCHandler{
		rpcServer: s,
	}
}

func (h RPCHandler) LatestBlock() (*blockchain.Block, error) {
	return h.rpcServer.LatestBlock(), nil
}

func (h RPCHandler) Height() (uint64, error) {
	return h.rpcServer.Height(), nil
}

func (h RPCHandler) BlockByIndex(index uint64) (*blockchain.Block, error) {
	b, ok := h.rpcServer.BlockByIndex(index)
	if !ok {
		return nil, fmt.Errorf("%w: index %d", ErrBlockNotFound, index)
	}
	return b, nil
}

func (h RPCHandler) BlockByHash(hash string) (*blockchain.Block, error) {
	b, ok := h.rpcServer.BlockByHash(hash)
	if !ok {
		return nil, fmt.Errorf("%w: hash %s", ErrBlockNotFound, hash)
	}
	return b, nil
}

func (h RPCHandler) Balance(address string) (int64, error) {
	return h.rpcServer.BalanceOf(address), nil
}

// History lists the on-chain transactions sent or received by address.
func (h RPCHandler) History(address string) ([]blockchain.Transaction, error) {
	return h.rpcServer.History(address), nil
}

func (h RPCHandler) Pending() ([]blockchain.Transaction, error) {
	return h.rpcServer.Pending(), nil
}

func (h RPCHandler) IsChainValid() (bool, error) {
	return h.rpcServer.IsChainValid(), nil
}

// SubmitTransaction queues a signed transfer and returns its id.
func (h RPCHandler) SubmitTransaction(tx blockchain.Transaction) (string, error) {
	if err := h.rpcServer.AddTransaction(&tx); err != nil {
		return "", err
	}
	return tx.ID(), nil
}

// Mine runs one mining round; it blocks until the block is sealed or the request is cancelled.
func (h RPCHandler) Mine(ctx context.Context, rewardAddress string) (*blockchain.Block, error) {
	return h.rpcServer.MinePendingTransactions(ctx, rewardAddress)
}

// NewRouter mounts the JSON-RPC endpoint and the prometheus metrics.
func NewRouter(handler *RPCHandler) *mux.Router {
	rpcServer := jsonrpc.NewServer()
	rpcServer.Register(Namespace, handler)

	r := mux.NewRouter()
	r.Handle(Path, rpcServer)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

func NewHTTPServer(addr string, handler *RPCHandler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// StartRPC serves until ctx is done, then shuts the server down.
func StartRPC(ctx context.Context, addr string, handler *RPCHandler) error {
	srv := NewHTTPServer(addr, handler)

	errCh := make(chan error, 1)
	go func() {
		log.Infof("RPC server listening on %s%s", addr, Path)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("Error shutting down rpc server: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
