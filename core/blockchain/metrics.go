package blockchain

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hashAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "minledger",
			Subsystem: "miner",
			Name:      "hash_attempts_total",
			Help:      "Total number of nonces tried by proof-of-work searches.",
		},
	)

	blocksMined = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "minledger",
			Subsystem: "miner",
			Name:      "blocks_mined_total",
			Help:      "Total number of blocks appended to the chain.",
		},
	)

	miningRounds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "minledger",
			Subsystem: "miner",
			Name:      "rounds_total",
			Help:      "Mining rounds by outcome.",
		},
		[]string{"outcome"}, // outcome: mined, cancelled
	)

	miningDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "minledger",
			Subsystem: "miner",
			Name:      "round_duration_seconds",
			Help:      "Wall time spent searching for a nonce.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		},
	)

	pendingTransactions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "minledger",
			Subsystem: "pool",
			Name:      "pending_transactions",
			Help:      "Transactions waiting to be mined.",
		},
	)

	rejectedTransactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "minledger",
			Subsystem: "pool",
			Name:      "rejected_transactions_total",
			Help:      "Transactions refused by AddTransaction, labeled by reason.",
		},
		[]string{"reason"}, // reason: incomplete, amount_too_large, missing_signature, invalid_signature
	)
)
