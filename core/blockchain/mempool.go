package blockchain

import (
	"sync"
)

// Mempool holds accepted transactions in arrival order until they are mined.
type Mempool struct {
	transactions []Transaction
	mu           sync.Mutex
}

func NewMempool() *Mempool {
	return &Mempool{}
}

func (m *Mempool) AddTx(tx Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.transactions = append(m.transactions, tx)
	pendingTransactions.Set(float64(len(m.transactions)))
	log.Debugf("Transaction %s added to the mempool", shortHash(tx.ID()))
}

// Snapshot returns a copy of the pool and the number of entries it covers.
func (m *Mempool) Snapshot() ([]Transaction, int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	txs := make([]Transaction, len(m.transactions))
	copy(txs, m.transactions)
	return txs, len(txs)
}

// Replace drops the first consumed entries (already packaged into a block)
// and puts head in front of whatever arrived afterwards.
func (m *Mempool) Replace(consumed int, head ...Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if consumed > len(m.transactions) {
		consumed = len(m.transactions)
	}
	rest := m.transactions[consumed:]

	next := make([]Transaction, 0, len(head)+len(rest))
	next = append(next, head...)
	next = append(next, rest...)
	m.transactions = next
	pendingTransactions.Set(float64(len(m.transactions)))
}
