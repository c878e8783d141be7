package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Apurer/flower-shop-api/internal/domains/payments/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/payments/ports"
)

var _ ports.TransactionRepository = (*Repository)(nil)

// Repository keeps gateway transactions in memory.
type Repository struct {
	mu   sync.RWMutex
	txns map[string]*domain.Transaction
}

func NewRepository() *Repository {
	return &Repository{txns: map[string]*domain.Transaction{}}
}

func (r *Repository) Create(_ context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	if txn == nil {
		return nil, errors.New("transaction is nil")
	}
	if err := txn.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.txns[txn.TxnRef]; exists {
		return nil, ports.ErrDuplicateTxnRef
	}
	r.txns[txn.TxnRef] = txn.Clone()
	return txn.Clone(), nil
}

func (r *Repository) Settle(_ context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	if txn == nil {
		return nil, errors.New("transaction is nil")
	}
	if err := txn.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, exists := r.txns[txn.TxnRef]
	if !exists {
		return nil, ports.ErrNotFound
	}
	if stored.Settled() {
		return nil, domain.ErrAlreadySettled
	}
	r.txns[txn.TxnRef] = txn.Clone()
	return txn.Clone(), nil
}

func (r *Repository) GetByTxnRef(_ context.Context, txnRef string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	txn, ok := r.txns[txnRef]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return txn.Clone(), nil
}
