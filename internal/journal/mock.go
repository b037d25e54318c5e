package journal

import (
	"context"
	"sync"
	"time"

	"github.com/mauv0809/rinkstats/internal/hockey"
)

// Mock is a mock implementation of the Journal interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	InsertFunc     func(ctx context.Context, entries []Entry) (int, error)
	PendingFunc    func(ctx context.Context, kind hockey.Kind) ([]Entry, error)
	ClaimFunc      func(ctx context.Context, kind hockey.Kind, at time.Time, lease time.Duration) ([]Entry, error)
	MarkSyncedFunc func(ctx context.Context, ids []string, at time.Time) error
	MarkFailedFunc func(ctx context.Context, ids []string, cause error) error
	ListFunc       func(ctx context.Context, filter Filter) ([]Entry, error)
	CountsFunc     func(ctx context.Context) ([]Count, error)

	InsertCalls     [][]Entry
	MarkSyncedCalls [][]string
	MarkFailedCalls []struct {
		IDs   []string
		Cause error
	}
	ListCalls  []Filter
	ClaimCalls []hockey.Kind
}

var _ Journal = (*Mock)(nil)

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Insert(ctx context.Context, entries []Entry) (int, error) {
	m.mu.Lock()
	m.InsertCalls = append(m.InsertCalls, entries)
	m.mu.Unlock()
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, entries)
	}
	return len(entries), nil
}

func (m *Mock) Pending(ctx context.Context, kind hockey.Kind) ([]Entry, error) {
	if m.PendingFunc != nil {
		return m.PendingFunc(ctx, kind)
	}
	return nil, nil
}

func (m *Mock) Claim(ctx context.Context, kind hockey.Kind, at time.Time, lease time.Duration) ([]Entry, error) {
	m.mu.Lock()
	m.ClaimCalls = append(m.ClaimCalls, kind)
	m.mu.Unlock()
	if m.ClaimFunc != nil {
		return m.ClaimFunc(ctx, kind, at, lease)
	}
	return nil, nil
}

func (m *Mock) MarkSynced(ctx context.Context, ids []string, at time.Time) error {
	m.mu.Lock()
	m.MarkSyncedCalls = append(m.MarkSyncedCalls, ids)
	m.mu.Unlock()
	if m.MarkSyncedFunc != nil {
		return m.MarkSyncedFunc(ctx, ids, at)
	}
	return nil
}

func (m *Mock) MarkFailed(ctx context.Context, ids []string, cause error) error {
	m.mu.Lock()
	m.MarkFailedCalls = append(m.MarkFailedCalls, struct {
		IDs   []string
		Cause error
	}{ids, cause})
	m.mu.Unlock()
	if m.MarkFailedFunc != nil {
		return m.MarkFailedFunc(ctx, ids, cause)
	}
	return nil
}

func (m *Mock) List(ctx context.Context, filter Filter) ([]Entry, error) {
	m.mu.Lock()
	m.ListCalls = append(m.ListCalls, filter)
	m.mu.Unlock()
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *Mock) Counts(ctx context.Context) ([]Count, error) {
	if m.CountsFunc != nil {
		return m.CountsFunc(ctx)
	}
	return nil, nil
}
