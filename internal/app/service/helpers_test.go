package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/park1112/next-snp-management-sub002/internal/db"
	"github.com/park1112/next-snp-management-sub002/internal/docstore"
	"github.com/park1112/next-snp-management-sub002/internal/identity"
	"github.com/stretchr/testify/require"
)

const testActor = identity.Fixed("manager-1")

func setupDocStore(t *testing.T) docstore.Store {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return docstore.NewGormStore(testDB)
}

var errInjected = errors.New("permission denied")

// faultyStore fails the selected operations, including inside transactions.
type faultyStore struct {
	docstore.Store
	failRemove bool
	failUpdate bool
}

func (f *faultyStore) Remove(ctx context.Context, collection, id string) error {
	if f.failRemove {
		return errInjected
	}
	return f.Store.Remove(ctx, collection, id)
}

func (f *faultyStore) Update(ctx context.Context, collection, id string, fields docstore.Fields) error {
	if f.failUpdate {
		return errInjected
	}
	return f.Store.Update(ctx, collection, id, fields)
}

func (f *faultyStore) RunInTransaction(ctx context.Context, fn func(tx docstore.Store) error) error {
	return f.Store.RunInTransaction(ctx, func(tx docstore.Store) error {
		return fn(&faultyStore{Store: tx, failRemove: f.failRemove, failUpdate: f.failUpdate})
	})
}

// recordingPublisher collects published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(e Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}
