package cache

import (
	"context"
	"sync"
	"time"

	"github.com/catalogsync/backend/internal/domain/integration"
	"github.com/google/uuid"
)

// inMemoryHold is one live lock entry. The holder token ties a release back
// to the acquisition that created it, so a run whose hold expired cannot
// release the lock out from under a later acquirer.
type inMemoryHold struct {
	holder    string
	expiresAt time.Time
}

// InMemorySyncLock implements the SyncLocker port with a process-local map.
// This is suitable for single-instance deployments and testing.
type InMemorySyncLock struct {
	mu    sync.Mutex
	held  map[string]inMemoryHold
	ttl   time.Duration
	clock func() time.Time
}

var _ integration.SyncLocker = (*InMemorySyncLock)(nil)

// NewInMemorySyncLock creates a new in-memory sync lock
func NewInMemorySyncLock(ttl time.Duration) *InMemorySyncLock {
	return &InMemorySyncLock{
		held:  make(map[string]inMemoryHold),
		ttl:   ttl,
		clock: time.Now,
	}
}

// Acquire takes the lock for the given key. ErrSyncInProgress is returned
// when another run currently holds it and the hold has not expired. Release
// is a no-op when the hold has since expired and been re-acquired.
func (l *InMemorySyncLock) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if hold, exists := l.held[key]; exists && l.clock().Before(hold.expiresAt) {
		return nil, integration.ErrSyncInProgress
	}
	holder := uuid.New().String()
	l.held[key] = inMemoryHold{holder: holder, expiresAt: l.clock().Add(l.ttl)}

	release := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if hold, exists := l.held[key]; exists && hold.holder == holder {
			delete(l.held, key)
		}
	}
	return release, nil
}
