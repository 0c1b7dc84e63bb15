package linkreg

import (
	"sync"

	"github.com/apex/log"
	"github.com/cloudgoose/storage/pkg/cgdb/model"
)

// ResourceTable maps registered url ids to the files they serve. Once a token is
// registered the transport layer resolves download requests through it.
type ResourceTable interface {
	Register(urlID string, file *model.File)
	Unregister(urlID string)
	Resolve(urlID string) (*model.File, bool)
}

// MemTable is the in-process resource table. All mutation goes through the
// mutex; request dispatch resolves under a read lock, so registration and
// revocation are safe while the server is running.
type MemTable struct {
	mu      sync.RWMutex
	entries map[string]*model.File
}

func NewMemTable() *MemTable {
	return &MemTable{entries: make(map[string]*model.File)}
}

func (t *MemTable) Register(urlID string, file *model.File) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.entries[urlID]; ok && existing.ID != file.ID {
		// Token collision. With a 2^90 keyspace this shouldn't happen; the
		// earlier registration keeps the token.
		log.Warnf("url id %s already registered for file %d, ignoring registration for file %d", urlID, existing.ID, file.ID)
		return
	}

	t.entries[urlID] = file
}

func (t *MemTable) Unregister(urlID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.entries, urlID)
}

func (t *MemTable) Resolve(urlID string) (*model.File, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	file, ok := t.entries[urlID]
	return file, ok
}
