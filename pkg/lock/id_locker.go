// Package lock provides per-id mutual exclusion for operations that span
// multiple database statements, such as recursive folder deletes and folder
// moves whose cycle check walks the ancestor chain.
package lock

import (
	"sync"

	"github.com/apex/log"
)

type IDLocker struct {
	mapMutex sync.Mutex
	idMap    map[int]*sync.Mutex
}

func NewIDLocker() *IDLocker {
	return &IDLocker{
		idMap: make(map[int]*sync.Mutex),
	}
}

func (l *IDLocker) Acquire(id int) {
	l.mapMutex.Lock()
	idMutex, ok := l.idMap[id]
	if !ok {
		idMutex = &sync.Mutex{}
		l.idMap[id] = idMutex
	}
	l.mapMutex.Unlock()

	idMutex.Lock()
}

func (l *IDLocker) Release(id int) {
	l.mapMutex.Lock()
	idMutex, ok := l.idMap[id]
	l.mapMutex.Unlock()

	if !ok {
		log.Errorf("Release called on id (%d) with no mutex", id)
		return
	}

	idMutex.Unlock()
}

func (l *IDLocker) WithLock(id int, f func() error) error {
	l.Acquire(id)
	defer l.Release(id)

	return f()
}
