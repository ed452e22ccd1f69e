package utils

import (
	"fmt"
	"sync"
)

// OnceMap is a get-or-create cache where each key is created at most once,
// even when many goroutines ask for a missing key at the same time. Entries
// live until the map is discarded; failed creations are forgotten so the
// next caller tries again.
type OnceMap[T any] struct {
	mutex   sync.Mutex
	entries map[string]*onceEntry[T]
}

type onceEntry[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func NewOnceMap[T any]() *OnceMap[T] {
	return &OnceMap[T]{
		entries: map[string]*onceEntry[T]{},
	}
}

// GetOrCreate returns the value stored under key. When the key is missing,
// create is called once and concurrent callers for the same key wait for
// it. created is true only for the caller whose create call built the value.
func (m *OnceMap[T]) GetOrCreate(key string, create func() (T, error)) (value T, created bool, err error) {

	m.mutex.Lock()
	entry, exists := m.entries[key]
	if exists {
		m.mutex.Unlock()
		<-entry.done
		return entry.value, false, entry.err
	}
	entry = &onceEntry[T]{done: make(chan struct{})}
	m.entries[key] = entry
	m.mutex.Unlock()

	defer close(entry.done)

	completed := false
	defer func() {
		if completed {
			return
		}
		// create panicked: waiters get an error and the key is retried
		entry.err = fmt.Errorf("create '%s': %v", key, recover())
		m.forget(key)
		panic(entry.err)
	}()

	entry.value, entry.err = create()
	completed = true
	if entry.err != nil {
		m.forget(key)
		return entry.value, false, entry.err
	}

	return entry.value, true, nil
}

func (m *OnceMap[T]) forget(key string) {
	m.mutex.Lock()
	delete(m.entries, key)
	m.mutex.Unlock()
}

// Snapshot copies the created entries.
func (m *OnceMap[T]) Snapshot() map[string]T {

	m.mutex.Lock()
	defer m.mutex.Unlock()

	result := make(map[string]T, len(m.entries))
	for key, entry := range m.entries {
		if entry.ready() {
			result[key] = entry.value
		}
	}

	return result
}

func (e *onceEntry[T]) ready() bool {
	select {
	case <-e.done:
		return e.err == nil
	default:
		return false
	}
}
