package services

import "sync"

// CategoryLocks serializes expense writes per category. Two concurrent
// writes against the same category must not both validate the limit
// against the same snapshot (check-then-act race), so each holds the
// category's mutex across its read-validate-write transaction. Writes to
// different categories proceed in parallel.
//
// The registry is process-local; deployments running several API replicas
// against one database should rely on the database's transactional
// guarantees instead.
type CategoryLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCategoryLocks creates an empty lock registry. One registry is shared
// between the category and expense services.
func NewCategoryLocks() *CategoryLocks {
	return &CategoryLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the given category id and returns the
// release function.
func (c *CategoryLocks) Lock(categoryID string) func() {
	c.mu.Lock()
	l, ok := c.locks[categoryID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[categoryID] = l
	}
	c.mu.Unlock()

	l.Lock()
	return l.Unlock
}
