// Package memstore provides a reference in-memory implementation of
// engine.DataStore, useful for tests, benchmarks, and embedding an index
// that does not need to survive process restart.
package memstore

import (
	"sync"

	"vantage/internal/engine"
)

// Store is an in-memory engine.DataStore. A single RWMutex guards the
// entire critical section: readers (NodeAt, DataPageAt, LastTransactionID,
// RootID) take the read lock, ApplyTransaction takes the write lock and
// applies every step of the transaction while holding it, so no query ever
// observes a partial state.
type Store struct {
	mu sync.RWMutex

	lastTxID engine.ID
	rootID   engine.ID
	nodes    map[engine.ID]engine.RawNodeHeader
	pages    map[engine.ID]map[engine.ID]engine.RawTuple // pageID -> tupleID -> tuple
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		nodes: make(map[engine.ID]engine.RawNodeHeader),
		pages: make(map[engine.ID]map[engine.ID]engine.RawTuple),
	}
}

func (s *Store) LastTransactionID() engine.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastTxID
}

func (s *Store) RootID() engine.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rootID
}

func (s *Store) NodeAt(id engine.ID) (engine.RawNodeHeader, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	return n, ok
}

func (s *Store) DataPageAt(id engine.ID) (engine.RawDataPage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tuples, ok := s.pages[id]
	if !ok || len(tuples) == 0 {
		return engine.RawDataPage{}, false
	}
	page := engine.RawDataPage{ID: id, Tuples: make([]engine.RawTuple, 0, len(tuples))}
	for _, t := range tuples {
		page.Tuples = append(page.Tuples, t)
	}
	return page, true
}

// ApplyTransaction applies tx atomically under the store's write lock, in
// the order the engine contract requires: delete pages, delete node
// headers, write created tuples, write updated tuples, write created node
// headers, write updated node headers, update root.
func (s *Store) ApplyTransaction(tx engine.RawTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tx.ExpectedTreeID != s.lastTxID {
		return engine.ErrConcurrentModification
	}

	for _, pageID := range tx.DeletedPages {
		delete(s.pages, pageID)
	}
	for _, nodeID := range tx.DeletedNodeHeaders {
		delete(s.nodes, nodeID)
	}
	for _, t := range tx.CreatedTuples {
		s.putTuple(t)
	}
	for _, t := range tx.UpdatedTuples {
		s.putTuple(t)
	}
	for _, n := range tx.CreatedNodes {
		s.nodes[n.ID] = n
	}
	for _, n := range tx.UpdatedNodes {
		s.nodes[n.ID] = n
	}
	if !tx.NewRootID.IsZero() {
		s.rootID = tx.NewRootID
	}

	s.lastTxID = tx.TransactionID
	return nil
}

func (s *Store) putTuple(t engine.RawTuple) {
	page, ok := s.pages[t.PageID]
	if !ok {
		page = make(map[engine.ID]engine.RawTuple)
		s.pages[t.PageID] = page
	}
	page[t.TupleID] = t
}

// AllNodeIDs returns every node id currently stored, for test harnesses
// that want to walk the raw store directly rather than through the engine.
func (s *Store) AllNodeIDs() []engine.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]engine.ID, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	return ids
}

// AllPageIDs returns every page id with at least one tuple currently
// stored.
func (s *Store) AllPageIDs() []engine.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]engine.ID, 0, len(s.pages))
	for id, tuples := range s.pages {
		if len(tuples) > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
