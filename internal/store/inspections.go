package store

import (
	"sync"

	"github.com/sofs91/InspectWise3.0/internal/domains"
)

// InspectionStore keeps an organization's inspections in memory only.
type InspectionStore struct {
	mu    sync.RWMutex
	items []domains.Inspection
}

func NewInspectionStore() *InspectionStore {
	return &InspectionStore{items: []domains.Inspection{}}
}

// Add appends, so inspections are listed oldest first.
func (s *InspectionStore) Add(inspection domains.Inspection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, inspection)
}

// Update replaces the inspection with the given id and reports whether it existed.
func (s *InspectionStore) Update(id string, inspection domains.Inspection) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = inspection
			return true
		}
	}
	return false
}

func (s *InspectionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return
		}
	}
}

func (s *InspectionStore) List() []domains.Inspection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domains.Inspection, len(s.items))
	copy(out, s.items)
	return out
}

func (s *InspectionStore) Get(id string) (domains.Inspection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, insp := range s.items {
		if insp.ID == id {
			return insp, true
		}
	}
	return domains.Inspection{}, false
}
