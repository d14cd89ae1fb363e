package inventory

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ollisal/flipstack/internal/codes"
	"github.com/ollisal/flipstack/internal/taxonomy"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrNegativePrice  = errors.New("purchase price must be >= 0")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrCodeReassigned = errors.New("inventory code cannot be reassigned")
	ErrStatusRegress  = errors.New("status cannot move backwards")
)

// Store is the in-memory inventory collection. Mutations are serialized
// under a single writer lock; reads take the read lock and copy, so a
// reader sees either the pre- or post-mutation state, never a partial
// update.
type Store struct {
	mu        sync.RWMutex
	records   map[int64]Record
	nextItem  int64
	allocator *codes.Allocator
}

// NewStore creates an empty store backed by the given code allocator.
func NewStore(allocator *codes.Allocator) *Store {
	if allocator == nil {
		allocator = codes.NewAllocator()
	}
	return &Store{
		records:   make(map[int64]Record),
		allocator: allocator,
	}
}

// Load seeds the store from persisted records and raises the item-number
// and code counters so later inserts never collide with loaded data.
func (s *Store) Load(records []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	allCodes := make([]string, 0, len(records))
	for _, r := range records {
		s.records[r.ItemNumber] = r
		if r.ItemNumber > s.nextItem {
			s.nextItem = r.ItemNumber
		}
		if r.Code != "" {
			allCodes = append(allCodes, r.Code)
		}
	}
	s.allocator.Merge(codes.RebuildFromCodes(allCodes))
	log.Info().Int("records", len(records)).Msg("inventory loaded")
}

// Insert adds a record, assigning the next item number and, when the code
// is empty, an inventory code derived from the category. Returns the stored
// record.
func (s *Store) Insert(r Record) (Record, error) {
	if r.PurchasePrice < 0 {
		return Record{}, ErrNegativePrice
	}
	if r.Status == "" {
		r.Status = StatusAnalyzed
	}
	if !ValidStatus(r.Status) {
		return Record{}, fmt.Errorf("%w: %q", ErrInvalidStatus, r.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextItem++
	r.ItemNumber = s.nextItem
	if r.Code == "" {
		r.Code = s.allocator.Allocate(r.Category)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	s.records[r.ItemNumber] = r
	return r, nil
}

// Update replaces the record with the same item number. The inventory
// code, once assigned, is immutable: an update carrying a different
// non-empty code is rejected, and an empty incoming code keeps the
// existing one. A status change must be forward in the lifecycle.
func (s *Store) Update(r Record) error {
	if r.PurchasePrice < 0 {
		return ErrNegativePrice
	}
	if !ValidStatus(r.Status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, r.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[r.ItemNumber]
	if !ok {
		return ErrNotFound
	}
	if r.Status != existing.Status && !CanAdvance(existing.Status, r.Status) {
		return fmt.Errorf("%w: %s -> %s", ErrStatusRegress, existing.Status, r.Status)
	}
	if existing.Code != "" {
		if r.Code != "" && r.Code != existing.Code {
			return ErrCodeReassigned
		}
		r.Code = existing.Code
	}
	s.records[r.ItemNumber] = r
	return nil
}

// Delete removes a record by item number.
func (s *Store) Delete(itemNumber int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[itemNumber]; !ok {
		return ErrNotFound
	}
	delete(s.records, itemNumber)
	return nil
}

// Get returns a copy of the record with the given item number.
func (s *Store) Get(itemNumber int64) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[itemNumber]
	return r, ok
}

// List returns all records sorted by item number.
func (s *Store) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemNumber < out[j].ItemNumber })
	return out
}

// ByStatus returns all records in the given status, sorted by item number.
func (s *Store) ByStatus(status Status) []Record {
	var out []Record
	for _, r := range s.List() {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

// CountsByStatus tallies records per lifecycle state.
func (s *Store) CountsByStatus() map[Status]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[Status]int)
	for _, r := range s.records {
		out[r.Status]++
	}
	return out
}

// TotalInvestment sums purchase prices over all records.
func (s *Store) TotalInvestment() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0.0
	for _, r := range s.records {
		total += r.PurchasePrice
	}
	return total
}

// TotalRealizedProfit sums profit over sold items only.
func (s *Store) TotalRealizedProfit() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0.0
	for _, r := range s.records {
		if r.Status == StatusSold {
			total += r.Profit()
		}
	}
	return total
}

// AverageROI is the mean ROI over sold items with positive ROI. Sales at or
// below break-even are excluded from the average entirely, not counted as
// zero.
func (s *Store) AverageROI() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := 0.0
	n := 0
	for _, r := range s.records {
		if r.Status != StatusSold {
			continue
		}
		if roi := r.ROI(); roi > 0 {
			sum += roi
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// CategoryBreakdown counts records per taxonomy category name.
func (s *Store) CategoryBreakdown() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int)
	for _, r := range s.records {
		out[taxonomy.Classify(r.Category).Name]++
	}
	return out
}

// BrandPerformance returns the mean estimated ROI per brand. Records with
// an empty brand are excluded.
func (s *Store) BrandPerformance() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range s.records {
		if r.Brand == "" {
			continue
		}
		sums[r.Brand] += r.EstimatedROI()
		counts[r.Brand]++
	}

	out := make(map[string]float64, len(sums))
	for brand, sum := range sums {
		out[brand] = sum / float64(counts[brand])
	}
	return out
}
