package inventory

import (
	"sync"
	"testing"

	"github.com/ollisal/flipstack/internal/codes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return NewStore(codes.NewAllocator())
}

func TestInsertAssignsNumberAndCode(t *testing.T) {
	s := newTestStore()

	r1, err := s.Insert(Record{Name: "Nike hoodie", Category: "jackets", PurchasePrice: 12})
	require.NoError(t, err)
	assert.Equal(t, int64(1), r1.ItemNumber)
	assert.Equal(t, "B-001", r1.Code)
	assert.Equal(t, StatusAnalyzed, r1.Status)
	assert.False(t, r1.CreatedAt.IsZero())

	r2, err := s.Insert(Record{Name: "Jordan 1", Category: "sneakers", PurchasePrice: 40})
	require.NoError(t, err)
	assert.Equal(t, int64(2), r2.ItemNumber)
	assert.Equal(t, "E-001", r2.Code)

	r3, err := s.Insert(Record{Name: "Parka", Category: "coat", PurchasePrice: 20})
	require.NoError(t, err)
	assert.Equal(t, "B-002", r3.Code)
}

func TestInsertKeepsExplicitCode(t *testing.T) {
	s := newTestStore()
	r, err := s.Insert(Record{Name: "x", Category: "jackets", Code: "B-044"})
	require.NoError(t, err)
	assert.Equal(t, "B-044", r.Code)
}

func TestInsertRejectsNegativePrice(t *testing.T) {
	s := newTestStore()
	_, err := s.Insert(Record{Name: "x", PurchasePrice: -1})
	assert.ErrorIs(t, err, ErrNegativePrice)
}

func TestUpdateCodeImmutable(t *testing.T) {
	s := newTestStore()
	r, err := s.Insert(Record{Name: "x", Category: "jackets", PurchasePrice: 5})
	require.NoError(t, err)

	// Empty incoming code keeps the assigned one.
	r2 := r
	r2.Code = ""
	r2.Status = StatusListed
	require.NoError(t, s.Update(r2))
	got, _ := s.Get(r.ItemNumber)
	assert.Equal(t, r.Code, got.Code)
	assert.Equal(t, StatusListed, got.Status)

	// A different code is rejected.
	r3 := got
	r3.Code = "Z-999"
	assert.ErrorIs(t, s.Update(r3), ErrCodeReassigned)
}

func TestUpdateRejectsStatusRegression(t *testing.T) {
	s := newTestStore()
	r, err := s.Insert(Record{Name: "x", Category: "jackets", PurchasePrice: 5, Status: StatusSold})
	require.NoError(t, err)

	back := r
	back.Status = StatusAnalyzed
	assert.ErrorIs(t, s.Update(back), ErrStatusRegress)

	got, _ := s.Get(r.ItemNumber)
	assert.Equal(t, StatusSold, got.Status)

	// Same-status updates still go through.
	same := got
	same.RealizedPrice = 42
	require.NoError(t, s.Update(same))
}

func TestUpdateAndDeleteMissing(t *testing.T) {
	s := newTestStore()
	assert.ErrorIs(t, s.Update(Record{ItemNumber: 99, Status: StatusListed}), ErrNotFound)
	assert.ErrorIs(t, s.Delete(99), ErrNotFound)
}

func TestLoadRestoresCountersAndNumbers(t *testing.T) {
	s := newTestStore()
	s.Load([]Record{
		{ItemNumber: 3, Code: "B-005", Category: "jackets", Status: StatusListed},
		{ItemNumber: 7, Code: "B-002", Category: "jackets", Status: StatusSold},
		{ItemNumber: 5, Code: "C-001", Category: "jeans", Status: StatusToList},
	})

	r, err := s.Insert(Record{Name: "new jacket", Category: "jackets"})
	require.NoError(t, err)
	assert.Equal(t, int64(8), r.ItemNumber)
	assert.Equal(t, "B-006", r.Code)
}

func TestDerivedStats(t *testing.T) {
	s := newTestStore()

	mustInsert := func(r Record) Record {
		stored, err := s.Insert(r)
		require.NoError(t, err)
		return stored
	}

	// Sold at +50% ROI.
	win := mustInsert(Record{Name: "a", Category: "jackets", Brand: "Nike", PurchasePrice: 100, SuggestedPrice: 160, Status: StatusSold})
	win.RealizedPrice = 150
	require.NoError(t, s.Update(win))

	// Sold at -20% ROI: excluded from the average, still counted in profit.
	loss := mustInsert(Record{Name: "b", Category: "jackets", Brand: "Nike", PurchasePrice: 100, SuggestedPrice: 120, Status: StatusSold})
	loss.RealizedPrice = 80
	require.NoError(t, s.Update(loss))

	// Unsold stock.
	mustInsert(Record{Name: "c", Category: "sneakers", Brand: "Adidas", PurchasePrice: 50, SuggestedPrice: 100, Status: StatusListed})
	mustInsert(Record{Name: "d", Category: "mystery", PurchasePrice: 10, SuggestedPrice: 20, Status: StatusToList})

	assert.Equal(t, 260.0, s.TotalInvestment())
	assert.InDelta(t, 50-20, s.TotalRealizedProfit(), 1e-9)

	// +50% and -20% sales: average must be 50, not 15.
	assert.InDelta(t, 50.0, s.AverageROI(), 1e-9)

	counts := s.CountsByStatus()
	assert.Equal(t, 2, counts[StatusSold])
	assert.Equal(t, 1, counts[StatusListed])
	assert.Equal(t, 1, counts[StatusToList])

	byCat := s.CategoryBreakdown()
	assert.Equal(t, 2, byCat["Jackets & Outerwear"])
	assert.Equal(t, 1, byCat["Footwear"])
	assert.Equal(t, 1, byCat["Other"])

	perf := s.BrandPerformance()
	require.Len(t, perf, 2)
	// Nike: estimated ROIs 60% and 20% -> mean 40%.
	assert.InDelta(t, 40.0, perf["Nike"], 1e-9)
	assert.InDelta(t, 100.0, perf["Adidas"], 1e-9)
}

func TestAverageROIEmptyAndAllLosses(t *testing.T) {
	s := newTestStore()
	assert.Equal(t, 0.0, s.AverageROI())

	r, err := s.Insert(Record{Name: "a", Category: "jackets", PurchasePrice: 100, Status: StatusSold})
	require.NoError(t, err)
	r.RealizedPrice = 90
	require.NoError(t, s.Update(r))
	assert.Equal(t, 0.0, s.AverageROI())
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	s := newTestStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.Insert(Record{Name: "item", Category: "jackets", PurchasePrice: 1})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			s.TotalInvestment()
			s.CountsByStatus()
			s.List()
		}()
	}
	wg.Wait()
	assert.Len(t, s.List(), 20)
}

func TestStatusProgression(t *testing.T) {
	assert.True(t, CanAdvance(StatusAnalyzed, StatusToList))
	assert.True(t, CanAdvance(StatusAnalyzed, StatusSold))
	assert.True(t, CanAdvance(StatusToList, StatusListed))
	assert.False(t, CanAdvance(StatusSold, StatusListed))
	assert.False(t, CanAdvance(StatusListed, StatusAnalyzed))
	assert.False(t, CanAdvance(StatusListed, StatusListed))
	assert.False(t, CanAdvance("bogus", StatusListed))
}
