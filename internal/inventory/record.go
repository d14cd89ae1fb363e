// Package inventory holds the inventory record model and the in-memory
// aggregate store with its derived statistics.
package inventory

import "time"

// Status is the lifecycle state of a record. The progression is fixed and
// not cyclic; any state may jump directly to listed or sold.
type Status string

const (
	StatusAnalyzed Status = "analyzed"
	StatusToList   Status = "toList"
	StatusListed   Status = "listed"
	StatusSold     Status = "sold"
)

// statusOrder positions each status in the progression.
var statusOrder = map[Status]int{
	StatusAnalyzed: 0,
	StatusToList:   1,
	StatusListed:   2,
	StatusSold:     3,
}

// ValidStatus reports whether s is a known lifecycle state.
func ValidStatus(s Status) bool {
	_, ok := statusOrder[s]
	return ok
}

// CanAdvance reports whether a record may move from one status to another.
// Any forward move is allowed, including jumps straight to listed or sold;
// moving backwards is not.
func CanAdvance(from, to Status) bool {
	a, ok1 := statusOrder[from]
	b, ok2 := statusOrder[to]
	return ok1 && ok2 && b > a
}

// Record is one physical item being resold. Profit and ROI are derived on
// read, never stored, so they can't go stale when inputs change.
type Record struct {
	ItemNumber int64
	Code       string

	Name           string
	Category       string
	Condition      string
	ConditionScore float64

	PurchasePrice  float64
	SuggestedPrice float64
	RealizedPrice  float64

	Status Status

	CreatedAt time.Time
	ListedAt  time.Time
	SoldAt    time.Time

	ImageRefs []string

	Brand    string
	Size     string
	Colorway string
	Barcode  string

	Location string
	Bin      string
	Packaged bool
}

// Profit is the realized profit for sold items, zero otherwise.
func (r Record) Profit() float64 {
	if r.Status != StatusSold {
		return 0
	}
	return r.RealizedPrice - r.PurchasePrice
}

// ROI is the realized return on investment as a percentage. Zero when the
// item is unsold or was acquired for free.
func (r Record) ROI() float64 {
	if r.Status != StatusSold || r.PurchasePrice <= 0 {
		return 0
	}
	return r.Profit() / r.PurchasePrice * 100
}

// EstimatedROI projects ROI from the suggested price, for unsold stock.
func (r Record) EstimatedROI() float64 {
	if r.PurchasePrice <= 0 {
		return 0
	}
	return (r.SuggestedPrice - r.PurchasePrice) / r.PurchasePrice * 100
}
