package domain

import "github.com/shopspring/decimal"

// DayBucket holds one calendar date's starting balance and its entries, most recent first.
type DayBucket struct {
	Date            string          `json:"date"`
	StartingBalance decimal.Decimal `json:"startingBalance"`
	Entries         []Entry         `json:"entries"`
}

// NewDayBucket returns the empty bucket used for dates with nothing persisted.
func NewDayBucket(date string) DayBucket {
	return DayBucket{
		Date:            date,
		StartingBalance: decimal.Zero,
		Entries:         []Entry{},
	}
}

// IndexOf returns the position of the entry with the given id, or -1.
func (b *DayBucket) IndexOf(entryID string) int {
	for i := range b.Entries {
		if b.Entries[i].ID == entryID {
			return i
		}
	}
	return -1
}

// Prepend inserts e at the head of the entry list.
func (b *DayBucket) Prepend(e Entry) {
	b.Entries = append([]Entry{e}, b.Entries...)
}

// Remove deletes the entry with the given id and reports whether it existed.
func (b *DayBucket) Remove(entryID string) bool {
	i := b.IndexOf(entryID)
	if i < 0 {
		return false
	}
	b.Entries = append(b.Entries[:i], b.Entries[i+1:]...)
	return true
}
