package mapping

import (
	"github.com/SscSPs/dailybalance/internal/core/domain"
	"github.com/SscSPs/dailybalance/internal/models"
	"github.com/SscSPs/dailybalance/internal/utils/money"
)

// ToModelDayBucket converts a domain DayBucket to its persisted record.
func ToModelDayBucket(d domain.DayBucket) models.DayBucketRecord {
	entries := make([]models.EntryRecord, len(d.Entries))
	for i, e := range d.Entries {
		entries[i] = models.EntryRecord{
			ID:        e.ID,
			Type:      string(e.Type),
			Amount:    money.Round(e.Amount),
			Category:  e.Category,
			Note:      e.Note,
			CreatedAt: e.CreatedAt,
		}
	}
	return models.DayBucketRecord{
		Date:            d.Date,
		StartingBalance: money.Round(d.StartingBalance),
		Entries:         entries,
	}
}

// ToDomainDayBucket converts a persisted record to a domain DayBucket.
// Entries with an unknown type are dropped; amounts are re-rounded.
func ToDomainDayBucket(m models.DayBucketRecord, date string) domain.DayBucket {
	bucket := domain.NewDayBucket(date)
	bucket.StartingBalance = money.Round(m.StartingBalance)
	for _, e := range m.Entries {
		t := domain.EntryType(e.Type)
		if !t.IsValid() || e.ID == "" {
			continue
		}
		bucket.Entries = append(bucket.Entries, domain.Entry{
			ID:        e.ID,
			Type:      t,
			Amount:    money.Round(e.Amount),
			Category:  e.Category,
			Note:      e.Note,
			CreatedAt: e.CreatedAt,
		})
	}
	return bucket
}

// ToModelDebts converts domain debts to persisted records.
func ToModelDebts(ds []domain.Debt) []models.SettlementRecord {
	ms := make([]models.SettlementRecord, len(ds))
	for i, d := range ds {
		ms[i] = models.SettlementRecord{
			ID:        d.ID,
			Person:    d.Person,
			Amount:    money.Round(d.Amount),
			Note:      d.Note,
			Status:    string(d.Status),
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		}
	}
	return ms
}

// ToDomainDebts converts persisted records to domain debts.
func ToDomainDebts(ms []models.SettlementRecord) []domain.Debt {
	ds := make([]domain.Debt, 0, len(ms))
	for _, m := range ms {
		if m.ID == "" {
			continue
		}
		ds = append(ds, domain.Debt{
			ID:         m.ID,
			Person:     m.Person,
			Amount:     money.Round(m.Amount),
			Note:       m.Note,
			Status:     toDomainStatus(m.Status),
			Timestamps: domain.Timestamps{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		})
	}
	return ds
}

// ToModelBorrows converts domain borrows to persisted records.
func ToModelBorrows(bs []domain.Borrow) []models.SettlementRecord {
	ms := make([]models.SettlementRecord, len(bs))
	for i, b := range bs {
		ms[i] = models.SettlementRecord{
			ID:        b.ID,
			Person:    b.Person,
			Amount:    money.Round(b.Amount),
			Note:      b.Note,
			DueDate:   b.DueDate,
			Status:    string(b.Status),
			CreatedAt: b.CreatedAt,
			UpdatedAt: b.UpdatedAt,
		}
	}
	return ms
}

// ToDomainBorrows converts persisted records to domain borrows.
func ToDomainBorrows(ms []models.SettlementRecord) []domain.Borrow {
	bs := make([]domain.Borrow, 0, len(ms))
	for _, m := range ms {
		if m.ID == "" {
			continue
		}
		bs = append(bs, domain.Borrow{
			ID:         m.ID,
			Person:     m.Person,
			Amount:     money.Round(m.Amount),
			Note:       m.Note,
			DueDate:    m.DueDate,
			Status:     toDomainStatus(m.Status),
			Timestamps: domain.Timestamps{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		})
	}
	return bs
}

// toDomainStatus treats anything but an explicit "paid" as unpaid.
func toDomainStatus(s string) domain.SettlementStatus {
	if domain.SettlementStatus(s) == domain.Paid {
		return domain.Paid
	}
	return domain.Unpaid
}
