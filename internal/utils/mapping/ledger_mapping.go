package mapping

import (
	"github.com/bizbook/bizbook_backend/internal/core/domain"
	"github.com/bizbook/bizbook_backend/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry.
// The account reference splits into the nullable customer_id/party_id pair;
// exactly one ends up non-nil.
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	m := models.LedgerEntry{
		EntryID:          d.EntryID,
		OwnerID:          d.OwnerID,
		EntryDate:        d.EntryDate,
		Description:      d.Description,
		Debit:            d.Debit,
		Credit:           d.Credit,
		EntryType:        string(d.EntryType),
		Reference:        d.Reference,
		LinkedDocumentID: strPtrOrNil(d.LinkedDocumentID),
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
	switch d.Account.Kind {
	case domain.KindCustomer:
		m.CustomerID = &d.Account.PartyID
	case domain.KindParty:
		m.PartyID = &d.Account.PartyID
	}
	return m
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	d := domain.LedgerEntry{
		EntryID:          m.EntryID,
		OwnerID:          m.OwnerID,
		EntryDate:        m.EntryDate,
		Description:      m.Description,
		Debit:            m.Debit,
		Credit:           m.Credit,
		EntryType:        domain.EntryType(m.EntryType),
		Reference:        m.Reference,
		LinkedDocumentID: derefStr(m.LinkedDocumentID),
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
	if m.CustomerID != nil {
		d.Account = domain.CustomerRef(*m.CustomerID)
	} else if m.PartyID != nil {
		d.Account = domain.PartyRef(*m.PartyID)
	}
	return d
}

// ToDomainLedgerEntrySlice converts a slice of model LedgerEntries to domain LedgerEntries
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
