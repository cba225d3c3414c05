package mapping

import (
	"time"

	"github.com/bizbook/bizbook_backend/internal/core/domain"
	"github.com/bizbook/bizbook_backend/internal/models"
)

func timePtrOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func derefTime(p *time.Time) time.Time {
	if p == nil {
		return time.Time{}
	}
	return *p
}

// ToModelSale converts a domain Sale to a model Sale (items mapped separately)
func ToModelSale(d domain.Sale) models.Sale {
	return models.Sale{
		SaleID:          d.SaleID,
		OwnerID:         d.OwnerID,
		CustomerID:      d.CustomerID,
		SaleNumber:      d.SaleNumber,
		SaleDate:        d.SaleDate,
		DueDate:         timePtrOrNil(d.DueDate),
		Amount:          d.Amount,
		PaidAmount:      d.PaidAmount,
		RemainingAmount: d.RemainingAmount,
		Status:          string(d.Status),
		Description:     d.Description,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSale converts a model Sale to a domain Sale
func ToDomainSale(m models.Sale) domain.Sale {
	return domain.Sale{
		SaleID:          m.SaleID,
		OwnerID:         m.OwnerID,
		CustomerID:      m.CustomerID,
		SaleNumber:      m.SaleNumber,
		SaleDate:        m.SaleDate,
		DueDate:         derefTime(m.DueDate),
		Amount:          m.Amount,
		PaidAmount:      m.PaidAmount,
		RemainingAmount: m.RemainingAmount,
		Status:          domain.DocumentStatus(m.Status),
		Description:     m.Description,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelSaleItem converts a domain SaleItem to a model SaleItem
func ToModelSaleItem(d domain.SaleItem) models.SaleItem {
	return models.SaleItem{
		SaleItemID: d.SaleItemID,
		SaleID:     d.SaleID,
		ItemID:     d.ItemID,
		Quantity:   d.Quantity,
		UnitPrice:  d.UnitPrice,
		Total:      d.Total,
	}
}

// ToDomainSaleItem converts a model SaleItem to a domain SaleItem
func ToDomainSaleItem(m models.SaleItem) domain.SaleItem {
	return domain.SaleItem{
		SaleItemID: m.SaleItemID,
		SaleID:     m.SaleID,
		ItemID:     m.ItemID,
		Quantity:   m.Quantity,
		UnitPrice:  m.UnitPrice,
		Total:      m.Total,
	}
}

// ToModelInvoice converts a domain Invoice to a model Invoice (items mapped separately)
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:       d.InvoiceID,
		OwnerID:         d.OwnerID,
		PartyID:         d.PartyID,
		InvoiceNumber:   d.InvoiceNumber,
		InvoiceDate:     d.InvoiceDate,
		DueDate:         timePtrOrNil(d.DueDate),
		Amount:          d.Amount,
		PaidAmount:      d.PaidAmount,
		RemainingAmount: d.RemainingAmount,
		Status:          string(d.Status),
		Description:     d.Description,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:       m.InvoiceID,
		OwnerID:         m.OwnerID,
		PartyID:         m.PartyID,
		InvoiceNumber:   m.InvoiceNumber,
		InvoiceDate:     m.InvoiceDate,
		DueDate:         derefTime(m.DueDate),
		Amount:          m.Amount,
		PaidAmount:      m.PaidAmount,
		RemainingAmount: m.RemainingAmount,
		Status:          domain.DocumentStatus(m.Status),
		Description:     m.Description,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInvoiceItem converts a domain InvoiceItem to a model InvoiceItem
func ToModelInvoiceItem(d domain.InvoiceItem) models.InvoiceItem {
	return models.InvoiceItem{
		InvoiceItemID: d.InvoiceItemID,
		InvoiceID:     d.InvoiceID,
		ItemID:        d.ItemID,
		Quantity:      d.Quantity,
		UnitPrice:     d.UnitPrice,
		Total:         d.Total,
	}
}

// ToDomainInvoiceItem converts a model InvoiceItem to a domain InvoiceItem
func ToDomainInvoiceItem(m models.InvoiceItem) domain.InvoiceItem {
	return domain.InvoiceItem{
		InvoiceItemID: m.InvoiceItemID,
		InvoiceID:     m.InvoiceID,
		ItemID:        m.ItemID,
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
		Total:         m.Total,
	}
}
