package mapping

import (
	"github.com/bizbook/bizbook_backend/internal/core/domain"
	"github.com/bizbook/bizbook_backend/internal/models"
)

// ToModelSaleReceipt converts a domain SaleReceipt to a model SaleReceipt
func ToModelSaleReceipt(d domain.SaleReceipt) models.SaleReceipt {
	return models.SaleReceipt{
		ReceiptID:     d.ReceiptID,
		OwnerID:       d.OwnerID,
		CustomerID:    d.CustomerID,
		SaleID:        strPtrOrNil(d.SaleID),
		ReceiptNumber: d.ReceiptNumber,
		Amount:        d.Amount,
		Method:        string(d.Method),
		Status:        string(d.Status),
		ReceiptDate:   d.ReceiptDate,
		Notes:         d.Notes,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSaleReceipt converts a model SaleReceipt to a domain SaleReceipt
func ToDomainSaleReceipt(m models.SaleReceipt) domain.SaleReceipt {
	return domain.SaleReceipt{
		ReceiptID:     m.ReceiptID,
		OwnerID:       m.OwnerID,
		CustomerID:    m.CustomerID,
		SaleID:        derefStr(m.SaleID),
		ReceiptNumber: m.ReceiptNumber,
		Amount:        m.Amount,
		Method:        domain.PaymentMethod(m.Method),
		Status:        domain.ReceiptStatus(m.Status),
		ReceiptDate:   m.ReceiptDate,
		Notes:         m.Notes,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInvoicePayment converts a domain InvoicePayment to a model InvoicePayment
func ToModelInvoicePayment(d domain.InvoicePayment) models.InvoicePayment {
	return models.InvoicePayment{
		PaymentID:     d.PaymentID,
		OwnerID:       d.OwnerID,
		PartyID:       d.PartyID,
		InvoiceID:     strPtrOrNil(d.InvoiceID),
		PaymentNumber: d.PaymentNumber,
		Amount:        d.Amount,
		Method:        string(d.Method),
		ClearanceDate: d.ClearanceDate,
		PaymentDate:   d.PaymentDate,
		Notes:         d.Notes,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoicePayment converts a model InvoicePayment to a domain InvoicePayment
func ToDomainInvoicePayment(m models.InvoicePayment) domain.InvoicePayment {
	return domain.InvoicePayment{
		PaymentID:     m.PaymentID,
		OwnerID:       m.OwnerID,
		PartyID:       m.PartyID,
		InvoiceID:     derefStr(m.InvoiceID),
		PaymentNumber: m.PaymentNumber,
		Amount:        m.Amount,
		Method:        domain.PaymentMethod(m.Method),
		ClearanceDate: m.ClearanceDate,
		PaymentDate:   m.PaymentDate,
		Notes:         m.Notes,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
