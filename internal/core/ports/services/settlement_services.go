package services

import (
	"context"

	"github.com/bizbook/bizbook_backend/internal/core/domain"
	"github.com/bizbook/bizbook_backend/internal/dto"
)

// SaleSvc covers the sale (receivable) document lifecycle.
type SaleSvc interface {
	CreateSale(ctx context.Context, ownerID string, req dto.CreateSaleRequest, userID string) (*domain.Sale, error)
	GetSale(ctx context.Context, ownerID, saleID string) (*domain.Sale, error)
	ListSales(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Sale, *string, error)
	ListOverdueSales(ctx context.Context, ownerID string) ([]domain.Sale, error)
	CancelSale(ctx context.Context, ownerID, saleID, reason, userID string) (*domain.Sale, error)

	AllocateReceipt(ctx context.Context, ownerID string, req dto.CreateReceiptRequest, userID string) (*domain.SaleReceipt, *domain.Sale, error)
	DeleteReceipt(ctx context.Context, ownerID, receiptID, reason, userID string) (*domain.Sale, error)
	ClearReceipt(ctx context.Context, ownerID, receiptID, userID string) error
}

// InvoiceSvc covers the invoice (payable) document lifecycle.
type InvoiceSvc interface {
	CreateInvoice(ctx context.Context, ownerID string, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error)
	GetInvoice(ctx context.Context, ownerID, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Invoice, *string, error)
	ListOverdueInvoices(ctx context.Context, ownerID string) ([]domain.Invoice, error)
	CancelInvoice(ctx context.Context, ownerID, invoiceID, reason, userID string) (*domain.Invoice, error)

	AllocateInvoicePayment(ctx context.Context, ownerID string, req dto.CreateInvoicePaymentRequest, userID string) (*domain.InvoicePayment, *domain.Invoice, error)
	DeleteInvoicePayment(ctx context.Context, ownerID, paymentID, reason, userID string) (*domain.Invoice, error)
	ClearInvoicePayment(ctx context.Context, ownerID, paymentID string, req dto.ClearPaymentRequest, userID string) error
}

// SettlementSvcFacade combines both document lifecycles.
type SettlementSvcFacade interface {
	SaleSvc
	InvoiceSvc
}
