package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bizbook/bizbook_backend/internal/apperrors"
	"github.com/bizbook/bizbook_backend/internal/core/domain"
	portsrepo "github.com/bizbook/bizbook_backend/internal/core/ports/repositories"
	portssvc "github.com/bizbook/bizbook_backend/internal/core/ports/services"
	"github.com/bizbook/bizbook_backend/internal/dto"
	"github.com/bizbook/bizbook_backend/internal/middleware"
)

// settlementService orchestrates the document lifecycle: creation, payment
// allocation, cancellation and reversal. Every mutation commits the document
// change, the journal append and any stock movements in one repository
// transaction; events are published strictly after the commit.
type settlementService struct {
	docRepo      portsrepo.DocumentRepositoryFacade
	customerRepo portsrepo.CustomerRepositoryFacade
	partyRepo    portsrepo.PartyRepositoryFacade
	creditSvc    portssvc.CreditSvcFacade
	publisher    portssvc.EventPublisher
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(
	docRepo portsrepo.DocumentRepositoryFacade,
	customerRepo portsrepo.CustomerRepositoryFacade,
	partyRepo portsrepo.PartyRepositoryFacade,
	creditSvc portssvc.CreditSvcFacade,
	publisher portssvc.EventPublisher,
) portssvc.SettlementSvcFacade {
	return &settlementService{
		docRepo:      docRepo,
		customerRepo: customerRepo,
		partyRepo:    partyRepo,
		creditSvc:    creditSvc,
		publisher:    publisher,
	}
}

var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

// resolveAmount derives the document amount from line totals when no explicit
// amount is given, and validates it is positive.
func resolveAmount(amount *decimal.Decimal, items []dto.SaleLineRequest) (decimal.Decimal, []dto.SaleLineRequest, error) {
	lineTotal := decimal.Zero
	for _, line := range items {
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, nil, fmt.Errorf("%w: line quantity must be positive for item %s", apperrors.ErrValidation, line.ItemID)
		}
		if line.UnitPrice.IsNegative() {
			return decimal.Zero, nil, fmt.Errorf("%w: unit price cannot be negative for item %s", apperrors.ErrValidation, line.ItemID)
		}
		lineTotal = lineTotal.Add(line.Quantity.Mul(line.UnitPrice))
	}

	resolved := lineTotal
	if amount != nil {
		resolved = *amount
	}
	if resolved.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, nil, fmt.Errorf("%w: document amount must be positive", apperrors.ErrValidation)
	}
	return resolved, items, nil
}

func newAuditFields(now time.Time, userID string) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
}

// --- Sales ---

func (s *settlementService) CreateSale(ctx context.Context, ownerID string, req dto.CreateSaleRequest, userID string) (*domain.Sale, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	amount, items, err := resolveAmount(req.Amount, req.Items)
	if err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindCustomerByID(ctx, ownerID, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer %s: %w", req.CustomerID, err)
	}
	if !customer.IsActive {
		return nil, fmt.Errorf("%w: customer %s is inactive", apperrors.ErrValidation, req.CustomerID)
	}

	if existing, err := s.docRepo.FindSaleByNumber(ctx, ownerID, req.SaleNumber); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check sale number uniqueness: %w", err)
	} else if existing != nil {
		return nil, fmt.Errorf("%w: sale number %s", apperrors.ErrDuplicate, req.SaleNumber)
	}

	// Advisory credit check. A breached limit is logged and the sale proceeds.
	check, err := s.creditSvc.Evaluate(ctx, ownerID, domain.CustomerRef(req.CustomerID), amount)
	if err != nil {
		return nil, err
	}
	if check.Exceeds {
		logger.Warn("Credit limit exceeded, proceeding with sale",
			slog.String("customer_id", req.CustomerID),
			slog.String("projected_balance", check.ProjectedBalance.String()),
			slog.String("credit_limit", check.CreditLimit.String()),
		)
	}

	now := time.Now().UTC()
	saleDate := req.SaleDate
	if saleDate.IsZero() {
		saleDate = now
	}

	sale := domain.Sale{
		SaleID:          uuid.NewString(),
		OwnerID:         ownerID,
		CustomerID:      req.CustomerID,
		SaleNumber:      req.SaleNumber,
		SaleDate:        saleDate,
		Amount:          amount,
		PaidAmount:      decimal.Zero,
		RemainingAmount: amount,
		Status:          domain.StatusPending,
		Description:     req.Description,
		AuditFields:     newAuditFields(now, userID),
	}
	if req.DueDate != nil {
		sale.DueDate = *req.DueDate
	}

	changes := make([]portsrepo.StockChange, 0, len(items))
	for _, line := range items {
		sale.Items = append(sale.Items, domain.SaleItem{
			SaleItemID: uuid.NewString(),
			SaleID:     sale.SaleID,
			ItemID:     line.ItemID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			Total:      line.Quantity.Mul(line.UnitPrice),
		})
		changes = append(changes, portsrepo.StockChange{
			ItemID:    line.ItemID,
			Type:      domain.MovementOut,
			Quantity:  line.Quantity,
			Reference: sale.SaleNumber,
		})
	}

	entry := domain.LedgerEntry{
		EntryID:          uuid.NewString(),
		OwnerID:          ownerID,
		EntryDate:        saleDate,
		Description:      fmt.Sprintf("sale %s", sale.SaleNumber),
		Debit:            amount,
		Credit:           decimal.Zero,
		EntryType:        domain.EntrySale,
		Reference:        sale.SaleNumber,
		Account:          domain.CustomerRef(req.CustomerID),
		LinkedDocumentID: sale.SaleID,
		AuditFields:      newAuditFields(now, userID),
	}

	_, updatedItems, err := s.docRepo.SaveSale(ctx, sale, entry, changes)
	if err != nil {
		return nil, fmt.Errorf("failed to save sale %s: %w", sale.SaleNumber, err)
	}

	publishEvent(ctx, s.publisher, domain.Event{
		Type:       domain.EventSaleCreated,
		OwnerID:    ownerID,
		Key:        sale.SaleID,
		OccurredAt: now,
		Payload:    saleEventPayload(sale, ""),
	})
	publishStockAlerts(ctx, s.publisher, updatedItems)

	return &sale, nil
}

func (s *settlementService) GetSale(ctx context.Context, ownerID, saleID string) (*domain.Sale, error) {
	return s.docRepo.FindSaleByID(ctx, ownerID, saleID)
}

func (s *settlementService) ListSales(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Sale, *string, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	return s.docRepo.ListSales(ctx, ownerID, limit, nextToken)
}

// ListOverdueSales derives overdue-ness from the due date at read time.
func (s *settlementService) ListOverdueSales(ctx context.Context, ownerID string) ([]domain.Sale, error) {
	return s.docRepo.ListOverdueSales(ctx, ownerID, time.Now().UTC())
}

// CancelSale cancels an unpaid sale: offsetting credit entry, stock restore,
// status CANCELLED. A sale with any payment allocated cannot be cancelled;
// there is no refund workflow.
func (s *settlementService) CancelSale(ctx context.Context, ownerID, saleID, reason, userID string) (*domain.Sale, error) {
	sale, err := s.docRepo.FindSaleByID(ctx, ownerID, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find sale %s: %w", saleID, err)
	}
	if sale.Status == domain.StatusCancelled {
		return nil, fmt.Errorf("%w: sale %s is already cancelled", apperrors.ErrInvalidStateTransition, saleID)
	}
	if !sale.PaidAmount.IsZero() {
		return nil, fmt.Errorf("%w: sale %s has payments allocated", apperrors.ErrInvalidStateTransition, saleID)
	}

	now := time.Now().UTC()
	previousStatus := sale.Status
	sale.Status = domain.StatusCancelled
	sale.LastUpdatedAt = now
	sale.LastUpdatedBy = userID

	entry := domain.LedgerEntry{
		EntryID:          uuid.NewString(),
		OwnerID:          ownerID,
		EntryDate:        now,
		Description:      fmt.Sprintf("cancellation of sale %s: %s", sale.SaleNumber, reason),
		Debit:            decimal.Zero,
		Credit:           sale.Amount,
		EntryType:        domain.EntryAdjustment,
		Reference:        sale.SaleNumber,
		Account:          domain.CustomerRef(sale.CustomerID),
		LinkedDocumentID: sale.SaleID,
		AuditFields:      newAuditFields(now, userID),
	}

	changes := make([]portsrepo.StockChange, 0, len(sale.Items))
	for _, item := range sale.Items {
		changes = append(changes, portsrepo.StockChange{
			ItemID:    item.ItemID,
			Type:      domain.MovementIn,
			Quantity:  item.Quantity,
			Reference: sale.SaleNumber,
			Notes:     string(domain.RestoreCancelled),
		})
	}

	if _, _, err := s.docRepo.CancelSale(ctx, *sale, entry, changes); err != nil {
		return nil, fmt.Errorf("failed to cancel sale %s: %w", saleID, err)
	}

	publishEvent(ctx, s.publisher, domain.Event{
		Type:       domain.EventSaleCancelled,
		OwnerID:    ownerID,
		Key:        sale.SaleID,
		OccurredAt: now,
		Payload:    saleEventPayload(*sale, previousStatus),
	})
	return sale, nil
}

// AllocateReceipt records money received from a customer and, when linked to
// a sale, settles it per the status table. The credit entry, the receipt row
// and the sale update commit together or not at all.
func (s *settlementService) AllocateReceipt(ctx context.Context, ownerID string, req dto.CreateReceiptRequest, userID string) (*domain.SaleReceipt, *domain.Sale, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: receipt amount must be positive", apperrors.ErrValidation)
	}

	if _, err := s.customerRepo.FindCustomerByID(ctx, ownerID, req.CustomerID); err != nil {
		return nil, nil, fmt.Errorf("failed to find customer %s: %w", req.CustomerID, err)
	}

	if existing, err := s.docRepo.FindReceiptByNumber(ctx, ownerID, req.ReceiptNumber); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil, fmt.Errorf("failed to check receipt number uniqueness: %w", err)
	} else if existing != nil {
		return nil, nil, fmt.Errorf("%w: receipt number %s", apperrors.ErrDuplicate, req.ReceiptNumber)
	}

	var sale *domain.Sale
	var previousStatus domain.DocumentStatus
	if req.SaleID != "" {
		var err error
		sale, err = s.docRepo.FindSaleByID(ctx, ownerID, req.SaleID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to find sale %s: %w", req.SaleID, err)
		}
		if sale.CustomerID != req.CustomerID {
			return nil, nil, fmt.Errorf("%w: sale %s does not belong to customer %s", apperrors.ErrValidation, req.SaleID, req.CustomerID)
		}
		switch sale.Status {
		case domain.StatusPaid:
			return nil, nil, fmt.Errorf("%w: sale %s is already fully paid", apperrors.ErrInvalidStateTransition, req.SaleID)
		case domain.StatusCancelled:
			return nil, nil, fmt.Errorf("%w: sale %s is cancelled", apperrors.ErrInvalidStateTransition, req.SaleID)
		}
		if req.Amount.GreaterThan(sale.RemainingAmount) {
			return nil, nil, fmt.Errorf("%w: receipt %s exceeds remaining %s on sale %s",
				apperrors.ErrInsufficientBalance, req.Amount, sale.RemainingAmount, req.SaleID)
		}
	}

	now := time.Now().UTC()
	receiptDate := req.ReceiptDate
	if receiptDate.IsZero() {
		receiptDate = now
	}

	status := domain.ReceiptCompleted
	if domain.PaymentMethod(req.Method) == domain.MethodCheque {
		status = domain.ReceiptPending
	}

	receipt := domain.SaleReceipt{
		ReceiptID:     uuid.NewString(),
		OwnerID:       ownerID,
		CustomerID:    req.CustomerID,
		SaleID:        req.SaleID,
		ReceiptNumber: req.ReceiptNumber,
		Amount:        req.Amount,
		Method:        domain.PaymentMethod(req.Method),
		Status:        status,
		ReceiptDate:   receiptDate,
		Notes:         req.Notes,
		AuditFields:   newAuditFields(now, userID),
	}

	if sale != nil {
		previousStatus = sale.Status
		sale.PaidAmount = sale.PaidAmount.Add(req.Amount)
		sale.RemainingAmount = sale.Amount.Sub(sale.PaidAmount)
		sale.Status = domain.DeriveStatus(sale.Amount, sale.PaidAmount)
		sale.LastUpdatedAt = now
		sale.LastUpdatedBy = userID
	}

	entry := domain.LedgerEntry{
		EntryID:          uuid.NewString(),
		OwnerID:          ownerID,
		EntryDate:        receiptDate,
		Description:      fmt.Sprintf("receipt %s", receipt.ReceiptNumber),
		Debit:            decimal.Zero,
		Credit:           req.Amount,
		EntryType:        domain.EntrySaleReceipt,
		Reference:        receipt.ReceiptNumber,
		Account:          domain.CustomerRef(req.CustomerID),
		LinkedDocumentID: req.SaleID,
		AuditFields:      newAuditFields(now, userID),
	}

	if err := s.docRepo.ApplyReceipt(ctx, sale, receipt, entry); err != nil {
		return nil, nil, fmt.Errorf("failed to apply receipt %s: %w", receipt.ReceiptNumber, err)
	}

	paymentPayload := domain.PaymentEventPayload{
		Kind:          domain.DocSale,
		PaymentID:     receipt.ReceiptID,
		PaymentNumber: receipt.ReceiptNumber,
		DocumentID:    req.SaleID,
		AccountRef:    domain.CustomerRef(req.CustomerID),
		Amount:        req.Amount,
		Method:        receipt.Method,
	}
	if sale != nil {
		paymentPayload.DocumentStatus = sale.Status
	}
	publishEvent(ctx, s.publisher, domain.Event{
		Type:       domain.EventPaymentCreated,
		OwnerID:    ownerID,
		Key:        receipt.ReceiptID,
		OccurredAt: now,
		Payload:    paymentPayload,
	})
	if sale != nil && sale.Status == domain.StatusPaid {
		publishEvent(ctx, s.publisher, domain.Event{
			Type:       domain.EventSalePaid,
			OwnerID:    ownerID,
			Key:        sale.SaleID,
			OccurredAt: now,
			Payload:    saleEventPayload(*sale, previousStatus),
		})
	}

	return &receipt, sale, nil
}

// DeleteReceipt reverses a receipt: offsetting debit entry, sale rolled back,
// receipt row removed. Cleared cheques cannot be reversed.
func (s *settlementService) DeleteReceipt(ctx context.Context, ownerID, receiptID, reason, userID string) (*domain.Sale, error) {
	receipt, err := s.docRepo.FindReceiptByID(ctx, ownerID, receiptID)
	if err != nil {
		return nil, fmt.Errorf("failed to find receipt %s: %w", receiptID, err)
	}
	if receipt.Cleared() {
		return nil, fmt.Errorf("%w: receipt %s is a cleared cheque", apperrors.ErrInvalidStateTransition, receiptID)
	}

	now := time.Now().UTC()
	var sale *domain.Sale
	if receipt.SaleID != "" {
		sale, err = s.docRepo.FindSaleByID(ctx, ownerID, receipt.SaleID)
		if err != nil {
			return nil, fmt.Errorf("failed to find sale %s: %w", receipt.SaleID, err)
		}
		newPaid := sale.PaidAmount.Sub(receipt.Amount)
		if newPaid.IsNegative() {
			return nil, fmt.Errorf("%w: reversing receipt %s would drive paid amount negative", apperrors.ErrInvalidStateTransition, receiptID)
		}
		sale.PaidAmount = newPaid
		sale.RemainingAmount = sale.Amount.Sub(newPaid)
		sale.Status = domain.DeriveStatus(sale.Amount, newPaid)
		sale.LastUpdatedAt = now
		sale.LastUpdatedBy = userID
	}

	entry := domain.LedgerEntry{
		EntryID:          uuid.NewString(),
		OwnerID:          ownerID,
		EntryDate:        now,
		Description:      fmt.Sprintf("reversal of receipt %s: %s", receipt.ReceiptNumber, reason),
		Debit:            receipt.Amount,
		Credit:           decimal.Zero,
		EntryType:        domain.EntryAdjustment,
		Reference:        receipt.ReceiptNumber,
		Account:          domain.CustomerRef(receipt.CustomerID),
		LinkedDocumentID: receipt.SaleID,
		AuditFields:      newAuditFields(now, userID),
	}

	if err := s.docRepo.DeleteReceipt(ctx, ownerID, receiptID, sale, entry); err != nil {
		return nil, fmt.Errorf("failed to reverse receipt %s: %w", receiptID, err)
	}

	publishEvent(ctx, s.publisher, domain.Event{
		Type:       domain.EventPaymentReversed,
		OwnerID:    ownerID,
		Key:        receipt.ReceiptID,
		OccurredAt: now,
		Payload: domain.PaymentEventPayload{
			Kind:          domain.DocSale,
			PaymentID:     receipt.ReceiptID,
			PaymentNumber: receipt.ReceiptNumber,
			DocumentID:    receipt.SaleID,
			AccountRef:    domain.CustomerRef(receipt.CustomerID),
			Amount:        receipt.Amount,
			Method:        receipt.Method,
		},
	})
	return sale, nil
}

// ClearReceipt marks a pending cheque receipt as cleared. After this the
// receipt can no longer be reversed.
func (s *settlementService) ClearReceipt(ctx context.Context, ownerID, receiptID, userID string) error {
	receipt, err := s.docRepo.FindReceiptByID(ctx, ownerID, receiptID)
	if err != nil {
		return fmt.Errorf("failed to find receipt %s: %w", receiptID, err)
	}
	if receipt.Status != domain.ReceiptPending {
		return fmt.Errorf("%w: receipt %s is not pending clearance", apperrors.ErrInvalidStateTransition, receiptID)
	}
	return s.docRepo.UpdateReceiptStatus(ctx, ownerID, receiptID, domain.ReceiptCompleted, userID, time.Now().UTC())
}

// --- Invoices ---

func (s *settlementService) CreateInvoice(ctx context.Context, ownerID string, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error) {
	amount, items, err := resolveAmount(req.Amount, req.Items)
	if err != nil {
		return nil, err
	}

	party, err := s.partyRepo.FindPartyByID(ctx, ownerID, req.PartyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find party %s: %w", req.PartyID, err)
	}
	if !party.IsActive {
		return nil, fmt.Errorf("%w: party %s is inactive", apperrors.ErrValidation, req.PartyID)
	}

	if existing, err := s.docRepo.FindInvoiceByNumber(ctx, ownerID, req.InvoiceNumber); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check invoice number uniqueness: %w", err)
	} else if existing != nil {
		return nil, fmt.Errorf("%w: invoice number %s", apperrors.ErrDuplicate, req.InvoiceNumber)
	}

	// No credit check for invoices: the soft limit applies to sales only.

	now := time.Now().UTC()
	invoiceDate := req.InvoiceDate
	if invoiceDate.IsZero() {
		invoiceDate = now
	}

	invoice := domain.Invoice{
		InvoiceID:       uuid.NewString(),
		OwnerID:         ownerID,
		PartyID:         req.PartyID,
		InvoiceNumber:   req.InvoiceNumber,
		InvoiceDate:     invoiceDate,
		Amount:          amount,
		PaidAmount:      decimal.Zero,
		RemainingAmount: amount,
		Status:          domain.StatusPending,
		Description:     req.Description,
		AuditFields:     newAuditFields(now, userID),
	}
	if req.DueDate != nil {
		invoice.DueDate = *req.DueDate
	}

	changes := make([]portsrepo.StockChange, 0, len(items))
	for _, line := range items {
		invoice.Items = append(invoice.Items, domain.InvoiceItem{
			InvoiceItemID: uuid.NewString(),
			InvoiceID:     invoice.InvoiceID,
			ItemID:        line.ItemID,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			Total:         line.Quantity.Mul(line.UnitPrice),
		})
		unitPrice := line.UnitPrice
		changes = append(changes, portsrepo.StockChange{
			ItemID:    line.ItemID,
			Type:      domain.MovementIn,
			Quantity:  line.Quantity,
			UnitPrice: &unitPrice,
			Reference: invoice.InvoiceNumber,
		})
	}

	entry := domain.LedgerEntry{
		EntryID:          uuid.NewString(),
		OwnerID:          ownerID,
		EntryDate:        invoiceDate,
		Description:      fmt.Sprintf("invoice %s", invoice.InvoiceNumber),
		Debit:            decimal.Zero,
		Credit:           amount,
		EntryType:        domain.EntryInvoice,
		Reference:        invoice.InvoiceNumber,
		Account:          domain.PartyRef(req.PartyID),
		LinkedDocumentID: invoice.InvoiceID,
		AuditFields:      newAuditFields(now, userID),
	}

	if _, _, err := s.docRepo.SaveInvoice(ctx, invoice, entry, changes); err != nil {
		return nil, fmt.Errorf("failed to save invoice %s: %w", invoice.InvoiceNumber, err)
	}

	publishEvent(ctx, s.publisher, domain.Event{
		Type:       domain.EventInvoiceCreated,
		OwnerID:    ownerID,
		Key:        invoice.InvoiceID,
		OccurredAt: now,
		Payload:    invoiceEventPayload(invoice, ""),
	})
	return &invoice, nil
}

func (s *settlementService) GetInvoice(ctx context.Context, ownerID, invoiceID string) (*domain.Invoice, error) {
	return s.docRepo.FindInvoiceByID(ctx, ownerID, invoiceID)
}

func (s *settlementService) ListInvoices(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	return s.docRepo.ListInvoices(ctx, ownerID, limit, nextToken)
}

func (s *settlementService) ListOverdueInvoices(ctx context.Context, ownerID string) ([]domain.Invoice, error) {
	return s.docRepo.ListOverdueInvoices(ctx, ownerID, time.Now().UTC())
}

// CancelInvoice cancels an unpaid invoice: offsetting debit entry, the stock
// its items added is removed again, status CANCELLED. Removal is validated
// like any other reduction; if the purchased stock was already sold the whole
// cancellation fails.
func (s *settlementService) CancelInvoice(ctx context.Context, ownerID, invoiceID, reason, userID string) (*domain.Invoice, error) {
	invoice, err := s.docRepo.FindInvoiceByID(ctx, ownerID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	if invoice.Status == domain.StatusCancelled {
		return nil, fmt.Errorf("%w: invoice %s is already cancelled", apperrors.ErrInvalidStateTransition, invoiceID)
	}
	if !invoice.PaidAmount.IsZero() {
		return nil, fmt.Errorf("%w: invoice %s has payments allocated", apperrors.ErrInvalidStateTransition, invoiceID)
	}

	now := time.Now().UTC()
	previousStatus := invoice.Status
	invoice.Status = domain.StatusCancelled
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = userID

	entry := domain.LedgerEntry{
		EntryID:          uuid.NewString(),
		OwnerID:          ownerID,
		EntryDate:        now,
		Description:      fmt.Sprintf("cancellation of invoice %s: %s", invoice.InvoiceNumber, reason),
		Debit:            invoice.Amount,
		Credit:           decimal.Zero,
		EntryType:        domain.EntryAdjustment,
		Reference:        invoice.InvoiceNumber,
		Account:          domain.PartyRef(invoice.PartyID),
		LinkedDocumentID: invoice.InvoiceID,
		AuditFields:      newAuditFields(now, userID),
	}

	changes := make([]portsrepo.StockChange, 0, len(invoice.Items))
	for _, item := range invoice.Items {
		changes = append(changes, portsrepo.StockChange{
			ItemID:    item.ItemID,
			Type:      domain.MovementOut,
			Quantity:  item.Quantity,
			Reference: invoice.InvoiceNumber,
			Notes:     string(domain.RestoreCancelled),
		})
	}

	if _, _, err := s.docRepo.CancelInvoice(ctx, *invoice, entry, changes); err != nil {
		return nil, fmt.Errorf("failed to cancel invoice %s: %w", invoiceID, err)
	}

	publishEvent(ctx, s.publisher, domain.Event{
		Type:       domain.EventInvoiceCancelled,
		OwnerID:    ownerID,
		Key:        invoice.InvoiceID,
		OccurredAt: now,
		Payload:    invoiceEventPayload(*invoice, previousStatus),
	})
	return invoice, nil
}

// AllocateInvoicePayment records money paid to a party, mirroring
// AllocateReceipt on the payable side.
func (s *settlementService) AllocateInvoicePayment(ctx context.Context, ownerID string, req dto.CreateInvoicePaymentRequest, userID string) (*domain.InvoicePayment, *domain.Invoice, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	if _, err := s.partyRepo.FindPartyByID(ctx, ownerID, req.PartyID); err != nil {
		return nil, nil, fmt.Errorf("failed to find party %s: %w", req.PartyID, err)
	}

	if existing, err := s.docRepo.FindInvoicePaymentByNumber(ctx, ownerID, req.PaymentNumber); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil, fmt.Errorf("failed to check payment number uniqueness: %w", err)
	} else if existing != nil {
		return nil, nil, fmt.Errorf("%w: payment number %s", apperrors.ErrDuplicate, req.PaymentNumber)
	}

	var invoice *domain.Invoice
	var previousStatus domain.DocumentStatus
	if req.InvoiceID != "" {
		var err error
		invoice, err = s.docRepo.FindInvoiceByID(ctx, ownerID, req.InvoiceID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to find invoice %s: %w", req.InvoiceID, err)
		}
		if invoice.PartyID != req.PartyID {
			return nil, nil, fmt.Errorf("%w: invoice %s does not belong to party %s", apperrors.ErrValidation, req.InvoiceID, req.PartyID)
		}
		switch invoice.Status {
		case domain.StatusPaid:
			return nil, nil, fmt.Errorf("%w: invoice %s is already fully paid", apperrors.ErrInvalidStateTransition, req.InvoiceID)
		case domain.StatusCancelled:
			return nil, nil, fmt.Errorf("%w: invoice %s is cancelled", apperrors.ErrInvalidStateTransition, req.InvoiceID)
		}
		if req.Amount.GreaterThan(invoice.RemainingAmount) {
			return nil, nil, fmt.Errorf("%w: payment %s exceeds remaining %s on invoice %s",
				apperrors.ErrInsufficientBalance, req.Amount, invoice.RemainingAmount, req.InvoiceID)
		}
	}

	now := time.Now().UTC()
	paymentDate := req.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = now
	}

	payment := domain.InvoicePayment{
		PaymentID:     uuid.NewString(),
		OwnerID:       ownerID,
		PartyID:       req.PartyID,
		InvoiceID:     req.InvoiceID,
		PaymentNumber: req.PaymentNumber,
		Amount:        req.Amount,
		Method:        domain.PaymentMethod(req.Method),
		PaymentDate:   paymentDate,
		Notes:         req.Notes,
		AuditFields:   newAuditFields(now, userID),
	}

	if invoice != nil {
		previousStatus = invoice.Status
		invoice.PaidAmount = invoice.PaidAmount.Add(req.Amount)
		invoice.RemainingAmount = invoice.Amount.Sub(invoice.PaidAmount)
		invoice.Status = domain.DeriveStatus(invoice.Amount, invoice.PaidAmount)
		invoice.LastUpdatedAt = now
		invoice.LastUpdatedBy = userID
	}

	entry := domain.LedgerEntry{
		EntryID:          uuid.NewString(),
		OwnerID:          ownerID,
		EntryDate:        paymentDate,
		Description:      fmt.Sprintf("payment %s", payment.PaymentNumber),
		Debit:            req.Amount,
		Credit:           decimal.Zero,
		EntryType:        domain.EntryInvoicePayment,
		Reference:        payment.PaymentNumber,
		Account:          domain.PartyRef(req.PartyID),
		LinkedDocumentID: req.InvoiceID,
		AuditFields:      newAuditFields(now, userID),
	}

	if err := s.docRepo.ApplyInvoicePayment(ctx, invoice, payment, entry); err != nil {
		return nil, nil, fmt.Errorf("failed to apply payment %s: %w", payment.PaymentNumber, err)
	}

	paymentPayload := domain.PaymentEventPayload{
		Kind:          domain.DocInvoice,
		PaymentID:     payment.PaymentID,
		PaymentNumber: payment.PaymentNumber,
		DocumentID:    req.InvoiceID,
		AccountRef:    domain.PartyRef(req.PartyID),
		Amount:        req.Amount,
		Method:        payment.Method,
	}
	if invoice != nil {
		paymentPayload.DocumentStatus = invoice.Status
	}
	publishEvent(ctx, s.publisher, domain.Event{
		Type:       domain.EventPaymentCreated,
		OwnerID:    ownerID,
		Key:        payment.PaymentID,
		OccurredAt: now,
		Payload:    paymentPayload,
	})
	if invoice != nil && invoice.Status == domain.StatusPaid {
		publishEvent(ctx, s.publisher, domain.Event{
			Type:       domain.EventInvoicePaid,
			OwnerID:    ownerID,
			Key:        invoice.InvoiceID,
			OccurredAt: now,
			Payload:    invoiceEventPayload(*invoice, previousStatus),
		})
	}

	return &payment, invoice, nil
}

// DeleteInvoicePayment reverses an invoice payment. A payment with a
// clearance date set cannot be reversed, regardless of method; the sale
// receipt side blocks only cleared cheques.
func (s *settlementService) DeleteInvoicePayment(ctx context.Context, ownerID, paymentID, reason, userID string) (*domain.Invoice, error) {
	payment, err := s.docRepo.FindInvoicePaymentByID(ctx, ownerID, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	if payment.Cleared() {
		return nil, fmt.Errorf("%w: payment %s has already cleared", apperrors.ErrInvalidStateTransition, paymentID)
	}

	now := time.Now().UTC()
	var invoice *domain.Invoice
	if payment.InvoiceID != "" {
		invoice, err = s.docRepo.FindInvoiceByID(ctx, ownerID, payment.InvoiceID)
		if err != nil {
			return nil, fmt.Errorf("failed to find invoice %s: %w", payment.InvoiceID, err)
		}
		newPaid := invoice.PaidAmount.Sub(payment.Amount)
		if newPaid.IsNegative() {
			return nil, fmt.Errorf("%w: reversing payment %s would drive paid amount negative", apperrors.ErrInvalidStateTransition, paymentID)
		}
		invoice.PaidAmount = newPaid
		invoice.RemainingAmount = invoice.Amount.Sub(newPaid)
		invoice.Status = domain.DeriveStatus(invoice.Amount, newPaid)
		invoice.LastUpdatedAt = now
		invoice.LastUpdatedBy = userID
	}

	entry := domain.LedgerEntry{
		EntryID:          uuid.NewString(),
		OwnerID:          ownerID,
		EntryDate:        now,
		Description:      fmt.Sprintf("reversal of payment %s: %s", payment.PaymentNumber, reason),
		Debit:            decimal.Zero,
		Credit:           payment.Amount,
		EntryType:        domain.EntryAdjustment,
		Reference:        payment.PaymentNumber,
		Account:          domain.PartyRef(payment.PartyID),
		LinkedDocumentID: payment.InvoiceID,
		AuditFields:      newAuditFields(now, userID),
	}

	if err := s.docRepo.DeleteInvoicePayment(ctx, ownerID, paymentID, invoice, entry); err != nil {
		return nil, fmt.Errorf("failed to reverse payment %s: %w", paymentID, err)
	}

	publishEvent(ctx, s.publisher, domain.Event{
		Type:       domain.EventPaymentReversed,
		OwnerID:    ownerID,
		Key:        payment.PaymentID,
		OccurredAt: now,
		Payload: domain.PaymentEventPayload{
			Kind:          domain.DocInvoice,
			PaymentID:     payment.PaymentID,
			PaymentNumber: payment.PaymentNumber,
			DocumentID:    payment.InvoiceID,
			AccountRef:    domain.PartyRef(payment.PartyID),
			Amount:        payment.Amount,
			Method:        payment.Method,
		},
	})
	return invoice, nil
}

// ClearInvoicePayment records the clearance date of a payment instrument.
func (s *settlementService) ClearInvoicePayment(ctx context.Context, ownerID, paymentID string, req dto.ClearPaymentRequest, userID string) error {
	payment, err := s.docRepo.FindInvoicePaymentByID(ctx, ownerID, paymentID)
	if err != nil {
		return fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	if payment.ClearanceDate != nil {
		return fmt.Errorf("%w: payment %s has already cleared", apperrors.ErrInvalidStateTransition, paymentID)
	}

	now := time.Now().UTC()
	clearedAt := now
	if req.ClearedAt != nil {
		clearedAt = *req.ClearedAt
	}
	return s.docRepo.SetPaymentClearance(ctx, ownerID, paymentID, clearedAt, userID, now)
}

// --- Event payload helpers ---

func saleEventPayload(sale domain.Sale, previous domain.DocumentStatus) domain.DocumentEventPayload {
	return domain.DocumentEventPayload{
		Kind:            domain.DocSale,
		DocumentID:      sale.SaleID,
		DocumentNumber:  sale.SaleNumber,
		AccountRef:      domain.CustomerRef(sale.CustomerID),
		Amount:          sale.Amount,
		PaidAmount:      sale.PaidAmount,
		RemainingAmount: sale.RemainingAmount,
		Status:          sale.Status,
		PreviousStatus:  previous,
	}
}

func invoiceEventPayload(invoice domain.Invoice, previous domain.DocumentStatus) domain.DocumentEventPayload {
	return domain.DocumentEventPayload{
		Kind:            domain.DocInvoice,
		DocumentID:      invoice.InvoiceID,
		DocumentNumber:  invoice.InvoiceNumber,
		AccountRef:      domain.PartyRef(invoice.PartyID),
		Amount:          invoice.Amount,
		PaidAmount:      invoice.PaidAmount,
		RemainingAmount: invoice.RemainingAmount,
		Status:          invoice.Status,
		PreviousStatus:  previous,
	}
}
