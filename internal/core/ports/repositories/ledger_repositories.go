package repositories

import (
	"context"
	"time"

	"github.com/bizbook/bizbook_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountBalance pairs an account reference with its derived balance.
type AccountBalance struct {
	Ref     domain.AccountRef
	Balance decimal.Decimal
}

// LedgerReader defines read operations over the journal.
type LedgerReader interface {
	// FindEntryByID retrieves a single entry.
	FindEntryByID(ctx context.Context, ownerID, entryID string) (*domain.LedgerEntry, error)

	// FindEntriesByAccount retrieves every entry for an account, optionally
	// bounded by an as-of date. Used by the balance fold; no pagination.
	FindEntriesByAccount(ctx context.Context, ownerID string, ref domain.AccountRef, asOf *time.Time) ([]domain.LedgerEntry, error)

	// ListEntriesByAccount retrieves a paginated statement for an account
	// using token-based pagination, newest first.
	ListEntriesByAccount(ctx context.Context, ownerID string, ref domain.AccountRef, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// AccountBalances derives the balance of every account of the given kind
	// via SQL aggregation over the journal. No balance is ever stored.
	AccountBalances(ctx context.Context, ownerID string, kind domain.PartyKind) ([]AccountBalance, error)
}

// LedgerWriter defines the append-only write operations of the journal. There
// is deliberately no update or delete.
type LedgerWriter interface {
	// AppendEntry persists an entry in its own short transaction. Used for
	// standalone adjustments and audit entries.
	AppendEntry(ctx context.Context, entry domain.LedgerEntry) error

	// AppendEntryInTx persists an entry inside the caller's transaction so it
	// composes with the settlement engine's atomic block.
	AppendEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error
}

// LedgerRepositoryFacade combines all journal repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
