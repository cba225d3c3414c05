package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/bizbook/bizbook_backend/internal/apperrors"
	"github.com/bizbook/bizbook_backend/internal/core/domain"
	portsrepo "github.com/bizbook/bizbook_backend/internal/core/ports/repositories"
	"github.com/bizbook/bizbook_backend/internal/models"
	"github.com/bizbook/bizbook_backend/internal/utils/mapping"
	"github.com/bizbook/bizbook_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ledgerEntryColumns = `entry_id, owner_id, entry_date, description, debit, credit, entry_type, reference, customer_id, party_id, linked_document_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for the journal.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// accountFilter returns the column condition for the given account reference.
// The placeholder index is the position the caller will bind the party ID at.
func accountFilter(ref domain.AccountRef, placeholder int) string {
	col := "customer_id"
	if ref.Kind == domain.KindParty {
		col = "party_id"
	}
	return col + " = $" + strconv.Itoa(placeholder)
}

func scanLedgerEntry(row pgx.Row) (*models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.OwnerID,
		&m.EntryDate,
		&m.Description,
		&m.Debit,
		&m.Credit,
		&m.EntryType,
		&m.Reference,
		&m.CustomerID,
		&m.PartyID,
		&m.LinkedDocumentID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindEntryByID retrieves a single journal entry.
func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, ownerID, entryID string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + ` FROM ledger_entries WHERE owner_id = $1 AND entry_id = $2;`

	m, err := scanLedgerEntry(r.Pool.QueryRow(ctx, query, ownerID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find ledger entry "+entryID, err)
	}

	d := mapping.ToDomainLedgerEntry(*m)
	return &d, nil
}

// FindEntriesByAccount retrieves every entry for the account, oldest first,
// optionally bounded by an as-of date. This feeds the balance fold, so it is
// deliberately unpaginated.
func (r *PgxLedgerRepository) FindEntriesByAccount(ctx context.Context, ownerID string, ref domain.AccountRef, asOf *time.Time) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + ` FROM ledger_entries WHERE owner_id = $1 AND ` + accountFilter(ref, 2)
	args := []interface{}{ownerID, ref.PartyID}

	if asOf != nil {
		query += ` AND entry_date <= $3`
		args = append(args, *asOf)
	}
	query += ` ORDER BY entry_date ASC, created_at ASC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entries for account "+ref.String(), err)
	}
	defer rows.Close()

	entries := []models.LedgerEntry{}
	for rows.Next() {
		m, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger entry row for account "+ref.String(), err)
		}
		entries = append(entries, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger entry rows for account "+ref.String(), err)
	}

	return mapping.ToDomainLedgerEntrySlice(entries), nil
}

// ListEntriesByAccount retrieves a paginated statement for the account using
// token-based pagination, newest first.
func (r *PgxLedgerRepository) ListEntriesByAccount(ctx context.Context, ownerID string, ref domain.AccountRef, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to know whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + ledgerEntryColumns + ` FROM ledger_entries WHERE owner_id = $1 AND ` + accountFilter(ref, 2)
	orderByClause := `ORDER BY entry_date DESC, created_at DESC`
	args := []interface{}{ownerID, ref.PartyID}

	var query string
	if nextToken != nil && *nextToken != "" {
		lastEntryDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastEntryDate, lastCreatedAt)
		query = baseQuery + ` AND (entry_date, created_at) < ($3, $4) ` + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	} else {
		query = baseQuery + ` ` + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	}
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query statement for account "+ref.String(), err)
	}
	defer rows.Close()

	entries := make([]models.LedgerEntry, 0, fetchLimit)
	for rows.Next() {
		m, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger entry row for account "+ref.String(), err)
		}
		entries = append(entries, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating ledger entry rows for account "+ref.String(), err)
	}

	var nextTokenVal *string
	results := entries
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextTokenVal = &token
		results = entries[:limit]
	}

	return mapping.ToDomainLedgerEntrySlice(results), nextTokenVal, nil
}

// AccountBalances derives every account balance of the given kind with a
// single aggregation over the journal. The sign convention matches
// domain.LedgerEntry.SignedAmount: customers grow with debits, parties with
// credits.
func (r *PgxLedgerRepository) AccountBalances(ctx context.Context, ownerID string, kind domain.PartyKind) ([]portsrepo.AccountBalance, error) {
	var query string
	if kind == domain.KindParty {
		query = `
			SELECT party_id, COALESCE(SUM(credit - debit), 0)
			FROM ledger_entries
			WHERE owner_id = $1 AND party_id IS NOT NULL
			GROUP BY party_id;
		`
	} else {
		query = `
			SELECT customer_id, COALESCE(SUM(debit - credit), 0)
			FROM ledger_entries
			WHERE owner_id = $1 AND customer_id IS NOT NULL
			GROUP BY customer_id;
		`
	}

	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate account balances", err)
	}
	defer rows.Close()

	balances := []portsrepo.AccountBalance{}
	for rows.Next() {
		var ab portsrepo.AccountBalance
		var partyID string
		if err := rows.Scan(&partyID, &ab.Balance); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account balance row", err)
		}
		ab.Ref = domain.AccountRef{Kind: kind, PartyID: partyID}
		balances = append(balances, ab)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account balance rows", err)
	}

	return balances, nil
}

const insertLedgerEntryQuery = `
	INSERT INTO ledger_entries (` + ledgerEntryColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
`

func ledgerEntryArgs(m models.LedgerEntry) []interface{} {
	return []interface{}{
		m.EntryID,
		m.OwnerID,
		m.EntryDate,
		m.Description,
		m.Debit,
		m.Credit,
		m.EntryType,
		m.Reference,
		m.CustomerID,
		m.PartyID,
		m.LinkedDocumentID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

// AppendEntry persists a single entry outside any settlement transaction.
// Inserts only; the journal has no update or delete path.
func (r *PgxLedgerRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)
	if _, err := r.Pool.Exec(ctx, insertLedgerEntryQuery, ledgerEntryArgs(m)...); err != nil {
		return apperrors.NewAppError(500, "failed to insert ledger entry "+m.EntryID, err)
	}
	return nil
}

// AppendEntryInTx persists an entry inside the caller's transaction.
func (r *PgxLedgerRepository) AppendEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)
	if _, err := tx.Exec(ctx, insertLedgerEntryQuery, ledgerEntryArgs(m)...); err != nil {
		return apperrors.NewAppError(500, "failed to insert ledger entry "+m.EntryID, err)
	}
	return nil
}
