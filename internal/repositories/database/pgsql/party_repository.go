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
	"github.com/shopspring/decimal"
)

const customerColumns = `customer_id, owner_id, name, phone, email, address, credit_limit, is_active, created_at, created_by, last_updated_at, last_updated_by`
const partyColumns = `party_id, owner_id, name, phone, email, address, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxCustomerRepository struct {
	BaseRepository
}

// newPgxCustomerRepository creates a new repository for customer data.
func newPgxCustomerRepository(pool *pgxpool.Pool) portsrepo.CustomerRepositoryFacade {
	return &PgxCustomerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxCustomerRepository implements portsrepo.CustomerRepositoryFacade
var _ portsrepo.CustomerRepositoryFacade = (*PgxCustomerRepository)(nil)

func scanCustomer(row pgx.Row) (*models.Customer, error) {
	var m models.Customer
	err := row.Scan(
		&m.CustomerID,
		&m.OwnerID,
		&m.Name,
		&m.Phone,
		&m.Email,
		&m.Address,
		&m.CreditLimit,
		&m.IsActive,
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

// CreateCustomer inserts a new customer.
func (r *PgxCustomerRepository) CreateCustomer(ctx context.Context, customer domain.Customer) error {
	m := mapping.ToModelCustomer(customer)
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CustomerID,
		m.OwnerID,
		m.Name,
		m.Phone,
		m.Email,
		m.Address,
		m.CreditLimit,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert customer "+m.CustomerID, err)
	}
	return nil
}

// FindCustomerByID retrieves a single customer.
func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, ownerID, customerID string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE owner_id = $1 AND customer_id = $2;`

	m, err := scanCustomer(r.Pool.QueryRow(ctx, query, ownerID, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find customer "+customerID, err)
	}

	d := mapping.ToDomainCustomer(*m)
	return &d, nil
}

// ListCustomers retrieves a paginated list of customers, newest first.
func (r *PgxCustomerRepository) ListCustomers(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Customer, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + customerColumns + ` FROM customers WHERE owner_id = $1`
	orderByClause := `ORDER BY created_at DESC`
	args := []interface{}{ownerID}

	var query string
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, decodeErr := pagination.DecodeDateBasedToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt)
		query = baseQuery + ` AND created_at < $2 ` + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	} else {
		query = baseQuery + ` ` + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	}
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query customers", err)
	}
	defer rows.Close()

	customers := make([]models.Customer, 0, fetchLimit)
	for rows.Next() {
		m, err := scanCustomer(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan customer row", err)
		}
		customers = append(customers, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating customer rows", err)
	}

	var nextTokenVal *string
	results := customers
	if len(customers) > limit {
		token := pagination.EncodeDateBasedToken(customers[limit-1].CreatedAt)
		nextTokenVal = &token
		results = customers[:limit]
	}

	domainCustomers := make([]domain.Customer, len(results))
	for i, m := range results {
		domainCustomers[i] = mapping.ToDomainCustomer(m)
	}
	return domainCustomers, nextTokenVal, nil
}

// UpdateCustomer updates customer contact fields.
func (r *PgxCustomerRepository) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	m := mapping.ToModelCustomer(customer)
	query := `
		UPDATE customers
		SET name = $3,
		    phone = $4,
		    email = $5,
		    address = $6,
		    is_active = $7,
		    last_updated_at = $8,
		    last_updated_by = $9
		WHERE owner_id = $1 AND customer_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.OwnerID,
		m.CustomerID,
		m.Name,
		m.Phone,
		m.Email,
		m.Address,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update customer "+m.CustomerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateCreditLimit changes only the credit limit column. The accompanying
// audit entry is appended by the credit service.
func (r *PgxCustomerRepository) UpdateCreditLimit(ctx context.Context, ownerID, customerID string, limit decimal.Decimal, userID string, at time.Time) error {
	query := `
		UPDATE customers
		SET credit_limit = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE owner_id = $1 AND customer_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, ownerID, customerID, limit, at, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update credit limit for customer "+customerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

type PgxPartyRepository struct {
	BaseRepository
}

// newPgxPartyRepository creates a new repository for party (supplier) data.
func newPgxPartyRepository(pool *pgxpool.Pool) portsrepo.PartyRepositoryFacade {
	return &PgxPartyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxPartyRepository implements portsrepo.PartyRepositoryFacade
var _ portsrepo.PartyRepositoryFacade = (*PgxPartyRepository)(nil)

func scanParty(row pgx.Row) (*models.Party, error) {
	var m models.Party
	err := row.Scan(
		&m.PartyID,
		&m.OwnerID,
		&m.Name,
		&m.Phone,
		&m.Email,
		&m.Address,
		&m.IsActive,
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

// CreateParty inserts a new party.
func (r *PgxPartyRepository) CreateParty(ctx context.Context, party domain.Party) error {
	m := mapping.ToModelParty(party)
	query := `
		INSERT INTO parties (` + partyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PartyID,
		m.OwnerID,
		m.Name,
		m.Phone,
		m.Email,
		m.Address,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert party "+m.PartyID, err)
	}
	return nil
}

// FindPartyByID retrieves a single party.
func (r *PgxPartyRepository) FindPartyByID(ctx context.Context, ownerID, partyID string) (*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE owner_id = $1 AND party_id = $2;`

	m, err := scanParty(r.Pool.QueryRow(ctx, query, ownerID, partyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find party "+partyID, err)
	}

	d := mapping.ToDomainParty(*m)
	return &d, nil
}

// ListParties retrieves a paginated list of parties, newest first.
func (r *PgxPartyRepository) ListParties(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Party, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + partyColumns + ` FROM parties WHERE owner_id = $1`
	orderByClause := `ORDER BY created_at DESC`
	args := []interface{}{ownerID}

	var query string
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, decodeErr := pagination.DecodeDateBasedToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt)
		query = baseQuery + ` AND created_at < $2 ` + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	} else {
		query = baseQuery + ` ` + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	}
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query parties", err)
	}
	defer rows.Close()

	parties := make([]models.Party, 0, fetchLimit)
	for rows.Next() {
		m, err := scanParty(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan party row", err)
		}
		parties = append(parties, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating party rows", err)
	}

	var nextTokenVal *string
	results := parties
	if len(parties) > limit {
		token := pagination.EncodeDateBasedToken(parties[limit-1].CreatedAt)
		nextTokenVal = &token
		results = parties[:limit]
	}

	domainParties := make([]domain.Party, len(results))
	for i, m := range results {
		domainParties[i] = mapping.ToDomainParty(m)
	}
	return domainParties, nextTokenVal, nil
}

// UpdateParty updates party contact fields.
func (r *PgxPartyRepository) UpdateParty(ctx context.Context, party domain.Party) error {
	m := mapping.ToModelParty(party)
	query := `
		UPDATE parties
		SET name = $3,
		    phone = $4,
		    email = $5,
		    address = $6,
		    is_active = $7,
		    last_updated_at = $8,
		    last_updated_by = $9
		WHERE owner_id = $1 AND party_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.OwnerID,
		m.PartyID,
		m.Name,
		m.Phone,
		m.Email,
		m.Address,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update party "+m.PartyID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
