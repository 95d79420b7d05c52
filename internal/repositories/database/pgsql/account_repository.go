package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/backoffice_ledger/internal/models"
	"github.com/SscSPs/backoffice_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, code, name, account_type, category, parent_account_id, description,
		is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.Code,
		m.Name,
		m.AccountType,
		m.Category,
		m.ParentAccountID,
		m.Description,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if _, ok := uniqueConstraint(err); ok {
			return fmt.Errorf("account code %s: %w", m.Code, apperrors.ErrDuplicate)
		}
		return storeError("save account "+m.AccountID, err)
	}
	return nil
}

// UpdateAccount overwrites the mutable columns. Code and type never change.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET name = $1, category = $2, parent_account_id = $3, description = $4, is_active = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE account_id = $8;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.Name,
		m.Category,
		m.ParentAccountID,
		m.Description,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.AccountID,
	)
	if err != nil {
		return storeError("update account "+m.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + m.AccountID)
	}
	return nil
}

func (r *PgxAccountRepository) findOne(ctx context.Context, where string, arg any, what string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + where + ` LIMIT 1;`
	rows, err := r.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, storeError("query "+what, err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(what)
		}
		return nil, storeError("scan "+what, err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return r.findOne(ctx, "account_id = $1", accountID, "account "+accountID)
}

// FindFirstActiveAccount returns the active account with the lowest code.
func (r *PgxAccountRepository) FindFirstActiveAccount(ctx context.Context) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE is_active ORDER BY code, account_id LIMIT 1;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, storeError("query first active account", err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("active account")
		}
		return nil, storeError("scan first active account", err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// FindAccountsByIDs retrieves the accounts that exist among accountIDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, storeError("query accounts by ids", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, storeError("scan accounts by ids", err)
	}
	for _, m := range ms {
		out[m.AccountID] = mapping.ToDomainAccount(m)
	}
	return out, nil
}

// ListAccounts returns the whole chart of accounts ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY code, account_id;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, storeError("list accounts", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, storeError("scan accounts", err)
	}
	return mapping.ToDomainAccounts(ms), nil
}

// HasPostedLines reports whether any journal line references the account.
func (r *PgxAccountRepository) HasPostedLines(ctx context.Context, accountID string) (bool, error) {
	var used bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM journal_lines WHERE account_id = $1);`, accountID).Scan(&used)
	if err != nil {
		return false, storeError("check account usage", err)
	}
	return used, nil
}
