package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxSourcesRepository reads the invoicing and banking feeds used by reports.
// The ledger never writes these tables.
type PgxSourcesRepository struct {
	BaseRepository
}

func newPgxSourcesRepository(pool *pgxpool.Pool) *PgxSourcesRepository {
	return &PgxSourcesRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingSourcesFacade = (*PgxSourcesRepository)(nil)

type openDocumentRow struct {
	DocumentID     string          `db:"document_id"`
	DocumentNumber string          `db:"document_number"`
	PartyID        *string         `db:"party_id"`
	IssueDate      time.Time       `db:"issue_date"`
	DueDate        *time.Time      `db:"due_date"`
	Amount         decimal.Decimal `db:"amount"`
	Applied        decimal.Decimal `db:"applied"`
}

func (r *PgxSourcesRepository) FindPartiesByIDs(ctx context.Context, partyIDs []string) (map[string]domain.Party, error) {
	out := make(map[string]domain.Party, len(partyIDs))
	if len(partyIDs) == 0 {
		return out, nil
	}
	rows, err := r.Pool.Query(ctx, `SELECT party_id, name FROM parties WHERE party_id = ANY($1);`, partyIDs)
	if err != nil {
		return nil, storeError("query parties", err)
	}
	parties, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Party, error) {
		var p domain.Party
		err := row.Scan(&p.PartyID, &p.Name)
		return p, err
	})
	if err != nil {
		return nil, storeError("scan parties", err)
	}
	for _, p := range parties {
		out[p.PartyID] = p
	}
	return out, nil
}

// ListOpenDocuments returns documents of one direction that still carry an open amount.
func (r *PgxSourcesRepository) ListOpenDocuments(ctx context.Context, direction domain.AgingDirection) ([]domain.OpenDocument, error) {
	query := `
		SELECT document_id, document_number, party_id, issue_date, due_date, amount, applied
		FROM open_documents
		WHERE direction = $1 AND amount > applied
		ORDER BY due_date NULLS LAST, document_number;
	`
	rows, err := r.Pool.Query(ctx, query, string(direction))
	if err != nil {
		return nil, storeError("query open documents", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[openDocumentRow])
	if err != nil {
		return nil, storeError("scan open documents", err)
	}
	docs := make([]domain.OpenDocument, len(ms))
	for i, m := range ms {
		docs[i] = domain.OpenDocument{
			DocumentID:     m.DocumentID,
			DocumentNumber: m.DocumentNumber,
			IssueDate:      m.IssueDate,
			DueDate:        m.DueDate,
			Amount:         m.Amount,
			Applied:        m.Applied,
		}
		if m.PartyID != nil {
			docs[i].PartyID = *m.PartyID
		}
	}
	return docs, nil
}

func (r *PgxSourcesRepository) ListPaymentAccountBalances(ctx context.Context) ([]domain.PaymentAccountBalance, error) {
	rows, err := r.Pool.Query(ctx, `SELECT payment_account_id, name, balance FROM payment_accounts ORDER BY name;`)
	if err != nil {
		return nil, storeError("query payment accounts", err)
	}
	balances, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PaymentAccountBalance, error) {
		var b domain.PaymentAccountBalance
		err := row.Scan(&b.PaymentAccountID, &b.Name, &b.Balance)
		return b, err
	})
	if err != nil {
		return nil, storeError("scan payment accounts", err)
	}
	return balances, nil
}

func (r *PgxSourcesRepository) DailyInflows(ctx context.Context, after, before time.Time) ([]domain.DailyAmount, error) {
	return r.daily(ctx, "invoice_payments", "paid_on", after, before)
}

func (r *PgxSourcesRepository) DailyOutflows(ctx context.Context, after, before time.Time) ([]domain.DailyAmount, error) {
	return r.daily(ctx, "expenses", "spent_on", after, before)
}

// daily groups a feed table by its day column. table and column are constants.
func (r *PgxSourcesRepository) daily(ctx context.Context, table, column string, after, before time.Time) ([]domain.DailyAmount, error) {
	query := `
		SELECT ` + column + `, SUM(amount)
		FROM ` + table + `
		WHERE ` + column + ` BETWEEN $1 AND $2
		GROUP BY ` + column + `
		ORDER BY ` + column + `;
	`
	rows, err := r.Pool.Query(ctx, query, domain.CalendarDay(after), domain.CalendarDay(before))
	if err != nil {
		return nil, storeError("query "+table, err)
	}
	amounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DailyAmount, error) {
		var a domain.DailyAmount
		err := row.Scan(&a.Date, &a.Amount)
		return a, err
	})
	if err != nil {
		return nil, storeError("scan "+table, err)
	}
	return amounts, nil
}
