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

// PgxLedgerRepository answers every balance question from journal_lines.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerReader = (*PgxLedgerRepository)(nil)

// rangeArgs turns an optional range into nullable DATE parameters.
func rangeArgs(rng domain.DateRange) (after, before *time.Time) {
	if rng.After != nil {
		d := domain.CalendarDay(*rng.After)
		after = &d
	}
	if rng.Before != nil {
		d := domain.CalendarDay(*rng.Before)
		before = &d
	}
	return after, before
}

// AccountLedger reads the opening balance and the in-range lines from one snapshot.
func (r *PgxLedgerRepository) AccountLedger(ctx context.Context, accountID string, rng domain.DateRange) (domain.AccountLedgerSnapshot, error) {
	after, before := rangeArgs(rng)
	snap := domain.AccountLedgerSnapshot{OpeningBalance: decimal.Zero, Lines: []domain.PostedLine{}}

	err := r.InSnapshot(ctx, func(tx pgx.Tx) error {
		if after != nil {
			openingQuery := `
				SELECT COALESCE(SUM(l.debit - l.credit), 0)
				FROM journal_lines l
				JOIN journal_entries e ON e.entry_id = l.entry_id
				WHERE l.account_id = $1 AND e.entry_date < $2;
			`
			if err := tx.QueryRow(ctx, openingQuery, accountID, *after).Scan(&snap.OpeningBalance); err != nil {
				return storeError("query opening balance for "+accountID, err)
			}
		}

		linesQuery := `
			SELECT l.line_id, l.entry_id, l.account_id, COALESCE(l.description, ''), l.debit, l.credit, l.seq,
			       e.entry_number, e.entry_date, COALESCE(e.reference, '')
			FROM journal_lines l
			JOIN journal_entries e ON e.entry_id = l.entry_id
			WHERE l.account_id = $1
			  AND ($2::date IS NULL OR e.entry_date >= $2)
			  AND ($3::date IS NULL OR e.entry_date <= $3)
			ORDER BY e.entry_date, l.seq;
		`
		rows, err := tx.Query(ctx, linesQuery, accountID, after, before)
		if err != nil {
			return storeError("query ledger lines for "+accountID, err)
		}
		defer rows.Close()

		for rows.Next() {
			var pl domain.PostedLine
			if err := rows.Scan(
				&pl.LineID,
				&pl.EntryID,
				&pl.AccountID,
				&pl.Description,
				&pl.Debit,
				&pl.Credit,
				&pl.Seq,
				&pl.EntryNumber,
				&pl.EntryDate,
				&pl.EntryReference,
			); err != nil {
				return storeError("scan ledger line", err)
			}
			snap.Lines = append(snap.Lines, pl)
		}
		if err := rows.Err(); err != nil {
			return storeError("iterate ledger lines", err)
		}
		return nil
	})
	if err != nil {
		return domain.AccountLedgerSnapshot{}, err
	}
	return snap, nil
}

// SumByAccount aggregates debit and credit per account for lines inside rng.
func (r *PgxLedgerRepository) SumByAccount(ctx context.Context, rng domain.DateRange) ([]domain.AccountSums, error) {
	after, before := rangeArgs(rng)
	query := `
		SELECT l.account_id, SUM(l.debit), SUM(l.credit)
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE ($1::date IS NULL OR e.entry_date >= $1)
		  AND ($2::date IS NULL OR e.entry_date <= $2)
		GROUP BY l.account_id
		ORDER BY l.account_id;
	`
	rows, err := r.Pool.Query(ctx, query, after, before)
	if err != nil {
		return nil, storeError("query account sums", err)
	}
	defer rows.Close()

	result := []domain.AccountSums{}
	for rows.Next() {
		var s domain.AccountSums
		if err := rows.Scan(&s.AccountID, &s.Debit, &s.Credit); err != nil {
			return nil, storeError("scan account sums", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate account sums", err)
	}
	return result, nil
}
