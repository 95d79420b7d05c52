package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/backoffice_ledger/internal/models"
	"github.com/SscSPs/backoffice_ledger/internal/utils/mapping"
	"github.com/SscSPs/backoffice_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	entryColumns = `entry_id, entry_number, entry_date, reference, description, status, total_debit, total_credit,
		reversal_of_entry_id, reversed_by_entry_id, created_at, created_by, last_updated_at, last_updated_by`
	lineColumns = `line_id, entry_id, account_id, description, debit, credit, seq`

	entryNumberConstraint = "journal_entries_entry_number_key"
	foreignKeyViolation   = "23503"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and lines.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// SaveJournalEntry inserts the header and all lines in one transaction. For a
// reversal the original is locked, checked and flagged in the same transaction.
func (r *PgxJournalRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	// Will be ignored if transaction is committed successfully
	defer r.Rollback(ctx, tx)

	if entry.ReversalOfEntryID != "" {
		var status string
		err := tx.QueryRow(ctx, `SELECT status FROM journal_entries WHERE entry_id = $1 FOR UPDATE;`, entry.ReversalOfEntryID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFoundError("journal entry " + entry.ReversalOfEntryID)
			}
			return nil, storeError("lock original entry", err)
		}
		if domain.JournalStatus(status) == domain.Reversed {
			return nil, fmt.Errorf("journal entry %s already reversed: %w", entry.ReversalOfEntryID, apperrors.ErrDuplicate)
		}
	}

	m := mapping.ToModelJournalEntry(entry)
	headerQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, headerQuery,
		m.EntryID,
		m.EntryNumber,
		m.EntryDate,
		m.Reference,
		m.Description,
		m.Status,
		m.TotalDebit,
		m.TotalCredit,
		m.ReversalOfEntryID,
		m.ReversedByEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if constraint, ok := uniqueConstraint(err); ok {
			if constraint == entryNumberConstraint {
				return nil, apperrors.NewConflictError("entry number " + m.EntryNumber)
			}
			return nil, fmt.Errorf("journal entry %s: %w", m.EntryID, apperrors.ErrDuplicate)
		}
		return nil, storeError("insert journal entry "+m.EntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (line_id, entry_id, account_id, description, debit, credit)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING seq;
	`
	for _, l := range entry.Lines {
		ml := mapping.ToModelJournalLine(l)
		batch.Queue(lineQuery, ml.LineID, m.EntryID, ml.AccountID, ml.Description, ml.Debit, ml.Credit)
	}
	br := tx.SendBatch(ctx, batch)
	saved := entry
	saved.Lines = make([]domain.JournalLine, len(entry.Lines))
	for i, l := range entry.Lines {
		if err := br.QueryRow().Scan(&l.Seq); err != nil {
			_ = br.Close()
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
				return nil, apperrors.NewNotFoundError("account " + l.AccountID)
			}
			return nil, storeError("insert journal lines for "+m.EntryID, err)
		}
		l.EntryID = m.EntryID
		saved.Lines[i] = l
	}
	// Important: Close the batch results before issuing further statements
	if err := br.Close(); err != nil {
		return nil, storeError("insert journal lines for "+m.EntryID, err)
	}

	if entry.ReversalOfEntryID != "" {
		_, err := tx.Exec(ctx, `
			UPDATE journal_entries
			SET status = $1, reversed_by_entry_id = $2, last_updated_at = $3, last_updated_by = $4
			WHERE entry_id = $5;
		`, string(domain.Reversed), m.EntryID, m.CreatedAt, m.CreatedBy, entry.ReversalOfEntryID)
		if err != nil {
			return nil, storeError("mark entry "+entry.ReversalOfEntryID+" reversed", err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &saved, nil
}

// FindJournalEntryByID retrieves an entry together with its lines in seq order.
func (r *PgxJournalRepository) FindJournalEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE entry_id = $1;`, entryID)
	if err != nil {
		return nil, storeError("query journal entry "+entryID, err)
	}
	header, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("journal entry " + entryID)
		}
		return nil, storeError("scan journal entry "+entryID, err)
	}

	lines, err := r.linesByEntryIDs(ctx, []string{entryID})
	if err != nil {
		return nil, err
	}
	entry := mapping.ToDomainJournalEntry(header, lines[entryID])
	return &entry, nil
}

// ListJournalEntries returns entries newest first using token-based pagination.
func (r *PgxJournalRepository) ListJournalEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	var (
		rows pgx.Rows
		err  error
	)
	// Fetch one extra row to know whether another page exists.
	if nextToken != nil && *nextToken != "" {
		cursor, derr := pagination.DecodeToken(*nextToken)
		if derr != nil {
			return nil, nil, apperrors.NewValidationError(derr.Error())
		}
		rows, err = r.Pool.Query(ctx, `
			SELECT `+entryColumns+`
			FROM journal_entries
			WHERE (entry_date, created_at, entry_id) < ($1, $2, $3)
			ORDER BY entry_date DESC, created_at DESC, entry_id DESC
			LIMIT $4;
		`, cursor.EntryDate, cursor.CreatedAt, cursor.EntryID, limit+1)
	} else {
		rows, err = r.Pool.Query(ctx, `
			SELECT `+entryColumns+`
			FROM journal_entries
			ORDER BY entry_date DESC, created_at DESC, entry_id DESC
			LIMIT $1;
		`, limit+1)
	}
	if err != nil {
		return nil, nil, storeError("list journal entries", err)
	}
	headers, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, nil, storeError("scan journal entries", err)
	}

	var next *string
	if len(headers) > limit {
		headers = headers[:limit]
		last := headers[len(headers)-1]
		token := pagination.EncodeToken(pagination.Cursor{EntryDate: last.EntryDate, CreatedAt: last.CreatedAt, EntryID: last.EntryID})
		next = &token
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.EntryID
	}
	lines, err := r.linesByEntryIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]domain.JournalEntry, len(headers))
	for i, h := range headers {
		entries[i] = mapping.ToDomainJournalEntry(h, lines[h.EntryID])
	}
	return entries, next, nil
}

func (r *PgxJournalRepository) linesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]models.JournalLine, error) {
	out := make(map[string][]models.JournalLine, len(entryIDs))
	if len(entryIDs) == 0 {
		return out, nil
	}
	rows, err := r.Pool.Query(ctx, `SELECT `+lineColumns+` FROM journal_lines WHERE entry_id = ANY($1) ORDER BY seq;`, entryIDs)
	if err != nil {
		return nil, storeError("query journal lines", err)
	}
	lines, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalLine])
	if err != nil {
		return nil, storeError("scan journal lines", err)
	}
	for _, l := range lines {
		out[l.EntryID] = append(out[l.EntryID], l)
	}
	return out, nil
}

// UpdateJournalEntryText changes reference and/or description only.
func (r *PgxJournalRepository) UpdateJournalEntryText(ctx context.Context, entryID string, reference, description *string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET reference = COALESCE($1, reference),
		    description = COALESCE($2, description),
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE entry_id = $5;
	`
	tag, err := r.Pool.Exec(ctx, query, reference, description, updatedAt, updatedBy, entryID)
	if err != nil {
		return storeError("update journal entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal entry " + entryID)
	}
	return nil
}
