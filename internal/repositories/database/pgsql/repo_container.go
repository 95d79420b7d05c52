package pgsql

import (
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)
	sourcesRepo := newPgxSourcesRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo: accountRepo,
		JournalRepo: journalRepo,
		LedgerRepo:  ledgerRepo,
		Sources:     sourcesRepo,
	}
}
