package services

import (
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/platform/config"
)

// NewServiceContainer wires every service against the given repositories.
// Shared options (clock, report cache) apply to all of them.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, opts ...ServiceOption) *portssvc.ServiceContainer {
	journalOpts := []JournalServiceOption{WithJournalBase(opts...)}
	if cfg != nil {
		journalOpts = append(journalOpts,
			WithEntryNumberPrefix(cfg.EntryNumberPrefix),
			WithEntryNumberAttempts(cfg.EntryNumberMaxAttempts),
		)
	}

	return &portssvc.ServiceContainer{
		Account:   NewAccountService(repos.AccountRepo, opts...),
		Journal:   NewJournalService(repos.JournalRepo, repos.AccountRepo, journalOpts...),
		Ledger:    NewLedgerService(repos.AccountRepo, repos.LedgerRepo, opts...),
		Reporting: NewReportingService(repos.AccountRepo, repos.LedgerRepo, repos.Sources, repos.Sources, opts...),
		Aging:     NewAgingService(repos.Sources, repos.Sources, opts...),
	}
}
