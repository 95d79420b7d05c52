package memory

import portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"

// NewRepositoryProvider exposes one store through every repository port.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: store,
		JournalRepo: store,
		LedgerRepo:  store,
		Sources:     store,
	}
}
