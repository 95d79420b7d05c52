package repositories

import "context"

// ReportCache memoises derived report payloads and drops them when the ledger changes.
type ReportCache interface {
	// Fetch fills dest from the cache or from loader. When loader fails but a
	// last-known-good payload exists, dest receives it and stale is true.
	Fetch(ctx context.Context, dest any, loader func(context.Context) (any, error), keyParts ...string) (stale bool, err error)

	// Bump invalidates every cached report.
	Bump(ctx context.Context) error
}
