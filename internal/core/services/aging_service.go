package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/utils/accounting"
)

type agingService struct {
	BaseService
	documents portsrepo.OpenDocumentSource
	parties   portsrepo.PartyDirectory
}

// NewAgingService creates the receivable/payable aging engine.
func NewAgingService(documents portsrepo.OpenDocumentSource, parties portsrepo.PartyDirectory, opts ...ServiceOption) portssvc.AgingService {
	svc := &agingService{documents: documents, parties: parties}
	svc.apply(opts)
	return svc
}

var _ portssvc.AgingService = (*agingService)(nil)

func (s *agingService) GetAgingSummary(ctx context.Context, asOf *time.Time, direction domain.AgingDirection) (*domain.AgingSummary, error) {
	day, dir, items, err := s.age(ctx, asOf, direction)
	if err != nil {
		return nil, err
	}
	buckets, total := accounting.SummarizeAging(items)
	return &domain.AgingSummary{AsOf: day, Direction: dir, Buckets: buckets, Total: total}, nil
}

func (s *agingService) GetAgingDetails(ctx context.Context, asOf *time.Time, direction domain.AgingDirection) (*domain.AgingDetails, error) {
	day, dir, items, err := s.age(ctx, asOf, direction)
	if err != nil {
		return nil, err
	}
	_, total := accounting.SummarizeAging(items)
	return &domain.AgingDetails{AsOf: day, Direction: dir, Items: items, Total: total}, nil
}

// age resolves the defaults (today, payable) and buckets the open documents.
func (s *agingService) age(ctx context.Context, asOf *time.Time, direction domain.AgingDirection) (time.Time, domain.AgingDirection, []domain.AgingItem, error) {
	day := s.Today()
	if asOf != nil {
		day = domain.CalendarDay(*asOf)
	}
	if direction == "" {
		direction = domain.AgingPayable
	}
	if !direction.Valid() {
		return day, direction, nil, apperrors.NewValidationError(fmt.Sprintf("unknown aging direction %q", direction))
	}

	docs, err := s.documents.ListOpenDocuments(ctx, direction)
	if err != nil {
		s.LogError(ctx, err, "Failed to list open documents", slog.String("direction", string(direction)))
		return day, direction, nil, fmt.Errorf("failed to list open documents: %w", err)
	}

	partyIDs := make([]string, 0, len(docs))
	seen := make(map[string]bool, len(docs))
	for _, d := range docs {
		if d.PartyID != "" && !seen[d.PartyID] {
			seen[d.PartyID] = true
			partyIDs = append(partyIDs, d.PartyID)
		}
	}
	parties := map[string]domain.Party{}
	if s.parties != nil && len(partyIDs) > 0 {
		parties, err = s.parties.FindPartiesByIDs(ctx, partyIDs)
		if err != nil {
			s.LogError(ctx, err, "Failed to resolve party names")
			return day, direction, nil, fmt.Errorf("failed to resolve parties: %w", err)
		}
	}

	items := accounting.AgeDocuments(day, docs, parties)
	s.LogDebug(ctx, "Aged open documents",
		slog.String("direction", string(direction)),
		slog.Int("document_count", len(docs)),
		slog.Int("open_count", len(items)))
	return day, direction, items, nil
}
