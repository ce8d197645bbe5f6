package catalog

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/galerie-com/move/internal/domain"
	"github.com/galerie-com/move/internal/usecase/metadata"
	"github.com/galerie-com/move/internal/usecase/supply"
	"github.com/galerie-com/move/pkg/metrics"
)

// Entry is one catalog row: a parsed sale joined with its resolved
// descriptive metadata and the derived per-unit price.
type Entry struct {
	Sale         *domain.Sale
	Metadata     domain.AssetMetadata
	MetadataPath metadata.Path
	PricePerUnit uint64
}

// Detail extends an Entry with the supply figure and the digests of
// recent purchase transactions attributed to the sale.
type Detail struct {
	Entry
	Supply          supply.Figure
	RecentPurchases []domain.Digest
}

const (
	// DefaultEventLimit bounds the sale-started event scan; sales whose
	// creation event fell out of the window are not discovered.
	DefaultEventLimit = 100

	// DefaultFanOut bounds concurrent metadata resolutions during a
	// catalog build.
	DefaultFanOut = 8

	// buyModule and buyFunction name the purchase entry point whose
	// transactions back the recent-purchases listing.
	buyModule   = "template"
	buyFunction = "buy"
)

// Service assembles the sale catalog from the event stream.
//
// There is no on-ledger registry of active sales; discovery is
// event-driven. Creation events carry the sale object id, the records
// are bulk-fetched, and metadata resolution fans out concurrently since
// each resolution may cost several round trips.
type Service struct {
	Objects  domain.ObjectReader
	Events   domain.EventReader
	Txs      domain.TransactionReader
	Resolver *metadata.Resolver
	Supply   *supply.Calculator
	Metrics  *metrics.ReconcilerMetrics

	// SaleStartedEventType is the full event type tag emitted when a
	// sale is created; its payload carries the sale object id.
	SaleStartedEventType string

	// TemplatePackage is the sale template package id, used to query
	// purchase transactions by entry point.
	TemplatePackage string

	// EventLimit bounds both the discovery scan and the recent-purchase
	// query.
	EventLimit int

	// FanOut bounds concurrent metadata resolutions.
	FanOut int
}

// NewService creates a new Service instance.
func NewService(
	objects domain.ObjectReader,
	events domain.EventReader,
	txs domain.TransactionReader,
	resolver *metadata.Resolver,
	supplyCalc *supply.Calculator,
	m *metrics.ReconcilerMetrics,
	saleStartedEventType string,
	templatePackage string,
) *Service {
	return &Service{
		Objects:              objects,
		Events:               events,
		Txs:                  txs,
		Resolver:             resolver,
		Supply:               supplyCalc,
		Metrics:              m,
		SaleStartedEventType: saleStartedEventType,
		TemplatePackage:      templatePackage,
		EventLimit:           DefaultEventLimit,
		FanOut:               DefaultFanOut,
	}
}

// List builds the current sale catalog.
// Logic:
//   - Query creation events and collect sale ids, deduplicated in
//     first-occurrence order. Duplicates appear when a record is
//     re-announced after mutation.
//   - Bulk-fetch the records and parse each into a sale; records that
//     vanished or match no known shape are skipped.
//   - Resolve metadata concurrently; a failed resolution degrades the
//     entry to placeholder metadata, never drops it.
//
// Only the event query and the bulk read can fail the build. Catalog
// order follows event order, so re-listing without ledger writes is
// stable.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	start := time.Now()

	ids, err := s.discoverSaleIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Entry{}, nil
	}

	records, err := s.Objects.MultiGetObjects(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sale records: %w", err)
	}

	sales := make([]*domain.Sale, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		sale, err := domain.ParseSale(rec)
		if err != nil {
			continue
		}
		sales = append(sales, sale)
	}

	entries := make([]Entry, len(sales))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanOut())
	for i, sale := range sales {
		i, sale := i, sale
		g.Go(func() error {
			res := s.Resolver.Resolve(gctx, sale)
			s.Metrics.ObserveMetadataPath(string(res.Path))
			entries[i] = Entry{
				Sale:         sale,
				Metadata:     res.OrPlaceholder(),
				MetadataPath: res.Path,
				PricePerUnit: domain.PricePerUnit(sale.TotalPrice, sale.TotalUnits),
			}
			return nil
		})
	}
	// Resolution never errors; Wait only observes context cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.Metrics.ObserveCatalogBuild(time.Since(start))
	return entries, nil
}

// Detail fetches one sale by id and joins it with metadata, the supply
// figure and recent purchase digests.
// Returns domain.ErrNotFound when no such record exists.
func (s *Service) Detail(ctx context.Context, id domain.ObjectID) (*Detail, error) {
	rec, err := s.Objects.GetObject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sale %s: %w", id, err)
	}
	sale, err := domain.ParseSale(rec)
	if err != nil {
		return nil, err
	}

	res := s.Resolver.Resolve(ctx, sale)
	s.Metrics.ObserveMetadataPath(string(res.Path))

	fig := s.Supply.Circulating(ctx, sale)
	s.Metrics.ObserveSupplySource(string(fig.Source))

	return &Detail{
		Entry: Entry{
			Sale:         sale,
			Metadata:     res.OrPlaceholder(),
			MetadataPath: res.Path,
			PricePerUnit: domain.PricePerUnit(sale.TotalPrice, sale.TotalUnits),
		},
		Supply:          fig,
		RecentPurchases: s.recentPurchases(ctx, sale),
	}, nil
}

// discoverSaleIDs queries creation events and returns the referenced
// sale ids, deduplicated in first-occurrence order.
func (s *Service) discoverSaleIDs(ctx context.Context) ([]domain.ObjectID, error) {
	events, err := s.Events.QueryEvents(ctx, s.SaleStartedEventType, s.eventLimit())
	if err != nil {
		return nil, fmt.Errorf("failed to query sale creation events: %w", err)
	}

	seen := make(map[domain.ObjectID]struct{}, len(events))
	ids := make([]domain.ObjectID, 0, len(events))
	for _, ev := range events {
		// The id field was renamed between template versions.
		raw, ok := domain.FieldString(ev.ParsedJSON, "$.sale_id", "$.object_id")
		if !ok {
			continue
		}
		id := domain.ObjectID(raw)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// recentPurchases lists digests of purchase-entry-point transactions
// that touched this sale or its authority. Best-effort: a failed query
// yields an empty list.
func (s *Service) recentPurchases(ctx context.Context, sale *domain.Sale) []domain.Digest {
	if s.TemplatePackage == "" {
		return nil
	}
	history, err := s.Txs.QueryTransactionsByEntryPoint(ctx, s.TemplatePackage, buyModule, buyFunction, s.eventLimit())
	if err != nil {
		return nil
	}
	var digests []domain.Digest
	for i := range history {
		fx := &history[i]
		if fx.Touched(sale.ID) || fx.Touched(sale.AuthorityID) {
			digests = append(digests, fx.Digest)
		}
	}
	return digests
}

func (s *Service) eventLimit() int {
	if s.EventLimit <= 0 {
		return DefaultEventLimit
	}
	return s.EventLimit
}

func (s *Service) fanOut() int {
	if s.FanOut <= 0 {
		return DefaultFanOut
	}
	return s.FanOut
}
