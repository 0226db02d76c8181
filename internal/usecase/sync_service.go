package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/shopmind/backend/internal/domain"
)

// Default batch sizes for the ingestion run
const (
	defaultPageSize  = 50  // catalog items requested per storefront page
	defaultBatchSize = 100 // records buffered per vector upsert
)

// SyncConfig holds configuration for the ingestion pipeline
type SyncConfig struct {
	StoreDomain string
	PageSize    int
	BatchSize   int
}

// SyncService pages through the full product catalog, transforms each item
// into an indexable record, and upserts the records into the vector index in
// batches. Re-running overwrites the same keys, so the pipeline is idempotent;
// stale records persist until the next run overwrites them.
type SyncService struct {
	storefront  domain.StorefrontClient
	index       domain.VectorIndex
	storeDomain string
	pageSize    int
	batchSize   int
}

// NewSyncService creates a new ingestion pipeline with the given dependencies
func NewSyncService(storefront domain.StorefrontClient, index domain.VectorIndex, config SyncConfig) *SyncService {
	pageSize := config.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &SyncService{
		storefront:  storefront,
		index:       index,
		storeDomain: config.StoreDomain,
		pageSize:    pageSize,
		batchSize:   batchSize,
	}
}

// Sync runs one full ingestion pass. A page-fetch failure aborts the run; a
// per-item transform failure only increments the error counter so a single
// malformed catalog item never aborts ingestion of the rest.
func (s *SyncService) Sync(ctx context.Context) (*domain.SyncReport, error) {
	report := &domain.SyncReport{}
	batch := make([]domain.IndexedRecord, 0, s.batchSize)
	cursor := ""

	for {
		page, err := s.storefront.FetchCatalogPage(ctx, cursor, s.pageSize)
		if err != nil {
			return nil, fmt.Errorf("catalog page fetch failed: %w", err)
		}

		report.Fetched += len(page.Items)
		if len(page.Items) == 0 {
			break
		}

		for i := range page.Items {
			record, err := s.buildRecord(&page.Items[i])
			if err != nil {
				log.Printf("[SYNC] Skipping item %q: %v", page.Items[i].ID, err)
				report.Errors++
				continue
			}

			batch = append(batch, *record)
			if len(batch) >= s.batchSize {
				s.flush(ctx, batch, report)
				batch = batch[:0]
			}
		}

		if !page.HasNextPage {
			break
		}
		cursor = page.EndCursor
	}

	if len(batch) > 0 {
		s.flush(ctx, batch, report)
	}

	s.probeIndex(ctx)

	log.Printf("[SYNC] Sync complete. Fetched: %d, Processed: %d, Errors: %d",
		report.Fetched, report.Processed, report.Errors)
	return report, nil
}

// buildRecord transforms one catalog item into an indexable record, enforcing
// the invariant that only metadata satisfying the validator is ever produced.
func (s *SyncService) buildRecord(item *domain.CatalogItem) (*domain.IndexedRecord, error) {
	if item.ID == "" || item.Handle == "" || item.Title == "" {
		return nil, fmt.Errorf("missing id, handle, or title")
	}

	var imageURL *string
	if item.ImageURL != "" {
		imageURL = &item.ImageURL
	}
	var vendor *string
	if item.Vendor != "" {
		vendor = &item.Vendor
	}
	var productType *string
	if item.ProductType != "" {
		productType = &item.ProductType
	}

	metadata := domain.ProductMetadata{
		ID:          item.ID,
		Handle:      item.Handle,
		Title:       item.Title,
		Price:       formatPrice(item.PriceRange),
		ImageURL:    imageURL,
		ProductURL:  productURL(item, s.storeDomain),
		VariantID:   chooseVariantID(item),
		Vendor:      vendor,
		ProductType: productType,
		Tags:        strings.Join(item.Tags, ","),
	}

	// Validate the serialized form exactly as retrieval will see it
	if err := checkMetadata(metadata); err != nil {
		return nil, err
	}

	return &domain.IndexedRecord{
		Key:      recordKey(item.ID),
		Document: buildDocument(item),
		Metadata: metadata,
	}, nil
}

// flush upserts one buffered batch. Failed batches count every contained
// record as an error and the run continues with the next batch.
func (s *SyncService) flush(ctx context.Context, batch []domain.IndexedRecord, report *domain.SyncReport) {
	if err := s.index.Upsert(ctx, batch); err != nil {
		log.Printf("[SYNC] Batch upsert of %d records failed: %v", len(batch), err)
		report.Errors += len(batch)
		return
	}
	report.Processed += len(batch)
}

// probeIndex issues a throwaway query after a run so operators can see from
// the logs whether the index answers at all. Never fatal.
func (s *SyncService) probeIndex(ctx context.Context) {
	matches, err := s.index.Query(ctx, "test", 1, false)
	if err != nil {
		log.Printf("[SYNC] Index probe query failed: %v", err)
		return
	}
	log.Printf("[SYNC] Index contains products: %v", len(matches) > 0)
}

// checkMetadata round-trips built metadata through its wire form and runs the
// validator, so the pipeline can never persist a record retrieval would reject.
func checkMetadata(metadata domain.ProductMetadata) error {
	payload, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("metadata marshal failed: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return fmt.Errorf("metadata unmarshal failed: %w", err)
	}
	if _, err := ValidateProductMetadata(raw); err != nil {
		return err
	}
	return nil
}
