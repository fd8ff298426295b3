package procurement

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/furniflow/backend/internal/domain/partner"
	"github.com/furniflow/backend/internal/domain/procurement"
	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/furniflow/backend/internal/domain/warehouse"
	"github.com/furniflow/backend/internal/infrastructure/spreadsheet"
)

// SheetStore persists uploaded spreadsheet files
type SheetStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}

// NumberAllocator issues sequential comparison numbers
type NumberAllocator interface {
	NextNumber(ctx context.Context, prefix string) (string, error)
}

// ProcurementService reconciles uploaded supplier spreadsheets against
// the warehouse catalogue
type ProcurementService struct {
	repo         procurement.Repository
	itemRepo     warehouse.ItemRepository
	supplierRepo partner.SupplierRepository
	allocator    NumberAllocator
	matcher      *Matcher
	store        SheetStore
	logger       *zap.Logger
}

// NewProcurementService creates a new ProcurementService
func NewProcurementService(
	repo procurement.Repository,
	itemRepo warehouse.ItemRepository,
	supplierRepo partner.SupplierRepository,
	allocator NumberAllocator,
	matcher *Matcher,
	store SheetStore,
	logger *zap.Logger,
) *ProcurementService {
	return &ProcurementService{
		repo:         repo,
		itemRepo:     itemRepo,
		supplierRepo: supplierRepo,
		allocator:    allocator,
		matcher:      matcher,
		store:        store,
		logger:       logger,
	}
}

// GetByID retrieves a comparison by ID
func (s *ProcurementService) GetByID(ctx context.Context, id uuid.UUID) (*ComparisonResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToComparisonResponse(c)
	return &response, nil
}

// List retrieves comparisons with filtering and pagination
func (s *ProcurementService) List(ctx context.Context, filter ComparisonListFilter) ([]ComparisonResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}

	comparisons, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToComparisonResponses(comparisons), total, nil
}

// Create parses an uploaded spreadsheet, stores the original file and
// opens a comparison over the parsed rows. Rows that fail to parse are
// counted, not fatal.
func (s *ProcurementService) Create(ctx context.Context, supplierID *uuid.UUID, fileName string, data []byte, contentType string) (*ComparisonResponse, error) {
	if supplierID != nil {
		supplier, err := s.supplierRepo.FindByID(ctx, *supplierID)
		if err != nil {
			return nil, err
		}
		if !supplier.IsActive() {
			return nil, shared.NewDomainError("SUPPLIER_INACTIVE", "Supplier is not active")
		}
	}

	parsed, err := spreadsheet.Parse(fileName, bytes.NewReader(data))
	if err != nil {
		return nil, shared.NewDomainError("UNPARSEABLE_SHEET", "Could not parse spreadsheet: "+err.Error())
	}

	rows := make([]procurement.ComparisonItem, 0, len(parsed.Rows))
	for _, row := range parsed.Rows {
		rows = append(rows, procurement.ComparisonItem{
			SKU:       row.SKU,
			Name:      row.Name,
			Quantity:  row.Quantity,
			Unit:      row.Unit,
			UnitPrice: row.Price,
		})
	}

	number, err := s.allocator.NextNumber(ctx, "PC")
	if err != nil {
		return nil, err
	}

	c, err := procurement.NewComparison(number, supplierID, fileName, "", rows, parsed.Skipped)
	if err != nil {
		return nil, err
	}

	objectKey := fmt.Sprintf("procurement/%s/%s", c.ID, fileName)
	if err := s.store.Upload(ctx, objectKey, data, contentType); err != nil {
		return nil, err
	}
	c.ObjectKey = objectKey

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("Created comparison from spreadsheet",
		zap.String("comparison_id", c.ID.String()),
		zap.String("number", c.Number),
		zap.Int("rows", len(rows)),
		zap.Int("skipped", parsed.Skipped),
	)

	response := ToComparisonResponse(c)
	return &response, nil
}

// RunMatching pairs every row with a warehouse item where one plausibly
// exists. The comparison is frozen while matching runs; a completed or
// failed comparison can be re-run and its results are replaced.
func (s *ProcurementService) RunMatching(ctx context.Context, id uuid.UUID) (*ComparisonResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.BeginMatching(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}

	catalog, err := s.itemRepo.FindCatalog(ctx)
	if err != nil {
		_ = c.FailMatching("could not load warehouse catalogue: " + err.Error())
		_ = s.repo.Save(ctx, c)
		return nil, err
	}

	if err := s.matcher.Match(ctx, c, catalog); err != nil {
		_ = c.FailMatching(err.Error())
		_ = s.repo.Save(ctx, c)
		return nil, err
	}

	if err := c.CompleteMatching(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("Completed comparison matching",
		zap.String("comparison_id", c.ID.String()),
		zap.Int("matched", c.MatchedRows),
		zap.Int("unmatched", c.UnmatchedRows),
	)

	response := ToComparisonResponse(c)
	return &response, nil
}

// SetManualMatch overrides one row's pairing with a buyer-picked item
func (s *ProcurementService) SetManualMatch(ctx context.Context, id, rowID uuid.UUID, req ManualMatchRequest) (*ComparisonResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item, err := s.itemRepo.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if err := c.SetManualMatch(rowID, item.ID, item.Quantity); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	response := ToComparisonResponse(c)
	return &response, nil
}

// Delete removes a comparison and its rows
func (s *ProcurementService) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c.Status == procurement.ComparisonStatusMatching {
		return shared.NewDomainError("INVALID_STATE", "Comparison is being matched")
	}
	return s.repo.Delete(ctx, id)
}

// Results builds the reconciliation view: every row with its matched
// warehouse item decorated, plus shortage lines where the sheet carries
// more than the warehouse holds
func (s *ProcurementService) Results(ctx context.Context, id uuid.UUID) (*ResultsResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	catalog, err := s.itemRepo.FindCatalog(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*warehouse.Item, len(catalog))
	for _, item := range catalog {
		byID[item.ID] = item
	}

	result := &ResultsResponse{
		ComparisonID:  c.ID,
		Number:        c.Number,
		Status:        string(c.Status),
		TotalRows:     c.TotalRows,
		SkippedRows:   c.SkippedRows,
		MatchedRows:   c.MatchedRows,
		UnmatchedRows: c.UnmatchedRows,
	}

	for i := range c.Items {
		row := &c.Items[i]
		entry := RowResultResponse{Row: ToComparisonItemResponse(row)}
		if row.MatchedItemID != nil {
			if item, ok := byID[*row.MatchedItemID]; ok {
				entry.MatchedSKU = item.SKU
				entry.MatchedName = item.Name
				onHand := item.Quantity
				entry.OnHand = &onHand
			}
			if row.QuantityDiff != nil && row.QuantityDiff.IsPositive() {
				result.ShortageRows++
			}
		}
		result.Rows = append(result.Rows, entry)
	}

	return result, nil
}
