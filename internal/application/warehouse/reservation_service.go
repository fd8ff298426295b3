package warehouse

import (
	"context"

	"github.com/google/uuid"

	"github.com/furniflow/backend/internal/domain/shared"
	"github.com/furniflow/backend/internal/domain/warehouse"
)

// ReservationService manages stock holds. A reservation keeps the item's
// reserved amount in step with its own lifecycle: creating it reserves
// stock, releasing consumes the reserved stock and writes a ledger entry,
// cancelling returns the stock to the available pool.
type ReservationService struct {
	itemRepo        warehouse.ItemRepository
	reservationRepo warehouse.ReservationRepository
	eventPublisher  shared.EventPublisher
}

// NewReservationService creates a new ReservationService
func NewReservationService(
	itemRepo warehouse.ItemRepository,
	reservationRepo warehouse.ReservationRepository,
) *ReservationService {
	return &ReservationService{
		itemRepo:        itemRepo,
		reservationRepo: reservationRepo,
	}
}

// SetEventPublisher wires the publisher for domain events
func (s *ReservationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ReservationService) publishDomainEvents(ctx context.Context, r *warehouse.Reservation) {
	if s.eventPublisher == nil {
		return
	}
	events := r.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	r.ClearDomainEvents()
}

// GetByID retrieves a reservation by ID
func (s *ReservationService) GetByID(ctx context.Context, id uuid.UUID) (*ReservationResponse, error) {
	r, err := s.reservationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToReservationResponse(r)
	return &response, nil
}

// List retrieves reservations with filtering and pagination
func (s *ReservationService) List(ctx context.Context, filter ReservationListFilter) ([]ReservationResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.ItemID != nil {
		domainFilter.Filters["item_id"] = *filter.ItemID
	}
	if filter.DealID != nil {
		domainFilter.Filters["deal_id"] = *filter.DealID
	}

	reservations, err := s.reservationRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.reservationRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToReservationResponses(reservations), total, nil
}

// ListByDeal retrieves the reservations linked to a deal
func (s *ReservationService) ListByDeal(ctx context.Context, dealID uuid.UUID) ([]ReservationResponse, error) {
	reservations, err := s.reservationRepo.FindByDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	return ToReservationResponses(reservations), nil
}

// Create holds stock on an item. Fails when the available quantity
// cannot cover the request.
func (s *ReservationService) Create(ctx context.Context, req CreateReservationRequest) (*ReservationResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	r, err := warehouse.NewReservation(req.ItemID, req.Quantity, req.Purpose)
	if err != nil {
		return nil, err
	}
	if req.DealID != nil {
		r.ForDeal(*req.DealID)
	}
	if req.ExpiresAt != nil {
		r.WithExpiry(*req.ExpiresAt)
	}

	if err := item.Reserve(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.reservationRepo.CreateWithItem(ctx, r, item); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, r)

	response := ToReservationResponse(r)
	return &response, nil
}

// Confirm firms up a pending hold
func (s *ReservationService) Confirm(ctx context.Context, id uuid.UUID) (*ReservationResponse, error) {
	r, err := s.reservationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.Confirm(); err != nil {
		return nil, err
	}
	if err := s.reservationRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, r)

	response := ToReservationResponse(r)
	return &response, nil
}

// Release consumes the reserved stock for its project and records an
// outbound ledger entry
func (s *ReservationService) Release(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*ReservationResponse, error) {
	r, err := s.reservationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item, err := s.itemRepo.FindByID(ctx, r.ItemID)
	if err != nil {
		return nil, err
	}

	if err := r.Release(); err != nil {
		return nil, err
	}
	if err := item.ConsumeReserved(r.Quantity); err != nil {
		return nil, err
	}

	tx, err := warehouse.NewTransaction(item.ID, warehouse.TransactionTypeOut, r.Quantity, item.Quantity, r.Purpose)
	if err != nil {
		return nil, err
	}
	tx.WithReference("reservation " + r.ID.String())
	if r.DealID != nil {
		tx.WithDeal(*r.DealID)
	}
	if actorID != nil {
		tx.WithActor(*actorID)
	}

	if err := s.reservationRepo.SaveWithItem(ctx, r, item, tx); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, r)
	if publisher := s.eventPublisher; publisher != nil {
		events := item.GetDomainEvents()
		if len(events) > 0 {
			_ = publisher.Publish(ctx, events...)
			item.ClearDomainEvents()
		}
	}

	response := ToReservationResponse(r)
	return &response, nil
}

// Cancel returns the held stock to the available pool
func (s *ReservationService) Cancel(ctx context.Context, id uuid.UUID) (*ReservationResponse, error) {
	r, err := s.reservationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item, err := s.itemRepo.FindByID(ctx, r.ItemID)
	if err != nil {
		return nil, err
	}

	if err := r.Cancel(); err != nil {
		return nil, err
	}
	if err := item.Unreserve(r.Quantity); err != nil {
		return nil, err
	}

	if err := s.reservationRepo.SaveWithItem(ctx, r, item, nil); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, r)

	response := ToReservationResponse(r)
	return &response, nil
}
