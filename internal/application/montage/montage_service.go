package montage

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/furniflow/backend/internal/domain/identity"
	"github.com/furniflow/backend/internal/domain/montage"
	"github.com/furniflow/backend/internal/domain/shared"
)

const orderNumberPrefix = "M"

// NumberAllocator issues sequential order numbers
type NumberAllocator interface {
	NextNumber(ctx context.Context, prefix string) (string, error)
}

// MontageService manages installation orders and the crew calendar
type MontageService struct {
	orderRepo      montage.Repository
	itemRepo       montage.ItemRepository
	userRepo       identity.UserRepository
	allocator      NumberAllocator
	eventPublisher shared.EventPublisher
}

// NewMontageService creates a new MontageService
func NewMontageService(orderRepo montage.Repository, itemRepo montage.ItemRepository, userRepo identity.UserRepository, allocator NumberAllocator) *MontageService {
	return &MontageService{
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		userRepo:  userRepo,
		allocator: allocator,
	}
}

// SetEventPublisher wires the publisher for domain events
func (s *MontageService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *MontageService) publishDomainEvents(ctx context.Context, o *montage.Order) {
	if s.eventPublisher == nil {
		return
	}
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	o.ClearDomainEvents()
}

// GetByID retrieves an order by ID
func (s *MontageService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *MontageService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
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
	if filter.DealID != nil {
		domainFilter.Filters["deal_id"] = *filter.DealID
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(orders), total, nil
}

// ListByDeal retrieves the orders fulfilling a deal
func (s *MontageService) ListByDeal(ctx context.Context, dealID uuid.UUID) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindByDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// Create opens a planned order in the backlog
func (s *MontageService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	number, err := s.allocator.NextNumber(ctx, orderNumberPrefix)
	if err != nil {
		return nil, err
	}

	o, err := montage.NewOrder(number, req.CustomerName, req.Address)
	if err != nil {
		return nil, err
	}
	if err := o.Update(req.CustomerName, req.Address, req.Phone, req.Notes); err != nil {
		return nil, err
	}
	if req.DealID != nil {
		o.ForDeal(*req.DealID)
	}

	if err := s.orderRepo.Create(ctx, o); err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// Update edits contact details on an unfinished order
func (s *MontageService) Update(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.Update(req.CustomerName, req.Address, req.Phone, req.Notes); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// Schedule books the order for a date with a crew. Every crew member
// must be an active user.
func (s *MontageService) Schedule(ctx context.Context, id uuid.UUID, req ScheduleOrderRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, userID := range req.InstallerIDs {
		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !user.IsActive() {
			return nil, shared.NewDomainError("INSTALLER_INACTIVE", "Installer "+user.Name+" is not active")
		}
	}

	if err := o.Schedule(req.Date, req.InstallerIDs, req.LeadID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// Unschedule returns a scheduled order to the backlog
func (s *MontageService) Unschedule(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, id, func(o *montage.Order) error { return o.Unschedule() })
}

// Start marks the crew as on site
func (s *MontageService) Start(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, id, func(o *montage.Order) error { return o.Start() })
}

// Complete finishes the installation
func (s *MontageService) Complete(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, id, func(o *montage.Order) error { return o.Complete() })
}

// Cancel aborts the order with a reason
func (s *MontageService) Cancel(ctx context.Context, id uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	return s.transition(ctx, id, func(o *montage.Order) error { return o.Cancel(req.Reason) })
}

func (s *MontageService) transition(ctx context.Context, id uuid.UUID, apply func(*montage.Order) error) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(o); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// Calendar groups scheduled orders by date inside a window, optionally
// narrowed to one installer's bookings
func (s *MontageService) Calendar(ctx context.Context, filter CalendarFilter) ([]CalendarDayResponse, error) {
	if filter.To.Before(filter.From) {
		return nil, shared.NewDomainError("INVALID_RANGE", "Calendar range end is before its start")
	}

	var orders []*montage.Order
	var err error
	if filter.InstallerID != nil {
		orders, err = s.orderRepo.FindByInstaller(ctx, *filter.InstallerID, filter.From, filter.To)
	} else {
		orders, err = s.orderRepo.FindScheduledBetween(ctx, filter.From, filter.To)
	}
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]OrderResponse)
	for _, o := range orders {
		if o.ScheduledDate == nil {
			continue
		}
		day := o.ScheduledDate.Format(time.DateOnly)
		byDate[day] = append(byDate[day], ToOrderResponse(o))
	}

	days := make([]CalendarDayResponse, 0, len(byDate))
	for day, dayOrders := range byDate {
		days = append(days, CalendarDayResponse{Date: day, Orders: dayOrders})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days, nil
}

// Delete removes a planned or cancelled order
func (s *MontageService) Delete(ctx context.Context, id uuid.UUID) error {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if o.Status != montage.OrderStatusPlanned && o.Status != montage.OrderStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Only planned or cancelled orders can be deleted")
	}
	return s.orderRepo.Delete(ctx, id)
}

// ListItems retrieves an order's line items
func (s *MontageService) ListItems(ctx context.Context, orderID uuid.UUID) ([]ItemResponse, error) {
	if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
		return nil, err
	}
	items, err := s.itemRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	result := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		result = append(result, toItemResponse(item))
	}
	return result, nil
}

// AddItem appends a line item to an unfinished order
func (s *MontageService) AddItem(ctx context.Context, orderID uuid.UUID, req ItemRequest) (*ItemResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == montage.OrderStatusCompleted || o.Status == montage.OrderStatusCancelled {
		return nil, shared.NewDomainError("ORDER_CLOSED", "Cannot edit items on a closed order")
	}
	item, err := montage.NewItem(orderID, req.Name, req.Quantity, req.Unit, req.Remark)
	if err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	response := toItemResponse(item)
	return &response, nil
}

// UpdateItem changes a line item
func (s *MontageService) UpdateItem(ctx context.Context, itemID uuid.UUID, req ItemRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := item.Update(req.Name, req.Quantity, req.Unit, req.Remark); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	response := toItemResponse(item)
	return &response, nil
}

// DeleteItem removes a line item
func (s *MontageService) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return s.itemRepo.Delete(ctx, itemID)
}
