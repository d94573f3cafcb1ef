package customer

import (
	"context"

	"github.com/datatide/relstore/internal/domain/entity"
	errs "github.com/datatide/relstore/internal/domain/error"
	coreport "github.com/datatide/relstore/internal/domain/port/core"
	"github.com/datatide/relstore/internal/domain/port/persistence"
)

// Service implements customer workflows on top of the data-access layer.
// Each call runs in its own unit of work: begin, stage through the
// repository, commit, with rollback on failure.
type Service struct {
	uowFactory persistence.UnitOfWorkFactory[uint64, entity.Customer]
	logger     coreport.Logger
}

// NewService creates a customer service backed by the given unit-of-work factory
func NewService(uowFactory persistence.UnitOfWorkFactory[uint64, entity.Customer], logger coreport.Logger) *Service {
	return &Service{
		uowFactory: uowFactory,
		logger:     logger,
	}
}

// Register persists a new customer and returns it
func (s *Service) Register(ctx context.Context, name, email string) (*entity.Customer, error) {
	uow, err := s.uowFactory.Create()
	if err != nil {
		return nil, err
	}
	defer uow.Close()

	customer := entity.NewCustomer(name, email)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err := uow.Repository().Add(ctx, customer); err != nil {
		_ = uow.Rollback(ctx)
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("Customer registered", map[string]any{
		"customer_id": customer.ID,
		"email":       customer.Email,
	})
	return customer, nil
}

// Get retrieves a customer by id, translating absence into ErrNotFound for
// the API surface
func (s *Service) Get(ctx context.Context, id uint64) (*entity.Customer, error) {
	uow, err := s.uowFactory.Create()
	if err != nil {
		return nil, err
	}
	defer uow.Close()

	customer, err := uow.Repository().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, errs.ErrNotFound
	}
	return customer, nil
}

// ListActive returns all active customers, optionally with their orders
// eager-loaded
func (s *Service) ListActive(ctx context.Context, withOrders bool) ([]*entity.Customer, error) {
	uow, err := s.uowFactory.Create()
	if err != nil {
		return nil, err
	}
	defer uow.Close()

	filter := persistence.NewFilter("active = ?", true)
	if withOrders {
		return uow.Repository().ListIncluding(ctx, filter, "Orders")
	}
	return uow.Repository().List(ctx, filter)
}

// UpdateEmail changes a customer's email address
func (s *Service) UpdateEmail(ctx context.Context, id uint64, email string) (*entity.Customer, error) {
	uow, err := s.uowFactory.Create()
	if err != nil {
		return nil, err
	}
	defer uow.Close()

	customer, err := uow.Repository().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, errs.ErrNotFound
	}

	customer.Email = email

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err := uow.Repository().Update(ctx, customer); err != nil {
		_ = uow.Rollback(ctx)
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return customer, nil
}

// Remove deletes a customer by id
func (s *Service) Remove(ctx context.Context, id uint64) error {
	uow, err := s.uowFactory.Create()
	if err != nil {
		return err
	}
	defer uow.Close()

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.Repository().Delete(ctx, id); err != nil {
		_ = uow.Rollback(ctx)
		return err
	}
	if err := uow.Commit(ctx); err != nil {
		return err
	}

	s.logger.Info("Customer removed", map[string]any{
		"customer_id": id,
	})
	return nil
}
