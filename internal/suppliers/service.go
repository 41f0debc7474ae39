package suppliers

import (
	"context"
	"errors"
)

// ErrNotFound indicates the supplier does not exist or belongs to
// another owner.
var ErrNotFound = errors.New("suppliers: not found")

// ErrInvalid indicates the supplier failed validation.
var ErrInvalid = errors.New("suppliers: invalid supplier")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, ownerID string, filters ListFilters) ([]Supplier, error) {
	return s.repo.List(ctx, ownerID, filters)
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (Supplier, error) {
	if id == "" {
		return Supplier{}, ErrNotFound
	}
	return s.repo.Get(ctx, ownerID, id)
}

func (s *Service) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	if err := s.validate(supplier); err != nil {
		return Supplier{}, err
	}
	return s.repo.Create(ctx, supplier)
}

func (s *Service) Update(ctx context.Context, supplier Supplier) (Supplier, error) {
	if supplier.ID == "" {
		return Supplier{}, ErrNotFound
	}
	if err := s.validate(supplier); err != nil {
		return Supplier{}, err
	}
	ok, err := s.repo.Update(ctx, supplier)
	if err != nil {
		return Supplier{}, err
	}
	if !ok {
		return Supplier{}, ErrNotFound
	}
	return s.repo.Get(ctx, supplier.OwnerID, supplier.ID)
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if id == "" {
		return ErrNotFound
	}
	ok, err := s.repo.Delete(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
