package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/tillpoint-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/tillpoint-backend/pkg/errors"
)

// Service exposes catalog operations to the API and to the cart engine.
type Service interface {
	GetProduct(ctx context.Context, companyID, id int64) (*ProductDTO, error)
	GetProductByBarcode(ctx context.Context, companyID int64, barcode string) (*ProductDTO, error)
	ListProducts(ctx context.Context, companyID int64) ([]ProductDTO, error)
	CreateProduct(ctx context.Context, companyID int64, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, companyID, id int64, input UpdateProductInput) (*ProductDTO, error)
	Restock(ctx context.Context, companyID, id int64, delta int) (*ProductDTO, error)
}

type service struct {
	repo ProductRepository
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo ProductRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetProduct(ctx context.Context, companyID, id int64) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	return toDTO(product), nil
}

func (s *service) GetProductByBarcode(ctx context.Context, companyID int64, barcode string) (*ProductDTO, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode is required")
	}

	product, err := s.repo.FindByBarcode(ctx, companyID, barcode)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no product with that barcode")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product by barcode")
	}
	return toDTO(product), nil
}

func (s *service) ListProducts(ctx context.Context, companyID int64) ([]ProductDTO, error) {
	rows, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing products")
	}

	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateProduct(ctx context.Context, companyID int64, input CreateProductInput) (*ProductDTO, error) {
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}

	product, err := s.repo.Create(ctx, input.toModel(companyID))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "barcode already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating product")
	}
	return toDTO(product), nil
}

func (s *service) UpdateProduct(ctx context.Context, companyID, id int64, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Barcode != nil {
		product.Barcode = strings.TrimSpace(*input.Barcode)
	}
	if input.UnitPrice != nil {
		if input.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
		}
		product.UnitPrice = *input.UnitPrice
	}
	if input.ImagePath != nil {
		product.ImagePath = *input.ImagePath
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "barcode already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating product")
	}
	return toDTO(updated), nil
}

func (s *service) Restock(ctx context.Context, companyID, id int64, delta int) (*ProductDTO, error) {
	if delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta must not be zero")
	}

	affected, err := s.repo.AdjustStock(ctx, companyID, id, delta)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjusting stock")
	}
	if affected == 0 {
		// Either the product is missing or the decrement would push
		// the counter below zero. Distinguish for the caller.
		if _, findErr := s.repo.FindByID(ctx, companyID, id); findErr != nil {
			if db.IsNotFound(findErr) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "loading product")
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "adjustment would make stock negative")
	}

	return s.GetProduct(ctx, companyID, id)
}
