package product

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/stockwise/inventory-backend/internal/storage"
)

const (
	// DefaultPerPage is the page size used when the caller does not specify one.
	DefaultPerPage = 10
	// DefaultLatest is how many products the latest listing returns.
	DefaultLatest = 3
	// LowStockThreshold marks a product as low stock at or below this quantity.
	LowStockThreshold = 5

	imageDir = "products"
)

// Service defines product business logic: validation, image-file lifecycle,
// and delegation to the repository. "Not found" surfaces as a nil product or
// a false result, never as an error.
type Service interface {
	GetAllProducts(ctx context.Context, perPage, page int) (*Page, error)
	GetProductByID(ctx context.Context, id int64) (*Product, error)
	GetLatestProducts(ctx context.Context, limit int) ([]*Product, error)
	CreateProduct(ctx context.Context, in Input) (*Product, error)
	UpdateProduct(ctx context.Context, id int64, in Input) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) (bool, error)
	GetProductStats(ctx context.Context) (*Stats, error)
}

type service struct {
	repo  Repository
	files storage.Storage
}

// NewService creates a new product service. File-storage side effects run
// through the supplied storage; the repository only ever sees path strings.
func NewService(repo Repository, files storage.Storage) Service {
	return &service{repo: repo, files: files}
}

func (s *service) GetAllProducts(ctx context.Context, perPage, page int) (*Page, error) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page <= 0 {
		page = 1
	}
	return s.repo.ListPage(ctx, perPage, page)
}

func (s *service) GetProductByID(ctx context.Context, id int64) (*Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) GetLatestProducts(ctx context.Context, limit int) ([]*Product, error) {
	if limit <= 0 {
		limit = DefaultLatest
	}
	return s.repo.ListLatest(ctx, limit)
}

func (s *service) CreateProduct(ctx context.Context, in Input) (*Product, error) {
	fields, fieldErrors, err := s.validate(ctx, filter(in), 0, true)
	if err != nil {
		return nil, err
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	if in.Image != nil {
		path, err := s.storeImage(in.Image)
		if err != nil {
			return nil, err
		}
		fields.Image = &path
	}

	p, err := s.repo.Create(ctx, fields)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, &ValidationError{Errors: map[string][]string{"sku": {msgSKUTaken}}}
		}
		return nil, err
	}
	return p, nil
}

func (s *service) UpdateProduct(ctx context.Context, id int64, in Input) (*Product, error) {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	fields, fieldErrors, err := s.validate(ctx, filter(in), id, false)
	if err != nil {
		return nil, err
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	if in.Image != nil {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current != nil && current.Image != "" {
			if err := s.files.Delete(current.Image); err != nil {
				log.Warn().Err(err).Str("path", current.Image).Msg("could not delete replaced image")
			}
		}
		path, err := s.storeImage(in.Image)
		if err != nil {
			return nil, err
		}
		fields.Image = &path
	}

	p, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, &ValidationError{Errors: map[string][]string{"sku": {msgSKUTaken}}}
		}
		return nil, err
	}
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, nil
	}

	if p.Image != "" {
		if err := s.files.Delete(p.Image); err != nil {
			log.Warn().Err(err).Str("path", p.Image).Msg("could not delete product image")
		}
	}

	return s.repo.Delete(ctx, id)
}

func (s *service) GetProductStats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}

func (s *service) storeImage(img *ImageUpload) (string, error) {
	name := fmt.Sprintf("%d_%s", time.Now().Unix(), filepath.Base(img.Filename))
	return s.files.Store(imageDir, name, img.Content)
}

// isDuplicateKey reports whether the error is a PostgreSQL unique constraint
// violation (code 23505). The SKU constraint is the only unique index on
// products, so the race loser of a concurrent create gets the same
// validation failure as a sequential duplicate.
func isDuplicateKey(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "duplicate key")
}
