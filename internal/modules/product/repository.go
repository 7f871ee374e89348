package product

import "context"

// Repository defines product data storage. Single-row lookups return
// (nil, nil) when no matching row exists; absence is a result, not an error.
type Repository interface {
	// ListPage returns the requested page, newest first. A non-positive
	// perPage falls back to DefaultPerPage, a non-positive page to 1.
	ListPage(ctx context.Context, perPage, page int) (*Page, error)
	FindByID(ctx context.Context, id int64) (*Product, error)
	// ListLatest returns the limit most recently created products.
	ListLatest(ctx context.Context, limit int) ([]*Product, error)
	Create(ctx context.Context, f Fields) (*Product, error)
	// Update applies only the non-nil fields and returns the refreshed row.
	Update(ctx context.Context, id int64, f Fields) (*Product, error)
	// Delete reports whether a row was actually removed.
	Delete(ctx context.Context, id int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// SKUExists reports whether another row (id != excludeID) holds the SKU.
	SKUExists(ctx context.Context, sku string, excludeID int64) (bool, error)
	Stats(ctx context.Context) (*Stats, error)
}
