package product

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a stocked item. Image holds the relative storage path of the
// uploaded picture; "" means the product has none.
type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Input carries a create or update payload. Nil fields were not supplied by
// the request and must leave the stored value untouched on update.
type Input struct {
	Name     *string
	SKU      *string
	Price    *decimal.Decimal
	Quantity *int
	Image    *ImageUpload
}

// ImageUpload is a pending image payload read off a multipart request.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// Fields is the filtered, validated set of columns a write touches.
// Nil fields are left untouched; Image holds a stored relative path.
type Fields struct {
	Name     *string
	SKU      *string
	Price    *decimal.Decimal
	Quantity *int
	Image    *string
}

// Page is one page of products ordered newest first, plus paging totals.
type Page struct {
	Items       []*Product
	Total       int
	PerPage     int
	CurrentPage int
	LastPage    int
}

// Stats aggregates the whole products table.
type Stats struct {
	Total         int
	TotalValue    decimal.Decimal
	AveragePrice  decimal.Decimal
	LowStockCount int
}

// ValidationError enumerates per-field failures for a rejected payload.
type ValidationError struct {
	Errors map[string][]string
}

func (e *ValidationError) Error() string { return "The given data was invalid." }
