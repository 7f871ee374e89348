package product

import (
	"fmt"
	"time"
)

// Resource is the JSON projection of a single product. Image is the absolute
// URL of the stored file, or null.
type Resource struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     *string `json:"image"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// NewResource projects a product for API output. baseURL is the public root
// of the application, without a trailing slash.
func NewResource(p *Product, baseURL string) Resource {
	var image *string
	if p.Image != "" {
		u := baseURL + "/storage/" + p.Image
		image = &u
	}
	return Resource{
		ID:        p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		Price:     p.Price.InexactFloat64(),
		Quantity:  p.Quantity,
		Image:     image,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// NewResourceList projects a slice of products, never returning null JSON.
func NewResourceList(products []*Product, baseURL string) []Resource {
	out := make([]Resource, 0, len(products))
	for _, p := range products {
		out = append(out, NewResource(p, baseURL))
	}
	return out
}

// PageMeta is the pagination metadata of a collection response.
type PageMeta struct {
	CurrentPage  int  `json:"current_page"`
	LastPage     int  `json:"last_page"`
	PerPage      int  `json:"per_page"`
	Total        int  `json:"total"`
	From         int  `json:"from"`
	To           int  `json:"to"`
	HasMorePages bool `json:"has_more_pages"`
}

// PageLinks carries the navigation URLs of a collection response. Prev and
// Next are null at the respective boundary.
type PageLinks struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// Collection is the paginated listing envelope.
type Collection struct {
	Data  []Resource `json:"data"`
	Meta  PageMeta   `json:"meta"`
	Links PageLinks  `json:"links"`
}

// NewCollection projects a repository page into the listing envelope.
func NewCollection(page *Page, baseURL string) Collection {
	from, to := 0, 0
	if len(page.Items) > 0 {
		from = (page.CurrentPage-1)*page.PerPage + 1
		to = from + len(page.Items) - 1
	}

	links := PageLinks{
		First: listURL(baseURL, 1, page.PerPage),
		Last:  listURL(baseURL, page.LastPage, page.PerPage),
	}
	if page.CurrentPage > 1 {
		prev := listURL(baseURL, page.CurrentPage-1, page.PerPage)
		links.Prev = &prev
	}
	if page.CurrentPage < page.LastPage {
		next := listURL(baseURL, page.CurrentPage+1, page.PerPage)
		links.Next = &next
	}

	return Collection{
		Data: NewResourceList(page.Items, baseURL),
		Meta: PageMeta{
			CurrentPage:  page.CurrentPage,
			LastPage:     page.LastPage,
			PerPage:      page.PerPage,
			Total:        page.Total,
			From:         from,
			To:           to,
			HasMorePages: page.CurrentPage < page.LastPage,
		},
		Links: links,
	}
}

func listURL(baseURL string, page, perPage int) string {
	return fmt.Sprintf("%s/api/products?page=%d&per_page=%d", baseURL, page, perPage)
}

// StatsResource is the JSON projection of the aggregate statistics.
type StatsResource struct {
	Total         int     `json:"total"`
	TotalValue    float64 `json:"total_value"`
	AveragePrice  float64 `json:"average_price"`
	LowStockCount int     `json:"low_stock_count"`
}

func NewStatsResource(s *Stats) StatsResource {
	return StatsResource{
		Total:         s.Total,
		TotalValue:    s.TotalValue.InexactFloat64(),
		AveragePrice:  s.AveragePrice.InexactFloat64(),
		LowStockCount: s.LowStockCount,
	}
}
