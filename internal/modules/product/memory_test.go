package product

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// memoryRepo is an in-memory Repository mirroring the postgres semantics:
// newest-first ordering, (nil, nil) lookups, unique SKU.
type memoryRepo struct {
	mu    sync.Mutex
	seq   int64
	items map[int64]*Product

	// failWith, when set, makes every operation fail with it.
	failWith error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: map[int64]*Product{}}
}

var memoryEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func (m *memoryRepo) sorted() []*Product {
	out := make([]*Product, 0, len(m.items))
	for _, p := range m.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (m *memoryRepo) ListPage(ctx context.Context, perPage, page int) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page <= 0 {
		page = 1
	}

	all := m.sorted()
	total := len(all)
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return &Page{
		Items:       all[start:end],
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    lastPage,
	}, nil
}

func (m *memoryRepo) FindByID(ctx context.Context, id int64) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	p, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memoryRepo) ListLatest(ctx context.Context, limit int) ([]*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	all := m.sorted()
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *memoryRepo) Create(ctx context.Context, f Fields) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, p := range m.items {
		if p.SKU == *f.SKU {
			return nil, errors.New(`duplicate key value violates unique constraint "products_sku_key"`)
		}
	}

	m.seq++
	p := &Product{
		ID:        m.seq,
		Name:      *f.Name,
		SKU:       *f.SKU,
		Price:     *f.Price,
		Quantity:  *f.Quantity,
		CreatedAt: memoryEpoch.Add(time.Duration(m.seq) * time.Second),
	}
	p.UpdatedAt = p.CreatedAt
	if f.Image != nil {
		p.Image = *f.Image
	}
	m.items[p.ID] = p
	cp := *p
	return &cp, nil
}

func (m *memoryRepo) Update(ctx context.Context, id int64, f Fields) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	p, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	if f.Name != nil {
		p.Name = *f.Name
	}
	if f.SKU != nil {
		p.SKU = *f.SKU
	}
	if f.Price != nil {
		p.Price = *f.Price
	}
	if f.Quantity != nil {
		p.Quantity = *f.Quantity
	}
	if f.Image != nil {
		p.Image = *f.Image
	}
	p.UpdatedAt = p.UpdatedAt.Add(time.Second)
	cp := *p
	return &cp, nil
}

func (m *memoryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return false, m.failWith
	}
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

func (m *memoryRepo) Exists(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return false, m.failWith
	}
	_, ok := m.items[id]
	return ok, nil
}

func (m *memoryRepo) SKUExists(ctx context.Context, sku string, excludeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return false, m.failWith
	}
	for _, p := range m.items {
		if p.SKU == sku && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepo) Stats(ctx context.Context) (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	s := &Stats{}
	sum := decimal.Zero
	for _, p := range m.items {
		s.Total++
		s.TotalValue = s.TotalValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))))
		sum = sum.Add(p.Price)
		if p.Quantity <= LowStockThreshold {
			s.LowStockCount++
		}
	}
	if s.Total > 0 {
		s.AveragePrice = sum.Div(decimal.NewFromInt(int64(s.Total)))
	}
	return s, nil
}
