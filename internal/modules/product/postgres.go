package product

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL product repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const productColumns = `id, name, sku, price, quantity, image, created_at, updated_at`

func scanProduct(scan func(...interface{}) error) (*Product, error) {
	p := &Product{}
	var image sql.NullString
	err := scan(&p.ID, &p.Name, &p.SKU, &p.Price, &p.Quantity, &image,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Image = image.String
	return p, nil
}

func (r *postgresRepo) ListPage(ctx context.Context, perPage, page int) (*Page, error) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page <= 0 {
		page = 1
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, err
	}
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &Page{
		Items:       items,
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    lastPage,
	}, nil
}

func (r *postgresRepo) FindByID(ctx context.Context, id int64) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+` FROM products WHERE id=$1`, id)
	p, err := scanProduct(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) ListLatest(ctx context.Context, limit int) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *postgresRepo) Create(ctx context.Context, f Fields) (*Product, error) {
	var image interface{}
	if f.Image != nil {
		image = *f.Image
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, sku, price, quantity, image)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING `+productColumns,
		f.Name, f.SKU, f.Price, f.Quantity, image)
	return scanProduct(row.Scan)
}

func (r *postgresRepo) Update(ctx context.Context, id int64, f Fields) (*Product, error) {
	var set []string
	var args []interface{}
	n := 1
	add := func(col string, v interface{}) {
		set = append(set, fmt.Sprintf("%s=$%d", col, n))
		args = append(args, v)
		n++
	}
	if f.Name != nil {
		add("name", *f.Name)
	}
	if f.SKU != nil {
		add("sku", *f.SKU)
	}
	if f.Price != nil {
		add("price", *f.Price)
	}
	if f.Quantity != nil {
		add("quantity", *f.Quantity)
	}
	if f.Image != nil {
		add("image", *f.Image)
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}
	set = append(set, "updated_at=NOW()")
	args = append(args, id)

	row := r.db.QueryRowContext(ctx, fmt.Sprintf(`
		UPDATE products SET %s WHERE id=$%d
		RETURNING `+productColumns, strings.Join(set, ", "), n), args...)
	p, err := scanProduct(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *postgresRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE id=$1)`, id).Scan(&exists)
	return exists, err
}

func (r *postgresRepo) SKUExists(ctx context.Context, sku string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE sku=$1 AND id<>$2)`,
		sku, excludeID).Scan(&exists)
	return exists, err
}

func (r *postgresRepo) Stats(ctx context.Context) (*Stats, error) {
	s := &Stats{}
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(price * quantity), 0),
		       COALESCE(AVG(price), 0),
		       COALESCE(SUM(CASE WHEN quantity <= $1 THEN 1 ELSE 0 END), 0)
		FROM products`, LowStockThreshold).
		Scan(&s.Total, &s.TotalValue, &s.AveragePrice, &s.LowStockCount)
	if err != nil {
		return nil, err
	}
	return s, nil
}
