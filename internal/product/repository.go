package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const selectColumns = `
	id, name, description, price, stock, is_active, created_at, updated_at
`

type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, id int64, params UpdateParams) (*Product, error)
	Delete(ctx context.Context, id int64) error
	MarkSoldOut(ctx context.Context, id int64) (*Product, error)
	IncreaseStock(ctx context.Context, id int64, amount int) (*Product, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM products WHERE id = $1`, id), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, description, price, stock, is_active)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at, updated_at
	`,
		p.Name, p.Description, p.Price, p.Stock, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *repository) Update(ctx context.Context, id int64, params UpdateParams) (*Product, error) {
	set := ""
	args := []any{}
	argIndex := 1

	add := func(column string, value any) {
		if set != "" {
			set += ", "
		}
		set += fmt.Sprintf("%s = $%d", column, argIndex)
		args = append(args, value)
		argIndex++
	}

	if params.Name != nil {
		add("name", *params.Name)
	}
	if params.Description != nil {
		add("description", *params.Description)
	}
	if params.Price != nil {
		add("price", *params.Price)
	}
	if params.Stock != nil {
		add("stock", *params.Stock)
	}
	if params.IsActive != nil {
		add("is_active", *params.IsActive)
	}

	if set == "" {
		return r.GetByID(ctx, id)
	}

	query := fmt.Sprintf(
		`UPDATE products SET %s, updated_at = NOW() WHERE id = $%d RETURNING `+selectColumns,
		set, argIndex,
	)
	args = append(args, id)

	var p Product
	err := scanProduct(r.db.QueryRowContext(ctx, query, args...), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes the product. Its line items go with it via the cascade,
// so the affected orders' totals are re-derived in the same transaction.
func (r *repository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT DISTINCT order_id FROM order_items WHERE product_id = $1`, id)
	if err != nil {
		return err
	}

	var orderIDs []int64
	for rows.Next() {
		var orderID int64
		if err := rows.Scan(&orderID); err != nil {
			rows.Close()
			return err
		}
		orderIDs = append(orderIDs, orderID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}

	if len(orderIDs) > 0 {
		if _, err := tx.ExecContext(ctx, `
			UPDATE orders
			SET total_amount = COALESCE(
				(SELECT SUM(quantity * price_at_order) FROM order_items WHERE order_id = orders.id),
				0
			), updated_at = NOW()
			WHERE id = ANY($1)
		`, pq.Array(orderIDs)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// MarkSoldOut zeroes the stock and deactivates the product. Rejected when
// the product is already sold out and inactive.
func (r *repository) MarkSoldOut(ctx context.Context, id int64) (*Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var stock int
	var isActive bool
	err = tx.QueryRowContext(ctx,
		`SELECT stock, is_active FROM products WHERE id = $1 FOR UPDATE`, id,
	).Scan(&stock, &isActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if stock == 0 && !isActive {
		return nil, ErrAlreadySoldOut
	}

	var p Product
	err = scanProduct(tx.QueryRowContext(ctx, `
		UPDATE products
		SET stock = 0, is_active = FALSE, updated_at = NOW()
		WHERE id = $1
		RETURNING `+selectColumns, id), &p)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &p, nil
}

// IncreaseStock adds amount to the current stock. It deliberately leaves
// is_active alone; only the regular update path re-activates a product.
func (r *repository) IncreaseStock(ctx context.Context, id int64, amount int) (*Product, error) {
	var p Product
	err := scanProduct(r.db.QueryRowContext(ctx, `
		UPDATE products
		SET stock = stock + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+selectColumns, amount, id), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(rs rowScanner, p *Product) error {
	return rs.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
}
