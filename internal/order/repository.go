package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront-api/internal/logger"
)

type Repository interface {
	List(ctx context.Context) ([]Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	Create(ctx context.Context, customerID int64, items []ItemInput) (*Order, error)
	Update(ctx context.Context, id int64, params UpdateParams) (*Order, error)
	Delete(ctx context.Context, id int64) error

	AddItem(ctx context.Context, orderID int64, in ItemInput) (*OrderItem, error)
	UpdateItem(ctx context.Context, orderID, itemID int64, params ItemUpdateParams) (*OrderItem, error)
	DeleteItem(ctx context.Context, orderID, itemID int64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_id, order_date, status, total_amount, created_at, updated_at
		FROM orders
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.CustomerID, &o.OrderDate, &o.Status,
			&o.TotalAmount, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, order_date, status, total_amount, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&o.ID, &o.CustomerID, &o.OrderDate, &o.Status,
		&o.TotalAmount, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, price_at_order, created_at, updated_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
			&item.PriceAtOrder, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}

	return &o, rows.Err()
}

func (r *repository) Create(ctx context.Context, customerID int64, items []ItemInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("method", "CreateOrder"),
		zap.Int64("customer_id", customerID),
		zap.Int("item_count", len(items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var orderID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (customer_id, status, total_amount)
		VALUES ($1, 'pending', 0)
		RETURNING id
	`, customerID).Scan(&orderID)
	if isForeignKeyViolation(err) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return nil, err
	}

	for _, in := range items {
		if _, err := insertItem(ctx, tx, orderID, in); err != nil {
			return nil, err
		}
	}

	if err := recalcTotal(ctx, tx, orderID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info("order created", zap.Int64("order_id", orderID))
	return r.GetByID(ctx, orderID)
}

func (r *repository) Update(ctx context.Context, id int64, params UpdateParams) (*Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

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

	if params.CustomerID != nil {
		add("customer_id", *params.CustomerID)
	}
	if params.Status != nil {
		add("status", string(*params.Status))
	}

	if set != "" {
		query := fmt.Sprintf(`UPDATE orders SET %s, updated_at = NOW() WHERE id = $%d`, set, argIndex)
		args = append(args, id)

		res, err := tx.ExecContext(ctx, query, args...)
		if isForeignKeyViolation(err) {
			return nil, ErrCustomerNotFound
		}
		if err != nil {
			return nil, err
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			return nil, ErrNotFound
		}
	} else {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, id,
		).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrNotFound
		}
	}

	// A supplied item set replaces the existing one wholesale.
	if params.Items != nil {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM order_items WHERE order_id = $1`, id,
		); err != nil {
			return nil, err
		}
		for _, in := range *params.Items {
			if _, err := insertItem(ctx, tx, id, in); err != nil {
				return nil, err
			}
		}
		if err := recalcTotal(ctx, tx, id); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) AddItem(ctx context.Context, orderID int64, in ItemInput) (*OrderItem, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	item, err := insertItem(ctx, tx, orderID, in)
	if err != nil {
		return nil, err
	}

	if err := recalcTotal(ctx, tx, orderID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) UpdateItem(ctx context.Context, orderID, itemID int64, params ItemUpdateParams) (*OrderItem, error) {
	// Nothing to change: hand back the item as it stands.
	if params.Quantity == nil && params.PriceAtOrder == nil {
		return r.getItem(ctx, orderID, itemID)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

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

	if params.Quantity != nil {
		add("quantity", *params.Quantity)
	}
	if params.PriceAtOrder != nil {
		add("price_at_order", *params.PriceAtOrder)
	}

	query := fmt.Sprintf(`
		UPDATE order_items SET %s, updated_at = NOW()
		WHERE id = $%d AND order_id = $%d
		RETURNING id, order_id, product_id, quantity, price_at_order, created_at, updated_at
	`, set, argIndex, argIndex+1)
	args = append(args, itemID, orderID)

	var item OrderItem
	err = tx.QueryRowContext(ctx, query, args...).Scan(
		&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
		&item.PriceAtOrder, &item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := recalcTotal(ctx, tx, orderID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) getItem(ctx context.Context, orderID, itemID int64) (*OrderItem, error) {
	var item OrderItem
	err := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, product_id, quantity, price_at_order, created_at, updated_at
		FROM order_items
		WHERE id = $1 AND order_id = $2
	`, itemID, orderID).Scan(
		&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
		&item.PriceAtOrder, &item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) DeleteItem(ctx context.Context, orderID, itemID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM order_items WHERE id = $1 AND order_id = $2`, itemID, orderID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrItemNotFound
	}

	if err := recalcTotal(ctx, tx, orderID); err != nil {
		return err
	}

	return tx.Commit()
}

// insertItem persists one line item, snapshotting the product price when
// the caller did not supply one. The price is read inside the transaction
// so a concurrent product price change cannot slip between read and write.
func insertItem(ctx context.Context, tx *sql.Tx, orderID int64, in ItemInput) (*OrderItem, error) {
	price := in.PriceAtOrder
	if price == nil {
		var snapshot decimal.Decimal
		err := tx.QueryRowContext(ctx,
			`SELECT price FROM products WHERE id = $1`, in.ProductID,
		).Scan(&snapshot)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		if err != nil {
			return nil, err
		}
		price = &snapshot
	}

	var item OrderItem
	err := tx.QueryRowContext(ctx, `
		INSERT INTO order_items (order_id, product_id, quantity, price_at_order)
		VALUES ($1,$2,$3,$4)
		RETURNING id, order_id, product_id, quantity, price_at_order, created_at, updated_at
	`, orderID, in.ProductID, in.Quantity, *price).Scan(
		&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
		&item.PriceAtOrder, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				return nil, ErrDuplicateProduct
			case "23503":
				if strings.Contains(pqErr.Constraint, "product") {
					return nil, ErrProductNotFound
				}
				return nil, ErrNotFound
			}
		}
		return nil, err
	}

	return &item, nil
}

// recalcTotal re-derives the order total from its current item set in one
// statement. The total is zero for an empty set, and the statement is a
// silent no-op when the order row has already been cascade-deleted.
func recalcTotal(ctx context.Context, tx *sql.Tx, orderID int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET total_amount = COALESCE(
			(SELECT SUM(quantity * price_at_order) FROM order_items WHERE order_id = $1),
			0
		), updated_at = NOW()
		WHERE id = $1
	`, orderID)
	return err
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
