package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const selectColumns = `
	id, first_name, last_name, email, phone, address, city, country,
	is_active, created_at, updated_at
`

type Repository interface {
	List(ctx context.Context) ([]Customer, error)
	ListActive(ctx context.Context) ([]ExportRow, error)
	GetByID(ctx context.Context, id int64) (*Customer, error)
	Create(ctx context.Context, c *Customer) error
	Update(ctx context.Context, id int64, params UpdateParams) (*Customer, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM customers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}

	return customers, rows.Err()
}

func (r *repository) ListActive(ctx context.Context) ([]ExportRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, email
		FROM customers
		WHERE is_active = TRUE
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExportRow
	for rows.Next() {
		var row ExportRow
		if err := rows.Scan(&row.ID, &row.FirstName, &row.LastName, &row.Email); err != nil {
			return nil, err
		}
		out = append(out, row)
	}

	return out, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Customer, error) {
	var c Customer
	err := r.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM customers WHERE id = $1`, id,
	).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Address, &c.City, &c.Country, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) Create(ctx context.Context, c *Customer) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO customers (
			first_name, last_name, email, phone, address, city, country, is_active
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at, updated_at
	`,
		c.FirstName, c.LastName, c.Email, c.Phone,
		c.Address, c.City, c.Country, c.IsActive,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if isUniqueViolation(err) {
		return ErrEmailExists
	}
	return err
}

func (r *repository) Update(ctx context.Context, id int64, params UpdateParams) (*Customer, error) {
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

	if params.FirstName != nil {
		add("first_name", *params.FirstName)
	}
	if params.LastName != nil {
		add("last_name", *params.LastName)
	}
	if params.Email != nil {
		add("email", *params.Email)
	}
	if params.Phone != nil {
		add("phone", *params.Phone)
	}
	if params.Address != nil {
		add("address", *params.Address)
	}
	if params.City != nil {
		add("city", *params.City)
	}
	if params.Country != nil {
		add("country", *params.Country)
	}
	if params.IsActive != nil {
		add("is_active", *params.IsActive)
	}

	if set == "" {
		return r.GetByID(ctx, id)
	}

	query := fmt.Sprintf(
		`UPDATE customers SET %s, updated_at = NOW() WHERE id = $%d RETURNING `+selectColumns,
		set, argIndex,
	)
	args = append(args, id)

	var c Customer
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Address, &c.City, &c.Country, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if isUniqueViolation(err) {
		return nil, ErrEmailExists
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete removes a customer and, by FK cascade, its orders. It is rejected
// while the customer still owns a pending order.
func (r *repository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Inserting an order takes a key-share lock on the referenced customer
	// row, so locking it here serializes the pending check against
	// concurrent order creation.
	var lockedID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM customers WHERE id = $1 FOR UPDATE`, id,
	).Scan(&lockedID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	var hasPending bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM orders WHERE customer_id = $1 AND status = 'pending'
		)
	`, id).Scan(&hasPending)
	if err != nil {
		return err
	}
	if hasPending {
		return ErrPendingOrders
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(rs rowScanner, c *Customer) error {
	return rs.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Address, &c.City, &c.Country, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt,
	)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
