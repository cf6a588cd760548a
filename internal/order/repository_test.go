package order

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	orderColumns = []string{
		"id", "customer_id", "order_date", "status", "total_amount", "created_at", "updated_at",
	}
	itemColumns = []string{
		"id", "order_id", "product_id", "quantity", "price_at_order", "created_at", "updated_at",
	}
)

func orderRow(id, customerID int64, total string) []driver.Value {
	now := time.Now()
	return []driver.Value{id, customerID, now, "pending", total, now, now}
}

func itemRow(id, orderID, productID int64, qty int, price string) []driver.Value {
	now := time.Now()
	return []driver.Value{id, orderID, productID, qty, price, now, now}
}

const recalcPattern = `UPDATE orders\s+SET total_amount = COALESCE\(\s*\(SELECT SUM\(quantity \* price_at_order\) FROM order_items WHERE order_id = \$1\),\s*0\s*\), updated_at = NOW\(\)\s+WHERE id = \$1`

func TestRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("SnapshotsProductPrice", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders \(customer_id, status, total_amount\)`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))

		// No explicit price: the product's current price is snapshotted.
		mock.ExpectQuery(`SELECT price FROM products WHERE id = \$1`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow("80.00"))
		mock.ExpectQuery(`INSERT INTO order_items`).
			WithArgs(int64(10), int64(7), 2, decimal.RequireFromString("80.00")).
			WillReturnRows(sqlmock.NewRows(itemColumns).AddRow(itemRow(1, 10, 7, 2, "80.00")...))

		mock.ExpectExec(recalcPattern).
			WithArgs(int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		// Reload after commit.
		mock.ExpectQuery(`SELECT id, customer_id, order_date, status, total_amount, created_at, updated_at\s+FROM orders`).
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(orderRow(10, 1, "160.00")...))
		mock.ExpectQuery(`SELECT id, order_id, product_id, quantity, price_at_order, created_at, updated_at\s+FROM order_items`).
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows(itemColumns).AddRow(itemRow(1, 10, 7, 2, "80.00")...))

		o, err := repo.Create(ctx, 1, []ItemInput{{ProductID: 7, Quantity: 2}})
		require.NoError(t, err)
		assert.Equal(t, int64(10), o.ID)
		assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("160.00")))
		require.Len(t, o.Items, 1)
		assert.True(t, o.Items[0].PriceAtOrder.Equal(decimal.RequireFromString("80.00")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ExplicitPriceSkipsSnapshot", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		price := decimal.RequireFromString("99.90")

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
		mock.ExpectQuery(`INSERT INTO order_items`).
			WithArgs(int64(11), int64(7), 1, price).
			WillReturnRows(sqlmock.NewRows(itemColumns).AddRow(itemRow(1, 11, 7, 1, "99.90")...))
		mock.ExpectExec(recalcPattern).
			WithArgs(int64(11)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		mock.ExpectQuery(`FROM orders`).
			WithArgs(int64(11)).
			WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(orderRow(11, 1, "99.90")...))
		mock.ExpectQuery(`FROM order_items`).
			WithArgs(int64(11)).
			WillReturnRows(sqlmock.NewRows(itemColumns).AddRow(itemRow(1, 11, 7, 1, "99.90")...))

		_, err = repo.Create(ctx, 1, []ItemInput{{ProductID: 7, Quantity: 1, PriceAtOrder: &price}})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownCustomer", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs(int64(404)).
			WillReturnError(&pq.Error{Code: "23503", Constraint: "orders_customer_id_fkey"})
		mock.ExpectRollback()

		_, err = repo.Create(ctx, 404, nil)
		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})
}

func TestRepository_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("DuplicateProductRejected", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		price := decimal.RequireFromString("80.00")

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO order_items`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "order_items_order_product_key"})
		mock.ExpectRollback()

		_, err = repo.AddItem(ctx, 10, ItemInput{ProductID: 7, Quantity: 1, PriceAtOrder: &price})
		assert.ErrorIs(t, err, ErrDuplicateProduct)
	})

	t.Run("UnknownProductRejected", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT price FROM products WHERE id = \$1`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"price"}))
		mock.ExpectRollback()

		_, err = repo.AddItem(ctx, 10, ItemInput{ProductID: 99, Quantity: 1})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("RecomputesTotal", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		price := decimal.RequireFromString("350.00")

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO order_items`).
			WithArgs(int64(10), int64(8), 3, price).
			WillReturnRows(sqlmock.NewRows(itemColumns).AddRow(itemRow(2, 10, 8, 3, "350.00")...))
		mock.ExpectExec(recalcPattern).
			WithArgs(int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		item, err := repo.AddItem(ctx, 10, ItemInput{ProductID: 8, Quantity: 3, PriceAtOrder: &price})
		require.NoError(t, err)
		assert.True(t, item.Subtotal().Equal(decimal.RequireFromString("1050.00")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_UpdateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE order_items SET quantity = \$1, updated_at = NOW\(\)`).
			WithArgs(4, int64(2), int64(10)).
			WillReturnRows(sqlmock.NewRows(itemColumns).AddRow(itemRow(2, 10, 8, 4, "350.00")...))
		mock.ExpectExec(recalcPattern).
			WithArgs(int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		qty := 4
		item, err := repo.UpdateItem(ctx, 10, 2, ItemUpdateParams{Quantity: &qty})
		require.NoError(t, err)
		assert.Equal(t, 4, item.Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE order_items SET`).
			WillReturnRows(sqlmock.NewRows(itemColumns))
		mock.ExpectRollback()

		qty := 4
		_, err = repo.UpdateItem(ctx, 10, 77, ItemUpdateParams{Quantity: &qty})
		assert.ErrorIs(t, err, ErrItemNotFound)
	})

	t.Run("NoFieldsReturnsUnchangedItem", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		// No transaction, no UPDATE: the item comes back as it stands.
		mock.ExpectQuery(`SELECT id, order_id, product_id, quantity, price_at_order, created_at, updated_at\s+FROM order_items\s+WHERE id = \$1 AND order_id = \$2`).
			WithArgs(int64(2), int64(10)).
			WillReturnRows(sqlmock.NewRows(itemColumns).AddRow(itemRow(2, 10, 8, 3, "350.00")...))

		item, err := repo.UpdateItem(ctx, 10, 2, ItemUpdateParams{})
		require.NoError(t, err)
		assert.Equal(t, 3, item.Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NoFieldsMissingItem", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`FROM order_items`).
			WithArgs(int64(77), int64(10)).
			WillReturnRows(sqlmock.NewRows(itemColumns))

		_, err = repo.UpdateItem(ctx, 10, 77, ItemUpdateParams{})
		assert.ErrorIs(t, err, ErrItemNotFound)
	})
}

func TestRepository_DeleteItem(t *testing.T) {
	ctx := context.Background()

	t.Run("RecomputesTotalAfterDelete", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM order_items WHERE id = \$1 AND order_id = \$2`).
			WithArgs(int64(2), int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(recalcPattern).
			WithArgs(int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.DeleteItem(ctx, 10, 2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("OrderAlreadyGoneIsSilent", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		// The order row was cascade-deleted while the item delete was in
		// flight: the recompute affects zero rows and must not error.
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM order_items`).
			WithArgs(int64(2), int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(recalcPattern).
			WithArgs(int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		assert.NoError(t, repo.DeleteItem(ctx, 10, 2))
	})

	t.Run("ItemNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM order_items`).
			WithArgs(int64(5), int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.DeleteItem(ctx, 10, 5), ErrItemNotFound)
	})
}

func TestRepository_Update_ReplacesItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	price := decimal.RequireFromString("25.50")
	items := []ItemInput{{ProductID: 3, Quantity: 2, PriceAtOrder: &price}}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM orders WHERE id = \$1\)`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(`DELETE FROM order_items WHERE order_id = \$1`).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(`INSERT INTO order_items`).
		WithArgs(int64(10), int64(3), 2, price).
		WillReturnRows(sqlmock.NewRows(itemColumns).AddRow(itemRow(5, 10, 3, 2, "25.50")...))
	mock.ExpectExec(recalcPattern).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`FROM orders`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(orderRow(10, 1, "51.00")...))
	mock.ExpectQuery(`FROM order_items`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(itemColumns).AddRow(itemRow(5, 10, 3, 2, "25.50")...))

	o, err := repo.Update(context.Background(), 10, UpdateParams{Items: &items})
	require.NoError(t, err)
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("51.00")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
