package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Ultimator14/mini-pos/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateOrder(ctx context.Context, o *model.Order) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
        INSERT INTO orders (nonce, table_name, waiter, created_at, completed_at)
        VALUES ($1, $2, $3, $4, NULL)
        RETURNING id
    `, o.Nonce, o.Table, o.Waiter, o.CreatedAt).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Products {
		p := &o.Products[i]
		p.OrderID = o.ID
		err = tx.QueryRowContext(ctx, `
            INSERT INTO products (order_id, name, price, category, amount, comment, completed)
            VALUES ($1, $2, $3, $4, $5, $6, FALSE)
            RETURNING id
        `, p.OrderID, p.Name, p.Price, p.Category, p.Amount, p.Comment).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("insert product %s: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *PGRepository) FindOrderByID(ctx context.Context, id int64) (*model.Order, error) {
	var o model.Order
	err := r.DB.GetContext(ctx, &o, `SELECT * FROM orders WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadProducts(ctx, []*model.Order{&o}); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PGRepository) FindProductByID(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	err := r.DB.GetContext(ctx, &p, `SELECT * FROM products WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindOpenOrders(ctx context.Context) ([]model.Order, error) {
	return r.selectOrders(ctx, `SELECT * FROM orders WHERE completed_at IS NULL ORDER BY id`)
}

func (r *PGRepository) FindOpenOrdersByTable(ctx context.Context, table string) ([]model.Order, error) {
	return r.selectOrders(ctx,
		`SELECT * FROM orders WHERE completed_at IS NULL AND table_name = $1 ORDER BY id`, table)
}

func (r *PGRepository) FindOrdersByTable(ctx context.Context, table string) ([]model.Order, error) {
	return r.selectOrders(ctx, `SELECT * FROM orders WHERE table_name = $1 ORDER BY id`, table)
}

func (r *PGRepository) FindOpenOrderNonces(ctx context.Context) ([]string, error) {
	var nonces []string
	err := r.DB.SelectContext(ctx, &nonces, `SELECT nonce FROM orders WHERE completed_at IS NULL`)
	return nonces, err
}

func (r *PGRepository) FindLastCompletedOrders(ctx context.Context, limit int) ([]model.Order, error) {
	return r.selectOrders(ctx, `
        SELECT * FROM orders
        WHERE completed_at IS NOT NULL
        ORDER BY completed_at DESC
        LIMIT $1
    `, limit)
}

func (r *PGRepository) FindLastCompletedOrdersByCategories(ctx context.Context, categories []string, limit int) ([]model.Order, error) {
	return r.selectOrders(ctx, `
        SELECT o.* FROM orders o
        WHERE o.completed_at IS NOT NULL
          AND EXISTS (
            SELECT 1 FROM products p
            WHERE p.order_id = o.id AND p.category = ANY($1)
          )
        ORDER BY o.completed_at DESC
        LIMIT $2
    `, categories, limit)
}

func (r *PGRepository) ActiveTables(ctx context.Context) ([]string, error) {
	var tables []string
	err := r.DB.SelectContext(ctx, &tables,
		`SELECT DISTINCT table_name FROM orders WHERE completed_at IS NULL`)
	return tables, err
}

func (r *PGRepository) CountOpenProducts(ctx context.Context, orderID int64) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count,
		`SELECT count(*) FROM products WHERE order_id = $1 AND NOT completed`, orderID)
	return count, err
}

func (r *PGRepository) MarkProductCompleted(ctx context.Context, productID int64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE products SET completed = TRUE WHERE id = $1`, productID)
	return err
}

func (r *PGRepository) MarkOrderProductsCompleted(ctx context.Context, orderID int64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE products SET completed = TRUE WHERE order_id = $1 AND NOT completed`, orderID)
	return err
}

func (r *PGRepository) MarkOrderProductsCompletedByCategories(ctx context.Context, orderID int64, categories []string) error {
	_, err := r.DB.ExecContext(ctx, `
        UPDATE products SET completed = TRUE
        WHERE order_id = $1 AND category = ANY($2) AND NOT completed
    `, orderID, categories)
	return err
}

func (r *PGRepository) SetOrderCompleted(ctx context.Context, orderID int64, at time.Time) error {
	// completed_at is write-once, the guard keeps a replayed completion from
	// moving the timestamp
	_, err := r.DB.ExecContext(ctx,
		`UPDATE orders SET completed_at = $2 WHERE id = $1 AND completed_at IS NULL`, orderID, at)
	return err
}

func (r *PGRepository) selectOrders(ctx context.Context, query string, args ...interface{}) ([]model.Order, error) {
	var orders []model.Order
	if err := r.DB.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, err
	}

	refs := make([]*model.Order, len(orders))
	for i := range orders {
		refs[i] = &orders[i]
	}
	if err := r.loadProducts(ctx, refs); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PGRepository) loadProducts(ctx context.Context, orders []*model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	byID := make(map[int64]*model.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
	}

	var products []model.Product
	err := r.DB.SelectContext(ctx, &products,
		`SELECT * FROM products WHERE order_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return err
	}

	for _, p := range products {
		o := byID[p.OrderID]
		o.Products = append(o.Products, p)
	}
	return nil
}
