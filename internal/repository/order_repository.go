package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/resolution-service/internal/domain"
)

// OrderRepository is the workflow's window onto the order store: read access
// to order details, write access limited to the complaint-status mirror and
// replacement order creation.
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateComplaintStatus(ctx context.Context, orderID string, status domain.OrderComplaintStatus) error
	// CreateReplacement inserts a zero-cost mirror order referencing the parent.
	CreateReplacement(ctx context.Context, parent *domain.Order) (*domain.Order, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository builds repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const query = `
        SELECT id, customer_id, total_amount, payment_method, shipping_address, complaint_status,
               parent_order_id, created_at, updated_at
        FROM orders WHERE id=$1`
	var order domain.Order
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.CustomerID,
		&order.TotalAmount,
		&order.PaymentMethod,
		&order.ShippingAddress,
		&order.ComplaintStatus,
		&order.ParentOrderID,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) UpdateComplaintStatus(ctx context.Context, orderID string, status domain.OrderComplaintStatus) error {
	const query = `UPDATE orders SET complaint_status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, orderID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) CreateReplacement(ctx context.Context, parent *domain.Order) (*domain.Order, error) {
	const query = `
        INSERT INTO orders (customer_id, total_amount, payment_method, shipping_address, complaint_status, parent_order_id)
        VALUES ($1, 0, $2, $3, 'NONE', $4)
        RETURNING id, customer_id, total_amount, payment_method, shipping_address, complaint_status,
                  parent_order_id, created_at, updated_at`
	var replacement domain.Order
	if err := r.pool.QueryRow(ctx, query,
		parent.CustomerID,
		parent.PaymentMethod,
		parent.ShippingAddress,
		parent.ID,
	).Scan(
		&replacement.ID,
		&replacement.CustomerID,
		&replacement.TotalAmount,
		&replacement.PaymentMethod,
		&replacement.ShippingAddress,
		&replacement.ComplaintStatus,
		&replacement.ParentOrderID,
		&replacement.CreatedAt,
		&replacement.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &replacement, nil
}
