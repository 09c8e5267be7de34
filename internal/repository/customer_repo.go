package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rushail101/gst-invoice/internal/models"
)

// CustomerRepository handles customer database operations. Customers are
// keyed by name with upsert semantics: submitting a known name updates
// the stored details.
type CustomerRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCustomerRepository creates a new customer repository.
func NewCustomerRepository(db *sql.DB, logger *zap.Logger) *CustomerRepository {
	return &CustomerRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts the customer or updates the existing row with the same
// name. A missing shipping address defaults to the billing address.
func (r *CustomerRepository) Upsert(ctx context.Context, customer *models.Customer) error {
	if strings.TrimSpace(customer.Name) == "" {
		return fmt.Errorf("customer name is required")
	}
	if customer.ShippingAddress == "" {
		customer.ShippingAddress = customer.BillingAddress
	}

	query := `
		INSERT INTO customers (name, gstin, state, billing_address, shipping_address)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			gstin = excluded.gstin,
			state = excluded.state,
			billing_address = excluded.billing_address,
			shipping_address = excluded.shipping_address,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := r.db.ExecContext(ctx, query,
		customer.Name,
		customer.GSTIN,
		customer.State,
		customer.BillingAddress,
		customer.ShippingAddress,
	); err != nil {
		r.logger.Error("Failed to upsert customer",
			zap.String("name", customer.Name),
			zap.Error(err))
		return fmt.Errorf("failed to upsert customer: %w", err)
	}
	return nil
}

// GetByName retrieves a customer by name. Returns nil when no such
// customer exists.
func (r *CustomerRepository) GetByName(ctx context.Context, name string) (*models.Customer, error) {
	query := `
		SELECT id, name, gstin, state, billing_address, shipping_address, created_at, updated_at
		FROM customers
		WHERE name = ?
	`

	var customer models.Customer
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&customer.ID,
		&customer.Name,
		&customer.GSTIN,
		&customer.State,
		&customer.BillingAddress,
		&customer.ShippingAddress,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get customer", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &customer, nil
}

// List retrieves all customers ordered by name.
func (r *CustomerRepository) List(ctx context.Context) ([]models.Customer, error) {
	query := `
		SELECT id, name, gstin, state, billing_address, shipping_address, created_at, updated_at
		FROM customers
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list customers", zap.Error(err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		var customer models.Customer
		if err := rows.Scan(
			&customer.ID,
			&customer.Name,
			&customer.GSTIN,
			&customer.State,
			&customer.BillingAddress,
			&customer.ShippingAddress,
			&customer.CreatedAt,
			&customer.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}
