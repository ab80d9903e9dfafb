package db

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolationStructured(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "uq_orders_number"}

	assert.True(t, IsUniqueViolation(dup))
	assert.True(t, IsUniqueViolation(dup, "uq_orders_number", "orders.order_number"))
	assert.False(t, IsUniqueViolation(dup, "uq_products_slug", "products.slug"))

	fk := &pgconn.PgError{Code: "23503", ConstraintName: "fk_order_items_order"}
	assert.False(t, IsUniqueViolation(fk))
}

func TestIsUniqueViolationTextFallback(t *testing.T) {
	sqliteErr := errors.New("UNIQUE constraint failed: users.email")

	assert.True(t, IsUniqueViolation(sqliteErr))
	assert.True(t, IsUniqueViolation(sqliteErr, "uq_users_email", "users.email"))
	// a different constraint's violation must not be claimed
	assert.False(t, IsUniqueViolation(sqliteErr, "uq_users_username", "users.username"))

	assert.False(t, IsUniqueViolation(errors.New("connection refused"), "uq_users_email", "users.email"))
	assert.False(t, IsUniqueViolation(nil))
}
