package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestRewrite_UniqueViolation(t *testing.T) {
	err := &pq.Error{Code: "23505", Constraint: "users_email_key"}

	out := Rewrite(err)

	assert.True(t, IsPrecondition(out))
	assert.Equal(t, "email is taken", out.Error())
}

func TestRewrite_ForeignKeyViolation(t *testing.T) {
	err := &pq.Error{Code: "23503", Constraint: "order_references_product_id_fkey"}

	out := Rewrite(err)

	assert.True(t, IsPrecondition(out))
	assert.Equal(t, "no product found", out.Error())
}

func TestRewrite_PassThrough(t *testing.T) {
	err := errors.New("connection refused")
	assert.Equal(t, err, Rewrite(err))

	wrapped := fmt.Errorf("query failed: %w", &pq.Error{Code: "23505", Constraint: "orders_order_set_id_key"})
	out := Rewrite(wrapped)
	assert.Equal(t, "order_set_id is taken", out.Error())
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "orders_order_set_id_key"})

	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, "orders_order_set_id_key"))
	assert.False(t, IsUniqueViolation(err, "other_key"))
	assert.False(t, IsUniqueViolation(errors.New("db error"), ""))
}

func TestPrecondition(t *testing.T) {
	err := Precondition("no project found")
	assert.True(t, IsPrecondition(err))
	assert.Equal(t, "no project found", err.Error())
	assert.False(t, IsPrecondition(errors.New("boom")))
}
