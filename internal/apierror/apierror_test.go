package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Status(fmt.Errorf("%w: amount must be positive", ErrValidation)))
	assert.Equal(t, http.StatusNotFound, Status(fmt.Errorf("order 42: %w", ErrNotFound)))
	assert.Equal(t, http.StatusConflict, Status(fmt.Errorf("%w: order is not editable", ErrConflict)))
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("connection reset")))
}

func TestPublicHidesInternalErrors(t *testing.T) {
	assert.Equal(t, "internal server error", Public(errors.New("pq: relation does not exist")).Detail)
	assert.Equal(t, "not found: order", Public(fmt.Errorf("%w: order", ErrNotFound)).Detail)
}
