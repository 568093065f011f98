package utils

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	p := Paginate(45, 2, 20)
	assert.Equal(t, 3, p.TotalPages)
	require.NotNil(t, p.NextPage)
	require.NotNil(t, p.PreviousPage)
	assert.Equal(t, 3, *p.NextPage)
	assert.Equal(t, 1, *p.PreviousPage)

	first := Paginate(5, 1, 20)
	assert.Equal(t, 1, first.TotalPages)
	assert.Nil(t, first.NextPage)
	assert.Nil(t, first.PreviousPage)

	empty := Paginate(0, 1, 0)
	assert.Equal(t, 1, empty.ItemsPerPage)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestCalculateOffset(t *testing.T) {
	tests := []struct {
		page, perPage, expected int
	}{
		{page: 1, perPage: 20, expected: 0},
		{page: 3, perPage: 20, expected: 40},
		{page: 0, perPage: 20, expected: 0},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, CalculateOffset(test.page, test.perPage))
	}
}

func TestStatusCode(t *testing.T) {
	notFound := NewServiceError(http.StatusNotFound, "movie not found", nil)
	assert.Equal(t, http.StatusNotFound, StatusCode(notFound))
	assert.Equal(t, http.StatusNotFound, StatusCode(fmt.Errorf("lookup: %w", notFound)))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("boom")))
}

func TestServiceErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewServiceError(http.StatusServiceUnavailable, "database unavailable", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "database unavailable", err.Error())
}

func TestAbortWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	AbortWithError(c, NewServiceError(http.StatusNotFound, "movie not found", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"movie not found"}`, w.Body.String())
}
