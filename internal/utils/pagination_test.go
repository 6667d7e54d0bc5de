package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DevNiNi18/flowtrack/internal/constants"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextWithQuery(rawQuery string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/projects?"+rawQuery, nil)
	return c
}

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		query string
		want  PaginationParams
	}{
		{"", PaginationParams{Page: 1, Limit: constants.DefaultPageSize, Offset: 0}},
		{"page=3&limit=10", PaginationParams{Page: 3, Limit: 10, Offset: 20}},
		{"page=0&limit=1000", PaginationParams{Page: 1, Limit: constants.DefaultPageSize, Offset: 0}},
		{"page=abc", PaginationParams{Page: 1, Limit: constants.DefaultPageSize, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, GetPaginationParams(contextWithQuery(tt.query)))
		})
	}
}

func TestOptionalPaginationParams(t *testing.T) {
	assert.Nil(t, OptionalPaginationParams(contextWithQuery("")))

	params := OptionalPaginationParams(contextWithQuery("limit=5"))
	require.NotNil(t, params)
	assert.Equal(t, 5, params.Limit)
}
