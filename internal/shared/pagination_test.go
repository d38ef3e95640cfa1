package shared

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(1, 20, 45)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)

	p = NewPagination(3, 20, 45)
	assert.False(t, p.HasNext)

	p = NewPagination(0, 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNext)
}

func TestPageParams(t *testing.T) {
	r := httptest.NewRequest("GET", "/?page=3&perPage=200", nil)
	page, perPage := PageParams(r, 50)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, perPage, "perPage is clamped to the route maximum")

	r = httptest.NewRequest("GET", "/?page=-1&perPage=abc", nil)
	page, perPage = PageParams(r, 50)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, perPage)
}
