package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginatedResponse(t *testing.T) {
	first := NewPaginatedResponse([]string{"a", "b"}, 1, 2, 5)
	assert.Equal(t, 3, first.Pagination.TotalPages)
	assert.True(t, first.Pagination.HasNext)
	assert.False(t, first.Pagination.HasPrev)

	last := NewPaginatedResponse([]string{"e"}, 3, 2, 5)
	assert.False(t, last.Pagination.HasNext)
	assert.True(t, last.Pagination.HasPrev)

	empty := NewPaginatedResponse[string](nil, 1, 12, 0)
	assert.NotNil(t, empty.Data, "an empty page encodes as [] not null")
	assert.Equal(t, 0, empty.Pagination.TotalPages)
	assert.False(t, empty.Pagination.HasNext)
}
