package paging

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStartAndLimit(t *testing.T) {
	tests := []struct {
		target    string
		wantStart int
		wantLimit int
	}{
		{"/members", 1, PageSize},
		{"/members?start=51&limit=10", 51, 10},
		{"/members?start=-3&limit=abc", 1, PageSize},
		{"/members?limit=5000", 1, MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			assert.Equal(t, tt.wantStart, ParseStart(r))
			assert.Equal(t, tt.wantLimit, ParseLimit(r))
		})
	}
}

func TestSlice(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5, 6, 7}

	first := Slice(rows, 1, 3)
	assert.Equal(t, []int{1, 2, 3}, first.Items)
	assert.Equal(t, 1, first.Start)
	assert.Equal(t, 3, first.End)
	assert.False(t, first.HasPrev)
	assert.True(t, first.HasNext)
	assert.Equal(t, 4, first.NextStart)

	last := Slice(rows, 7, 3)
	assert.Equal(t, []int{7}, last.Items)
	assert.True(t, last.HasPrev)
	assert.Equal(t, 4, last.PrevStart)
	assert.False(t, last.HasNext)

	past := Slice(rows, 20, 3)
	assert.Empty(t, past.Items)
	assert.Equal(t, 0, past.Start)
	assert.True(t, past.HasPrev)
	assert.Equal(t, 5, past.PrevStart)

	empty := Slice([]int{}, 1, 3)
	assert.NotNil(t, empty.Items)
	assert.False(t, empty.HasPrev)
	assert.False(t, empty.HasNext)
}
