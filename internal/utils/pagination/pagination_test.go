package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name           string
		page, pageSize int
		want           Params
	}{
		{"valid input passes through", 3, 50, Params{Page: 3, PageSize: 50, Offset: 100}},
		{"zero page clamps to first", 0, 25, Params{Page: 1, PageSize: 25, Offset: 0}},
		{"negative page clamps to first", -2, 25, Params{Page: 1, PageSize: 25, Offset: 0}},
		{"zero page size clamps to one", 1, 0, Params{Page: 1, PageSize: 1, Offset: 0}},
		{"oversized page size clamps to max", 1, 1000, Params{Page: 1, PageSize: MaxPageSize, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.page, tt.pageSize, MaxPageSize))
		})
	}
}

func TestMaxPage(t *testing.T) {
	assert.Equal(t, 1, MaxPage(0, 25), "empty result still has one page")
	assert.Equal(t, 1, MaxPage(25, 25))
	assert.Equal(t, 2, MaxPage(26, 25))
	assert.Equal(t, 4, MaxPage(100, 25))
	assert.Equal(t, 1, MaxPage(10, 0), "degenerate page size falls back to one page")
}
