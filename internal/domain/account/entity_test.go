package account

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	a := New("Jane Doe", "jane@x.com", "9876543210", "hash", "")
	assert.Equal(t, TypeEmployee, a.AccountType)
	assert.Equal(t, StatusActive, a.Status)
	assert.Empty(t, a.ProfileImageURL)

	m := New("Jane Doe", "jane@x.com", "9876543210", "hash", TypeManager)
	assert.Equal(t, TypeManager, m.AccountType)
}

func TestPagination_Normalize(t *testing.T) {
	tests := []struct {
		name       string
		in         Pagination
		want       Pagination
		wantOffset int64
	}{
		{"zero values", Pagination{}, Pagination{Page: 1, Limit: 10}, 0},
		{"negative page", Pagination{Page: -3, Limit: 5}, Pagination{Page: 1, Limit: 5}, 0},
		{"third page", Pagination{Page: 3, Limit: 10}, Pagination{Page: 3, Limit: 10}, 20},
		{"limit capped", Pagination{Page: 2, Limit: 1000}, Pagination{Page: 2, Limit: MaxLimit}, 100},
		{"huge page", Pagination{Page: math.MaxInt / 5, Limit: 10}, Pagination{Page: MaxPage, Limit: 10}, 10 * int64(MaxPage-1)},
		{"max int page", Pagination{Page: math.MaxInt, Limit: MaxLimit}, Pagination{Page: MaxPage, Limit: MaxLimit}, MaxLimit * int64(MaxPage-1)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOffset, got.Offset())
		})
	}
}

func TestEnums(t *testing.T) {
	assert.True(t, StatusDeleted.Valid())
	assert.False(t, Status("archived").Valid())
	assert.True(t, TypeManager.Valid())
	assert.False(t, Type("owner").Valid())
	assert.True(t, Caller{AccountType: TypeManager}.IsManager())
	assert.False(t, Caller{AccountType: TypeEmployee}.IsManager())
}
