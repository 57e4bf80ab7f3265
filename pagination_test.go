package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserFindArgsValidate(t *testing.T) {
	tests := []struct {
		name    string
		args    UserFindArgs
		wantErr bool
	}{
		{
			name: "zero value passes",
			args: UserFindArgs{},
		},
		{
			name: "full set of filters passes",
			args: UserFindArgs{
				Limit:  25,
				Offset: 50,
				Q:      "ada",
				Role:   RoleManager,
				Order:  OrderCreatedAtASC,
			},
		},
		{
			name:    "negative limit fails",
			args:    UserFindArgs{Limit: -1},
			wantErr: true,
		},
		{
			name:    "negative offset fails",
			args:    UserFindArgs{Offset: -5},
			wantErr: true,
		},
		{
			name:    "unknown role fails",
			args:    UserFindArgs{Role: "root"},
			wantErr: true,
		},
		{
			name:    "unknown sort selector fails",
			args:    UserFindArgs{Order: "email:ASC"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.args.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestUserFindArgsNormalized(t *testing.T) {
	t.Run("zero value gets defaults", func(t *testing.T) {
		got := UserFindArgs{}.normalized()

		assert.Equal(t, DefaultListLimit, got.Limit)
		assert.Equal(t, 0, got.Offset)
		assert.Equal(t, OrderCreatedAtDESC, got.Order)
	})

	t.Run("explicit values survive", func(t *testing.T) {
		got := UserFindArgs{Limit: 25, Offset: 20, Order: OrderCreatedAtASC}.normalized()

		assert.Equal(t, 25, got.Limit)
		assert.Equal(t, 20, got.Offset)
		assert.Equal(t, OrderCreatedAtASC, got.Order)
	})

	t.Run("unrecognized order falls back to newest first", func(t *testing.T) {
		got := UserFindArgs{Order: "email:ASC"}.normalized()
		assert.Equal(t, OrderCreatedAtDESC, got.Order)
	})
}

func TestNewPaginationResult(t *testing.T) {
	t.Run("nil items become an empty slice", func(t *testing.T) {
		page := NewPaginationResult[UserListItem](nil, 0, 0, DefaultListLimit)

		assert.NotNil(t, page.Items)
		assert.Empty(t, page.Items)
	})

	t.Run("echoes paging inputs", func(t *testing.T) {
		page := NewPaginationResult([]int{1, 2, 3}, 25, 20, 10)

		assert.Equal(t, 25, page.Count)
		assert.Equal(t, 20, page.Offset)
		assert.Equal(t, 10, page.Limit)
		assert.Len(t, page.Items, 3)
	})
}
