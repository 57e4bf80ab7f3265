package users

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Sort selectors accepted by List.
const (
	OrderCreatedAtASC  = "createdAt:ASC"
	OrderCreatedAtDESC = "createdAt:DESC"
)

// DefaultListLimit is applied when a listing request does not set a limit.
const DefaultListLimit = 10

// UserFindArgs narrows and pages a directory listing.
type UserFindArgs struct {
	Limit    int      `json:"limit" query:"limit"`
	Offset   int      `json:"offset" query:"offset"`
	Q        string   `json:"q" query:"q"`
	Role     UserRole `json:"role" query:"role"`
	IsActive *bool    `json:"is_active" query:"is_active"`
	Order    string   `json:"order" query:"order"`
}

// Validate will run validation rules
func (a UserFindArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Limit, validation.Min(0)),
		validation.Field(&a.Offset, validation.Min(0)),
		validation.Field(&a.Role, validation.In(RoleUser, RoleManager, RoleAdmin)),
		validation.Field(&a.Order, validation.In(OrderCreatedAtASC, OrderCreatedAtDESC)),
	)
}

// normalized applies listing defaults: limit 10, offset 0, newest first.
func (a UserFindArgs) normalized() UserFindArgs {
	if a.Limit <= 0 {
		a.Limit = DefaultListLimit
	}
	if a.Offset < 0 {
		a.Offset = 0
	}
	if a.Order != OrderCreatedAtASC {
		a.Order = OrderCreatedAtDESC
	}
	return a
}

// PaginationResult pairs a page of items with the total pre-pagination
// count and echoes the paging inputs for client-side paging math.
type PaginationResult[T any] struct {
	Items  []T `json:"items"`
	Count  int `json:"count"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// NewPaginationResult builds a PaginationResult.
func NewPaginationResult[T any](items []T, count, offset, limit int) PaginationResult[T] {
	if items == nil {
		items = []T{}
	}
	return PaginationResult[T]{
		Items:  items,
		Count:  count,
		Offset: offset,
		Limit:  limit,
	}
}
