package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is a coarse permission label attached to a user.
type UserRole = string

const (
	// RoleUser is the base role every account holds.
	RoleUser UserRole = "user"
	// RoleManager can administer regular accounts but not grant admin.
	RoleManager UserRole = "manager"
	// RoleAdmin has the full permission set.
	RoleAdmin UserRole = "admin"
)

// ValidRole checks if the role is one of the predefined valid roles
func ValidRole(role UserRole) bool {
	switch role {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, ValidRole(role)
}

// GetAllRoles returns all predefined roles in hierarchical order
func GetAllRoles() []UserRole {
	return []UserRole{RoleUser, RoleManager, RoleAdmin}
}

func rolesContain(roles []UserRole, role UserRole) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// User is the directory's identity model.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID           uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email        string     `bun:"email,notnull,unique" json:"email,omitempty"`
	FullName     string     `bun:"full_name" json:"full_name,omitempty"`
	PasswordHash string     `bun:"password_hash" json:"-"`
	Roles        []UserRole `bun:"roles,notnull" json:"roles,omitempty"`
	IsActive     bool       `bun:"is_active" json:"is_active,omitempty"`
	Verified     bool       `bun:"verified" json:"verified,omitempty"`
	IsConfirmed  bool       `bun:"is_confirmed" json:"is_confirmed,omitempty"`
	Student      *Student   `bun:"rel:has-one,join:id=user_id" json:"student,omitempty"`
	Company      *Company   `bun:"rel:has-one,join:id=user_id" json:"company,omitempty"`
	CreatedAt    *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt    *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt    *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// HasRole checks if the user holds the given role.
func (u *User) HasRole(role UserRole) bool {
	if u == nil {
		return false
	}
	return rolesContain(u.Roles, role)
}

// EnsureRoles guarantees the base role invariant: every account carries at
// least RoleUser.
func (u *User) EnsureRoles() *User {
	if len(u.Roles) == 0 {
		u.Roles = []UserRole{RoleUser}
	}
	return u
}

// Student is the one-to-one student profile linked to a user.
type Student struct {
	bun.BaseModel `bun:"table:students,alias:stu"`

	ID        uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID    uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	FullName  string     `bun:"full_name" json:"full_name,omitempty"`
	School    string     `bun:"school" json:"school,omitempty"`
	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Company is the one-to-one company profile linked to a user.
type Company struct {
	bun.BaseModel `bun:"table:companies,alias:cmp"`

	ID          uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID      uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	CompanyName string     `bun:"company_name" json:"company_name,omitempty"`
	CompanySize string     `bun:"company_size" json:"company_size,omitempty"`
	Website     string     `bun:"website" json:"website,omitempty"`
	Description string     `bun:"description" json:"description,omitempty"`
	CreatedAt   *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt   *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// StudentSummary is the student slice of the CurrentUser projection.
type StudentSummary struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name,omitempty"`
	School   string    `json:"school,omitempty"`
}

// CompanySummary is the company slice of the CurrentUser projection.
type CompanySummary struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"company_name,omitempty"`
	CompanySize string    `json:"company_size,omitempty"`
}

// CurrentUser is the sanitized identity projection bound to a request
// context. It deliberately has no credential fields.
type CurrentUser struct {
	ID       uuid.UUID       `json:"id"`
	FullName string          `json:"full_name,omitempty"`
	Roles    []UserRole      `json:"roles"`
	Student  *StudentSummary `json:"student,omitempty"`
	Company  *CompanySummary `json:"company,omitempty"`
}

// HasRole checks if the identity holds the given role.
func (c *CurrentUser) HasRole(role UserRole) bool {
	if c == nil {
		return false
	}
	return rolesContain(c.Roles, role)
}

// NewCurrentUser projects a stored user into the request-scoped identity.
// Roles are copied so a later update to the record cannot reach a context
// that already holds the projection.
func NewCurrentUser(u *User) *CurrentUser {
	if u == nil {
		return nil
	}

	cu := &CurrentUser{
		ID:       u.ID,
		FullName: u.FullName,
		Roles:    append([]UserRole{}, u.Roles...),
	}

	if u.Student != nil {
		cu.Student = &StudentSummary{
			ID:       u.Student.ID,
			FullName: u.Student.FullName,
			School:   u.Student.School,
		}
	}

	if u.Company != nil {
		cu.Company = &CompanySummary{
			ID:          u.Company.ID,
			CompanyName: u.Company.CompanyName,
			CompanySize: u.Company.CompanySize,
		}
	}

	return cu
}

// UserListItem is the narrow projection returned by paginated listings.
type UserListItem struct {
	ID        uuid.UUID  `bun:"id" json:"id"`
	FullName  string     `bun:"full_name" json:"full_name,omitempty"`
	Email     string     `bun:"email" json:"email"`
	Roles     []UserRole `bun:"roles" json:"roles"`
	IsActive  bool       `bun:"is_active" json:"is_active"`
	CreatedAt *time.Time `bun:"created_at" json:"created_at,omitempty"`
}
