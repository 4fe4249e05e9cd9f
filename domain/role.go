package domain

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
)

/****************************
*        Role errors        *
****************************/
var (
	ErrUnknownRole = &DetailedError{
		IDField:         "UNKNOWN_ROLE",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Role is not registered",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrRoleExists = &DetailedError{
		IDField:         "ROLE_ALREADY_EXISTS",
		StatusDescField: http.StatusText(http.StatusConflict),
		ErrorField:      "A role with this name or rank already exists",
		StatusCodeField: http.StatusConflict,
	}
	ErrInsufficientRank = &DetailedError{
		IDField:         "INSUFFICIENT_RANK",
		StatusDescField: http.StatusText(http.StatusForbidden),
		ErrorField:      "Your role does not allow this action",
		StatusCodeField: http.StatusForbidden,
	}
)

/***************************************
*       Role entities and types       *
***************************************/

// RoleID is the ordinal rank of a role. A higher value is strictly more privileged.
type RoleID int

const (
	RoleIDView       RoleID = 1
	RoleIDUser       RoleID = 3
	RoleIDEdit       RoleID = 5
	RoleIDAdmin      RoleID = 6
	RoleIDSuperAdmin RoleID = 7
)

const (
	RoleNameView       = "view"
	RoleNameUser       = "user"
	RoleNameEdit       = "edit"
	RoleNameAdmin      = "admin"
	RoleNameSuperAdmin = "superAdmin"
)

// Minimum ranks of the write paths.
const (
	MinRankNewsCreate = RoleIDEdit
	MinRankNewsDelete = RoleIDAdmin
	MinRankAdmin      = RoleIDAdmin
)

// AtLeast reports whether r is as privileged as min. All access decisions go through it.
func (r RoleID) AtLeast(min RoleID) bool {
	return r >= min
}

type Role struct {
	ID          RoleID `json:"role_id" gorm:"column:role_id;primaryKey;autoIncrement:false"`
	Name        string `json:"role_name" gorm:"column:role_name;type:varchar(50);uniqueIndex;not null"`
	Description string `json:"role_description" gorm:"column:role_description;type:varchar(255)"`
	CreatedAt   int64  `json:"created_at" gorm:"autoCreateTime:milli"`
	UpdatedAt   int64  `json:"updated_at" gorm:"autoUpdateTime:milli"`
}

func (Role) TableName() string {
	return "roles"
}

// DefaultRoles is the privilege ladder seeded on first run.
func DefaultRoles() []Role {
	return []Role{
		{ID: RoleIDView, Name: RoleNameView, Description: "Read-only access"},
		{ID: RoleIDUser, Name: RoleNameUser, Description: "Registered listener"},
		{ID: RoleIDEdit, Name: RoleNameEdit, Description: "Content editor"},
		{ID: RoleIDAdmin, Name: RoleNameAdmin, Description: "Station administrator"},
		{ID: RoleIDSuperAdmin, Name: RoleNameSuperAdmin, Description: "Full access"},
	}
}

type RoleFilter struct {
	ID   *RoleID `json:"role_id" form:"role_id"`
	Name *string `json:"role_name" form:"role_name"`
}

// RoleRegistry is a concurrency safe bijection between role names and ranks.
type RoleRegistry struct {
	mu     sync.RWMutex
	byName map[string]RoleID
	byRank map[RoleID]Role
}

func NewRoleRegistry(roles ...Role) (*RoleRegistry, error) {
	r := &RoleRegistry{
		byName: make(map[string]RoleID, len(roles)),
		byRank: make(map[RoleID]Role, len(roles)),
	}
	for _, role := range roles {
		if err := r.Register(role); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a role. Re-registering an identical name/rank pair is a no-op.
func (r *RoleRegistry) Register(role Role) error {
	if role.Name == "" || role.ID <= 0 {
		return fmt.Errorf("role must have a name and a positive rank, got %q:%d", role.Name, role.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if rank, ok := r.byName[role.Name]; ok && rank != role.ID {
		return ErrRoleExists.WithReasonf("role %q already has rank %d", role.Name, rank)
	}
	if existing, ok := r.byRank[role.ID]; ok && existing.Name != role.Name {
		return ErrRoleExists.WithReasonf("rank %d already belongs to role %q", role.ID, existing.Name)
	}

	r.byName[role.Name] = role.ID
	r.byRank[role.ID] = role
	return nil
}

// RankOf returns the rank of a role name or ErrUnknownRole.
func (r *RoleRegistry) RankOf(name string) (RoleID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rank, ok := r.byName[name]
	if !ok {
		return 0, ErrUnknownRole.WithReasonf("role %q is not registered", name)
	}
	return rank, nil
}

func (r *RoleRegistry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byName[name]
	return ok
}

func (r *RoleRegistry) NameOf(rank RoleID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.byRank[rank]
	return role.Name, ok
}

func (r *RoleRegistry) IsRegistered(rank RoleID) bool {
	_, ok := r.NameOf(rank)
	return ok
}

// Roles returns the registered roles ordered by rank.
func (r *RoleRegistry) Roles() []Role {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roles := make([]Role, 0, len(r.byRank))
	for _, role := range r.byRank {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles
}

/**********************************************
*       Role usecase interfaces and types      *
**********************************************/
type RoleUsecase interface {
	List(ctx context.Context) ([]Role, error)
	Create(ctx context.Context, actor *Principal, req *CreateRoleRequest) (*Role, error)
	Sync(ctx context.Context) error
}

type CreateRoleRequest struct {
	Name        string `json:"role_name" binding:"required,min=2,max=50,alphanum"`
	Rank        RoleID `json:"role_id" binding:"required,min=1,max=100"`
	Description string `json:"role_description" binding:"max=255"`
}
