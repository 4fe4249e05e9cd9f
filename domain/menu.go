package domain

import (
	"context"
	"net/http"
)

/****************************
*        Menu errors        *
****************************/
var (
	ErrMenuItemNotFound = &DetailedError{
		IDField:         "MENU_ITEM_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "Menu item not found",
		StatusCodeField: http.StatusNotFound,
	}
	ErrDuplicateMenuItem = &DetailedError{
		IDField:         "DUPLICATE_MENU_ITEM",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "An active menu item with the same title, path, role and type already exists",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrInvalidMenuType = &DetailedError{
		IDField:         "INVALID_MENU_TYPE",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Menu type must be one of main, user_dashboard, admin_dashboard",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrInvalidMenuParent = &DetailedError{
		IDField:         "INVALID_MENU_PARENT",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Parent menu item must exist and share the same menu type",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrMenuParentCycle = &DetailedError{
		IDField:         "MENU_PARENT_CYCLE",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "A menu item cannot be nested under itself or one of its descendants",
		StatusCodeField: http.StatusBadRequest,
	}
)

/***************************************
*       Menu entities and types       *
***************************************/

type MenuType string

const (
	MenuTypeMain           MenuType = "main"
	MenuTypeUserDashboard  MenuType = "user_dashboard"
	MenuTypeAdminDashboard MenuType = "admin_dashboard"
)

var MenuTypes = []MenuType{MenuTypeMain, MenuTypeUserDashboard, MenuTypeAdminDashboard}

func (t MenuType) IsValid() bool {
	switch t {
	case MenuTypeMain, MenuTypeUserDashboard, MenuTypeAdminDashboard:
		return true
	}
	return false
}

// IsRoleAgnostic reports whether the type resolves to every active item
// regardless of the owning role. Only main and user_dashboard behave this way;
// every other value, known or not, is scoped to the caller's role.
func (t MenuType) IsRoleAgnostic() bool {
	return t == MenuTypeMain || t == MenuTypeUserDashboard
}

type MenuItem struct {
	ID         string   `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title      string   `json:"title" gorm:"type:varchar(100);not null;uniqueIndex:idx_menu_items_active_tuple,where:is_active = true"`
	Path       string   `json:"path" gorm:"type:varchar(255);not null;index;uniqueIndex:idx_menu_items_active_tuple,where:is_active = true"`
	ParentID   *string  `json:"parent_id" gorm:"type:uuid;index"`
	RoleID     RoleID   `json:"role_id" gorm:"not null;index;uniqueIndex:idx_menu_items_active_tuple,where:is_active = true"`
	MenuType   MenuType `json:"menu_type" gorm:"type:varchar(32);not null;index;uniqueIndex:idx_menu_items_active_tuple,where:is_active = true"`
	OrderIndex int      `json:"order_index" gorm:"not null;default:0"`
	IsActive   bool     `json:"is_active" gorm:"not null;index"`
	CreatedAt  int64    `json:"created_at" gorm:"autoCreateTime:milli"`
	UpdatedAt  int64    `json:"updated_at" gorm:"autoUpdateTime:milli"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}

func (m *MenuItem) IsRoot() bool {
	return m.ParentID == nil || *m.ParentID == ""
}

// MenuNode is a resolved menu item. Ownership only points downwards.
type MenuNode struct {
	MenuItem
	Level    int         `json:"level"`
	Children []*MenuNode `json:"children"`
}

type MenuFilter struct {
	ID       *string   `json:"id" form:"id"`
	IDNe     *string   `json:"-" form:"-"`
	Title    *string   `json:"title" form:"title"`
	Path     *string   `json:"path" form:"path"`
	ParentID *string   `json:"parent_id" form:"parent_id"`
	RoleID   *RoleID   `json:"role_id" form:"role_id"`
	MenuType *MenuType `json:"menu_type" form:"menu_type"`
	IsActive *bool     `json:"is_active" form:"is_active"`
}

/**********************************************
*       Menu usecase interfaces and types      *
**********************************************/
type MenuUsecase interface {
	Resolve(ctx context.Context, role RoleID, menuType MenuType) ([]*MenuNode, error)
	HasAccess(ctx context.Context, role RoleID, path string) (bool, error)

	CreateMenuItemWithCheck(ctx context.Context, actor *Principal, req *CreateMenuItemRequest) (*MenuItem, error)
	UpdateMenuItem(ctx context.Context, actor *Principal, id string, req *UpdateMenuItemRequest) (*MenuItem, error)
	SetMenuItemStatus(ctx context.Context, actor *Principal, id string, active bool) (*MenuItem, error)
	DeleteMenuItem(ctx context.Context, actor *Principal, id string) error

	GetMenuItem(ctx context.Context, id string) (*MenuItem, error)
	ListMenuItems(ctx context.Context, filter *MenuFilter, option *FindPageOption) ([]*MenuItem, *Pagination, error)
}

type CreateMenuItemRequest struct {
	Title      string   `json:"title" binding:"required,max=100"`
	Path       string   `json:"path" binding:"required,max=255,menu_path"`
	ParentID   *string  `json:"parent_id" binding:"omitempty,uuid"`
	RoleID     RoleID   `json:"role_id" binding:"required,min=1"`
	MenuType   MenuType `json:"menu_type" binding:"required,menu_type"`
	OrderIndex int      `json:"order_index" binding:"min=0"`
	IsActive   *bool    `json:"is_active"`
}

type UpdateMenuItemRequest struct {
	Title      *string   `json:"title" binding:"omitempty,max=100"`
	Path       *string   `json:"path" binding:"omitempty,max=255,menu_path"`
	// An empty string moves the item to the root level.
	ParentID   *string   `json:"parent_id" binding:"omitempty,uuid"`
	RoleID     *RoleID   `json:"role_id" binding:"omitempty,min=1"`
	MenuType   *MenuType `json:"menu_type" binding:"omitempty,menu_type"`
	OrderIndex *int      `json:"order_index" binding:"omitempty,min=0"`
}

type MenuItemStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type AccessCheckRequest struct {
	Path string `json:"path" binding:"required"`
}

type AccessCheckResponse struct {
	Success   bool `json:"success"`
	HasAccess bool `json:"hasAccess"`
}
