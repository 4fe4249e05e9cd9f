package domain

import (
	"context"
	"net/http"
)

/****************************
*        User errors        *
****************************/
var (
	ErrUserNotFound = &DetailedError{
		IDField:         "USER_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "User not found",
		StatusCodeField: http.StatusNotFound,
	}
	ErrEmailAlreadyExists = &DetailedError{
		IDField:         "EMAIL_ALREADY_EXISTS",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "User with this email already exists",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrPasswordHashFailed = &DetailedError{
		IDField:         "PASSWORD_HASH_FAILED",
		StatusDescField: http.StatusText(http.StatusInternalServerError),
		ErrorField:      "Failed to hash password",
		StatusCodeField: http.StatusInternalServerError,
	}
	ErrUserInactive = &DetailedError{
		IDField:         "USER_INACTIVE",
		StatusDescField: http.StatusText(http.StatusForbidden),
		ErrorField:      "User account is inactive",
		StatusCodeField: http.StatusForbidden,
	}
)

/***************************************
*       User entities and types       *
***************************************/

type User struct {
	SQLModel
	Email    string `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password string `json:"-" gorm:"type:varchar(60);not null"`
	FullName string `json:"full_name" gorm:"type:varchar(100);not null"`
	RoleID   RoleID `json:"role_id" gorm:"not null;index"`
	Active   bool   `json:"active" gorm:"not null"`
}

func (u *User) Principal() *Principal {
	return &Principal{UserID: u.ID, Email: u.Email, Role: u.RoleID}
}

type UserFilter struct {
	ID     *string `json:"id" form:"id"`
	Email  *string `json:"email" form:"email"`
	RoleID *RoleID `json:"role_id" form:"role_id"`
	Active *bool   `json:"active" form:"active"`
}

/**********************************************
*       User usecase interfaces and types      *
**********************************************/
type UserUsecase interface {
	FindByID(ctx context.Context, userID string) (*User, error)
	FindPage(ctx context.Context, filter *UserFilter, option *FindPageOption) ([]*User, *Pagination, error)
	ChangeRole(ctx context.Context, actor *Principal, userID string, req *ChangeUserRoleRequest) (*User, error)
	EnsureSuperAdmin(ctx context.Context, email, password, fullName string) (*User, error)
}

type ChangeUserRoleRequest struct {
	RoleName string `json:"role_name" binding:"required,role_name"`
}
