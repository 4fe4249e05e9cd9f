package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type menuForm struct {
	Path     string `json:"path" binding:"required,menu_path"`
	MenuType string `json:"menu_type" binding:"required,menu_type"`
	Role     string `json:"role_name" binding:"omitempty,role_name"`
	Phone    string `json:"phone" binding:"omitempty,phone"`
}

func TestValidateStruct_CustomTags(t *testing.T) {
	v := New()

	require.NoError(t, v.ValidateStruct(&menuForm{Path: "/dash", MenuType: "admin_dashboard", Role: "superAdmin", Phone: "+1 650-253-0000"}))

	cases := map[string]menuForm{
		"path":      {Path: "dash", MenuType: "main"},
		"path_ws":   {Path: "/da sh", MenuType: "main"},
		"menu_type": {Path: "/", MenuType: "sidebar"},
		"role_name": {Path: "/", MenuType: "main", Role: "super-admin"},
		"phone":     {Path: "/", MenuType: "main", Phone: "12"},
	}
	for name, form := range cases {
		form := form
		assert.Error(t, v.ValidateStruct(&form), name)
	}
}

func TestTranslate_UsesJSONFieldNames(t *testing.T) {
	err := DefaultValidator().ValidateStruct(&menuForm{Path: "/", MenuType: "sidebar"})
	require.Error(t, err)

	assert.Equal(t, "menu_type must be one of main, user_dashboard, admin_dashboard", Translate(err))
	assert.Equal(t, map[string]string{"menu_type": "menu_type must be one of main, user_dashboard, admin_dashboard"}, FieldErrors(err))
}

func TestValidateStruct_IgnoresNonStructs(t *testing.T) {
	v := New()
	assert.NoError(t, v.ValidateStruct(nil))
	assert.NoError(t, v.ValidateStruct([]string{"a"}))
	var form *menuForm
	assert.NoError(t, v.ValidateStruct(form))
}
