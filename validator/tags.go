package validator

const (
	MenuType = "menu_type"
	MenuPath = "menu_path"
	RoleName = "role_name"
	Phone    = "phone"
	NotEmpty = "not_empty"
)
