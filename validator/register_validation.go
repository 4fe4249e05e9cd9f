package validator

import (
	"regexp"
	"strings"

	"radio-cms/domain"
	"radio-cms/pkg/utils"

	"github.com/go-playground/validator/v10"
)

var (
	roleNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]{1,49}$`)
	menuPathPattern = regexp.MustCompile(`^/[^\s]*$`)
)

type Registration struct {
	Tag  string
	Func validator.Func
}

var defaultRegistrations = [...]Registration{
	{
		Tag:  MenuType,
		Func: IsValidMenuType,
	},
	{
		Tag:  MenuPath,
		Func: IsValidMenuPath,
	},
	{
		Tag:  RoleName,
		Func: IsValidRoleName,
	},
	{
		Tag:  Phone,
		Func: IsValidPhone,
	},
	{
		Tag:  NotEmpty,
		Func: IsNotEmpty,
	},
}

func fieldString(fl validator.FieldLevel) string {
	return fl.Field().String()
}

func IsValidMenuType(fl validator.FieldLevel) bool {
	return domain.MenuType(fieldString(fl)).IsValid()
}

// IsValidMenuPath accepts absolute paths without whitespace. Paths are
// compared verbatim by the access check, so nothing is normalised here.
func IsValidMenuPath(fl validator.FieldLevel) bool {
	return menuPathPattern.MatchString(fieldString(fl))
}

// IsValidRoleName checks the shape of a role name. Whether the role is
// registered is decided by the role registry.
func IsValidRoleName(fl validator.FieldLevel) bool {
	return roleNamePattern.MatchString(fieldString(fl))
}

func IsValidPhone(fl validator.FieldLevel) bool {
	input := fieldString(fl)
	if input == "" {
		return true
	}
	e164, err := utils.FormatE164(input, utils.DefaultPhoneRegion)
	if err != nil {
		return false
	}
	return utils.IsE164Format(e164)
}

func IsNotEmpty(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fieldString(fl)) != ""
}
