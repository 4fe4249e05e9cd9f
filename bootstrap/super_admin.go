package bootstrap

import (
	"context"

	"radio-cms/domain"
	"radio-cms/pkg/log"

	"github.com/pkg/errors"
)

type SuperAdminSettings interface {
	SuperAdminEmail() string
	SuperAdminPassword() string
	SuperAdminName() string
}

type SuperAdminEnsurer interface {
	EnsureSuperAdmin(ctx context.Context, email, password, fullName string) (*domain.User, error)
}

// SeedSuperAdmin creates the bootstrap account. It does nothing when no email
// is configured.
func SeedSuperAdmin(ctx context.Context, users SuperAdminEnsurer, settings SuperAdminSettings, logger log.Logger) error {
	if settings.SuperAdminEmail() == "" {
		logger.Warn("SUPER_ADMIN_EMAIL not set, skipping super admin seed")
		return nil
	}

	user, err := users.EnsureSuperAdmin(ctx, settings.SuperAdminEmail(), settings.SuperAdminPassword(), settings.SuperAdminName())
	if err != nil {
		return errors.Wrap(err, "seed super admin")
	}
	logger.Info("super admin ready",
		log.String("user_id", user.ID),
		log.Int("role_id", int(user.RoleID)),
	)
	return nil
}
