package usecase

import (
	"context"
	"errors"

	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/pkg/log"
)

const auditEntityRole = "role"

type RoleRepository interface {
	FindAll(ctx context.Context) ([]*domain.Role, error)
	Create(ctx context.Context, role *domain.Role) error
	EnsureAll(ctx context.Context, roles []domain.Role) error
}

type roleUsecase struct {
	repo     RoleRepository
	registry *domain.RoleRegistry
	notifier *common.Notifier
	logger   log.Logger
}

func NewRoleUsecase(repo RoleRepository, registry *domain.RoleRegistry, notifier *common.Notifier, logger log.Logger) domain.RoleUsecase {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &roleUsecase{repo: repo, registry: registry, notifier: notifier, logger: logger}
}

// List answers from the registry, which mirrors the roles table after Sync.
func (u *roleUsecase) List(ctx context.Context) ([]domain.Role, error) {
	return u.registry.Roles(), nil
}

func (u *roleUsecase) Create(ctx context.Context, actor *domain.Principal, req *domain.CreateRoleRequest) (*domain.Role, error) {
	if err := actor.RequireRank(domain.MinRankAdmin); err != nil {
		return nil, err
	}
	// a caller cannot mint a role above itself
	if err := actor.RequireRank(req.Rank); err != nil {
		return nil, err
	}

	if u.registry.Exists(req.Name) {
		return nil, domain.ErrRoleExists.WithReasonf("role %q already exists", req.Name)
	}
	if name, taken := u.registry.NameOf(req.Rank); taken {
		return nil, domain.ErrRoleExists.WithReasonf("rank %d already belongs to role %q", req.Rank, name)
	}

	role := &domain.Role{ID: req.Rank, Name: req.Name, Description: req.Description}
	if err := u.repo.Create(ctx, role); err != nil {
		if errors.Is(err, domain.ErrDuplicateRecord) {
			return nil, domain.ErrRoleExists.WithReasonf("role %q or rank %d already exists", req.Name, req.Rank)
		}
		return nil, err
	}
	if err := u.registry.Register(*role); err != nil {
		return nil, err
	}

	u.notifier.Audit(ctx, actor, "create", auditEntityRole, req.Name)
	return role, nil
}

// Sync seeds the default ladder when missing and loads every stored role into
// the registry. Rows that conflict with an already registered role are skipped.
func (u *roleUsecase) Sync(ctx context.Context) error {
	if err := u.repo.EnsureAll(ctx, domain.DefaultRoles()); err != nil {
		return err
	}
	roles, err := u.repo.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, role := range roles {
		if err := u.registry.Register(*role); err != nil {
			u.logger.WarnContext(ctx, "skipping conflicting role",
				log.String("role", role.Name),
				log.Int("rank", int(role.ID)),
				log.Error(err),
			)
		}
	}
	u.logger.InfoContext(ctx, "role registry synchronised", log.Int("roles", len(u.registry.Roles())))
	return nil
}
