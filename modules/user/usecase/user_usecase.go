package usecase

import (
	"context"
	"strings"

	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/pkg/log"
)

const auditEntityUser = "user"

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindPage(ctx context.Context, filter *domain.UserFilter, option *domain.FindPageOption) ([]*domain.User, *domain.Pagination, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}

type userUsecase struct {
	repo     UserRepository
	registry *domain.RoleRegistry
	hasher   PasswordHasher
	notifier *common.Notifier
	logger   log.Logger
}

func NewUserUsecase(
	repo UserRepository,
	registry *domain.RoleRegistry,
	hasher PasswordHasher,
	notifier *common.Notifier,
	logger log.Logger,
) domain.UserUsecase {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &userUsecase{
		repo:     repo,
		registry: registry,
		hasher:   hasher,
		notifier: notifier,
		logger:   logger,
	}
}

func (u *userUsecase) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := u.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, common.NotFoundOr(err, domain.ErrUserNotFound)
	}
	return user, nil
}

func (u *userUsecase) FindPage(ctx context.Context, filter *domain.UserFilter, option *domain.FindPageOption) ([]*domain.User, *domain.Pagination, error) {
	return u.repo.FindPage(ctx, filter, option)
}

// ChangeRole resolves the role name through the registry. Callers cannot
// grant a rank above their own.
func (u *userUsecase) ChangeRole(ctx context.Context, actor *domain.Principal, userID string, req *domain.ChangeUserRoleRequest) (*domain.User, error) {
	if err := actor.RequireRank(domain.MinRankAdmin); err != nil {
		return nil, err
	}

	rank, err := u.registry.RankOf(req.RoleName)
	if err != nil {
		return nil, err
	}
	if err := actor.RequireRank(rank); err != nil {
		return nil, err
	}

	user, err := u.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.RoleID == rank {
		return user, nil
	}
	if err := actor.RequireRank(user.RoleID); err != nil {
		return nil, err
	}

	if err := u.repo.UpdateFields(ctx, userID, map[string]any{"role_id": rank}); err != nil {
		return nil, common.NotFoundOr(err, domain.ErrUserNotFound)
	}
	user.RoleID = rank

	u.notifier.Audit(ctx, actor, "change_role", auditEntityUser, userID)
	return user, nil
}

// EnsureSuperAdmin creates the bootstrap account when no user has the email.
// An existing account is returned as is.
func (u *userUsecase) EnsureSuperAdmin(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := u.repo.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !common.IsRecordNotFound(err) {
		return nil, err
	}

	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return nil, domain.ErrPasswordHashFailed.WithWrap(err)
	}
	user := &domain.User{
		Email:    email,
		Password: hashed,
		FullName: fullName,
		RoleID:   domain.RoleIDSuperAdmin,
		Active:   true,
	}
	if err := u.repo.Create(ctx, user); err != nil {
		if common.IsDuplicateRecord(err) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}
	u.logger.InfoContext(ctx, "super admin account created", log.String("email", email))
	return user, nil
}
