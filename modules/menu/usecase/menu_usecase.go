package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/pkg/cache"
	"radio-cms/pkg/log"
	"radio-cms/pkg/metrics"
	"radio-cms/pkg/utils"

	"github.com/samber/lo"
	"golang.org/x/sync/singleflight"
)

const (
	treeCachePrefix  = "menu:tree:"
	DefaultTreeTTL   = 10 * time.Minute
	auditEntityMenu  = "menu_item"
	roleAgnosticSlot = "any"

	// TreeCachePattern matches every cached tree.
	TreeCachePattern = treeCachePrefix + "*"
)

type MenuRepository interface {
	FindActive(ctx context.Context, menuType domain.MenuType, role *domain.RoleID) ([]*domain.MenuItem, error)
	FindByType(ctx context.Context, menuType domain.MenuType) ([]*domain.MenuItem, error)
	ExistsActive(ctx context.Context, filter *domain.MenuFilter) (bool, error)
	Create(ctx context.Context, item *domain.MenuItem) error
	FindByID(ctx context.Context, id string) (*domain.MenuItem, error)
	FindPage(ctx context.Context, filter *domain.MenuFilter, option *domain.FindPageOption) ([]*domain.MenuItem, *domain.Pagination, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

type Option func(*menuUsecase)

// WithTreeTTL sets how long a resolved tree stays cached.
func WithTreeTTL(ttl time.Duration) Option {
	return func(u *menuUsecase) {
		if ttl > 0 {
			u.treeTTL = ttl
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(u *menuUsecase) {
		u.metrics = m
	}
}

type menuUsecase struct {
	repo      MenuRepository
	cache     cache.Client
	notifier  *common.Notifier
	logger    log.Logger
	metrics   *metrics.Metrics
	treeTTL   time.Duration

	group      singleflight.Group
	generation atomic.Uint64
}

// NewMenuUsecase builds the menu service. cacheClient may be nil, in which
// case every resolution reads from storage.
func NewMenuUsecase(
	repo MenuRepository,
	cacheClient cache.Client,
	notifier *common.Notifier,
	logger log.Logger,
	opts ...Option,
) domain.MenuUsecase {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	u := &menuUsecase{
		repo:      repo,
		cache:     cacheClient,
		notifier:  notifier,
		logger:    logger,
		treeTTL:   DefaultTreeTTL,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

/*******************
*    Resolution    *
*******************/

func treeCacheKey(menuType domain.MenuType, role domain.RoleID) string {
	if menuType.IsRoleAgnostic() {
		return fmt.Sprintf("%s%s:%s", treeCachePrefix, menuType, roleAgnosticSlot)
	}
	return fmt.Sprintf("%s%s:%d", treeCachePrefix, menuType, role)
}

func (u *menuUsecase) Resolve(ctx context.Context, role domain.RoleID, menuType domain.MenuType) ([]*domain.MenuNode, error) {
	key := treeCacheKey(menuType, role)
	if tree, ok := u.cachedTree(ctx, key); ok {
		u.metrics.MenuCacheHit(string(menuType))
		return tree, nil
	}
	u.metrics.MenuCacheMiss(string(menuType))

	// The shared load outlives any single waiter; the repository still
	// applies its own query timeout.
	loadCtx := context.WithoutCancel(ctx)
	result := u.group.DoChan(key, func() (any, error) {
		gen := u.generation.Load()

		var scope *domain.RoleID
		if !menuType.IsRoleAgnostic() {
			scope = &role
		}
		items, err := u.repo.FindActive(loadCtx, menuType, scope)
		if err != nil {
			return nil, err
		}
		tree := BuildMenuTree(items)

		// A write that landed while we were loading makes this tree stale.
		if gen == u.generation.Load() {
			u.storeTree(loadCtx, key, tree)
		}
		return tree, nil
	})

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, domain.ErrStorageTimeout.WithWrap(ctx.Err())
		}
		return nil, domain.ErrStorage.WithWrap(ctx.Err())
	case res := <-result:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]*domain.MenuNode), nil
	}
}

func (u *menuUsecase) cachedTree(ctx context.Context, key string) ([]*domain.MenuNode, bool) {
	if u.cache == nil {
		return nil, false
	}
	var tree []*domain.MenuNode
	if err := u.cache.GetJSON(ctx, key, &tree); err != nil {
		if !errors.Is(err, cache.ErrKeyNotFound) {
			u.logger.WarnContext(ctx, "menu tree cache read failed", log.String("key", key), log.Error(err))
		}
		return nil, false
	}
	if tree == nil {
		tree = []*domain.MenuNode{}
	}
	return tree, true
}

func (u *menuUsecase) storeTree(ctx context.Context, key string, tree []*domain.MenuNode) {
	if u.cache == nil {
		return
	}
	if err := u.cache.SetJSON(ctx, key, tree, u.treeTTL); err != nil {
		u.logger.WarnContext(ctx, "menu tree cache write failed", log.String("key", key), log.Error(err))
	}
}

func (u *menuUsecase) invalidateTrees(ctx context.Context) {
	u.generation.Add(1)
	if u.cache == nil {
		return
	}
	if err := u.cache.DeletePattern(ctx, TreeCachePattern); err != nil {
		u.logger.WarnContext(ctx, "menu tree cache invalidation failed", log.Error(err))
	}
}

func (u *menuUsecase) HasAccess(ctx context.Context, role domain.RoleID, path string) (bool, error) {
	return u.repo.ExistsActive(ctx, &domain.MenuFilter{RoleID: &role, Path: &path})
}

/*******************
*      Writes      *
*******************/

func (u *menuUsecase) CreateMenuItemWithCheck(ctx context.Context, actor *domain.Principal, req *domain.CreateMenuItemRequest) (*domain.MenuItem, error) {
	if err := actor.RequireRank(domain.MinRankAdmin); err != nil {
		return nil, err
	}
	if !req.MenuType.IsValid() {
		return nil, domain.ErrInvalidMenuType.WithReasonf("unknown menu type %q", req.MenuType)
	}

	item := &domain.MenuItem{
		Title:      req.Title,
		Path:       req.Path,
		RoleID:     req.RoleID,
		MenuType:   req.MenuType,
		OrderIndex: req.OrderIndex,
		IsActive:   lo.FromPtrOr(req.IsActive, true),
	}
	if req.ParentID != nil && *req.ParentID != "" {
		if err := u.checkParent(ctx, *req.ParentID, item.MenuType); err != nil {
			return nil, err
		}
		item.ParentID = lo.ToPtr(*req.ParentID)
	}

	if item.IsActive {
		if err := u.checkDuplicate(ctx, item, nil); err != nil {
			return nil, err
		}
	}

	if err := u.repo.Create(ctx, item); err != nil {
		return nil, translateWriteError(err)
	}

	u.afterWrite(ctx, actor, "create", domain.EventMenuCreated, "Menu item created",
		fmt.Sprintf("%q was added to the %s menu", item.Title, item.MenuType), item)
	return item, nil
}

func (u *menuUsecase) UpdateMenuItem(ctx context.Context, actor *domain.Principal, id string, req *domain.UpdateMenuItemRequest) (*domain.MenuItem, error) {
	if err := actor.RequireRank(domain.MinRankAdmin); err != nil {
		return nil, err
	}
	current, err := u.findItem(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *current
	fields := map[string]any{}
	if req.Title != nil && *req.Title != current.Title {
		next.Title = *req.Title
		fields["title"] = next.Title
	}
	if req.Path != nil && *req.Path != current.Path {
		next.Path = *req.Path
		fields["path"] = next.Path
	}
	if req.RoleID != nil && *req.RoleID != current.RoleID {
		next.RoleID = *req.RoleID
		fields["role_id"] = next.RoleID
	}
	if req.OrderIndex != nil && *req.OrderIndex != current.OrderIndex {
		next.OrderIndex = *req.OrderIndex
		fields["order_index"] = next.OrderIndex
	}
	if req.MenuType != nil && *req.MenuType != current.MenuType {
		if !req.MenuType.IsValid() {
			return nil, domain.ErrInvalidMenuType.WithReasonf("unknown menu type %q", *req.MenuType)
		}
		next.MenuType = *req.MenuType
		fields["menu_type"] = next.MenuType
	}
	if req.ParentID != nil {
		if *req.ParentID == "" {
			next.ParentID = nil
		} else {
			next.ParentID = lo.ToPtr(*req.ParentID)
		}
		if lo.FromPtr(next.ParentID) != lo.FromPtr(current.ParentID) {
			fields["parent_id"] = next.ParentID
		}
	}

	if len(fields) == 0 {
		return current, nil
	}

	if err := u.checkPlacement(ctx, current, &next); err != nil {
		return nil, err
	}
	if next.IsActive && tupleChanged(current, &next) {
		if err := u.checkDuplicate(ctx, &next, &current.ID); err != nil {
			return nil, err
		}
	}

	if err := u.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, translateWriteError(err)
	}
	next.UpdatedAt = utils.NowUnixMillis()

	u.afterWrite(ctx, actor, "update", domain.EventMenuUpdated, "Menu item updated",
		fmt.Sprintf("%q was updated", next.Title), &next)
	return &next, nil
}

func (u *menuUsecase) SetMenuItemStatus(ctx context.Context, actor *domain.Principal, id string, active bool) (*domain.MenuItem, error) {
	if err := actor.RequireRank(domain.MinRankAdmin); err != nil {
		return nil, err
	}
	item, err := u.findItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.IsActive == active {
		return item, nil
	}
	if active {
		if err := u.checkDuplicate(ctx, item, &item.ID); err != nil {
			return nil, err
		}
	}

	if err := u.repo.UpdateFields(ctx, id, map[string]any{"is_active": active}); err != nil {
		return nil, translateWriteError(err)
	}
	item.IsActive = active
	item.UpdatedAt = utils.NowUnixMillis()

	state := "deactivated"
	if active {
		state = "activated"
	}
	u.afterWrite(ctx, actor, "status", domain.EventMenuStatusChanged, "Menu item status changed",
		fmt.Sprintf("%q was %s", item.Title, state), item)
	return item, nil
}

// DeleteMenuItem removes the item together with every descendant.
func (u *menuUsecase) DeleteMenuItem(ctx context.Context, actor *domain.Principal, id string) error {
	if err := actor.RequireRank(domain.MinRankAdmin); err != nil {
		return err
	}
	item, err := u.findItem(ctx, id)
	if err != nil {
		return err
	}
	siblings, err := u.repo.FindByType(ctx, item.MenuType)
	if err != nil {
		return err
	}
	ids := subtreeIDs(siblings, item.ID)

	deleted, err := u.repo.DeleteMany(ctx, ids)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrMenuItemNotFound
	}

	u.afterWrite(ctx, actor, "delete", domain.EventMenuDeleted, "Menu item deleted",
		fmt.Sprintf("%q and %d nested item(s) were removed", item.Title, len(ids)-1),
		map[string]any{"id": item.ID, "deleted_ids": ids, "menu_type": item.MenuType})
	return nil
}

/*******************
*      Reads       *
*******************/

func (u *menuUsecase) GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	return u.findItem(ctx, id)
}

func (u *menuUsecase) ListMenuItems(ctx context.Context, filter *domain.MenuFilter, option *domain.FindPageOption) ([]*domain.MenuItem, *domain.Pagination, error) {
	return u.repo.FindPage(ctx, filter, option)
}

/*******************
*     Helpers      *
*******************/

func (u *menuUsecase) findItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	item, err := u.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrMenuItemNotFound.WithWrap(err)
		}
		return nil, err
	}
	return item, nil
}

func (u *menuUsecase) checkParent(ctx context.Context, parentID string, menuType domain.MenuType) error {
	parent, err := u.repo.FindByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.ErrInvalidMenuParent.WithReasonf("parent %s does not exist", parentID)
		}
		return err
	}
	if parent.MenuType != menuType {
		return domain.ErrInvalidMenuParent.WithReasonf("parent %s belongs to the %s menu", parentID, parent.MenuType)
	}
	return nil
}

// checkPlacement validates a changed parent or menu type against the rest of the menu.
func (u *menuUsecase) checkPlacement(ctx context.Context, current, next *domain.MenuItem) error {
	typeChanged := next.MenuType != current.MenuType
	parentChanged := lo.FromPtr(next.ParentID) != lo.FromPtr(current.ParentID)
	if !typeChanged && !parentChanged {
		return nil
	}

	items, err := u.repo.FindByType(ctx, current.MenuType)
	if err != nil {
		return err
	}
	if typeChanged && len(subtreeIDs(items, current.ID)) > 1 {
		return domain.ErrInvalidMenuParent.WithReason("an item with nested items cannot move to another menu type")
	}
	if next.IsRoot() {
		return nil
	}
	if err := u.checkParent(ctx, *next.ParentID, next.MenuType); err != nil {
		return err
	}
	if createsCycle(items, current.ID, *next.ParentID) {
		return domain.ErrMenuParentCycle
	}
	return nil
}

func (u *menuUsecase) checkDuplicate(ctx context.Context, item *domain.MenuItem, excludeID *string) error {
	exists, err := u.repo.ExistsActive(ctx, &domain.MenuFilter{
		IDNe:     excludeID,
		Title:    &item.Title,
		Path:     &item.Path,
		RoleID:   &item.RoleID,
		MenuType: &item.MenuType,
	})
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrDuplicateMenuItem
	}
	return nil
}

func tupleChanged(a, b *domain.MenuItem) bool {
	return a.Title != b.Title || a.Path != b.Path || a.RoleID != b.RoleID || a.MenuType != b.MenuType
}

// translateWriteError maps a unique index violation, raised when a concurrent
// create slipped past checkDuplicate, onto the same duplicate error.
func translateWriteError(err error) error {
	switch {
	case errors.Is(err, domain.ErrDuplicateRecord):
		return domain.ErrDuplicateMenuItem
	case errors.Is(err, domain.ErrRecordNotFound):
		return domain.ErrMenuItemNotFound.WithWrap(err)
	}
	return err
}

func (u *menuUsecase) afterWrite(ctx context.Context, actor *domain.Principal, action, eventType, title, message string, data any) {
	u.invalidateTrees(ctx)

	entityID := ""
	switch v := data.(type) {
	case *domain.MenuItem:
		entityID = v.ID
	case map[string]any:
		entityID, _ = v["id"].(string)
	}

	u.notifier.Audit(ctx, actor, action, auditEntityMenu, entityID)
	u.notifier.Publish(ctx, domain.NotificationEvent{
		Type:     eventType,
		Title:    title,
		Message:  message,
		Data:     data,
		Priority: domain.PriorityLow,
	}, domain.RoomAdmin)
}
