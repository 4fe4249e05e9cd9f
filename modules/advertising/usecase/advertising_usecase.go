package usecase

import (
	"context"
	"fmt"

	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/pkg/log"
	"radio-cms/pkg/utils"
)

const auditEntityAd = "advertising"

type AdvertisingRepository interface {
	Create(ctx context.Context, ad *domain.Advertising) error
	FindByID(ctx context.Context, id string) (*domain.Advertising, error)
	FindMany(ctx context.Context, filter *domain.AdvertisingFilter) ([]*domain.Advertising, error)
	FindPage(ctx context.Context, filter *domain.AdvertisingFilter, option *domain.FindPageOption) ([]*domain.Advertising, *domain.Pagination, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

type Option func(*advertisingUsecase)

// WithClock replaces the millisecond clock used for schedules.
func WithClock(now func() int64) Option {
	return func(u *advertisingUsecase) {
		if now != nil {
			u.now = now
		}
	}
}

type advertisingUsecase struct {
	repo     AdvertisingRepository
	notifier *common.Notifier
	logger   log.Logger
	now      func() int64
}

func NewAdvertisingUsecase(repo AdvertisingRepository, notifier *common.Notifier, logger log.Logger, opts ...Option) domain.AdvertisingUsecase {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	u := &advertisingUsecase{repo: repo, notifier: notifier, logger: logger, now: utils.NowUnixMillis}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func validSchedule(startsAt, endsAt int64) error {
	if startsAt > 0 && endsAt > 0 && endsAt <= startsAt {
		return domain.ErrInvalidAdSchedule.WithReasonf("starts_at=%d ends_at=%d", startsAt, endsAt)
	}
	return nil
}

func (u *advertisingUsecase) Create(ctx context.Context, actor *domain.Principal, req *domain.CreateAdRequest) (*domain.Advertising, error) {
	if err := actor.RequireRank(domain.MinRankAdmin); err != nil {
		return nil, err
	}
	if err := validSchedule(req.StartsAt, req.EndsAt); err != nil {
		return nil, err
	}

	ad := &domain.Advertising{
		Name:     req.Name,
		Company:  req.Company,
		ImageURL: req.ImageURL,
		LinkURL:  req.LinkURL,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		IsActive: req.IsActive == nil || *req.IsActive,
	}
	if err := u.repo.Create(ctx, ad); err != nil {
		return nil, err
	}

	u.notifier.Audit(ctx, actor, "create", auditEntityAd, ad.ID)
	u.notify(ctx, domain.EventAdCreated, "Advertisement created", fmt.Sprintf("%q was created", ad.Name), ad)
	return ad, nil
}

func (u *advertisingUsecase) Update(ctx context.Context, actor *domain.Principal, id string, req *domain.UpdateAdRequest) (*domain.Advertising, error) {
	if err := actor.RequireRank(domain.MinRankAdmin); err != nil {
		return nil, err
	}
	ad, err := u.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
		ad.Name = *req.Name
	}
	if req.Company != nil {
		fields["company"] = *req.Company
		ad.Company = *req.Company
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
		ad.ImageURL = *req.ImageURL
	}
	if req.LinkURL != nil {
		fields["link_url"] = *req.LinkURL
		ad.LinkURL = *req.LinkURL
	}
	if req.StartsAt != nil {
		fields["starts_at"] = *req.StartsAt
		ad.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		fields["ends_at"] = *req.EndsAt
		ad.EndsAt = *req.EndsAt
	}
	if len(fields) == 0 {
		return nil, domain.ErrBadRequest.WithReason("no fields to update")
	}
	if err := validSchedule(ad.StartsAt, ad.EndsAt); err != nil {
		return nil, err
	}
	if err := u.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, common.NotFoundOr(err, domain.ErrAdNotFound)
	}

	u.notifier.Audit(ctx, actor, "update", auditEntityAd, id)
	u.notify(ctx, domain.EventAdUpdated, "Advertisement updated", fmt.Sprintf("%q was updated", ad.Name), ad)
	return ad, nil
}

func (u *advertisingUsecase) ChangeStatus(ctx context.Context, actor *domain.Principal, id string, active bool) (*domain.Advertising, error) {
	if err := actor.RequireRank(domain.MinRankAdmin); err != nil {
		return nil, err
	}
	ad, err := u.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ad.IsActive == active {
		return ad, nil
	}
	if err := u.repo.UpdateFields(ctx, id, map[string]any{"is_active": active}); err != nil {
		return nil, common.NotFoundOr(err, domain.ErrAdNotFound)
	}
	ad.IsActive = active

	u.notifier.Audit(ctx, actor, "change_status", auditEntityAd, id)
	u.notify(ctx, domain.EventAdStatusChanged, "Advertisement status changed", statusMessage(ad), ad)
	return ad, nil
}

func (u *advertisingUsecase) Delete(ctx context.Context, actor *domain.Principal, id string) error {
	if err := actor.RequireRank(domain.MinRankAdmin); err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return common.NotFoundOr(err, domain.ErrAdNotFound)
	}

	u.notifier.Audit(ctx, actor, "delete", auditEntityAd, id)
	u.notify(ctx, domain.EventAdDeleted, "Advertisement deleted", "An advertisement was deleted", map[string]string{"id": id})
	return nil
}

// ListRunning returns the active ads whose schedule covers the current time.
func (u *advertisingUsecase) ListRunning(ctx context.Context) ([]*domain.Advertising, error) {
	active, now := true, u.now()
	return u.repo.FindMany(ctx, &domain.AdvertisingFilter{IsActive: &active, RunningAt: &now})
}

func (u *advertisingUsecase) FindPage(ctx context.Context, filter *domain.AdvertisingFilter, option *domain.FindPageOption) ([]*domain.Advertising, *domain.Pagination, error) {
	return u.repo.FindPage(ctx, filter, option)
}

// ExpireEnded deactivates every active ad whose end has passed and publishes
// one status change per ad. It returns how many ads were deactivated; a
// failure on one ad does not stop the others.
func (u *advertisingUsecase) ExpireEnded(ctx context.Context) (int, error) {
	active, now := true, u.now()
	ended, err := u.repo.FindMany(ctx, &domain.AdvertisingFilter{IsActive: &active, EndedBefore: &now})
	if err != nil {
		return 0, err
	}

	expired := 0
	var firstErr error
	for _, ad := range ended {
		if err := u.repo.UpdateFields(ctx, ad.ID, map[string]any{"is_active": false}); err != nil {
			u.logger.WarnContext(ctx, "failed to expire advertisement", log.String("ad_id", ad.ID), log.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		ad.IsActive = false
		expired++
		u.notify(ctx, domain.EventAdStatusChanged, "Advertisement expired", statusMessage(ad), ad)
	}
	return expired, firstErr
}

func (u *advertisingUsecase) findByID(ctx context.Context, id string) (*domain.Advertising, error) {
	ad, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, common.NotFoundOr(err, domain.ErrAdNotFound)
	}
	return ad, nil
}

func (u *advertisingUsecase) notify(ctx context.Context, eventType, title, message string, data any) {
	u.notifier.Publish(ctx, domain.NotificationEvent{
		Type:     eventType,
		Title:    title,
		Message:  message,
		Data:     data,
		Priority: domain.PriorityLow,
	}, domain.RoomAdmin)
}

func statusMessage(ad *domain.Advertising) string {
	state := "deactivated"
	if ad.IsActive {
		state = "activated"
	}
	return fmt.Sprintf("%q was %s", ad.Name, state)
}
