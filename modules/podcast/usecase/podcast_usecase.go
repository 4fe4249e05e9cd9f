package usecase

import (
	"context"
	"fmt"

	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/pkg/log"
)

const auditEntityPodcast = "podcast"

type PodcastRepository interface {
	Create(ctx context.Context, podcast *domain.Podcast) error
	FindByID(ctx context.Context, id string) (*domain.Podcast, error)
	FindPage(ctx context.Context, filter *domain.PodcastFilter, option *domain.FindPageOption) ([]*domain.Podcast, *domain.Pagination, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

type podcastUsecase struct {
	repo     PodcastRepository
	notifier *common.Notifier
	logger   log.Logger
}

func NewPodcastUsecase(repo PodcastRepository, notifier *common.Notifier, logger log.Logger) domain.PodcastUsecase {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &podcastUsecase{repo: repo, notifier: notifier, logger: logger}
}

func (u *podcastUsecase) Create(ctx context.Context, actor *domain.Principal, req *domain.CreatePodcastRequest) (*domain.Podcast, error) {
	if err := actor.RequireRank(domain.MinRankNewsCreate); err != nil {
		return nil, err
	}
	podcast := &domain.Podcast{
		Title:       req.Title,
		Description: req.Description,
		AudioURL:    req.AudioURL,
		CoverURL:    req.CoverURL,
		DurationSec: req.DurationSec,
		IsActive:    req.IsActive == nil || *req.IsActive,
		CreatedBy:   actor.UserID,
	}
	if err := u.repo.Create(ctx, podcast); err != nil {
		return nil, err
	}

	u.notifier.Audit(ctx, actor, "create", auditEntityPodcast, podcast.ID)
	u.notifier.Publish(ctx, domain.NotificationEvent{
		Type:     domain.EventPodcastCreated,
		Title:    "Podcast created",
		Message:  fmt.Sprintf("%q was added", podcast.Title),
		Data:     podcast,
		Priority: domain.PriorityMedium,
	}, domain.RoomAdmin)
	return podcast, nil
}

// Update also notifies listeners subscribed to the podcast's own room.
func (u *podcastUsecase) Update(ctx context.Context, actor *domain.Principal, id string, req *domain.UpdatePodcastRequest) (*domain.Podcast, error) {
	if err := actor.RequireRank(domain.MinRankNewsCreate); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.AudioURL != nil {
		fields["audio_url"] = *req.AudioURL
	}
	if req.CoverURL != nil {
		fields["cover_url"] = *req.CoverURL
	}
	if req.DurationSec != nil {
		fields["duration_sec"] = *req.DurationSec
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if len(fields) == 0 {
		return nil, domain.ErrBadRequest.WithReason("no fields to update")
	}
	if err := u.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, common.NotFoundOr(err, domain.ErrPodcastNotFound)
	}

	podcast, err := u.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.notifier.Audit(ctx, actor, "update", auditEntityPodcast, id)
	u.notifier.Publish(ctx, domain.NotificationEvent{
		Type:     domain.EventPodcastUpdated,
		Title:    "Podcast updated",
		Message:  fmt.Sprintf("%q was updated", podcast.Title),
		Data:     podcast,
		Priority: domain.PriorityMedium,
	}, domain.RoomAdmin, domain.PodcastRoom(id))
	return podcast, nil
}

func (u *podcastUsecase) Delete(ctx context.Context, actor *domain.Principal, id string) error {
	if err := actor.RequireRank(domain.MinRankNewsDelete); err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return common.NotFoundOr(err, domain.ErrPodcastNotFound)
	}

	u.notifier.Audit(ctx, actor, "delete", auditEntityPodcast, id)
	u.notifier.Publish(ctx, domain.NotificationEvent{
		Type:     domain.EventPodcastDeleted,
		Title:    "Podcast deleted",
		Message:  "A podcast was removed",
		Data:     map[string]string{"id": id},
		Priority: domain.PriorityMedium,
	}, domain.RoomAdmin, domain.PodcastRoom(id))
	return nil
}

func (u *podcastUsecase) FindByID(ctx context.Context, id string) (*domain.Podcast, error) {
	podcast, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, common.NotFoundOr(err, domain.ErrPodcastNotFound)
	}
	return podcast, nil
}

func (u *podcastUsecase) FindPage(ctx context.Context, filter *domain.PodcastFilter, option *domain.FindPageOption) ([]*domain.Podcast, *domain.Pagination, error) {
	return u.repo.FindPage(ctx, filter, option)
}
