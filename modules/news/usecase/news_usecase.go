package usecase

import (
	"context"
	"fmt"

	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/pkg/log"
	"radio-cms/pkg/utils"
)

const auditEntityNews = "news"

type NewsRepository interface {
	Create(ctx context.Context, news *domain.News) error
	FindByID(ctx context.Context, id string) (*domain.News, error)
	FindPage(ctx context.Context, filter *domain.NewsFilter, option *domain.FindPageOption) ([]*domain.News, *domain.Pagination, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

type newsUsecase struct {
	repo     NewsRepository
	notifier *common.Notifier
	logger   log.Logger
}

func NewNewsUsecase(repo NewsRepository, notifier *common.Notifier, logger log.Logger) domain.NewsUsecase {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &newsUsecase{repo: repo, notifier: notifier, logger: logger}
}

func (u *newsUsecase) Create(ctx context.Context, actor *domain.Principal, req *domain.CreateNewsRequest) (*domain.News, error) {
	if err := actor.RequireRank(domain.MinRankNewsCreate); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = domain.NewsSTTDraft
	}
	if !status.IsValid() {
		return nil, domain.ErrInvalidNewsStatus.WithReasonf("got %q", status)
	}

	news := &domain.News{
		Title:    req.Title,
		Summary:  req.Summary,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		AuthorID: actor.UserID,
		Status:   status,
	}
	if status == domain.NewsSTTPublished {
		news.PublishedAt = utils.NowUnixMillis()
	}
	if err := u.repo.Create(ctx, news); err != nil {
		return nil, err
	}

	u.notifier.Audit(ctx, actor, "create", auditEntityNews, news.ID)
	u.notify(ctx, domain.EventNewsCreated, "News created", fmt.Sprintf("%q was created", news.Title), news)
	return news, nil
}

func (u *newsUsecase) Update(ctx context.Context, actor *domain.Principal, id string, req *domain.UpdateNewsRequest) (*domain.News, error) {
	if err := actor.RequireRank(domain.MinRankNewsCreate); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Summary != nil {
		fields["summary"] = *req.Summary
	}
	if req.Content != nil {
		fields["content"] = *req.Content
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}
	if len(fields) == 0 {
		return nil, domain.ErrBadRequest.WithReason("no fields to update")
	}
	if err := u.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, common.NotFoundOr(err, domain.ErrNewsNotFound)
	}

	news, err := u.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	u.notifier.Audit(ctx, actor, "update", auditEntityNews, id)
	u.notify(ctx, domain.EventNewsUpdated, "News updated", fmt.Sprintf("%q was updated", news.Title), news)
	return news, nil
}

// ChangeStatus stamps published_at the first time an article is published.
func (u *newsUsecase) ChangeStatus(ctx context.Context, actor *domain.Principal, id string, status domain.NewsStatus) (*domain.News, error) {
	if err := actor.RequireRank(domain.MinRankNewsCreate); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, domain.ErrInvalidNewsStatus.WithReasonf("got %q", status)
	}

	news, err := u.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if news.Status == status {
		return news, nil
	}

	fields := map[string]any{"status": status}
	if status == domain.NewsSTTPublished && news.PublishedAt == 0 {
		news.PublishedAt = utils.NowUnixMillis()
		fields["published_at"] = news.PublishedAt
	}
	if err := u.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, common.NotFoundOr(err, domain.ErrNewsNotFound)
	}
	previous := news.Status
	news.Status = status

	u.notifier.Audit(ctx, actor, "change_status", auditEntityNews, id)
	u.notify(ctx, domain.EventNewsStatusChanged, "News status changed",
		fmt.Sprintf("%q moved from %s to %s", news.Title, previous, status), news)
	return news, nil
}

func (u *newsUsecase) Delete(ctx context.Context, actor *domain.Principal, id string) error {
	if err := actor.RequireRank(domain.MinRankNewsDelete); err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return common.NotFoundOr(err, domain.ErrNewsNotFound)
	}

	u.notifier.Audit(ctx, actor, "delete", auditEntityNews, id)
	u.notify(ctx, domain.EventNewsDeleted, "News deleted", "A news article was deleted", map[string]string{"id": id})
	return nil
}

// FindByID hides unpublished articles when publishedOnly is set.
func (u *newsUsecase) FindByID(ctx context.Context, id string, publishedOnly bool) (*domain.News, error) {
	news, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, common.NotFoundOr(err, domain.ErrNewsNotFound)
	}
	if publishedOnly && news.Status != domain.NewsSTTPublished {
		return nil, domain.ErrNewsNotFound
	}
	return news, nil
}

func (u *newsUsecase) FindPage(ctx context.Context, filter *domain.NewsFilter, option *domain.FindPageOption) ([]*domain.News, *domain.Pagination, error) {
	return u.repo.FindPage(ctx, filter, option)
}

func (u *newsUsecase) notify(ctx context.Context, eventType, title, message string, data any) {
	u.notifier.Publish(ctx, domain.NotificationEvent{
		Type:     eventType,
		Title:    title,
		Message:  message,
		Data:     data,
		Priority: domain.PriorityMedium,
	}, domain.RoomAdmin)
}
