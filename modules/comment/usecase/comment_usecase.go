package usecase

import (
	"context"

	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/pkg/async"
	"radio-cms/pkg/log"
)

const auditEntityComment = "comment"

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	FindPage(ctx context.Context, filter *domain.CommentFilter, option *domain.FindPageOption) ([]*domain.Comment, *domain.Pagination, error)
	CountVisible(ctx context.Context, newsID string) (int64, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

// NewsFinder is the slice of the news service comments depend on.
type NewsFinder interface {
	FindByID(ctx context.Context, id string, publishedOnly bool) (*domain.News, error)
}

// TaskRunner runs post-write work off the request path. *async.Runner
// satisfies it.
type TaskRunner interface {
	Run(parentCtx context.Context, taskName string, fn func(context.Context))
}

type commentUsecase struct {
	repo     CommentRepository
	news     NewsFinder
	notifier *common.Notifier
	runner   TaskRunner
	logger   log.Logger
}

func NewCommentUsecase(repo CommentRepository, news NewsFinder, notifier *common.Notifier, runner TaskRunner, logger log.Logger) domain.CommentUsecase {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if runner == nil {
		runner = async.NewRunner(logger, 0)
	}
	return &commentUsecase{repo: repo, news: news, notifier: notifier, runner: runner, logger: logger}
}

// Create accepts comments on published articles only. Comments are visible
// immediately and can be rejected afterwards by an admin.
func (u *commentUsecase) Create(ctx context.Context, actor *domain.Principal, newsID string, req *domain.CreateCommentRequest) (*domain.Comment, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized.WithReason("authentication required")
	}
	if _, err := u.news.FindByID(ctx, newsID, true); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		NewsID:  newsID,
		UserID:  actor.UserID,
		Content: req.Content,
		Status:  domain.CommentSTTApproved,
	}
	if err := u.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	u.notifier.Audit(ctx, actor, "create", auditEntityComment, comment.ID)
	u.notifier.Publish(ctx, domain.NotificationEvent{
		Type:     domain.EventCommentCreated,
		Title:    "New comment",
		Message:  "A comment was posted",
		Data:     comment,
		Priority: domain.PriorityLow,
	}, domain.RoomAdmin)
	u.publishCount(ctx, newsID)
	return comment, nil
}

// Delete is allowed to the author and to admins.
func (u *commentUsecase) Delete(ctx context.Context, actor *domain.Principal, id string) error {
	if actor == nil {
		return domain.ErrUnauthorized.WithReason("authentication required")
	}
	comment, err := u.findByID(ctx, id)
	if err != nil {
		return err
	}
	if comment.UserID != actor.UserID && !actor.HasRank(domain.MinRankAdmin) {
		return domain.ErrForbidden.WithReason("only the author or an admin can delete a comment")
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return common.NotFoundOr(err, domain.ErrCommentNotFound)
	}

	u.notifier.Audit(ctx, actor, "delete", auditEntityComment, id)
	u.notifier.Publish(ctx, domain.NotificationEvent{
		Type:     domain.EventCommentDeleted,
		Title:    "Comment deleted",
		Message:  "A comment was deleted",
		Data:     map[string]string{"id": id, "news_id": comment.NewsID},
		Priority: domain.PriorityLow,
	}, domain.RoomAdmin)
	u.publishCount(ctx, comment.NewsID)
	return nil
}

func (u *commentUsecase) ChangeStatus(ctx context.Context, actor *domain.Principal, id string, status domain.CommentStatus) (*domain.Comment, error) {
	if err := actor.RequireRank(domain.MinRankAdmin); err != nil {
		return nil, err
	}
	comment, err := u.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.Status == status {
		return comment, nil
	}
	if err := u.repo.UpdateFields(ctx, id, map[string]any{"status": status}); err != nil {
		return nil, common.NotFoundOr(err, domain.ErrCommentNotFound)
	}
	comment.Status = status

	u.notifier.Audit(ctx, actor, "change_status", auditEntityComment, id)
	u.notifier.Publish(ctx, domain.NotificationEvent{
		Type:     domain.EventCommentStatusChanged,
		Title:    "Comment moderated",
		Message:  "Comment status changed to " + string(status),
		Data:     comment,
		Priority: domain.PriorityLow,
	}, domain.RoomAdmin)
	u.publishCount(ctx, comment.NewsID)
	return comment, nil
}

func (u *commentUsecase) ListByNews(ctx context.Context, newsID string, option *domain.FindPageOption) ([]*domain.Comment, *domain.Pagination, error) {
	approved := domain.CommentSTTApproved
	return u.repo.FindPage(ctx, &domain.CommentFilter{NewsID: &newsID, Status: &approved}, option)
}

func (u *commentUsecase) findByID(ctx context.Context, id string) (*domain.Comment, error) {
	comment, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, common.NotFoundOr(err, domain.ErrCommentNotFound)
	}
	return comment, nil
}

// publishCount broadcasts the visible comment total of an article in the
// background. A failed count is logged and skipped.
func (u *commentUsecase) publishCount(ctx context.Context, newsID string) {
	u.runner.Run(ctx, "comment count "+newsID, func(ctx context.Context) {
		count, err := u.repo.CountVisible(ctx, newsID)
		if err != nil {
			u.logger.WarnContext(ctx, "comment count unavailable", log.String("news_id", newsID), log.Error(err))
			return
		}
		u.notifier.Publish(ctx, domain.NotificationEvent{
			Type:     domain.EventCommentCount,
			Title:    "Comment count",
			Data:     domain.CommentCount{NewsID: newsID, Count: count},
			Priority: domain.PriorityLow,
		}, domain.RoomBroadcast)
	})
}
