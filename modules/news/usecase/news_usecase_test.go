package usecase

import (
	"context"
	"sync"
	"testing"

	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	room  string
	event domain.NotificationEvent
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(_ context.Context, room string, event domain.NotificationEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{room: room, event: event})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.event.Type
	}
	return out
}

type memoryNewsRepo struct {
	rows map[string]*domain.News
	seq  int
}

func newMemoryNewsRepo() *memoryNewsRepo {
	return &memoryNewsRepo{rows: map[string]*domain.News{}}
}

func (r *memoryNewsRepo) Create(_ context.Context, news *domain.News) error {
	r.seq++
	news.ID = string(rune('a' + r.seq - 1))
	cp := *news
	r.rows[news.ID] = &cp
	return nil
}

func (r *memoryNewsRepo) FindByID(_ context.Context, id string) (*domain.News, error) {
	n, ok := r.rows[id]
	if !ok || n.DeletedAt != 0 {
		return nil, domain.ErrRecordNotFound
	}
	cp := *n
	return &cp, nil
}

func (r *memoryNewsRepo) FindPage(context.Context, *domain.NewsFilter, *domain.FindPageOption) ([]*domain.News, *domain.Pagination, error) {
	return nil, domain.NewPagination(1, 10, 0), nil
}

func (r *memoryNewsRepo) UpdateFields(_ context.Context, id string, fields map[string]any) error {
	n, ok := r.rows[id]
	if !ok || n.DeletedAt != 0 {
		return domain.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "title":
			n.Title = v.(string)
		case "summary":
			n.Summary = v.(string)
		case "content":
			n.Content = v.(string)
		case "status":
			n.Status = v.(domain.NewsStatus)
		case "published_at":
			n.PublishedAt = v.(int64)
		}
	}
	return nil
}

func (r *memoryNewsRepo) Delete(_ context.Context, id string) error {
	n, ok := r.rows[id]
	if !ok || n.DeletedAt != 0 {
		return domain.ErrRecordNotFound
	}
	n.DeletedAt = 1
	return nil
}

var (
	viewer = &domain.Principal{UserID: "v1", Role: domain.RoleIDUser}
	editor = &domain.Principal{UserID: "e1", Role: domain.RoleIDEdit}
	admin  = &domain.Principal{UserID: "a1", Role: domain.RoleIDAdmin}
)

func newNewsUsecase() (domain.NewsUsecase, *memoryNewsRepo, *recordingPublisher) {
	repo := newMemoryNewsRepo()
	pub := &recordingPublisher{}
	return NewNewsUsecase(repo, common.NewNotifier(pub, nil, nil), log.NewNopLogger()), repo, pub
}

func TestCreate_RequiresEditRank(t *testing.T) {
	uc, repo, pub := newNewsUsecase()

	_, err := uc.Create(context.Background(), viewer, &domain.CreateNewsRequest{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, domain.ErrInsufficientRank)
	_, err = uc.Create(context.Background(), nil, &domain.CreateNewsRequest{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, repo.rows)
	assert.Empty(t, pub.types())
}

func TestCreate_DefaultsToDraftAndNotifiesAdminRoom(t *testing.T) {
	uc, _, pub := newNewsUsecase()

	news, err := uc.Create(context.Background(), editor, &domain.CreateNewsRequest{Title: "Morning show", Content: "..."})
	require.NoError(t, err)
	assert.Equal(t, domain.NewsSTTDraft, news.Status)
	assert.Zero(t, news.PublishedAt)
	assert.Equal(t, "e1", news.AuthorID)

	require.Len(t, pub.events, 1)
	assert.Equal(t, domain.RoomAdmin, pub.events[0].room)
	assert.Equal(t, domain.EventNewsCreated, pub.events[0].event.Type)
	assert.NotZero(t, pub.events[0].event.Timestamp)
}

func TestChangeStatus_StampsPublishedAtOnce(t *testing.T) {
	uc, _, pub := newNewsUsecase()
	ctx := context.Background()
	news, err := uc.Create(ctx, editor, &domain.CreateNewsRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	published, err := uc.ChangeStatus(ctx, editor, news.ID, domain.NewsSTTPublished)
	require.NoError(t, err)
	require.NotZero(t, published.PublishedAt)

	_, err = uc.ChangeStatus(ctx, editor, news.ID, domain.NewsSTTArchived)
	require.NoError(t, err)
	again, err := uc.ChangeStatus(ctx, editor, news.ID, domain.NewsSTTPublished)
	require.NoError(t, err)
	assert.Equal(t, published.PublishedAt, again.PublishedAt)

	_, err = uc.ChangeStatus(ctx, editor, news.ID, "live")
	assert.ErrorIs(t, err, domain.ErrInvalidNewsStatus)

	assert.Equal(t, []string{
		domain.EventNewsCreated,
		domain.EventNewsStatusChanged,
		domain.EventNewsStatusChanged,
		domain.EventNewsStatusChanged,
	}, pub.types())
}

func TestFindByID_PublishedOnly(t *testing.T) {
	uc, _, _ := newNewsUsecase()
	ctx := context.Background()
	news, err := uc.Create(ctx, editor, &domain.CreateNewsRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	_, err = uc.FindByID(ctx, news.ID, true)
	assert.ErrorIs(t, err, domain.ErrNewsNotFound)

	got, err := uc.FindByID(ctx, news.ID, false)
	require.NoError(t, err)
	assert.Equal(t, news.ID, got.ID)
}

func TestUpdate(t *testing.T) {
	uc, _, pub := newNewsUsecase()
	ctx := context.Background()
	news, err := uc.Create(ctx, editor, &domain.CreateNewsRequest{Title: "old", Content: "c"})
	require.NoError(t, err)

	title := "new"
	updated, err := uc.Update(ctx, editor, news.ID, &domain.UpdateNewsRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Title)

	_, err = uc.Update(ctx, editor, news.ID, &domain.UpdateNewsRequest{})
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	_, err = uc.Update(ctx, editor, "missing", &domain.UpdateNewsRequest{Title: &title})
	assert.ErrorIs(t, err, domain.ErrNewsNotFound)
	assert.Equal(t, []string{domain.EventNewsCreated, domain.EventNewsUpdated}, pub.types())
}

func TestDelete_RequiresAdminAndSoftDeletes(t *testing.T) {
	uc, repo, pub := newNewsUsecase()
	ctx := context.Background()
	news, err := uc.Create(ctx, editor, &domain.CreateNewsRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(ctx, editor, news.ID), domain.ErrInsufficientRank)
	require.NoError(t, uc.Delete(ctx, admin, news.ID))
	assert.NotZero(t, repo.rows[news.ID].DeletedAt)

	_, err = uc.FindByID(ctx, news.ID, false)
	assert.ErrorIs(t, err, domain.ErrNewsNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, admin, news.ID), domain.ErrNewsNotFound)
	assert.Equal(t, []string{domain.EventNewsCreated, domain.EventNewsDeleted}, pub.types())
}
