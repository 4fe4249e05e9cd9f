package usecase

import (
	"context"
	"testing"

	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryPodcastRepo struct {
	rows map[string]*domain.Podcast
}

func (r *memoryPodcastRepo) Create(_ context.Context, p *domain.Podcast) error {
	p.ID = "p1"
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *memoryPodcastRepo) FindByID(_ context.Context, id string) (*domain.Podcast, error) {
	p, ok := r.rows[id]
	if !ok || p.DeletedAt != 0 {
		return nil, domain.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memoryPodcastRepo) FindPage(context.Context, *domain.PodcastFilter, *domain.FindPageOption) ([]*domain.Podcast, *domain.Pagination, error) {
	return nil, domain.NewPagination(1, 10, 0), nil
}

func (r *memoryPodcastRepo) UpdateFields(_ context.Context, id string, fields map[string]any) error {
	p, ok := r.rows[id]
	if !ok || p.DeletedAt != 0 {
		return domain.ErrRecordNotFound
	}
	if v, ok := fields["title"].(string); ok {
		p.Title = v
	}
	if v, ok := fields["is_active"].(bool); ok {
		p.IsActive = v
	}
	return nil
}

func (r *memoryPodcastRepo) Delete(_ context.Context, id string) error {
	p, ok := r.rows[id]
	if !ok || p.DeletedAt != 0 {
		return domain.ErrRecordNotFound
	}
	p.DeletedAt = 1
	return nil
}

type roomCollector map[string][]string

func (c roomCollector) Publish(_ context.Context, room string, event domain.NotificationEvent) {
	c[event.Type] = append(c[event.Type], room)
}

var (
	editor = &domain.Principal{UserID: "e1", Role: domain.RoleIDEdit}
	admin  = &domain.Principal{UserID: "a1", Role: domain.RoleIDAdmin}
)

func newPodcastUsecase() (domain.PodcastUsecase, roomCollector) {
	rooms := roomCollector{}
	repo := &memoryPodcastRepo{rows: map[string]*domain.Podcast{}}
	return NewPodcastUsecase(repo, common.NewNotifier(rooms, nil, nil), log.NewNopLogger()), rooms
}

func TestPodcastLifecycle_Rooms(t *testing.T) {
	uc, rooms := newPodcastUsecase()
	ctx := context.Background()

	podcast, err := uc.Create(ctx, editor, &domain.CreatePodcastRequest{Title: "Late night", AudioURL: "https://cdn.example/a.mp3"})
	require.NoError(t, err)
	assert.True(t, podcast.IsActive)
	assert.Equal(t, "e1", podcast.CreatedBy)

	title := "Later night"
	updated, err := uc.Update(ctx, editor, podcast.ID, &domain.UpdatePodcastRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Later night", updated.Title)

	assert.ErrorIs(t, uc.Delete(ctx, editor, podcast.ID), domain.ErrInsufficientRank)
	require.NoError(t, uc.Delete(ctx, admin, podcast.ID))

	assert.Equal(t, []string{domain.RoomAdmin}, rooms[domain.EventPodcastCreated])
	assert.Equal(t, []string{domain.RoomAdmin, "podcast-p1"}, rooms[domain.EventPodcastUpdated])
	assert.Equal(t, []string{domain.RoomAdmin, "podcast-p1"}, rooms[domain.EventPodcastDeleted])

	_, err = uc.FindByID(ctx, podcast.ID)
	assert.ErrorIs(t, err, domain.ErrPodcastNotFound)
}

func TestPodcastCreate_Inactive(t *testing.T) {
	uc, _ := newPodcastUsecase()
	inactive := false

	podcast, err := uc.Create(context.Background(), editor, &domain.CreatePodcastRequest{Title: "x", AudioURL: "https://a", IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, podcast.IsActive)

	_, err = uc.Create(context.Background(), &domain.Principal{Role: domain.RoleIDUser}, &domain.CreatePodcastRequest{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrInsufficientRank)
}

func TestPodcastUpdate_Errors(t *testing.T) {
	uc, rooms := newPodcastUsecase()
	title := "x"

	_, err := uc.Update(context.Background(), editor, "missing", &domain.UpdatePodcastRequest{Title: &title})
	assert.ErrorIs(t, err, domain.ErrPodcastNotFound)
	_, err = uc.Update(context.Background(), editor, "missing", &domain.UpdatePodcastRequest{})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	assert.Empty(t, rooms)
}
