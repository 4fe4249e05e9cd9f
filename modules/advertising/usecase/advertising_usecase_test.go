package usecase

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"radio-cms/common"
	"radio-cms/domain"
	"radio-cms/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryAdRepo evaluates filters the way the SQL filter does.
type memoryAdRepo struct {
	rows      map[string]*domain.Advertising
	failOnIDs map[string]bool
}

func newMemoryAdRepo(ads ...*domain.Advertising) *memoryAdRepo {
	r := &memoryAdRepo{rows: map[string]*domain.Advertising{}, failOnIDs: map[string]bool{}}
	for _, ad := range ads {
		r.rows[ad.ID] = ad
	}
	return r
}

func (r *memoryAdRepo) Create(_ context.Context, ad *domain.Advertising) error {
	ad.ID = fmt.Sprintf("ad%d", len(r.rows)+1)
	cp := *ad
	r.rows[ad.ID] = &cp
	return nil
}

func (r *memoryAdRepo) FindByID(_ context.Context, id string) (*domain.Advertising, error) {
	ad, ok := r.rows[id]
	if !ok || ad.DeletedAt != 0 {
		return nil, domain.ErrRecordNotFound
	}
	cp := *ad
	return &cp, nil
}

func (r *memoryAdRepo) FindMany(_ context.Context, f *domain.AdvertisingFilter) ([]*domain.Advertising, error) {
	var out []*domain.Advertising
	for _, ad := range r.rows {
		if ad.DeletedAt != 0 {
			continue
		}
		if f.IsActive != nil && ad.IsActive != *f.IsActive {
			continue
		}
		if at := f.RunningAt; at != nil && !((ad.StartsAt == 0 || ad.StartsAt <= *at) && (ad.EndsAt == 0 || ad.EndsAt > *at)) {
			continue
		}
		if before := f.EndedBefore; before != nil && !(ad.EndsAt > 0 && ad.EndsAt <= *before) {
			continue
		}
		cp := *ad
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryAdRepo) FindPage(context.Context, *domain.AdvertisingFilter, *domain.FindPageOption) ([]*domain.Advertising, *domain.Pagination, error) {
	return nil, domain.NewPagination(1, 10, 0), nil
}

func (r *memoryAdRepo) UpdateFields(_ context.Context, id string, fields map[string]any) error {
	if r.failOnIDs[id] {
		return domain.ErrStorage
	}
	ad, ok := r.rows[id]
	if !ok {
		return domain.ErrRecordNotFound
	}
	if v, ok := fields["is_active"].(bool); ok {
		ad.IsActive = v
	}
	if v, ok := fields["ends_at"].(int64); ok {
		ad.EndsAt = v
	}
	return nil
}

func (r *memoryAdRepo) Delete(_ context.Context, id string) error {
	ad, ok := r.rows[id]
	if !ok || ad.DeletedAt != 0 {
		return domain.ErrRecordNotFound
	}
	ad.DeletedAt = 1
	return nil
}

type eventLog []domain.NotificationEvent

func (l *eventLog) Publish(_ context.Context, _ string, event domain.NotificationEvent) {
	*l = append(*l, event)
}

const now = int64(1_000_000)

var admin = &domain.Principal{UserID: "a1", Role: domain.RoleIDAdmin}

func ad(id string, active bool, startsAt, endsAt int64) *domain.Advertising {
	return &domain.Advertising{SQLModel: domain.SQLModel{ID: id}, Name: id, IsActive: active, StartsAt: startsAt, EndsAt: endsAt}
}

func newAdUsecase(repo *memoryAdRepo) (domain.AdvertisingUsecase, *eventLog) {
	events := &eventLog{}
	uc := NewAdvertisingUsecase(repo, common.NewNotifier(events, nil, nil), log.NewNopLogger(),
		WithClock(func() int64 { return now }))
	return uc, events
}

func TestListRunning(t *testing.T) {
	repo := newMemoryAdRepo(
		ad("open", true, 0, 0),
		ad("current", true, now-10, now+10),
		ad("future", true, now+1, 0),
		ad("ended", true, 0, now),
		ad("paused", false, 0, 0),
	)
	uc, _ := newAdUsecase(repo)

	running, err := uc.ListRunning(context.Background())
	require.NoError(t, err)
	ids := make([]string, len(running))
	for i, a := range running {
		ids[i] = a.ID
	}
	assert.Equal(t, []string{"current", "open"}, ids)
}

func TestExpireEnded(t *testing.T) {
	repo := newMemoryAdRepo(
		ad("a", true, 0, now-1),
		ad("b", true, 0, now),
		ad("c", true, 0, now+1),
		ad("d", false, 0, now-1),
		ad("e", true, 0, 0),
	)
	uc, events := newAdUsecase(repo)

	expired, err := uc.ExpireEnded(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, expired)
	assert.False(t, repo.rows["a"].IsActive)
	assert.False(t, repo.rows["b"].IsActive)
	assert.True(t, repo.rows["c"].IsActive)
	assert.True(t, repo.rows["e"].IsActive)

	require.Len(t, *events, 2)
	for _, e := range *events {
		assert.Equal(t, domain.EventAdStatusChanged, e.Type)
	}

	again, err := uc.ExpireEnded(context.Background())
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestExpireEnded_ContinuesPastFailures(t *testing.T) {
	repo := newMemoryAdRepo(ad("a", true, 0, now-1), ad("b", true, 0, now-1))
	repo.failOnIDs["a"] = true
	uc, events := newAdUsecase(repo)

	expired, err := uc.ExpireEnded(context.Background())
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Equal(t, 1, expired)
	assert.False(t, repo.rows["b"].IsActive)
	assert.Len(t, *events, 1)
}

func TestCreateAndUpdate_ValidateSchedule(t *testing.T) {
	uc, events := newAdUsecase(newMemoryAdRepo())
	ctx := context.Background()

	_, err := uc.Create(ctx, admin, &domain.CreateAdRequest{Name: "x", StartsAt: 10, EndsAt: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidAdSchedule)

	created, err := uc.Create(ctx, admin, &domain.CreateAdRequest{Name: "x", StartsAt: 10, EndsAt: 20})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	end := int64(5)
	_, err = uc.Update(ctx, admin, created.ID, &domain.UpdateAdRequest{EndsAt: &end})
	assert.ErrorIs(t, err, domain.ErrInvalidAdSchedule)

	end = 30
	updated, err := uc.Update(ctx, admin, created.ID, &domain.UpdateAdRequest{EndsAt: &end})
	require.NoError(t, err)
	assert.Equal(t, int64(30), updated.EndsAt)

	_, err = uc.Create(ctx, &domain.Principal{Role: domain.RoleIDEdit}, &domain.CreateAdRequest{Name: "y"})
	assert.ErrorIs(t, err, domain.ErrInsufficientRank)

	types := make([]string, len(*events))
	for i, e := range *events {
		types[i] = e.Type
	}
	assert.Equal(t, []string{domain.EventAdCreated, domain.EventAdUpdated}, types)
}

func TestChangeStatusAndDelete(t *testing.T) {
	repo := newMemoryAdRepo(ad("a", true, 0, 0))
	uc, events := newAdUsecase(repo)
	ctx := context.Background()

	paused, err := uc.ChangeStatus(ctx, admin, "a", false)
	require.NoError(t, err)
	assert.False(t, paused.IsActive)

	_, err = uc.ChangeStatus(ctx, admin, "a", false)
	require.NoError(t, err)
	assert.Len(t, *events, 1, "no event when the status is unchanged")

	require.NoError(t, uc.Delete(ctx, admin, "a"))
	assert.ErrorIs(t, uc.Delete(ctx, admin, "a"), domain.ErrAdNotFound)
	_, err = uc.ChangeStatus(ctx, admin, "missing", true)
	assert.ErrorIs(t, err, domain.ErrAdNotFound)
}
