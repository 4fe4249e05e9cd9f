package bootstrap

import (
	"context"
	_ "embed"
	"fmt"

	"radio-cms/domain"
	"radio-cms/pkg/log"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed seed/menus.yml
var defaultMenus []byte

// MenuStore is the subset of the menu repository the seeder writes through.
type MenuStore interface {
	FindByType(ctx context.Context, menuType domain.MenuType) ([]*domain.MenuItem, error)
	Create(ctx context.Context, item *domain.MenuItem) error
}

// RankResolver maps role names used in seed files to ranks.
type RankResolver interface {
	RankOf(name string) (domain.RoleID, error)
}

// MenuSeed is one node of a seed file.
type MenuSeed struct {
	Title    string     `yaml:"title"`
	Path     string     `yaml:"path"`
	Role     string     `yaml:"role"`
	Children []MenuSeed `yaml:"children"`
}

// MenuSeedSet groups seed trees by menu type.
type MenuSeedSet map[domain.MenuType][]MenuSeed

// ParseMenuSeeds decodes a seed document and rejects unknown menu types.
func ParseMenuSeeds(data []byte) (MenuSeedSet, error) {
	var set MenuSeedSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, errors.Wrap(err, "decode menu seeds")
	}
	for menuType := range set {
		if !menuType.IsValid() {
			return nil, fmt.Errorf("unknown menu type %q in seed", menuType)
		}
	}
	return set, nil
}

// DefaultMenuSeeds returns the menus bundled with the binary.
func DefaultMenuSeeds() (MenuSeedSet, error) {
	return ParseMenuSeeds(defaultMenus)
}

type MenuSeeder struct {
	store  MenuStore
	ranks  RankResolver
	logger log.Logger
}

func NewMenuSeeder(store MenuStore, ranks RankResolver, logger log.Logger) *MenuSeeder {
	return &MenuSeeder{store: store, ranks: ranks, logger: logger}
}

// Seed creates the trees of every menu type that is still empty. Types that
// already hold rows, active or not, are left to the administrators.
func (s *MenuSeeder) Seed(ctx context.Context, set MenuSeedSet) (int, error) {
	created := 0
	for _, menuType := range domain.MenuTypes {
		seeds, ok := set[menuType]
		if !ok || len(seeds) == 0 {
			continue
		}

		existing, err := s.store.FindByType(ctx, menuType)
		if err != nil {
			return created, errors.Wrapf(err, "load %s menu", menuType)
		}
		if len(existing) > 0 {
			s.logger.Debug("menu already populated, skipping seed",
				log.String("menu_type", string(menuType)),
				log.Int("items", len(existing)),
			)
			continue
		}

		n, err := s.createLevel(ctx, menuType, nil, seeds)
		created += n
		if err != nil {
			return created, err
		}
		s.logger.Info("seeded menu",
			log.String("menu_type", string(menuType)),
			log.Int("items", n),
		)
	}
	return created, nil
}

func (s *MenuSeeder) createLevel(ctx context.Context, menuType domain.MenuType, parentID *string, seeds []MenuSeed) (int, error) {
	created := 0
	for i, seed := range seeds {
		rank, err := s.ranks.RankOf(seed.Role)
		if err != nil {
			return created, errors.Wrapf(err, "menu seed %q", seed.Path)
		}

		item := &domain.MenuItem{
			ID:         uuid.NewString(),
			Title:      seed.Title,
			Path:       seed.Path,
			ParentID:   parentID,
			RoleID:     rank,
			MenuType:   menuType,
			OrderIndex: i,
			IsActive:   true,
		}
		if err := s.store.Create(ctx, item); err != nil {
			return created, errors.Wrapf(err, "create menu item %q", seed.Path)
		}
		created++

		n, err := s.createLevel(ctx, menuType, &item.ID, seed.Children)
		created += n
		if err != nil {
			return created, err
		}
	}
	return created, nil
}
