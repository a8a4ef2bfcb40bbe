package cabins

import (
	"context"

	"github.com/Domenick1991/aviaapp/internal/domain"
	"github.com/Domenick1991/aviaapp/internal/log"
	"github.com/Domenick1991/aviaapp/internal/repository"
)

type CabinClassUseCase interface {
	List(ctx context.Context) ([]domain.CabinClass, error)
	Get(ctx context.Context, id int) (*domain.CabinClass, error)
}

type Cache interface {
	GetCabinClasses(ctx context.Context) ([]domain.CabinClass, error)
	SetCabinClasses(ctx context.Context, classes []domain.CabinClass) error
}

// CabinClassService serves the read-only fare tiers. The whole list is
// cached as one entry.
type CabinClassService struct {
	repo  repository.CabinClassRepository
	cache Cache
}

func NewCabinClassService(repo repository.CabinClassRepository, cache Cache) *CabinClassService {
	return &CabinClassService{repo: repo, cache: cache}
}

func (s *CabinClassService) List(ctx context.Context) ([]domain.CabinClass, error) {
	if s.cache != nil {
		cached, err := s.cache.GetCabinClasses(ctx)
		if err != nil {
			log.Warn(ctx, "cabin class cache read failed", log.Err(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	classes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetCabinClasses(ctx, classes); err != nil {
			log.Warn(ctx, "cabin class cache write failed", log.Err(err))
		}
	}
	return classes, nil
}

// Get answers from the cached list when present and falls back to a
// point lookup otherwise.
func (s *CabinClassService) Get(ctx context.Context, id int) (*domain.CabinClass, error) {
	if s.cache != nil {
		cached, err := s.cache.GetCabinClasses(ctx)
		if err != nil {
			log.Warn(ctx, "cabin class cache read failed", log.Err(err))
		}
		if cached != nil {
			for _, c := range cached {
				if c.ID == id {
					return &c, nil
				}
			}
			return nil, domain.NewNotFoundError("cabin class %d not found", id)
		}
	}
	return s.repo.GetByID(ctx, id)
}

var _ CabinClassUseCase = (*CabinClassService)(nil)
