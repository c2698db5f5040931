package service

import (
	"context"
	"sync"
	"time"

	"rideadmin/pricing/internal/client"
	"rideadmin/pricing/internal/domain"
	"rideadmin/pricing/internal/queue"
	"rideadmin/pricing/internal/repository"
	"rideadmin/pricing/internal/state"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	client     client.AdminClient
	repository repository.RuleSnapshotRepository // Optional
	publisher  queue.Publisher                   // Optional
	consumer   queue.Consumer                    // Optional
	drafts     state.DraftStore                  // Optional
	pageSize   int

	catalogMutex sync.RWMutex
	catalog      *domain.Catalog

	now func() time.Time
}

func NewService(
	client client.AdminClient,
	repository repository.RuleSnapshotRepository,
	publisher queue.Publisher,
	consumer queue.Consumer,
	drafts state.DraftStore,
	pageSize int,
) *Service {
	return &Service{
		client:     client,
		repository: repository,
		publisher:  publisher,
		consumer:   consumer,
		drafts:     drafts,
		pageSize:   pageSize,
		catalog:    &domain.Catalog{},
		now:        time.Now,
	}
}

// Catalog returns the last loaded catalog. Before the first successful load
// it is empty, which every resolver treats as "nothing to choose from yet".
func (s *Service) Catalog() *domain.Catalog {
	s.catalogMutex.RLock()
	defer s.catalogMutex.RUnlock()
	return s.catalog
}

// LoadCatalog fetches every hierarchy collection in parallel. When any fetch
// fails the previously loaded catalog stays in place.
func (s *Service) LoadCatalog(ctx context.Context) (*domain.Catalog, error) {
	catalog := &domain.Catalog{}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		catalog.Categories, err = s.client.ListCategories(ctx)
		return err
	})
	g.Go(func() (err error) {
		catalog.Subcategories, err = s.client.ListSubcategories(ctx)
		return err
	})
	g.Go(func() (err error) {
		catalog.SubSubCategories, err = s.client.ListSubSubCategories(ctx)
		return err
	})
	g.Go(func() (err error) {
		catalog.PriceCategories, err = s.client.ListPriceCategories(ctx)
		return err
	})
	g.Go(func() (err error) {
		catalog.Vehicles, err = s.client.ListVehicles(ctx, "")
		return err
	})
	g.Go(func() (err error) {
		catalog.Cars, err = s.client.ListCars(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		log.Errorf("❌ Failed to load catalog: %v", err)
		return nil, err
	}
	catalog.Loaded = true

	s.catalogMutex.Lock()
	s.catalog = catalog
	s.catalogMutex.Unlock()

	log.Infof("✅ Catalog loaded: %d categories, %d subcategories, %d sub-subcategories, %d price categories, %d vehicles, %d cars",
		len(catalog.Categories), len(catalog.Subcategories), len(catalog.SubSubCategories),
		len(catalog.PriceCategories), len(catalog.Vehicles), len(catalog.Cars))

	return catalog, nil
}
