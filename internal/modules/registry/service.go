package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/shophub/internal/modules/catalog"
	"github.com/georgemunganga/shophub/internal/session"
	"github.com/georgemunganga/shophub/internal/storage"
)

const keyPrefix = "shophub_local_products:"

// CartSync keeps a session's cart consistent with its local products.
type CartSync interface {
	RemoveProduct(ctx context.Context, sessionID string, ref catalog.Ref) error
	RefreshProduct(ctx context.Context, sessionID string, p catalog.Product) error
}

// Service defines CRUD over a session's local products. It also serves as
// the catalog's local product source.
type Service interface {
	catalog.LocalSource

	Create(ctx context.Context, sessionID string, in ProductInput) (catalog.Product, error)
	// Update reports false when id is not a local product; that is not an error.
	Update(ctx context.Context, sessionID string, id int, patch ProductPatch) (catalog.Product, bool, error)
	Delete(ctx context.Context, sessionID string, id int) (bool, error)
	IsLocal(ctx context.Context, sessionID string, id int) (bool, error)
}

type service struct {
	store      storage.Store
	validator  *Validator
	cart       CartSync
	registries *session.Cache[*Registry]
	log        logrus.FieldLogger
}

func NewService(store storage.Store, validator *Validator, cart CartSync, cache session.CacheConfig, log logrus.FieldLogger) Service {
	return &service{
		store:      store,
		validator:  validator,
		cart:       cart,
		registries: session.NewCache[*Registry](cache),
		log:        log.WithField("module", "registry"),
	}
}

// load returns the session's registry. The caller holds the session lock.
// A session with no stored snapshot gets an empty registry that is cached
// only once it changes.
func (s *service) load(ctx context.Context, sessionID string) (*Registry, error) {
	if r, ok := s.registries.Get(sessionID); ok {
		return r, nil
	}

	var snap Snapshot
	err := storage.LoadJSON(ctx, s.store, keyPrefix+sessionID, &snap)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		return New(), nil
	case errors.Is(err, storage.ErrCorrupt):
		s.log.WithError(err).WithField("session", sessionID).Warn("discarding corrupt local product snapshot")
		return New(), nil
	default:
		return nil, fmt.Errorf("load local products: %w", err)
	}
	r := New()
	r.Restore(snap)
	s.registries.Put(sessionID, r)
	return r, nil
}

// with runs fn on the session's registry under the session lock and
// persists it when fn reports a change. The snapshot is kept even when the
// registry empties so ids are never handed out twice.
func (s *service) with(ctx context.Context, sessionID string, fn func(r *Registry) bool) error {
	unlock := s.registries.Lock(sessionID)
	defer unlock()

	r, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if fn(r) {
		if err := storage.SaveJSON(ctx, s.store, keyPrefix+sessionID, r.Snapshot()); err != nil {
			s.log.WithError(err).WithField("session", sessionID).Error("could not persist local products")
		}
		s.registries.Put(sessionID, r)
	}
	return nil
}

func (s *service) LocalProducts(ctx context.Context, sessionID string) ([]catalog.Product, error) {
	var products []catalog.Product
	err := s.with(ctx, sessionID, func(r *Registry) bool {
		products = r.Products()
		return false
	})
	return products, err
}

func (s *service) LocalProduct(ctx context.Context, sessionID string, id int) (*catalog.Product, bool, error) {
	var (
		p  catalog.Product
		ok bool
	)
	err := s.with(ctx, sessionID, func(r *Registry) bool {
		p, ok = r.Get(id)
		return false
	})
	if err != nil || !ok {
		return nil, false, err
	}
	return &p, true, nil
}

func (s *service) IsLocal(ctx context.Context, sessionID string, id int) (bool, error) {
	_, ok, err := s.LocalProduct(ctx, sessionID, id)
	return ok, err
}

func (s *service) Create(ctx context.Context, sessionID string, in ProductInput) (catalog.Product, error) {
	if err := s.validator.Validate(in); err != nil {
		return catalog.Product{}, err
	}
	var p catalog.Product
	err := s.with(ctx, sessionID, func(r *Registry) bool {
		p = r.Create(in)
		return true
	})
	if err != nil {
		return catalog.Product{}, err
	}
	s.log.WithFields(logrus.Fields{"session": sessionID, "ref": p.Ref().String()}).Info("local product created")
	return p, nil
}

func (s *service) Update(ctx context.Context, sessionID string, id int, patch ProductPatch) (catalog.Product, bool, error) {
	if err := s.validator.Validate(patch); err != nil {
		return catalog.Product{}, false, err
	}
	var (
		p  catalog.Product
		ok bool
	)
	err := s.with(ctx, sessionID, func(r *Registry) bool {
		p, ok = r.Update(id, patch)
		return ok
	})
	if err != nil || !ok {
		return p, ok, err
	}
	if err := s.cart.RefreshProduct(ctx, sessionID, p); err != nil {
		s.log.WithError(err).WithField("session", sessionID).Warn("could not refresh cart line")
	}
	return p, true, nil
}

// Delete also takes the product out of the session's cart.
func (s *service) Delete(ctx context.Context, sessionID string, id int) (bool, error) {
	var ok bool
	err := s.with(ctx, sessionID, func(r *Registry) bool {
		ok = r.Delete(id)
		return ok
	})
	if err != nil || !ok {
		return false, err
	}
	if err := s.cart.RemoveProduct(ctx, sessionID, catalog.LocalRef(id)); err != nil {
		s.log.WithError(err).WithField("session", sessionID).Warn("could not remove deleted product from cart")
	}
	return true, nil
}
