package catalog

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/shophub/internal/session"
)

// LocalSource supplies the products a session created itself.
type LocalSource interface {
	LocalProducts(ctx context.Context, sessionID string) ([]Product, error)
	LocalProduct(ctx context.Context, sessionID string, id int) (*Product, bool, error)
}

// Service defines catalog browsing.
type Service interface {
	// List runs the catalog pipeline for an explicit query.
	List(ctx context.Context, sessionID string, q Query) (View, error)
	// Get resolves a product. Local refs are answered from the session's registry only.
	Get(ctx context.Context, sessionID string, ref Ref) (*Product, error)
	Categories(ctx context.Context) ([]string, error)

	// Browse returns the view for the session's current browse state.
	Browse(ctx context.Context, sessionID string) (View, error)
	UpdateBrowse(ctx context.Context, sessionID string, u BrowseUpdate) (View, error)
	// Reveal grows the infinite window when the trailing sentinel came into view.
	Reveal(ctx context.Context, sessionID string) (View, error)
	ClearFilters(ctx context.Context, sessionID string) (View, error)
}

type service struct {
	remote   RemoteClient
	local    LocalSource
	browsers *session.Cache[*Browser]
	log      logrus.FieldLogger
}

func NewService(remote RemoteClient, local LocalSource, cache session.CacheConfig, log logrus.FieldLogger) Service {
	return &service{
		remote:   remote,
		local:    local,
		browsers: session.NewCache[*Browser](cache),
		log:      log.WithField("module", "catalog"),
	}
}

func (s *service) sources(ctx context.Context, sessionID string) (local, remote []Product, err error) {
	remote, err = s.remote.FetchProducts(ctx)
	if err != nil {
		s.log.WithError(err).Warn("remote product fetch failed")
		return nil, nil, err
	}
	local, err = s.local.LocalProducts(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("load local products: %w", err)
	}
	return local, remote, nil
}

func (s *service) List(ctx context.Context, sessionID string, q Query) (View, error) {
	local, remote, err := s.sources(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	return Apply(local, remote, q), nil
}

func (s *service) Get(ctx context.Context, sessionID string, ref Ref) (*Product, error) {
	if ref.IsLocal() {
		p, ok, err := s.local.LocalProduct(ctx, sessionID, ref.ID)
		if err != nil {
			return nil, fmt.Errorf("load local product: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
		}
		return p, nil
	}
	p, err := s.remote.FetchProduct(ctx, ref.ID)
	if err != nil {
		s.log.WithError(err).WithField("ref", ref.String()).Warn("remote product lookup failed")
		return nil, err
	}
	return p, nil
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	return s.remote.FetchCategories(ctx)
}

// withBrowser applies fn to the session's browse state and renders the
// result. A nil fn only reads; sessions that never changed their browse
// state are not kept.
func (s *service) withBrowser(ctx context.Context, sessionID string, fn func(b *Browser, filtered func() int)) (View, error) {
	local, remote, err := s.sources(ctx, sessionID)
	if err != nil {
		return View{}, err
	}

	unlock := s.browsers.Lock(sessionID)
	defer unlock()
	b, ok := s.browsers.Get(sessionID)
	if !ok {
		b = NewBrowser()
	}
	if fn != nil {
		fn(b, func() int { return Apply(local, remote, b.Query()).Total })
		s.browsers.Put(sessionID, b)
	}
	return Apply(local, remote, b.Query()), nil
}

func (s *service) Browse(ctx context.Context, sessionID string) (View, error) {
	return s.withBrowser(ctx, sessionID, nil)
}

func (s *service) UpdateBrowse(ctx context.Context, sessionID string, u BrowseUpdate) (View, error) {
	return s.withBrowser(ctx, sessionID, func(b *Browser, _ func() int) { b.Apply(u) })
}

func (s *service) Reveal(ctx context.Context, sessionID string) (View, error) {
	return s.withBrowser(ctx, sessionID, func(b *Browser, filtered func() int) { b.Reveal(filtered()) })
}

func (s *service) ClearFilters(ctx context.Context, sessionID string) (View, error) {
	return s.withBrowser(ctx, sessionID, func(b *Browser, _ func() int) { b.ClearFilters() })
}
