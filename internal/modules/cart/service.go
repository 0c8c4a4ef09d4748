package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/shophub/internal/modules/catalog"
	"github.com/georgemunganga/shophub/internal/session"
	"github.com/georgemunganga/shophub/internal/storage"
)

const keyPrefix = "shophub_cart:"

var ErrLineNotFound = errors.New("product is not in the cart")

// View is a cart with its totals.
type View struct {
	Items []Line `json:"items"`
	Summary
}

// Service defines per-session cart operations. Every mutation persists the
// whole ledger.
type Service interface {
	Get(ctx context.Context, sessionID string) (View, error)
	Add(ctx context.Context, sessionID string, p catalog.Product) (View, error)
	SetQuantity(ctx context.Context, sessionID string, ref catalog.Ref, quantity int) (View, error)
	Increment(ctx context.Context, sessionID string, ref catalog.Ref) (View, error)
	Decrement(ctx context.Context, sessionID string, ref catalog.Ref) (View, error)
	Remove(ctx context.Context, sessionID string, ref catalog.Ref) (View, error)
	Clear(ctx context.Context, sessionID string) (View, error)

	// Checkout hands the cart to fn and empties it only when fn succeeds. The
	// session's cart is locked for the whole call, so fn must not call back
	// into the service.
	Checkout(ctx context.Context, sessionID string, fn func(View) error) error

	// RemoveProduct drops a product that no longer exists.
	RemoveProduct(ctx context.Context, sessionID string, ref catalog.Ref) error
	// RefreshProduct updates the product data held by a line after an edit.
	RefreshProduct(ctx context.Context, sessionID string, p catalog.Product) error
}

type service struct {
	store   storage.Store
	ledgers *session.Cache[*Ledger]
	log     logrus.FieldLogger
}

func NewService(store storage.Store, cache session.CacheConfig, log logrus.FieldLogger) Service {
	return &service{
		store:   store,
		ledgers: session.NewCache[*Ledger](cache),
		log:     log.WithField("module", "cart"),
	}
}

// load returns the session's ledger. The caller holds the session lock.
// Sessions without a stored cart get a fresh ledger that is only cached once
// it changes. A corrupt snapshot is dropped and the cart starts empty.
func (s *service) load(ctx context.Context, sessionID string) (*Ledger, error) {
	if l, ok := s.ledgers.Get(sessionID); ok {
		return l, nil
	}

	key := keyPrefix + sessionID
	var snap Snapshot
	err := storage.LoadJSON(ctx, s.store, key, &snap)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		return NewLedger(), nil
	case errors.Is(err, storage.ErrCorrupt):
		s.log.WithError(err).WithField("session", sessionID).Warn("discarding corrupt cart snapshot")
		if err := s.store.Delete(ctx, key); err != nil {
			s.log.WithError(err).WithField("session", sessionID).Error("could not delete corrupt cart snapshot")
		}
		return NewLedger(), nil
	default:
		return nil, fmt.Errorf("load cart: %w", err)
	}
	l := NewLedger()
	l.Restore(snap)
	s.ledgers.Put(sessionID, l)
	return l, nil
}

// persist writes the ledger, or deletes the snapshot of an empty cart. A
// cart whose snapshot is gone is dropped from the cache as well.
func (s *service) persist(ctx context.Context, sessionID string, l *Ledger) {
	key := keyPrefix + sessionID
	if l.Len() == 0 {
		err := s.store.Delete(ctx, key)
		if err == nil {
			s.ledgers.Remove(sessionID)
			return
		}
		s.log.WithError(err).WithField("session", sessionID).Error("could not delete empty cart")
	} else if err := storage.SaveJSON(ctx, s.store, key, l.Snapshot()); err != nil {
		s.log.WithError(err).WithField("session", sessionID).Error("could not persist cart")
	}
	s.ledgers.Put(sessionID, l)
}

// mutate applies fn to the session's ledger under the session lock and
// persists the result when fn reports a change.
func (s *service) mutate(ctx context.Context, sessionID string, fn func(l *Ledger) (bool, error)) (View, error) {
	unlock := s.ledgers.Lock(sessionID)
	defer unlock()

	l, err := s.load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	changed, err := fn(l)
	if err != nil {
		return View{}, err
	}
	if changed {
		s.persist(ctx, sessionID, l)
	}
	return viewOf(l), nil
}

func viewOf(l *Ledger) View {
	return View{Items: l.Lines(), Summary: Summarize(l)}
}

func (s *service) Get(ctx context.Context, sessionID string) (View, error) {
	return s.mutate(ctx, sessionID, func(*Ledger) (bool, error) { return false, nil })
}

func (s *service) Add(ctx context.Context, sessionID string, p catalog.Product) (View, error) {
	return s.mutate(ctx, sessionID, func(l *Ledger) (bool, error) {
		l.Add(p)
		return true, nil
	})
}

func lineMustExist(ref catalog.Ref, ok bool) (bool, error) {
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrLineNotFound, ref)
	}
	return true, nil
}

func (s *service) SetQuantity(ctx context.Context, sessionID string, ref catalog.Ref, quantity int) (View, error) {
	return s.mutate(ctx, sessionID, func(l *Ledger) (bool, error) {
		return lineMustExist(ref, l.SetQuantity(ref, quantity))
	})
}

func (s *service) Increment(ctx context.Context, sessionID string, ref catalog.Ref) (View, error) {
	return s.mutate(ctx, sessionID, func(l *Ledger) (bool, error) {
		return lineMustExist(ref, l.Increment(ref))
	})
}

func (s *service) Decrement(ctx context.Context, sessionID string, ref catalog.Ref) (View, error) {
	return s.mutate(ctx, sessionID, func(l *Ledger) (bool, error) {
		return lineMustExist(ref, l.Decrement(ref))
	})
}

func (s *service) Remove(ctx context.Context, sessionID string, ref catalog.Ref) (View, error) {
	return s.mutate(ctx, sessionID, func(l *Ledger) (bool, error) {
		return l.Remove(ref), nil
	})
}

func (s *service) Clear(ctx context.Context, sessionID string) (View, error) {
	return s.mutate(ctx, sessionID, func(l *Ledger) (bool, error) {
		l.Clear()
		return true, nil
	})
}

func (s *service) Checkout(ctx context.Context, sessionID string, fn func(View) error) error {
	_, err := s.mutate(ctx, sessionID, func(l *Ledger) (bool, error) {
		if err := fn(viewOf(l)); err != nil {
			return false, err
		}
		l.Clear()
		return true, nil
	})
	return err
}

func (s *service) RemoveProduct(ctx context.Context, sessionID string, ref catalog.Ref) error {
	_, err := s.Remove(ctx, sessionID, ref)
	return err
}

func (s *service) RefreshProduct(ctx context.Context, sessionID string, p catalog.Product) error {
	_, err := s.mutate(ctx, sessionID, func(l *Ledger) (bool, error) {
		return l.Refresh(p), nil
	})
	return err
}
