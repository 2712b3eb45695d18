package contact

import (
	"context"
	"log/slog"
	"sync"

	"contactbook/errs"
)

type Service interface {
	AddContact(ctx context.Context, c Contact) (Contact, error)
	UpdateContact(ctx context.Context, id string, c Contact) (Contact, error)
	DeleteContact(ctx context.Context, id string) error
	ListContacts(ctx context.Context) ([]Contact, error)
}

// Repository persists the whole contact list. LoadContacts returns an empty
// list and no error when nothing has been saved yet.
type Repository interface {
	LoadContacts(ctx context.Context) ([]Contact, error)
	SaveContacts(ctx context.Context, cs []Contact) error
}

type Option func(uc *Usecase)

func WithLogger(l *slog.Logger) Option {
	return func(uc *Usecase) {
		uc.logger = l
	}
}

// Usecase owns the Store and writes the full list back to the Repository
// after every successful mutation.
type Usecase struct {
	mu     sync.Mutex
	r      Repository
	store  *Store
	logger *slog.Logger
}

var _ Service = (*Usecase)(nil)

func NewUsecase(r Repository, opts ...Option) *Usecase {
	uc := &Usecase{
		r:      r,
		store:  NewStore(nil),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Load replaces the in-memory contacts with the persisted ones. When the
// persisted data cannot be read the store is left empty and the error is
// returned so the caller can tell the user.
func (uc *Usecase) Load(ctx context.Context) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	cs, err := uc.r.LoadContacts(ctx)
	if err != nil {
		uc.logger.Warn("discarding unreadable contacts, starting with an empty list", "error", err)
		uc.store = NewStore(nil)
		return errs.Wrap(errs.EINTERNAL, err, "Error loading contacts.")
	}

	uc.store = NewStore(cs)
	uc.logger.Debug("contacts loaded", "count", uc.store.Len())

	// persist generated IDs so they stay valid in the next session
	if n := uc.store.AssignedIDs(); n > 0 {
		uc.logger.Info("assigned new contact IDs", "count", n)
		return uc.save(ctx)
	}
	return nil
}

func (uc *Usecase) AddContact(ctx context.Context, c Contact) (Contact, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	c.ID = ""
	i, err := uc.store.Add(c)
	if err != nil {
		return Contact{}, err
	}

	added, _ := uc.store.Get(i)
	return added, uc.save(ctx)
}

func (uc *Usecase) UpdateContact(ctx context.Context, id string, c Contact) (Contact, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	i := uc.store.IndexOf(id)
	if i < 0 {
		return Contact{}, ErrContactNotFound
	}
	if err := uc.store.Update(i, c); err != nil {
		return Contact{}, err
	}

	updated, _ := uc.store.Get(i)
	return updated, uc.save(ctx)
}

func (uc *Usecase) DeleteContact(ctx context.Context, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	i := uc.store.IndexOf(id)
	if i < 0 {
		return ErrContactNotFound
	}
	if err := uc.store.Delete(i); err != nil {
		return err
	}

	return uc.save(ctx)
}

func (uc *Usecase) ListContacts(_ context.Context) ([]Contact, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.store.List(), nil
}

// save keeps the in-memory mutation even when persisting fails; memory and
// storage diverge until the next successful save.
func (uc *Usecase) save(ctx context.Context) error {
	if err := uc.r.SaveContacts(ctx, uc.store.List()); err != nil {
		uc.logger.Error("cannot save contacts", "error", err, "count", uc.store.Len())
		return errs.Wrap(errs.EINTERNAL, err, "Error saving contacts.")
	}
	return nil
}
