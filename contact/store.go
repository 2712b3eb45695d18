package contact

import (
	"slices"

	"github.com/google/uuid"
)

// Store is the in-memory, ordered list of contacts. Positions are the
// contacts' indexes in insertion order and shift down after a delete.
//
// Store is not safe for concurrent use; Usecase serialises access to it.
type Store struct {
	contacts []Contact
	assigned int
}

// NewStore returns a Store holding a copy of cs. Contacts without an ID,
// or repeating the ID of an earlier contact, are given a new one so every
// ID resolves to exactly one position.
func NewStore(cs []Contact) *Store {
	s := &Store{contacts: make([]Contact, 0, len(cs))}
	seen := make(map[string]struct{}, len(cs))
	for _, c := range cs {
		if _, dup := seen[c.ID]; c.ID == "" || dup {
			c.ID = uuid.NewString()
			s.assigned++
		}
		seen[c.ID] = struct{}{}
		s.contacts = append(s.contacts, c)
	}
	return s
}

// AssignedIDs reports how many contacts NewStore had to give a new ID.
func (s *Store) AssignedIDs() int {
	return s.assigned
}

// Add validates c and appends it, returning its index.
func (s *Store) Add(c Contact) (int, error) {
	if err := c.Validate(); err != nil {
		return -1, err
	}

	c = c.Normalize()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	s.contacts = append(s.contacts, c)
	return len(s.contacts) - 1, nil
}

// Update replaces the contact at index i. The existing ID is kept.
func (s *Store) Update(i int, c Contact) error {
	if !s.valid(i) {
		return ErrIndexOutOfRange
	}
	if err := c.Validate(); err != nil {
		return err
	}

	c = c.Normalize()
	c.ID = s.contacts[i].ID
	s.contacts[i] = c
	return nil
}

// Delete removes the contact at index i.
func (s *Store) Delete(i int) error {
	if !s.valid(i) {
		return ErrIndexOutOfRange
	}
	s.contacts = slices.Delete(s.contacts, i, i+1)
	return nil
}

// List returns a snapshot of the contacts in insertion order.
func (s *Store) List() []Contact {
	return slices.Clone(s.contacts)
}

func (s *Store) Get(i int) (Contact, error) {
	if !s.valid(i) {
		return Contact{}, ErrIndexOutOfRange
	}
	return s.contacts[i], nil
}

// IndexOf returns the position of the contact with the given ID, or -1.
func (s *Store) IndexOf(id string) int {
	return slices.IndexFunc(s.contacts, func(c Contact) bool {
		return c.ID == id
	})
}

func (s *Store) Len() int {
	return len(s.contacts)
}

func (s *Store) valid(i int) bool {
	return i >= 0 && i < len(s.contacts)
}
