package contact_test

import (
	"contactbook/contact"
	"contactbook/errs"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) LoadContacts(ctx context.Context) ([]contact.Contact, error) {
	args := m.Called(ctx)
	return args.Get(0).([]contact.Contact), args.Error(1)
}

func (m *MockContactRepository) SaveContacts(ctx context.Context, cs []contact.Contact) error {
	args := m.Called(ctx, cs)
	return args.Error(0)
}

func newTestUsecase(r contact.Repository) *contact.Usecase {
	return contact.NewUsecase(r, contact.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestLoad(t *testing.T) {
	t.Run("should load persisted contacts", func(t *testing.T) {
		r := new(MockContactRepository)
		uc := newTestUsecase(r)
		persisted := []contact.Contact{
			{ID: "1", Name: "John Doe", Phone: "1234567890"},
			{ID: "2", Name: "Jane Smith", Phone: "0987654321", Email: "jane@example.com"},
		}
		r.On("LoadContacts", mock.Anything).Return(persisted, nil).Once()

		err := uc.Load(context.Background())

		require.NoError(t, err)
		result, _ := uc.ListContacts(context.Background())
		assert.Equal(t, persisted, result)
		r.AssertExpectations(t)
	})

	t.Run("should save back IDs assigned while loading", func(t *testing.T) {
		r := new(MockContactRepository)
		uc := newTestUsecase(r)
		r.On("LoadContacts", mock.Anything).Return([]contact.Contact{
			{ID: "x", Name: "Alice", Phone: "111"},
			{ID: "x", Name: "Bob", Phone: "222"},
			{Name: "Carol", Phone: "333"},
		}, nil).Once()
		var saved []contact.Contact
		r.On("SaveContacts", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			saved = args.Get(1).([]contact.Contact)
		}).Return(nil).Once()

		err := uc.Load(context.Background())

		require.NoError(t, err)
		result, _ := uc.ListContacts(context.Background())
		assert.Equal(t, result, saved)
		ids := map[string]bool{}
		for _, c := range result {
			ids[c.ID] = true
		}
		assert.Len(t, ids, 3, "every contact should have its own ID")
		r.AssertExpectations(t)
	})

	t.Run("should delete the selected one of two contacts sharing an ID", func(t *testing.T) {
		r := new(MockContactRepository)
		uc := newTestUsecase(r)
		r.On("LoadContacts", mock.Anything).Return([]contact.Contact{
			{ID: "x", Name: "Alice", Phone: "111"},
			{ID: "x", Name: "Bob", Phone: "222"},
		}, nil).Once()
		r.On("SaveContacts", mock.Anything, mock.Anything).Return(nil)
		require.NoError(t, uc.Load(context.Background()))
		list, _ := uc.ListContacts(context.Background())

		err := uc.DeleteContact(context.Background(), list[1].ID)

		require.NoError(t, err)
		result, _ := uc.ListContacts(context.Background())
		require.Len(t, result, 1)
		assert.Equal(t, "Alice", result[0].Name)
	})

	t.Run("should fall back to empty list when load fails", func(t *testing.T) {
		r := new(MockContactRepository)
		uc := newTestUsecase(r)
		cause := errors.New("unexpected EOF")
		r.On("LoadContacts", mock.Anything).Return([]contact.Contact(nil), cause).Once()

		err := uc.Load(context.Background())

		assert.ErrorIs(t, err, cause)
		assert.Equal(t, errs.EINTERNAL, errs.ErrorCode(err))
		result, _ := uc.ListContacts(context.Background())
		assert.Empty(t, result)
	})
}

func TestAddContact(t *testing.T) {
	t.Run("should add new contact and save the whole list", func(t *testing.T) {
		r := new(MockContactRepository)
		uc := newTestUsecase(r)
		r.On("SaveContacts", mock.Anything, mock.MatchedBy(func(cs []contact.Contact) bool {
			return len(cs) == 1 && cs[0].Name == "Jane Doe" && cs[0].Email == "jane@example.com"
		})).Return(nil).Once()

		added, err := uc.AddContact(context.Background(), contact.Contact{Name: "Jane Doe", Phone: "555-1234", Email: "jane@example.com"})

		assert.NoError(t, err, "expected no error when adding contact")
		assert.NotEmpty(t, added.ID)
		result, _ := uc.ListContacts(context.Background())
		assert.Equal(t, []contact.Contact{added}, result)
		r.AssertExpectations(t)
	})

	t.Run("should ignore caller supplied ID", func(t *testing.T) {
		r := new(MockContactRepository)
		uc := newTestUsecase(r)
		r.On("SaveContacts", mock.Anything, mock.Anything).Return(nil)

		added, err := uc.AddContact(context.Background(), contact.Contact{ID: "forged", Name: "Jane", Phone: "1"})

		require.NoError(t, err)
		assert.NotEqual(t, "forged", added.ID)
	})

	t.Run("should fail on empty name", func(t *testing.T) {
		r := new(MockContactRepository)
		uc := newTestUsecase(r)

		_, err := uc.AddContact(context.Background(), contact.Contact{Name: "", Phone: "555-1234"})

		assert.Equal(t, contact.ErrInvalidName, err, "expected error for empty name")
		r.AssertNotCalled(t, "SaveContacts", mock.Anything, mock.Anything)
	})

	t.Run("should fail on empty phone", func(t *testing.T) {
		r := new(MockContactRepository)
		uc := newTestUsecase(r)

		_, err := uc.AddContact(context.Background(), contact.Contact{Name: "John Doe", Phone: ""})

		assert.Equal(t, contact.ErrInvalidPhone, err, "expected error for empty phone")
		r.AssertNotCalled(t, "SaveContacts", mock.Anything, mock.Anything)
	})

	t.Run("should keep contact in memory when save fails", func(t *testing.T) {
		r := new(MockContactRepository)
		uc := newTestUsecase(r)
		cause := errors.New("disk full")
		r.On("SaveContacts", mock.Anything, mock.Anything).Return(cause).Once()

		_, err := uc.AddContact(context.Background(), contact.Contact{Name: "John Doe", Phone: "1"})

		assert.ErrorIs(t, err, cause)
		assert.Equal(t, errs.EINTERNAL, errs.ErrorCode(err))
		result, _ := uc.ListContacts(context.Background())
		assert.Len(t, result, 1)
	})
}

func TestUpdateContact(t *testing.T) {
	t.Run("should update contact by ID", func(t *testing.T) {
		r := new(MockContactRepository)
		uc := newTestUsecase(r)
		r.On("SaveContacts", mock.Anything, mock.Anything).Return(nil)
		first, _ := uc.AddContact(context.Background(), contact.Contact{Name: "Alice", Phone: "111"})
		second, _ := uc.AddContact(context.Background(), contact.Contact{Name: "Bob", Phone: "222"})

		updated, err := uc.UpdateContact(context.Background(), second.ID, contact.Contact{Name: "Robert", Phone: "222"})

		require.NoError(t, err)
		assert.Equal(t, second.ID, updated.ID)
		result, _ := uc.ListContacts(context.Background())
		assert.Equal(t, []contact.Contact{first, updated}, result)
		r.AssertNumberOfCalls(t, "SaveContacts", 3)
	})

	t.Run("should fail on unknown ID", func(t *testing.T) {
		r := new(MockContactRepository)
		uc := newTestUsecase(r)

		_, err := uc.UpdateContact(context.Background(), "missing", contact.Contact{Name: "Robert", Phone: "222"})

		assert.Equal(t, contact.ErrContactNotFound, err)
		r.AssertNotCalled(t, "SaveContacts", mock.Anything, mock.Anything)
	})

	t.Run("should fail on malformed email", func(t *testing.T) {
		r := new(MockContactRepository)
		uc := newTestUsecase(r)
		r.On("SaveContacts", mock.Anything, mock.Anything).Return(nil).Once()
		added, _ := uc.AddContact(context.Background(), contact.Contact{Name: "Bob", Phone: "222"})

		_, err := uc.UpdateContact(context.Background(), added.ID, contact.Contact{Name: "Bob", Phone: "222", Email: "not-an-email"})

		assert.Equal(t, contact.ErrInvalidEmail, err)
		result, _ := uc.ListContacts(context.Background())
		assert.Equal(t, []contact.Contact{added}, result)
		r.AssertExpectations(t)
	})
}

func TestDeleteContact(t *testing.T) {
	t.Run("should delete contact and shift the rest", func(t *testing.T) {
		r := new(MockContactRepository)
		uc := newTestUsecase(r)
		r.On("SaveContacts", mock.Anything, mock.Anything).Return(nil)
		first, _ := uc.AddContact(context.Background(), contact.Contact{Name: "Alice", Phone: "111"})
		second, _ := uc.AddContact(context.Background(), contact.Contact{Name: "Bob", Phone: "222"})

		err := uc.DeleteContact(context.Background(), first.ID)

		require.NoError(t, err)
		result, _ := uc.ListContacts(context.Background())
		assert.Equal(t, []contact.Contact{second}, result)
		r.AssertCalled(t, "SaveContacts", mock.Anything, []contact.Contact{second})
	})

	t.Run("should fail on unknown ID", func(t *testing.T) {
		r := new(MockContactRepository)
		uc := newTestUsecase(r)

		err := uc.DeleteContact(context.Background(), "missing")

		assert.Equal(t, contact.ErrContactNotFound, err)
	})
}

func TestListContacts(t *testing.T) {
	t.Run("should return empty list for a new usecase", func(t *testing.T) {
		uc := newTestUsecase(new(MockContactRepository))

		result, err := uc.ListContacts(context.Background())

		assert.NoError(t, err, "expected no error when listing contacts")
		assert.Empty(t, result)
	})
}
