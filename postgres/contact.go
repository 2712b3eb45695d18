package postgres

import (
	"contactbook/contact"
	"context"
	"fmt"

	"gorm.io/gorm"
)

// ContactModel represents the database model for contacts
type ContactModel struct {
	ID       string `gorm:"primaryKey;size:36"`
	Position int    `gorm:"not null;index"`
	Name     string `gorm:"not null"`
	Phone    string `gorm:"not null"`
	Email    string `gorm:"not null;default:''"`
}

// TableName specifies the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ContactRepository implements contact.Repository interface
type ContactRepository struct {
	db *gorm.DB
}

var _ contact.Repository = (*ContactRepository)(nil)

// NewContactRepository creates a new contact repository
func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// SaveContacts replaces the table content with cs in a single transaction,
// storing each contact's index as its position.
func (r *ContactRepository) SaveContacts(ctx context.Context, cs []contact.Contact) error {
	models := make([]ContactModel, len(cs))
	for i, c := range cs {
		models[i] = ContactModel{
			ID:       c.ID,
			Position: i,
			Name:     c.Name,
			Phone:    c.Phone,
			Email:    c.Email,
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&ContactModel{}).Error; err != nil {
			return err
		}
		if len(models) == 0 {
			return nil
		}
		return tx.CreateInBatches(models, 100).Error
	})
	if err != nil {
		return fmt.Errorf("postgres: save contacts: %w", err)
	}
	return nil
}

func (r *ContactRepository) LoadContacts(ctx context.Context) ([]contact.Contact, error) {
	var models []ContactModel
	if err := r.db.WithContext(ctx).Order("position").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("postgres: load contacts: %w", err)
	}

	contacts := make([]contact.Contact, len(models))
	for i, model := range models {
		contacts[i] = contact.Contact{
			ID:    model.ID,
			Name:  model.Name,
			Phone: model.Phone,
			Email: model.Email,
		}
	}
	return contacts, nil
}
