// Package filestore persists the contact list to a single local file.
//
// The whole list is rewritten on every save. Writes go to a temporary file
// in the destination directory which is synced and then renamed over the
// destination, so a failed save never leaves a truncated file behind.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"contactbook/contact"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when no path is configured.
const DefaultPath = "contacts.json"

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from the file extension. Anything that is not
// .yaml or .yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

type record struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Phone string `json:"phone" yaml:"phone"`
	Email string `json:"email" yaml:"email"`
}

// ContactRepository implements contact.Repository on top of a file.
type ContactRepository struct {
	path   string
	format Format
	perm   fs.FileMode
	logger *slog.Logger
}

var _ contact.Repository = (*ContactRepository)(nil)

func NewContactRepository(path string, logger *slog.Logger) *ContactRepository {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactRepository{
		path:   path,
		format: FormatFor(path),
		perm:   0o600,
		logger: logger,
	}
}

func (r *ContactRepository) Path() string {
	return r.path
}

func (r *ContactRepository) LoadContacts(_ context.Context) ([]contact.Contact, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		r.logger.Info("no contacts file yet, starting with an empty list", "path", r.path)
		return []contact.Contact{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("filestore: read %s: %w", r.path, err)
	}

	records, err := r.decode(data)
	if err != nil {
		return nil, fmt.Errorf("filestore: decode %s: %w", r.path, err)
	}

	contacts := make([]contact.Contact, len(records))
	for i, rec := range records {
		contacts[i] = contact.Contact{
			ID:    rec.ID,
			Name:  rec.Name,
			Phone: rec.Phone,
			Email: rec.Email,
		}
	}
	return contacts, nil
}

func (r *ContactRepository) SaveContacts(_ context.Context, cs []contact.Contact) error {
	records := make([]record, len(cs))
	for i, c := range cs {
		records[i] = record{
			ID:    c.ID,
			Name:  c.Name,
			Phone: c.Phone,
			Email: c.Email,
		}
	}

	data, err := r.encode(records)
	if err != nil {
		return fmt.Errorf("filestore: encode contacts: %w", err)
	}

	if err := writeFileAtomic(r.path, data, r.perm); err != nil {
		return fmt.Errorf("filestore: write %s: %w", r.path, err)
	}
	r.logger.Debug("contacts saved", "path", r.path, "count", len(cs))
	return nil
}

func (r *ContactRepository) encode(records []record) ([]byte, error) {
	if r.format == FormatYAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// decode rejects unknown fields so that a file written with a different
// layout is reported instead of silently read as blank contacts.
func (r *ContactRepository) decode(data []byte) ([]record, error) {
	var records []record
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty file")
	}

	if r.format == FormatYAML {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&records); err != nil {
			return nil, err
		}
		return records, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&records); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after contact list")
	}
	return records, nil
}
