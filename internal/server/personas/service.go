// Package personas stores named opaque blobs scoped to one account. A
// persona's existence is independent of the owner's user record; only the
// key prefix binds them.
package personas

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/keybackup/internal/common"
	"github.com/dmitrijs2005/keybackup/internal/logging"
	"github.com/dmitrijs2005/keybackup/internal/server/blob"
	"github.com/dmitrijs2005/keybackup/internal/server/keyspace"
)

const jsonContentType = "application/json"

// Persona is a stored blob with its declared content type and metadata.
type Persona struct {
	Content     []byte
	ContentType string
	Metadata    map[string]string
}

// Service implements persona CRUD over the blob store. The caller supplies
// the authenticated owner email, already normalized.
type Service struct {
	store  blob.Store
	logger logging.Logger
}

func NewService(store blob.Store, logger logging.Logger) *Service {
	return &Service{store: store, logger: logger.With("module", "personas")}
}

// List returns the persona ids stored for email. An account with no uploads
// yields an empty list.
func (s *Service) List(ctx context.Context, email string) ([]string, error) {
	keys, err := s.store.ListKeys(ctx, keyspace.PersonaPrefix(email))
	if err != nil {
		return nil, fmt.Errorf("listing personas: %w", err)
	}

	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, keyspace.PersonaID(k))
	}
	return ids, nil
}

// Put stores or overwrites the persona personaID for email.
//
// The id is rejected before any storage operation if it contains a path
// separator, since it would escape the account's key prefix. A content type
// is required. JSON bodies are canonicalized to pretty-printed text so that
// round-tripping through the HTTP layer is stable.
func (s *Service) Put(ctx context.Context, email, personaID string, content []byte, contentType string) error {
	if err := validateID(personaID); err != nil {
		return err
	}
	if contentType == "" {
		return common.ErrMissingContentType
	}

	if contentType == jsonContentType {
		canonical, err := canonicalizeJSON(content)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrInvalidContent, err)
		}
		content = canonical
	}

	err := s.store.Put(ctx, keyspace.PersonaKey(email, personaID), blob.Object{
		Content:     content,
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("storing persona: %w", err)
	}

	s.logger.Info(ctx, "persona stored", "email", email, "persona", personaID, "bytes", len(content))
	return nil
}

// Get returns the persona personaID for email, or (nil, nil) when it does
// not exist. A persona with empty content is a valid, distinct result.
func (s *Service) Get(ctx context.Context, email, personaID string) (*Persona, error) {
	if err := validateID(personaID); err != nil {
		return nil, err
	}

	obj, err := s.store.Get(ctx, keyspace.PersonaKey(email, personaID))
	if err != nil {
		return nil, fmt.Errorf("fetching persona: %w", err)
	}
	if obj == nil {
		return nil, nil
	}

	return &Persona{Content: obj.Content, ContentType: obj.ContentType, Metadata: obj.Metadata}, nil
}

// Delete removes the given personas for email. Best-effort batch: absent ids
// are not an error.
func (s *Service) Delete(ctx context.Context, email string, personaIDs []string) error {
	keys := make([]string, 0, len(personaIDs))
	for _, id := range personaIDs {
		if err := validateID(id); err != nil {
			return err
		}
		keys = append(keys, keyspace.PersonaKey(email, id))
	}

	if err := s.store.Delete(ctx, keys); err != nil {
		return fmt.Errorf("deleting personas: %w", err)
	}
	return nil
}

func validateID(personaID string) error {
	if personaID == "" || strings.Contains(personaID, "/") {
		return fmt.Errorf("%w: %q", common.ErrInvalidPersonaID, personaID)
	}
	return nil
}

// canonicalizeJSON re-serializes a JSON document pretty-printed. Key order
// and whitespace are not preserved; callers only get structural equality.
func canonicalizeJSON(content []byte) ([]byte, error) {
	var v any
	if err := json.Unmarshal(content, &v); err != nil {
		return nil, err
	}
	return json.MarshalIndent(v, "", "    ")
}
