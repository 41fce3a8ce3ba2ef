package users

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/keybackup/internal/common"
	"github.com/dmitrijs2005/keybackup/internal/server/blob"
	"github.com/dmitrijs2005/keybackup/internal/server/keyspace"
	"github.com/dmitrijs2005/keybackup/internal/server/models"
)

// BlobRepository stores one JSON user record per account in the blob store,
// at <escaped-email>/user.json.
type BlobRepository struct {
	store blob.Store
}

func NewBlobRepository(store blob.Store) *BlobRepository {
	return &BlobRepository{store: store}
}

func (r *BlobRepository) Create(ctx context.Context, email string, user *models.User) error {
	existing, err := r.store.Get(ctx, keyspace.UserKey(email))
	if err != nil {
		return fmt.Errorf("checking for existing account: %w", err)
	}
	if existing != nil {
		return common.ErrAlreadyExists
	}
	return r.Save(ctx, email, user)
}

func (r *BlobRepository) Fetch(ctx context.Context, email string) (*models.User, error) {
	obj, err := r.store.Get(ctx, keyspace.UserKey(email))
	if err != nil {
		return nil, fmt.Errorf("fetching user record: %w", err)
	}
	if obj == nil {
		return nil, nil
	}

	user := &models.User{}
	if err := json.Unmarshal(obj.Content, user); err != nil {
		return nil, fmt.Errorf("decoding user record: %w", err)
	}
	return user, nil
}

func (r *BlobRepository) Save(ctx context.Context, email string, user *models.User) error {
	// pretty-printed so the record stays readable in bucket tooling
	content, err := json.MarshalIndent(user, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding user record: %w", err)
	}

	err = r.store.Put(ctx, keyspace.UserKey(email), blob.Object{
		Content:     content,
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("saving user record: %w", err)
	}
	return nil
}
