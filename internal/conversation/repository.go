package conversation

import (
	"context"
	"fmt"

	"github.com/angelmondragon/pedidoz-backend/pkg/db"
	"github.com/angelmondragon/pedidoz-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pedidoz-backend/pkg/errors"
)

// Repository persists the append-only conversation log.
type Repository struct {
	db *db.Client
}

// NewRepository constructs a conversation log repository.
func NewRepository(client *db.Client) (*Repository, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &Repository{db: client}, nil
}

// Record appends one handled turn.
func (r *Repository) Record(ctx context.Context, entry *models.ConversationLog) error {
	if err := r.db.DB().WithContext(ctx).Create(entry).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording conversation turn")
	}
	return nil
}

// RecentByWaID returns the latest turns for one user, newest first.
func (r *Repository) RecentByWaID(ctx context.Context, waID string, limit int) ([]models.ConversationLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var entries []models.ConversationLog
	err := r.db.DB().WithContext(ctx).
		Where("wa_id = ?", waID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing conversation turns")
	}
	return entries, nil
}
