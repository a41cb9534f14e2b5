package users

import (
	"context"

	"github.com/dkarpov/reelmark/internal/server/models"
)

// Repository is the durable store of user records. Implementations must
// return common.ErrorNotFound for missing users and common.ErrEmailTaken
// when a create or update collides with the unique email index.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
}
