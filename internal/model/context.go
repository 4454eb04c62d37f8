package model

import (
	"context"

	"github.com/google/uuid"
)

// ContextManager moves the authenticated account id in and out of a request
// context. The id is the only piece of session state that crosses component
// boundaries; everything else is passed explicitly.
type ContextManager interface {
	SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context
	GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool)
}
