package entity

import (
	"time"

	"github.com/google/uuid"
)

// Chat kinds as stored in the chats.kind column.
const (
	ChatKindPrivate   = "private"
	ChatKindGroup     = "group"
	ChatKindWorkspace = "workspace"
	ChatKindPublic    = "public"
)

type Chat struct {
	Id          uuid.UUID
	WorkspaceId *uuid.UUID
	Name        string
	// DisplayName is what the UI shows. For two-party private chats it is the
	// other member's profile name; otherwise the stored name verbatim.
	DisplayName string
	Kind        string
	OwnerId     uuid.UUID
	Avatar      Avatar
	Metadata    map[string]interface{}
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// NeedsEnrichment reports whether the display name must be resolved from the
// counterpart member's profile.
func (c *Chat) NeedsEnrichment() bool {
	return c.Kind == ChatKindPrivate
}
