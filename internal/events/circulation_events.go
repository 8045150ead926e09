package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/cosmiclattes/manos-library/internal/domain"
)

type CirculationEventType string

const (
	BookBorrowedEvent      CirculationEventType = "circulation.borrowed"
	BookReturnedEvent      CirculationEventType = "circulation.returned"
	InventoryAdjustedEvent CirculationEventType = "inventory.adjusted"
	InventoryRemovedEvent  CirculationEventType = "inventory.removed"
)

// CirculationEvent is published after a circulation operation commits.
// Downstream consumers (notifications, recommendation refresh) subscribe by
// routing key; the event stream is observability, not authoritative state.
type CirculationEvent struct {
	ID            uuid.UUID            `json:"id"`
	BookID        uuid.UUID            `json:"book_id"`
	UserID        uuid.UUID            `json:"user_id,omitempty"`
	EventType     CirculationEventType `json:"event_type"`
	Payload       interface{}          `json:"payload"`
	Timestamp     time.Time            `json:"timestamp"`
	Service       string               `json:"service"`
	CorrelationID uuid.UUID            `json:"correlation_id"`
}

type BorrowPayload struct {
	Record domain.BorrowRecord `json:"record"`
}

type InventoryAdjustedPayload struct {
	Inventory  domain.Inventory `json:"inventory"`
	AdjustedBy uuid.UUID        `json:"adjusted_by"`
}
