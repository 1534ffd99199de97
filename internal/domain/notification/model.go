package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification kinds.
const (
	KindAppointmentReminder = "appointment_reminder"
	KindLowStock            = "low_stock"
	KindSystem              = "system"
)

// Notification is an in-app message for a staff member. RefID points at
// the related record (appointment, product) when there is one.
type Notification struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	RecipientID uuid.UUID  `json:"recipient_id" db:"recipient_id"`
	Kind        string     `json:"kind" db:"kind"`
	Message     string     `json:"message" db:"message"`
	RefID       *uuid.UUID `json:"ref_id,omitempty" db:"ref_id"`
	ReadAt      *time.Time `json:"read_at,omitempty" db:"read_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// Read reports whether the notification has been read.
func (n *Notification) Read() bool { return n.ReadAt != nil }
