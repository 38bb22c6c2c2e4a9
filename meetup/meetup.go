package meetup

import (
	"time"

	"github.com/hitalo07/bootcamp-gostack-meetapp/user"
)

// Meetup is a scheduled event owned by the user who created it.
type Meetup struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	Date         time.Time `json:"date"`
	OwnerID      string    `json:"ownerId"`
	AttachmentID *string   `json:"attachmentId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`

	// Owner is populated on listings so callers can display who is
	// hosting without a second lookup.
	Owner *user.User `json:"owner,omitempty"`
}

// IsPast reports whether the meetup has already happened as of now.
// Never persisted: it depends only on the wall clock.
func (m *Meetup) IsPast(now time.Time) bool {
	return m.Date.Before(now)
}

type CreateMeetupInput struct {
	Title       string    `json:"title" validate:"required,min=3"`
	Description string    `json:"description" validate:"required,min=6"`
	Location    string    `json:"location" validate:"required,min=4"`
	Date        time.Time `json:"date" validate:"required"`
}

// UpdateMeetupInput carries a partial update. Nil fields are left
// untouched. There is deliberately no owner field.
type UpdateMeetupInput struct {
	Title        *string    `json:"title" validate:"omitempty,min=3"`
	Description  *string    `json:"description" validate:"omitempty,min=6"`
	Location     *string    `json:"location" validate:"omitempty,min=4"`
	Date         *time.Time `json:"date"`
	AttachmentID *string    `json:"attachmentId"`
}

// PerPage is the fixed listing page size.
const PerPage = 10

// ListFilter narrows and pages a listing. From/To bound the meetup date
// inclusively when set; Page is 1-indexed.
type ListFilter struct {
	From *time.Time
	To   *time.Time
	Page int
}

// DayWindow expands a calendar day to its inclusive [first, last] instant
// range in day's location. The end is anchored to the next day's midnight
// rather than start+24h, so the window stays correct on DST-transition
// days that are 23 or 25 local hours long.
func DayWindow(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, day.Location()).Add(-time.Nanosecond)
	return start, end
}
