package types

// Subscriber status values.
const (
	SubscriberActive       = "active"
	SubscriberUnsubscribed = "unsubscribed"
)

// Subscriber is a newsletter subscription.
type Subscriber struct {
	Base
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name"`
	Status string `json:"status" validate:"omitempty,oneof=active unsubscribed"`
}

// ApplyDefaults marks new subscribers active.
func (s *Subscriber) ApplyDefaults() {
	if s.Status == "" {
		s.Status = SubscriberActive
	}
}

// Registration is a devotee's sign-up for an event.
type Registration struct {
	Base
	EventID   string `json:"eventId" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	Attendees int    `json:"attendees" validate:"gte=0"`
	Notes     string `json:"notes"`
}

// ApplyDefaults counts the registrant when no attendee count is given.
func (r *Registration) ApplyDefaults() {
	if r.Attendees == 0 {
		r.Attendees = 1
	}
}

// Visitor is one page visit recorded by the public site.
type Visitor struct {
	Base
	Page      string `json:"page" validate:"required"`
	Referrer  string `json:"referrer"`
	UserAgent string `json:"userAgent"`
}

// AnalyticsEntry is an aggregated metric for the admin dashboard.
type AnalyticsEntry struct {
	Base
	Metric string  `json:"metric" validate:"required"`
	Value  float64 `json:"value"`
	Period string  `json:"period"`
}
