package types

// Default category applied to events created without one.
const EventCategoryGeneral = "general"

// Event is a scheduled temple event shown on the public events page.
type Event struct {
	Base
	Title       string `json:"title" validate:"required"`
	Date        string `json:"date" validate:"required"` // YYYY-MM-DD
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// ApplyDefaults fills the category when the caller left it empty.
func (e *Event) ApplyDefaults() {
	if e.Category == "" {
		e.Category = EventCategoryGeneral
	}
}

// ImageField implements ImageHolder.
func (e *Event) ImageField() string { return "imageUrl" }
