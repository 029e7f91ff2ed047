package types

// DailyPooja is a recurring ritual on the timings page.
type DailyPooja struct {
	Base
	Name        string   `json:"name" validate:"required"`
	Time        string   `json:"time" validate:"required"`
	Deity       string   `json:"deity"`
	Description string   `json:"description"`
	Days        []string `json:"days,omitempty"`
}

// Bajana is a devotional singing session.
type Bajana struct {
	Base
	Title       string `json:"title" validate:"required"`
	Day         string `json:"day"`
	Time        string `json:"time"`
	Leader      string `json:"leader"`
	Location    string `json:"location"`
	Description string `json:"description"`
}
