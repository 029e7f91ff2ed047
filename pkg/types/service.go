package types

// Service availability values.
const (
	ServiceAvailable   = "available"
	ServiceUnavailable = "unavailable"
)

// Service is a pooja or ritual devotees can book.
type Service struct {
	Base
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Duration    string  `json:"duration"`
	Category    string  `json:"category"`
	Status      string  `json:"status" validate:"omitempty,oneof=available unavailable"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// ApplyDefaults marks new services available unless told otherwise.
func (s *Service) ApplyDefaults() {
	if s.Status == "" {
		s.Status = ServiceAvailable
	}
}

// ImageField implements ImageHolder.
func (s *Service) ImageField() string { return "imageUrl" }
