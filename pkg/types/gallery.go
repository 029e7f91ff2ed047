package types

// GalleryImage is one picture in the public gallery. ImageURL holds either
// a remote URL or a base64 data URI produced at upload time.
type GalleryImage struct {
	Base
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageURL    string `json:"imageUrl" validate:"required"`
}

// ImageField implements ImageHolder.
func (g *GalleryImage) ImageField() string { return "imageUrl" }
