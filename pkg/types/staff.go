package types

// StaffDepartmentGeneral is the department given to staff created without one.
const StaffDepartmentGeneral = "general"

// StaffMember is a priest, volunteer coordinator, or other temple employee.
type StaffMember struct {
	Base
	FullName         string `json:"fullName" validate:"required"`
	Role             string `json:"role" validate:"required"`
	Department       string `json:"department"`
	PhoneNumber      string `json:"phoneNumber"`
	Email            string `json:"email" validate:"omitempty,email"`
	JoiningDate      string `json:"joiningDate"`
	Responsibilities string `json:"responsibilities"`
	ProfileImageURL  string `json:"profileImageUrl,omitempty"`

	// Name and Position are the field names used by the older staff form.
	// They are kept as given and fill FullName and Role when those are empty.
	Name     string `json:"name,omitempty"`
	Position string `json:"position,omitempty"`
}

// ApplyDefaults fills the department when the caller left it empty and
// copies the older form's name and position into FullName and Role.
func (s *StaffMember) ApplyDefaults() {
	if s.FullName == "" {
		s.FullName = s.Name
	}
	if s.Role == "" {
		s.Role = s.Position
	}
	if s.Department == "" {
		s.Department = StaffDepartmentGeneral
	}
}

// ImageField implements ImageHolder.
func (s *StaffMember) ImageField() string { return "profileImageUrl" }

// BoardMember is a trustee listed on the board page. Order controls the
// display position; lower values sort first.
type BoardMember struct {
	Base
	Name     string `json:"name" validate:"required"`
	Position string `json:"position" validate:"required"`
	Term     string `json:"term"`
	Bio      string `json:"bio"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	ImageURL string `json:"imageUrl,omitempty"`
	Order    int    `json:"order" validate:"gte=0"`
}

// ImageField implements ImageHolder.
func (b *BoardMember) ImageField() string { return "imageUrl" }
