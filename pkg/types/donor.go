package types

// DonationPurposeGeneral is the purpose recorded when none is given.
const DonationPurposeGeneral = "general"

// Donor records a donation for the donors page.
type Donor struct {
	Base
	Name         string  `json:"name" validate:"required"`
	Amount       float64 `json:"amount" validate:"gte=0"`
	DonationDate string  `json:"donationDate"`
	Purpose      string  `json:"purpose"`
	Email        string  `json:"email" validate:"omitempty,email"`
	Phone        string  `json:"phone"`
	Anonymous    bool    `json:"anonymous"`
}

// ApplyDefaults fills the purpose when the caller left it empty.
func (d *Donor) ApplyDefaults() {
	if d.Purpose == "" {
		d.Purpose = DonationPurposeGeneral
	}
}
