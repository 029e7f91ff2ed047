package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// ID identifies a record within its partition. Stored data written by older
// clients may carry numeric ids; they decode to their decimal string.
type ID string

// UnmarshalJSON accepts a JSON string, a JSON number, or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the id as a plain string.
func (id ID) String() string { return string(id) }

// Base carries the identity and timestamps shared by every record.
// Record structs embed it so that *Record satisfies the repository's
// entity constraint through the promoted Meta method.
type Base struct {
	ID        ID        `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Meta returns the embedded Base for the repository to stamp.
func (b *Base) Meta() *Base { return b }

// Defaulter is implemented by records that fill unset fields on create.
// Caller-supplied non-zero values always win.
type Defaulter interface {
	ApplyDefaults()
}

// ImageHolder is implemented by records with a data-URI image field.
// ImageField returns the JSON name of that field.
type ImageHolder interface {
	ImageField() string
}
