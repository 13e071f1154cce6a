package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Social holds a user's external profile links, persisted as jsonb.
type Social struct {
	GitHub    *string `json:"github,omitempty" validate:"omitempty,url"`
	LinkedIn  *string `json:"linkedin,omitempty" validate:"omitempty,url"`
	Portfolio *string `json:"portfolio,omitempty" validate:"omitempty,url"`
}

// Merge overlays the non-nil links of patch onto s. An empty string clears a link.
func (s Social) Merge(patch Social) Social {
	out := s
	if patch.GitHub != nil {
		out.GitHub = emptyToNil(patch.GitHub)
	}
	if patch.LinkedIn != nil {
		out.LinkedIn = emptyToNil(patch.LinkedIn)
	}
	if patch.Portfolio != nil {
		out.Portfolio = emptyToNil(patch.Portfolio)
	}
	return out
}

func (s Social) Value() (driver.Value, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (s *Social) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*s = Social{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("social: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		*s = Social{}
		return nil
	}
	return json.Unmarshal(raw, s)
}

func emptyToNil(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	return v
}
