package enums

import "fmt"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

var validGenders = []Gender{GenderMale, GenderFemale, GenderOther}

func (g Gender) IsValid() bool {
	for _, candidate := range validGenders {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGender converts raw input into Gender.
func ParseGender(value string) (Gender, error) {
	for _, candidate := range validGenders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid gender %q", value)
}
