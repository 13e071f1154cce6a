package dbtypes

import (
	"database/sql/driver"

	"github.com/lib/pq"
)

// StringArray maps a Postgres text[] column. Values are written as array
// literals, so the same column also round-trips through sqlite as text.
type StringArray []string

func (a *StringArray) Scan(src any) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	if arr == nil {
		arr = pq.StringArray{}
	}
	*a = StringArray(arr)
	return nil
}

// Value never returns NULL; an empty or nil slice is written as '{}'.
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "{}", nil
	}
	return pq.StringArray(a).Value()
}
