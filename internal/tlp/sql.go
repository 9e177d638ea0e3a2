package tlp

import (
	"database/sql/driver"
	"fmt"
	"strconv"
)

// Scan reads a level stored as its ordinal.
func (l *Level) Scan(src any) error {
	var n int64
	switch v := src.(type) {
	case int64:
		n = v
	case int:
		n = int64(v)
	case []byte:
		p, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("scan tlp: %w", err)
		}
		n = p
	case string:
		p, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("scan tlp: %w", err)
		}
		n = p
	default:
		return fmt.Errorf("scan tlp: unsupported type %T", src)
	}
	lvl, err := ByValue(int(n))
	if err != nil {
		return err
	}
	*l = lvl
	return nil
}

// Value stores the level as its ordinal.
func (l Level) Value() (driver.Value, error) {
	return int64(l), nil
}
