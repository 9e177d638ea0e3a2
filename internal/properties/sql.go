package properties

import (
	"database/sql/driver"
	"fmt"
	"math"
)

// Scan reads a code stored as a BIGINT. Reserved bits are kept.
func (b *Bits[F]) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*b = Bits[F](uint64(v))
	case int:
		*b = Bits[F](uint64(v))
	case []byte:
		p, err := Parse[F](string(v))
		if err != nil {
			return err
		}
		*b = p
	case string:
		p, err := Parse[F](v)
		if err != nil {
			return err
		}
		*b = p
	case nil:
		*b = 0
	default:
		return fmt.Errorf("scan code: unsupported type %T", src)
	}
	return nil
}

// Value stores the code as a BIGINT.
func (b Bits[F]) Value() (driver.Value, error) {
	if uint64(b) > math.MaxInt64 {
		return nil, fmt.Errorf("code %d does not fit a BIGINT", uint64(b))
	}
	return int64(b), nil
}
