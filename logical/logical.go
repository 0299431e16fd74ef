// Package logical converts raw Avro primitives annotated with a logicalType
// into higher level Go values.  The conversions are pure functions; decimal
// precision is passed with each call.
package logical

import (
	"fmt"
	"math/big"
	"time"

	"github.com/brimdata/zavro"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	microsPerMilli  = 1000
	microsPerSecond = 1000 * microsPerMilli
	microsPerMinute = 60 * microsPerSecond
	microsPerHour   = 60 * microsPerMinute
)

// TimeOfDay is the decoded form of time-millis and time-micros.
type TimeOfDay struct {
	Hour        int
	Minute      int
	Second      int
	Microsecond int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%06d", t.Hour, t.Minute, t.Second, t.Microsecond)
}

// Duration returns the time since midnight.
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t.Hour)*time.Hour +
		time.Duration(t.Minute)*time.Minute +
		time.Duration(t.Second)*time.Second +
		time.Duration(t.Microsecond)*time.Microsecond
}

func TimestampMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

func TimestampMicros(v int64) time.Time {
	return time.UnixMicro(v).UTC()
}

// Date returns midnight UTC of the day that is days after 1970-01-01.
func Date(days int32) time.Time {
	return time.Date(1970, time.January, 1+int(days), 0, 0, 0, 0, time.UTC)
}

func TimeMillis(v int32) TimeOfDay {
	return TimeMicros(int64(v) * microsPerMilli)
}

func TimeMicros(v int64) TimeOfDay {
	return TimeOfDay{
		Hour:        int(v / microsPerHour),
		Minute:      int(v % microsPerHour / microsPerMinute),
		Second:      int(v % microsPerMinute / microsPerSecond),
		Microsecond: int(v % microsPerSecond),
	}
}

// Decimal interprets b as a big-endian two's-complement unscaled value and
// applies scale.  If precision is positive, the result is rounded half-even
// to that many significant digits.
func Decimal(b []byte, scale, precision int) decimal.Decimal {
	d := decimal.NewFromBigInt(SignedBytesToInt(b), -int32(scale))
	if precision <= 0 {
		return d
	}
	digits := len(d.Coefficient().Text(10))
	if d.Coefficient().Sign() < 0 {
		digits--
	}
	if excess := digits - precision; excess > 0 {
		d = d.RoundBank(int32(scale - excess))
	}
	return d
}

// SignedBytesToInt decodes a big-endian two's-complement integer.
func SignedBytesToInt(b []byte) *big.Int {
	n := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(8*len(b))))
	}
	return n
}

func UUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// Convert applies the converter selected by the base kind and the logical
// annotation l.  Unknown combinations return raw unchanged.
func Convert(base zavro.Kind, l *zavro.Logical, raw any) (any, error) {
	if l == nil {
		return raw, nil
	}
	switch base {
	case zavro.KindLong:
		v, ok := raw.(int64)
		if !ok {
			break
		}
		switch l.Name {
		case "timestamp-millis", "local-timestamp-millis":
			return TimestampMillis(v), nil
		case "timestamp-micros", "local-timestamp-micros":
			return TimestampMicros(v), nil
		case "time-micros":
			return TimeMicros(v), nil
		}
	case zavro.KindInt:
		v, ok := raw.(int32)
		if !ok {
			break
		}
		switch l.Name {
		case "date":
			return Date(v), nil
		case "time-millis":
			return TimeMillis(v), nil
		}
	case zavro.KindBytes, zavro.KindFixed:
		b, ok := raw.([]byte)
		if !ok {
			break
		}
		switch l.Name {
		case "decimal":
			return Decimal(b, l.Scale, l.Precision), nil
		case "uuid":
			if base == zavro.KindFixed {
				return uuid.FromBytes(b)
			}
		}
	case zavro.KindString:
		if s, ok := raw.(string); ok && l.Name == "uuid" {
			return UUID(s)
		}
	}
	return raw, nil
}
