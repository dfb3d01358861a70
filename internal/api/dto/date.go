package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/leave-service/internal/domain"
)

// DateLayout is the wire format for calendar days.
const DateLayout = "2006-01-02"

// Date is a calendar day. It decodes YYYY-MM-DD or RFC3339 (truncated to the
// UTC date) and always encodes YYYY-MM-DD.
type Date struct {
	time.Time
}

// ParseDate parses a wire date.
func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q", raw)
	}
	return Date{Time: domain.TruncateDay(t.UTC())}, nil
}

// NewDate wraps t as a calendar day.
func NewDate(t time.Time) Date {
	return Date{Time: domain.TruncateDay(t)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(*raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
