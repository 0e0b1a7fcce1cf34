package models

import (
	"bytes"
	"time"
)

// Timestamp is a platform time that may be missing, null or "". An empty value
// encodes as null.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t}
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		t.Time = time.Time{}
		return nil
	}
	return t.Time.UnmarshalJSON(data)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return t.Time.MarshalJSON()
}

// OrZero is the time, or the zero time for a nil or empty Timestamp.
func (t *Timestamp) OrZero() time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.Time
}
