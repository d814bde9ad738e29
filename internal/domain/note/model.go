package note

import (
	"fmt"
	"math"
)

// Note is a stored personal note. Ciphertext and Key are always replaced
// together; a stale key paired with fresh ciphertext must never be
// observable. The key living next to the ciphertext is a known weakness of
// personal mode (shared notes never persist their key).
type Note struct {
	ID         string `json:"id"`
	OwnerID    string `json:"owner_id"`
	Ciphertext string `json:"ciphertext"`
	Key        string `json:"key"`
	CreatedAt  int64  `json:"created_at"`            // epoch milliseconds
	TTLSeconds int64  `json:"ttl_seconds,omitempty"` // 0 means the note never expires
}

// Item is the decrypted, owner-facing view of a note.
type Item struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	CreatedAt  int64  `json:"created_at"`
	TTLSeconds int64  `json:"ttl_seconds,omitempty"`
}

// DecryptFailedPlaceholder is rendered in place of a note body that could
// not be decrypted with its stored key, so one broken note never aborts the
// whole list.
const DecryptFailedPlaceholder = "[decryption failed]"

// TTLUnit is a supported lifetime unit.
type TTLUnit string

const (
	UnitSeconds TTLUnit = "seconds"
	UnitMinutes TTLUnit = "minutes"
	UnitHours   TTLUnit = "hours"
	UnitDays    TTLUnit = "days"
	UnitWeeks   TTLUnit = "weeks"
)

var unitSeconds = map[TTLUnit]int64{
	UnitSeconds: 1,
	UnitMinutes: 60,
	UnitHours:   3600,
	UnitDays:    86400,
	UnitWeeks:   604800,
}

// Validate implements the huma.Validatable contract for unit values coming
// off the wire.
func (u TTLUnit) Validate() error {
	if _, ok := unitSeconds[u]; !ok {
		return fmt.Errorf("unknown ttl unit: %s", u)
	}
	return nil
}

// TTLPolicy describes how long a note should live. The zero value is not
// valid; use Forever() or Expiring().
type TTLPolicy struct {
	Forever bool
	Value   int64
	Unit    TTLUnit
}

// Forever returns the policy for a note that never expires.
func Forever() TTLPolicy {
	return TTLPolicy{Forever: true}
}

// Expiring returns the policy for a note that expires after value units.
func Expiring(value int64, unit TTLUnit) TTLPolicy {
	return TTLPolicy{Value: value, Unit: unit}
}

// Seconds normalizes the policy to a TTL in seconds; 0 means forever.
func (p TTLPolicy) Seconds() (int64, error) {
	if p.Forever {
		return 0, nil
	}
	if p.Value <= 0 {
		return 0, fmt.Errorf("%w: ttl value must be positive", ErrInvalidTTL)
	}
	mult, ok := unitSeconds[p.Unit]
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidTTL, p.Unit)
	}
	// A product that overflows would come back negative and be stored as a
	// note that never expires.
	if p.Value > math.MaxInt64/mult {
		return 0, fmt.Errorf("%w: ttl value too large", ErrInvalidTTL)
	}
	return p.Value * mult, nil
}
