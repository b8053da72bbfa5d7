package records

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DefaultSentinel is the on-disk placeholder for a team with nobody assigned.
const DefaultSentinel = "-"

// Assignment is the member list of one team for one phase. The zero value is
// unassigned, which is distinct from an assignment with an empty member list.
type Assignment struct {
	members  string
	assigned bool
}

// Assigned builds an assignment from a comma separated member list. The text
// is kept verbatim so it survives a save/load cycle unchanged.
func Assigned(members string) Assignment {
	return Assignment{members: members, assigned: true}
}

// Unassigned marks a team with no members on a phase.
func Unassigned() Assignment {
	return Assignment{}
}

// ParseAssignment turns a cell read from disk or the command line into an
// assignment, mapping the sentinel to Unassigned.
func ParseAssignment(value, sentinel string) Assignment {
	if value == sentinel {
		return Unassigned()
	}
	return Assigned(value)
}

// IsAssigned reports whether the team has an assignment for the phase.
func (a Assignment) IsAssigned() bool {
	return a.assigned
}

// Members returns the raw member list and whether the cell is assigned.
func (a Assignment) Members() (string, bool) {
	return a.members, a.assigned
}

// Names splits the member list into trimmed, non-empty names.
func (a Assignment) Names() []string {
	if !a.assigned {
		return nil
	}
	var names []string
	for _, part := range strings.Split(a.members, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Text renders the cell, substituting the sentinel for unassigned cells.
func (a Assignment) Text(sentinel string) string {
	if !a.assigned {
		return sentinel
	}
	return a.members
}

// CheckSentinel rejects an assigned cell whose text is the sentinel, which
// would read back as unassigned.
func (a Assignment) CheckSentinel(sentinel string) error {
	if a.assigned && a.members == sentinel {
		return fmt.Errorf("%w: member list %q is the unassigned marker", ErrInvalidValue, sentinel)
	}
	return nil
}

// Equal reports whether two assignments hold the same value.
func (a Assignment) Equal(other Assignment) bool {
	return a.assigned == other.assigned && a.members == other.members
}

// DateLayout is the ISO-8601 calendar date format used on disk and in exports.
const DateLayout = "2006-01-02"

// Date is a calendar day without a time component.
type Date struct {
	t time.Time
}

// NewDate builds a date in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q: %v", ErrInvalidValue, value, err)
	}
	return Date{t: t}, nil
}

func (d Date) String() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time { return d.t }

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

func (d Date) After(other Date) bool { return d.t.After(other.t) }

func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// DaysUntil counts whole days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

// Short renders the day as "Jan 15".
func (d Date) Short() string {
	return d.t.Format("Jan 2")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: date must be a string", ErrInvalidValue)
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
