// internal/records/kind.go
//
// Package records holds the dashboard's data model: the three record sets
// (team allocation, phase timeline, phase progress), their embedded defaults
// and the JSON form they take on disk.

package records

import (
	"errors"
	"fmt"
	"strings"
)

// Kind names one of the persisted record sets.
type Kind string

const (
	KindTeam     Kind = "team"
	KindTimeline Kind = "timeline"
	KindProgress Kind = "progress"
)

// Kinds lists every record set in display order.
var Kinds = []Kind{KindTeam, KindTimeline, KindProgress}

var (
	ErrUnknownKind  = errors.New("records: unknown kind")
	ErrUnknownPhase = errors.New("records: unknown phase")
	ErrUnknownTeam  = errors.New("records: unknown team")
	ErrInvalidValue = errors.New("records: invalid value")
	ErrMalformed    = errors.New("records: malformed table")
)

// ParseKind resolves a user supplied kind name.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindTeam:
		return KindTeam, nil
	case KindTimeline:
		return KindTimeline, nil
	case KindProgress:
		return KindProgress, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, value)
}

// Stem is the base file name shared by the JSON and CSV files of a kind.
func (k Kind) Stem() string {
	return string(k) + "_data"
}

// FriendlyName returns a label suitable for headings.
func (k Kind) FriendlyName() string {
	switch k {
	case KindTeam:
		return "Team Allocation"
	case KindTimeline:
		return "Timeline"
	case KindProgress:
		return "Progress"
	default:
		return string(k)
	}
}

// Default returns a fresh copy of the embedded default table for the kind.
func (k Kind) Default() (Table, error) {
	switch k {
	case KindTeam:
		return DefaultTeam(), nil
	case KindTimeline:
		return DefaultTimeline(), nil
	case KindProgress:
		return DefaultProgress(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
}
