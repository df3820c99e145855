package domain

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// foldName performs Unicode case folding for case-insensitive name matching.
// A fresh Caser per call; cases.Caser is stateful and not goroutine-safe.
func foldName(s string) string {
	return cases.Fold().String(s)
}

// Person is a stored contact with free-form tag references.
// Tags hold tag names, not IDs; every name should exist in the tag store,
// but orphaned names are tolerated on read paths.
type Person struct {
	ID                string     `json:"id"`
	FirstName         string     `json:"firstname"`
	LastName          string     `json:"lastname"`
	Tags              []string   `json:"tags"`
	SolicitationCount int        `json:"solicitation_count"`
	LastSolicitedAt   *time.Time `json:"last_solicitation_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NewPerson creates a person with trimmed names and a defensive copy of tags.
func NewPerson(id, firstName, lastName string, tags []string) *Person {
	now := time.Now()
	return &Person{
		ID:        id,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Tags:      slicesClone(tags),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Handle returns the person's generated handle, e.g. "@Ada Lovelace".
func (p *Person) Handle() string {
	return fmt.Sprintf("@%s %s", p.FirstName, p.LastName)
}

// HasTag reports whether the person carries the exact tag name.
func (p *Person) HasTag(name string) bool {
	for _, t := range p.Tags {
		if t == name {
			return true
		}
	}
	return false
}

// NameKey returns the case-folded trimmed identity key used for duplicate
// detection, e.g. during imports.
func (p *Person) NameKey() string {
	return NameKey(p.FirstName, p.LastName)
}

// NameKey builds the case-insensitive identity key for a (firstname, lastname)
// pair. Both parts are trimmed and Unicode case folded.
func NameKey(firstName, lastName string) string {
	first := foldName(strings.TrimSpace(firstName))
	last := foldName(strings.TrimSpace(lastName))
	return first + "\x00" + last
}

// FoldName case folds a single name for comparison purposes.
func FoldName(name string) string {
	return foldName(strings.TrimSpace(name))
}

// slicesClone copies a string slice, mapping nil to an empty slice so that
// persons always carry a non-nil tag set.
func slicesClone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
