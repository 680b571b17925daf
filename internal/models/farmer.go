// Package models defines the farmer record synchronized between the local
// cache and the remote document store.
package models

import (
	"fmt"
	"time"
)

// Gender classifies a farmer's gender. Empty means unset.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// EducationLevel classifies a farmer's education. Empty means unset.
type EducationLevel string

const (
	EducationNone     EducationLevel = "None"
	EducationPrimary  EducationLevel = "Primary"
	EducationJHS      EducationLevel = "JHS"
	EducationSHS      EducationLevel = "SHS"
	EducationTertiary EducationLevel = "Tertiary"
	EducationOther    EducationLevel = "Other"
)

// Status marks whether a farmer is currently active. Empty means unset.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// Timestamp tags a point in time with its origin. Confirmed is false while
// the value is a provisional client-side stamp and becomes true once the
// remote store has assigned (or confirmed) it.
type Timestamp struct {
	Time      time.Time
	Confirmed bool
}

// Provisional returns a client-side stamp awaiting remote confirmation.
func Provisional(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// Confirmed returns a stamp assigned by the remote store.
func Confirmed(t time.Time) Timestamp {
	return Timestamp{Time: t, Confirmed: true}
}

// Farmer is the sync unit. The same Id is used as the remote document key,
// so a record round-trips between stores without changing identity.
type Farmer struct {
	// Id is globally unique: minted client-side for local-first records,
	// or taken from the remote document when pulled during a cache refresh.
	Id string

	// Name is required and non-empty.
	Name string

	// Free-form location/contact fields.
	Region    string
	District  string
	Community string
	Contact   string

	Gender         Gender
	EducationLevel EducationLevel
	Status         Status

	// Age in years, non-negative. Nil means unset.
	Age *int

	// FarmSize in acres, non-negative. Nil means unset.
	FarmSize *float64

	// CropsGrown is a set of crop names; insertion order is preserved
	// for display but irrelevant for correctness.
	CropsGrown []string

	// JoinDate is a calendar date (midnight UTC, no time component).
	JoinDate *time.Time

	// CreatedAt and UpdatedAt are authoritative only once Confirmed;
	// locally originated records carry provisional stamps until the next
	// successful pull overwrites them.
	CreatedAt Timestamp
	UpdatedAt Timestamp

	// Synced is local-only and never sent to the remote store: false
	// while the local copy has changes not yet acknowledged remotely.
	Synced bool
}

var validGenders = map[Gender]struct{}{
	GenderMale: {}, GenderFemale: {}, GenderOther: {},
}

var validEducationLevels = map[EducationLevel]struct{}{
	EducationNone: {}, EducationPrimary: {}, EducationJHS: {},
	EducationSHS: {}, EducationTertiary: {}, EducationOther: {},
}

var validStatuses = map[Status]struct{}{
	StatusActive: {}, StatusInactive: {},
}

// Validate checks structural constraints on the record. Id is not checked
// here since it is assigned by the service layer.
func (f *Farmer) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("name: %w", ErrRequired)
	}
	if f.Gender != "" {
		if _, ok := validGenders[f.Gender]; !ok {
			return fmt.Errorf("gender %q: %w", f.Gender, ErrInvalidValue)
		}
	}
	if f.EducationLevel != "" {
		if _, ok := validEducationLevels[f.EducationLevel]; !ok {
			return fmt.Errorf("education level %q: %w", f.EducationLevel, ErrInvalidValue)
		}
	}
	if f.Status != "" {
		if _, ok := validStatuses[f.Status]; !ok {
			return fmt.Errorf("status %q: %w", f.Status, ErrInvalidValue)
		}
	}
	if f.Age != nil && *f.Age < 0 {
		return fmt.Errorf("age %d: %w", *f.Age, ErrInvalidValue)
	}
	if f.FarmSize != nil && *f.FarmSize < 0 {
		return fmt.Errorf("farm size %v: %w", *f.FarmSize, ErrInvalidValue)
	}
	return nil
}

// DateOnly truncates t to a calendar date at midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
