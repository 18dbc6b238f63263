package config

import (
	"fmt"
	"sort"
)

// PlatformStatus tracks a platform's progress through the analysis lifecycle.
type PlatformStatus string

const (
	// StatusProposed is the initial state of a freshly added platform.
	StatusProposed PlatformStatus = "proposed"
	// StatusAnalyzed means fetch, parse and classification succeeded with at
	// least one parsed source file.
	StatusAnalyzed PlatformStatus = "analyzed"
	// StatusValidated means the workspace synchronizer reported no errors.
	StatusValidated PlatformStatus = "validated"
	// StatusRegistered means the platform's generated units are part of the
	// workspace. Requires a non-empty target identifier.
	StatusRegistered PlatformStatus = "registered"
	// StatusRemoved is terminal. The record is retained as a tombstone so the
	// synchronizer can still report orphaned generated units.
	StatusRemoved PlatformStatus = "removed"
)

// statusRank orders the forward-progress states. Removed is deliberately
// absent: a tombstone is never "at least" anything.
var statusRank = map[PlatformStatus]int{
	StatusProposed:   0,
	StatusAnalyzed:   1,
	StatusValidated:  2,
	StatusRegistered: 3,
}

// ParseStatus validates a raw status string from a persisted record.
func ParseStatus(s string) (PlatformStatus, error) {
	switch PlatformStatus(s) {
	case StatusProposed, StatusAnalyzed, StatusValidated, StatusRegistered, StatusRemoved:
		return PlatformStatus(s), nil
	}
	return "", fmt.Errorf("unknown platform status %q", s)
}

// AtLeast reports whether s has progressed at least as far as other.
// Removed compares as false against everything.
func (s PlatformStatus) AtLeast(other PlatformStatus) bool {
	a, okA := statusRank[s]
	b, okB := statusRank[other]
	return okA && okB && a >= b
}

// InterfaceCategory is the tagged classification of a capability interface.
type InterfaceCategory string

const (
	CategoryDigitalIO InterfaceCategory = "digital_io"
	CategorySpi       InterfaceCategory = "spi"
	CategoryI2c       InterfaceCategory = "i2c"
	CategoryUart      InterfaceCategory = "uart"
	CategoryTimer     InterfaceCategory = "timer"
	CategoryPwm       InterfaceCategory = "pwm"
	CategoryAdc       InterfaceCategory = "adc"
	// CategoryCustom is the fail-closed bucket for interfaces the mockability
	// registry does not know about.
	CategoryCustom InterfaceCategory = "custom"
)

// ParseCategory validates a raw category string from a persisted record.
func ParseCategory(s string) (InterfaceCategory, error) {
	switch InterfaceCategory(s) {
	case CategoryDigitalIO, CategorySpi, CategoryI2c, CategoryUart,
		CategoryTimer, CategoryPwm, CategoryAdc, CategoryCustom:
		return InterfaceCategory(s), nil
	}
	return "", fmt.Errorf("unknown interface category %q", s)
}

// Severity is the weight of a diagnostic. Errors gate Apply; warnings never do.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// SourceLocation points at the declaration site of an interface within the
// fetched source tree.
type SourceLocation struct {
	File string
	Line int
}

// InterfaceRecord is one discovered capability-interface declaration.
// Records are immutable after classification; reclassification produces a
// fresh record set rather than mutating in place.
type InterfaceRecord struct {
	Name       string
	ModulePath string
	Category   InterfaceCategory
	Mockable   bool
	DeclaredAt SourceLocation
}

// Diagnostic is a single analysis finding attached to a platform.
type Diagnostic struct {
	Severity         Severity
	Message          string
	RelatedInterface string
}

// SourceRef identifies the remote package a platform's HAL glue is built from.
type SourceRef struct {
	Repository string
	Ref        string
}

// Platform is one configured build target and everything analysis has learned
// about it. Owned by the store; pipeline stages work on clones.
type Platform struct {
	Name           string
	Target         string
	Source         SourceRef
	PackageVersion string
	Interfaces     []InterfaceRecord
	Diagnostics    []Diagnostic
	Status         PlatformStatus
}

// Clone returns a deep copy suitable for an isolated analysis run.
func (p *Platform) Clone() *Platform {
	c := *p
	c.Interfaces = append([]InterfaceRecord(nil), p.Interfaces...)
	c.Diagnostics = append([]Diagnostic(nil), p.Diagnostics...)
	return &c
}

// MockableNames derives the platform's native-mockable set: the alphabetically
// sorted names of all interfaces classified as host-mockable.
func (p *Platform) MockableNames() []string {
	var names []string
	for _, rec := range p.Interfaces {
		if rec.Mockable {
			names = append(names, rec.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Warnings counts the platform's warning-severity diagnostics.
func (p *Platform) Warnings() int {
	n := 0
	for _, d := range p.Diagnostics {
		if d.Severity == SeverityWarning {
			n++
		}
	}
	return n
}

// Errors counts the platform's error-severity diagnostics.
func (p *Platform) Errors() int {
	n := 0
	for _, d := range p.Diagnostics {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}
