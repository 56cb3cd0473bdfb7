package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Stage is the coarse workflow phase of a licence.
type Stage string

const (
	StageUnstarted        Stage = "UNSTARTED"
	StageEligibility      Stage = "ELIGIBILITY"
	StageProcessingRO     Stage = "PROCESSING_RO"
	StageProcessingCA     Stage = "PROCESSING_CA"
	StageApproval         Stage = "APPROVAL"
	StageDecided          Stage = "DECIDED"
	StageModified         Stage = "MODIFIED"
	StageModifiedApproval Stage = "MODIFIED_APPROVAL"
	StageVary             Stage = "VARY"
)

// Stages lists every stage in workflow order.
var Stages = []Stage{
	StageUnstarted,
	StageEligibility,
	StageProcessingRO,
	StageProcessingCA,
	StageApproval,
	StageDecided,
	StageModified,
	StageModifiedApproval,
	StageVary,
}

// Valid reports whether the stage is known.
func (s Stage) Valid() bool {
	for _, stage := range Stages {
		if stage == s {
			return true
		}
	}
	return false
}

// Licence is the raw JSON answer document held for a booking. It is sparse: an absent key means the
// question has not been answered.
type Licence []byte

// Value implements driver.Valuer for JSONB columns.
func (l Licence) Value() (driver.Value, error) {
	if len(l) == 0 {
		return []byte("{}"), nil
	}
	return []byte(l), nil
}

// Scan implements sql.Scanner for JSONB columns.
func (l *Licence) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = Licence("{}")
	case []byte:
		*l = append(Licence(nil), v...)
	case string:
		*l = Licence(v)
	default:
		return fmt.Errorf("scan licence: unsupported type %T", src)
	}
	return nil
}

// MarshalJSON embeds the document as-is.
func (l Licence) MarshalJSON() ([]byte, error) {
	if len(l) == 0 {
		return []byte("{}"), nil
	}
	return l, nil
}

// UnmarshalJSON keeps a copy of the raw document.
func (l *Licence) UnmarshalJSON(data []byte) error {
	if l == nil {
		return fmt.Errorf("unmarshal licence: nil receiver")
	}
	*l = append((*l)[0:0], data...)
	return nil
}

// LicenceRow is the persisted licence row.
type LicenceRow struct {
	ID             int64      `db:"id"`
	BookingID      int64      `db:"booking_id"`
	Licence        Licence    `db:"licence"`
	Stage          Stage      `db:"stage"`
	Version        int        `db:"version"`
	VaryVersion    int        `db:"vary_version"`
	TransitionDate *time.Time `db:"transition_date"`
}

// ApprovedVersion describes the last licence version saved for PDF reproducibility.
type ApprovedVersion struct {
	ID          int64     `db:"id" json:"id"`
	BookingID   int64     `db:"booking_id" json:"bookingId"`
	Version     int       `db:"version" json:"version"`
	VaryVersion int       `db:"vary_version" json:"varyVersion"`
	Template    string    `db:"template" json:"template"`
	Timestamp   time.Time `db:"timestamp" json:"timestamp"`
	Licence     Licence   `db:"licence" json:"-"`
}

// DisplayVersion renders the version as "version.varyVersion".
func (v *ApprovedVersion) DisplayVersion() string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d.%d", v.Version, v.VaryVersion)
}

// LicenceRecord is the current licence for a booking together with its approved version details.
type LicenceRecord struct {
	BookingID              int64            `json:"bookingId"`
	Licence                Licence          `json:"licence"`
	Stage                  Stage            `json:"stage"`
	Version                string           `json:"version"`
	VersionNumber          int              `json:"versionNumber"`
	VaryVersionNumber      int              `json:"varyVersionNumber"`
	ApprovedVersion        string           `json:"approvedVersion,omitempty"`
	ApprovedVersionDetails *ApprovedVersion `json:"approvedVersionDetails,omitempty"`
}

// NewLicenceRecord combines a stored row with the optional approved version.
func NewLicenceRecord(row *LicenceRow, approved *ApprovedVersion) *LicenceRecord {
	record := &LicenceRecord{
		BookingID:              row.BookingID,
		Licence:                row.Licence,
		Stage:                  row.Stage,
		Version:                fmt.Sprintf("%d.%d", row.Version, row.VaryVersion),
		VersionNumber:          row.Version,
		VaryVersionNumber:      row.VaryVersion,
		ApprovedVersionDetails: approved,
	}
	if approved != nil {
		record.ApprovedVersion = approved.DisplayVersion()
	}
	return record
}

// CaseSummary is one entry of a case list: the booking plus derived workflow status.
type CaseSummary struct {
	BookingID   int64    `json:"bookingId"`
	OffenderNo  string   `json:"offenderNo,omitempty"`
	Name        string   `json:"name,omitempty"`
	Stage       Stage    `json:"stage"`
	Version     string   `json:"version,omitempty"`
	StatusLabel string   `json:"status"`
	ActiveCase  bool     `json:"activeCase"`
	Role        UserRole `json:"-"`
}
