package workflow

import (
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
)

// VersionInfo summarises the current licence version against the last approved one.
type VersionInfo struct {
	Version                string                  `json:"version"`
	ApprovedVersion        string                  `json:"approvedVersion,omitempty"`
	ApprovedVersionDetails *models.ApprovedVersion `json:"approvedVersionDetails,omitempty"`
	IsNewVersion           bool                    `json:"isNewVersion"`
	LastTemplate           string                  `json:"lastTemplate,omitempty"`
}

// VersionInfoFor compares a record's version numbers with its approved version. A record without an
// approved version is always new.
func VersionInfoFor(record *models.LicenceRecord) VersionInfo {
	if record == nil {
		return VersionInfo{IsNewVersion: true}
	}
	info := VersionInfo{
		Version:                record.Version,
		ApprovedVersion:        record.ApprovedVersion,
		ApprovedVersionDetails: record.ApprovedVersionDetails,
		IsNewVersion:           true,
	}
	if approved := record.ApprovedVersionDetails; approved != nil {
		info.LastTemplate = approved.Template
		info.IsNewVersion = record.VersionNumber > approved.Version ||
			(record.VersionNumber == approved.Version && record.VaryVersionNumber > approved.VaryVersion)
	}
	return info
}
