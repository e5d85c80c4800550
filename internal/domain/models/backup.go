package models

// BackupArchive is the full-state export written by manual and scheduled backups.
// Restoring an archive reproduces both collections field-for-field, ids included.
type BackupArchive struct {
	Timestamp  string             `json:"timestamp"`
	Production []ProductionRecord `json:"production"`
	Sales      []SaleRecord       `json:"sales"`
}
