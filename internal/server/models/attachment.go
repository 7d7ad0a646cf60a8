package models

// Attachment describes one stored file belonging to a notice.
//
// StoredDirectory is the absolute path of the date partition holding the
// blob. OriginalName is whatever the user uploaded; it is display-only and
// never used for filesystem access. StorageName is the generated,
// filesystem-safe name, unique within StoredDirectory.
//
// For every persisted attachment row a file exists at
// StoredDirectory/StorageName, except transiently inside the operation that
// created the row. The reconciliation sweeper removes files with no row,
// never rows with no file.
type Attachment struct {
	ID              int64
	NoticeID        int64
	StoredDirectory string
	OriginalName    string
	StorageName     string
}
