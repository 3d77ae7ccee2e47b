package document

import "time"

// AssignedBucket is the sentinel uploader name for documents handed
// out to every employee (contracts, handbooks). Employees see their
// own uploads plus this bucket.
const AssignedBucket = "assigned"

type Document struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	SizeBytes  int64     `json:"size_bytes"`
	FolderID   string    `json:"folder_id,omitempty"`
	UploadedBy string    `json:"uploaded_by"`
	Starred    bool      `json:"starred"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Folder struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	DocumentCount int       `json:"document_count"`
	CreatedAt     time.Time `json:"created_at"`
}
