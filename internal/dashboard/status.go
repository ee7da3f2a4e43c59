package dashboard

import "github.com/MrSnakeDoc/startpage/internal/domain"

// SyncState is the coarse state shown next to the save button.
type SyncState string

const (
	StateIdle    SyncState = "idle"
	StateSyncing SyncState = "syncing"
	StateSynced  SyncState = "synced"
	StateUnsaved SyncState = "unsaved"
	StateError   SyncState = "error"
)

// Status is a snapshot of the session's sync bookkeeping.
type Status struct {
	UnsavedChanges bool               `json:"unsavedChanges"`
	SyncState      SyncState          `json:"syncState"`
	RemoteType     domain.StorageType `json:"remoteType,omitempty"`
	// LastSyncAt and LastSaveAt are Unix milliseconds, 0 when never.
	LastSyncAt int64  `json:"lastSyncAt,omitempty"`
	LastSaveAt int64  `json:"lastSaveAt,omitempty"`
	LastError  string `json:"lastError,omitempty"`
	Links      int    `json:"links"`
	Categories int    `json:"categories"`
}
