package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/PolarWolf314/nova/internal/configs"
	"github.com/PolarWolf314/nova/internal/utils"

	"github.com/google/uuid"
)

// Operation names recorded in the log.
const (
	OpSet    = "set"
	OpRemove = "remove"
	OpClone  = "clone"
)

// Entry represents a single audit log entry.
type Entry struct {
	ID        string   `json:"id"`
	Timestamp string   `json:"ts"`   // RFC3339 with microseconds.
	User      string   `json:"user"` // OS user performing the action.
	Host      string   `json:"host,omitempty"`
	Operation string   `json:"op"`
	Project   string   `json:"project"`
	Paths     []string `json:"paths,omitempty"` // Project-relative secret paths touched.
}

// NewEntry returns an entry for op on project with identity fields populated.
func NewEntry(op, project string) Entry {
	entry := Entry{
		ID:        uuid.NewString(),
		Operation: op,
		Project:   project,
	}
	if username, err := utils.GetUsername(); err == nil {
		entry.User = username
	}
	if hostname, err := utils.GetHostname(); err == nil {
		entry.Host = hostname
	}
	return entry
}

// Log appends an entry to the audit log.
// Operations should not fail just because audit logging failed, so errors are dropped.
func Log(entry Entry) {
	_ = LogTo(LogPath(), entry)
}

// LogTo appends an entry to the log at logPath.
func LogTo(logPath string, entry Entry) error {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	_, err = f.Write(append(data, '\n'))
	return err
}

// LogPath returns the path to the audit log file.
func LogPath() string {
	return configs.NovaPaths.AuditLogPath
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	data, err := os.ReadFile(LogPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Partial writes leave malformed lines behind.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
