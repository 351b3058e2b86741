// Package audit records core mutations as JSON files, one per event.
// Recording is best-effort: a failed write is logged and never propagated,
// so auditing can never fail the operation being audited.
package audit

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

type Auditor struct {
	AuditDir string
}

type event struct {
	Event      string    `json:"event"`
	RecordedAt time.Time `json:"recorded_at"`
	Data       any       `json:"data,omitempty"`
}

func NewAuditor(auditDir string) *Auditor {
	return &Auditor{
		AuditDir: auditDir,
	}
}

// Record writes the event as JSON to a file with a UUID4 filename.
func (a *Auditor) Record(name string, data any) {
	if err := a.ensureAuditDir(); err != nil {
		log.Printf("audit: %v", err)
		return
	}

	filename := fmt.Sprintf("%s.json", uuid.New().String())
	path := filepath.Join(a.AuditDir, filename)

	jsonData, err := json.MarshalIndent(event{
		Event:      name,
		RecordedAt: time.Now().UTC(),
		Data:       data,
	}, "", "  ")
	if err != nil {
		log.Printf("audit: failed to marshal event %s: %v", name, err)
		return
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		log.Printf("audit: failed to write event %s: %v", name, err)
	}
}

// ensureAuditDir creates the audit directory if it doesn't exist
func (a *Auditor) ensureAuditDir() error {
	if _, err := os.Stat(a.AuditDir); os.IsNotExist(err) {
		if err := os.MkdirAll(a.AuditDir, 0755); err != nil {
			return fmt.Errorf("failed to create audit directory: %w", err)
		}
	}
	return nil
}
