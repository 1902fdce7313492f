package services

import (
	"log"
	"toolrank/internal/db"
	"toolrank/internal/models"
)

// RecordVoteAudit appends one row to the vote audit log. The log is
// best-effort: a write failure is warned about and swallowed, never
// propagated into the vote mutation that triggered it.
func RecordVoteAudit(toolID uint, ident Identity, ip, userAgent, action string) {
	entry := models.VoteAuditLog{
		ToolID:    toolID,
		UserID:    ident.UserID,
		SessionID: ident.SessionID,
		IP:        ip,
		UserAgent: userAgent,
		Action:    action,
	}
	if err := db.DB.Create(&entry).Error; err != nil {
		log.Printf("warn: vote audit write failed (tool %d, action %s): %v", toolID, action, err)
	}
}
