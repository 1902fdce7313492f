package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"toolrank/internal/db"
	"toolrank/internal/db/dbtest"
	"toolrank/internal/models"

	"github.com/gin-gonic/gin"
)

func seedOwner(t *testing.T, email string) models.User {
	t.Helper()
	user := models.User{Username: "owner", Email: email, Password: "x", IsActivated: true}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestUpdateTool_RequiresLogin(t *testing.T) {
	dbtest.Setup(t)
	seedApprovedTool(t, "acme")
	r := newTestRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("PUT", "/api/tools/acme", gin.H{"tagline": "new"}))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestUpdateTool_NonOwnerForbidden(t *testing.T) {
	dbtest.Setup(t)
	tool := seedApprovedTool(t, "acme")
	owner := seedOwner(t, "owner@example.com")
	stranger := seedOwner(t, "stranger@example.com")
	db.DB.Model(&models.Tool{}).Where("id = ?", tool.ID).Update("submitter_id", owner.ID)

	r := newTestRouter(&stranger)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("PUT", "/api/tools/acme", gin.H{"tagline": "hijacked"}))
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}

	var fresh models.Tool
	db.DB.First(&fresh, tool.ID)
	if fresh.Tagline == "hijacked" {
		t.Error("non-owner edit went through")
	}
}

func TestUpdateTool_OwnerEdits(t *testing.T) {
	dbtest.Setup(t)
	tool := seedApprovedTool(t, "acme")
	owner := seedOwner(t, "owner@example.com")
	db.DB.Model(&models.Tool{}).Where("id = ?", tool.ID).Update("submitter_id", owner.ID)

	r := newTestRouter(&owner)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("PUT", "/api/tools/acme", gin.H{
		"tagline": "better than ever",
		"status":  "rejected", // must be ignored
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var fresh models.Tool
	db.DB.First(&fresh, tool.ID)
	if fresh.Tagline != "better than ever" {
		t.Errorf("tagline = %q", fresh.Tagline)
	}
	if fresh.Status != models.ToolStatusApproved {
		t.Errorf("status changed to %q through the owner edit", fresh.Status)
	}
}

func TestToolDetail_HidesPending(t *testing.T) {
	dbtest.Setup(t)
	tool := seedApprovedTool(t, "hidden")
	db.DB.Model(&models.Tool{}).Where("id = ?", tool.ID).Update("status", models.ToolStatusPending)

	r := newTestRouter(nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/tools/hidden", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
