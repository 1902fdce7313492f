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

// Submissions in tests run against the disabled payment gateway, which
// issues test transactions.
func TestSubmitTool(t *testing.T) {
	dbtest.Setup(t)
	existing := seedApprovedTool(t, "existing")
	r := newTestRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("POST", "/api/tools", gin.H{
		"name":          "Brand New Tool",
		"description":   "does the thing",
		"website_url":   "https://brandnew.example",
		"category_id":   existing.CategoryID,
		"email":         "founder@example.com",
		"payment_token": "tok_visa",
	}))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var tool models.Tool
	if err := db.DB.Where("slug = ?", "brand-new-tool").First(&tool).Error; err != nil {
		t.Fatalf("tool not created: %v", err)
	}
	if tool.Status != models.ToolStatusPending {
		t.Errorf("status = %q, want pending", tool.Status)
	}
	if tool.PaymentStatus != models.PaymentStatusCaptured || tool.TransactionID == "" {
		t.Errorf("payment = (%q, %q), want captured with a transaction id", tool.PaymentStatus, tool.TransactionID)
	}
	if tool.SessionID == nil || *tool.SessionID == "" {
		t.Error("anonymous submission should carry the visitor session id")
	}

	// Pending submissions don't show up in the public directory.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/tools/brand-new-tool", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("public detail status = %d, want 404", w.Code)
	}
}

func TestSubmitTool_AnonymousNeedsEmail(t *testing.T) {
	dbtest.Setup(t)
	existing := seedApprovedTool(t, "existing")
	r := newTestRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("POST", "/api/tools", gin.H{
		"name":          "No Contact",
		"description":   "does the thing",
		"website_url":   "https://nocontact.example",
		"category_id":   existing.CategoryID,
		"payment_token": "tok_visa",
	}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400; body = %s", w.Code, w.Body.String())
	}
}

func TestSubmitTool_DuplicateSlug(t *testing.T) {
	dbtest.Setup(t)
	existing := seedApprovedTool(t, "existing")
	r := newTestRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("POST", "/api/tools", gin.H{
		"name":          "Existing",
		"description":   "same slug as the listed tool",
		"website_url":   "https://other.example",
		"category_id":   existing.CategoryID,
		"email":         "founder@example.com",
		"payment_token": "tok_visa",
	}))
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409; body = %s", w.Code, w.Body.String())
	}
}

func TestSubmitTool_RelativeURL(t *testing.T) {
	dbtest.Setup(t)
	existing := seedApprovedTool(t, "existing")
	r := newTestRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("POST", "/api/tools", gin.H{
		"name":          "Bad URL",
		"description":   "does the thing",
		"website_url":   "ftp://files.example",
		"category_id":   existing.CategoryID,
		"email":         "founder@example.com",
		"payment_token": "tok_visa",
	}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestClickRedirect(t *testing.T) {
	dbtest.Setup(t)
	tool := seedApprovedTool(t, "clicky")
	db.DB.Model(&models.Tool{}).Where("id = ?", tool.ID).
		Update("affiliate_url", "https://aff.example/clicky?ref=tr")
	r := newTestRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/go/clicky", nil))
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if got := w.Header().Get("Location"); got != "https://aff.example/clicky?ref=tr" {
		t.Errorf("location = %q", got)
	}
}

func TestClickRedirect_FallsBackToWebsite(t *testing.T) {
	dbtest.Setup(t)
	seedApprovedTool(t, "plain")
	r := newTestRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/go/plain", nil))
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if got := w.Header().Get("Location"); got != "https://plain.example" {
		t.Errorf("location = %q", got)
	}
}
