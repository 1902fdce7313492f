package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"toolrank/internal/db"
	"toolrank/internal/db/dbtest"
	"toolrank/internal/middleware"
	"toolrank/internal/models"
	"toolrank/internal/router"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// newTestRouter mirrors the middleware stack from cmd/server. injectUser,
// when non-nil, stands in for a live login session.
func newTestRouter(injectUser *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("toolrank_session", store))
	r.Use(middleware.EnsureVisitorID())
	if injectUser != nil {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.CheckUserKey, injectUser)
			c.Next()
		})
	}

	router.RegisterRoutes(r)
	return r
}

func seedApprovedTool(t *testing.T, slug string) models.Tool {
	t.Helper()

	var category models.Category
	if err := db.DB.Where("slug = ?", "testing-tools").First(&category).Error; err != nil {
		category = models.Category{Name: "Testing Tools", Slug: "testing-tools"}
		if err := db.DB.Create(&category).Error; err != nil {
			t.Fatalf("seed category: %v", err)
		}
	}
	tool := models.Tool{
		CategoryID: category.ID,
		Name:       slug,
		Slug:       slug,
		WebsiteURL: "https://" + slug + ".example",
		Status:     models.ToolStatusApproved,
	}
	if err := db.DB.Create(&tool).Error; err != nil {
		t.Fatalf("seed tool: %v", err)
	}
	return tool
}

func jsonRequest(method, path string, body any) *http.Request {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestVoteEndpoint(t *testing.T) {
	dbtest.Setup(t)
	tool := seedApprovedTool(t, "vote-target")
	r := newTestRouter(nil)

	w := httptest.NewRecorder()
	req := jsonRequest("POST", "/api/vote", gin.H{"tool_id": tool.ID, "value": 1})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result struct {
		Score     int  `json:"score"`
		VoteCount int  `json:"vote_count"`
		UserVote  *int `json:"user_vote"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Score != 3 || result.VoteCount != 1 {
		t.Errorf("aggregates = (%d, %d), want (3, 1)", result.Score, result.VoteCount)
	}
	if result.UserVote == nil || *result.UserVote != 1 {
		t.Errorf("user_vote = %v, want 1", result.UserVote)
	}
}

func TestVoteEndpoint_UnknownTool(t *testing.T) {
	dbtest.Setup(t)
	r := newTestRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("POST", "/api/vote", gin.H{"tool_id": 404, "value": 1}))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestVoteEndpoint_RateLimited(t *testing.T) {
	dbtest.Setup(t)
	tool := seedApprovedTool(t, "vote-target")
	r := newTestRouter(nil)

	// Fill the caller's 24h window before the request.
	for i := 0; i < 50; i++ {
		entry := models.VoteAuditLog{IP: "203.0.113.9", Action: models.VoteActionUp, CreatedAt: time.Now()}
		if err := db.DB.Create(&entry).Error; err != nil {
			t.Fatalf("seed audit row: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := jsonRequest("POST", "/api/vote", gin.H{"tool_id": tool.ID, "value": 1})
	req.RemoteAddr = "203.0.113.9:4321"
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429; body = %s", w.Code, w.Body.String())
	}

	// The rejected vote must not land in the ledger.
	var count int64
	db.DB.Model(&models.Vote{}).Where("tool_id = ?", tool.ID).Count(&count)
	if count != 0 {
		t.Errorf("vote rows = %d, want 0", count)
	}
}

func TestGetVoteEndpoint(t *testing.T) {
	dbtest.Setup(t)
	tool := seedApprovedTool(t, "vote-target")
	r := newTestRouter(nil)

	// Vote and read back with the cookie the first response minted.
	w := httptest.NewRecorder()
	req := jsonRequest("POST", "/api/vote", gin.H{"tool_id": tool.ID, "value": -1})
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("vote status = %d", w.Code)
	}

	var vid *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.VisitorCookie {
			vid = ck
		}
	}
	if vid == nil {
		t.Fatal("visitor cookie not minted")
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", fmt.Sprintf("/api/vote?tool_id=%d", tool.ID), nil)
	req.AddCookie(vid)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var resp struct {
		UserVote *int `json:"user_vote"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.UserVote == nil || *resp.UserVote != -1 {
		t.Errorf("user_vote = %v, want -1", resp.UserVote)
	}
}
