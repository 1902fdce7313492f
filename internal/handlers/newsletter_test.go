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

func TestNewsletterSubscribe_Idempotent(t *testing.T) {
	dbtest.Setup(t)
	r := newTestRouter(nil)

	for i, want := range []int{http.StatusCreated, http.StatusOK} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, jsonRequest("POST", "/api/newsletter/subscribe", gin.H{"email": "reader@example.com"}))
		if w.Code != want {
			t.Errorf("subscribe #%d status = %d, want %d", i+1, w.Code, want)
		}
	}

	var count int64
	db.DB.Model(&models.NewsletterSubscriber{}).Count(&count)
	if count != 1 {
		t.Errorf("subscriber rows = %d, want 1", count)
	}
}

func TestNewsletterUnsubscribeAndResubscribe(t *testing.T) {
	dbtest.Setup(t)
	r := newTestRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("POST", "/api/newsletter/subscribe", gin.H{"email": "reader@example.com"}))
	if w.Code != http.StatusCreated {
		t.Fatalf("subscribe status = %d", w.Code)
	}

	var sub models.NewsletterSubscriber
	db.DB.Where("email = ?", "reader@example.com").First(&sub)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/newsletter/unsubscribe?token="+sub.UnsubscribeToken, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("unsubscribe status = %d", w.Code)
	}

	db.DB.First(&sub, sub.ID)
	if sub.Active() {
		t.Error("subscriber still active after unsubscribe")
	}

	// Subscribing again flips the address back on.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("POST", "/api/newsletter/subscribe", gin.H{"email": "reader@example.com"}))
	if w.Code != http.StatusOK {
		t.Fatalf("resubscribe status = %d", w.Code)
	}
	db.DB.First(&sub, sub.ID)
	if !sub.Active() {
		t.Error("subscriber not reactivated")
	}
}

func TestNewsletterUnsubscribe_UnknownToken(t *testing.T) {
	dbtest.Setup(t)
	r := newTestRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/newsletter/unsubscribe?token=nope", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
