package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := IssueSessionToken("session-123")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	sessionID, ok := ParseSessionToken("Bearer " + token)
	if !ok {
		t.Fatal("Expected token to validate")
	}
	if sessionID != "session-123" {
		t.Errorf("Expected session-123, got %s", sessionID)
	}
}

func TestParseSessionTokenRejectsBadInput(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := IssueSessionToken("session-123")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing Bearer prefix", token},
		{"garbage token", "Bearer not-a-token"},
		{"empty header", ""},
	}

	for _, test := range tests {
		if _, ok := ParseSessionToken(test.header); ok {
			t.Errorf("%s: expected rejection", test.name)
		}
	}
}

func TestParseSessionTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := IssueSessionToken("session-123")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	t.Setenv("JWT_SECRET", "other-secret")
	if _, ok := ParseSessionToken("Bearer " + token); ok {
		t.Error("Expected rejection for token signed with a different secret")
	}
}

func TestSessionMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(SessionMiddleware())
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"session": c.GetString(SessionContextKey)})
	})

	token, err := IssueSessionToken("session-xyz")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"no header", "", http.StatusUnauthorized},
		{"invalid token", "Bearer bogus", http.StatusUnauthorized},
	}

	for _, test := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if test.header != "" {
			req.Header.Set("Authorization", test.header)
		}
		r.ServeHTTP(w, req)

		if w.Code != test.status {
			t.Errorf("%s: expected status %d, got %d", test.name, test.status, w.Code)
		}
	}
}
