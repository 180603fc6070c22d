package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestExtractActor(t *testing.T) {
	c, _ := newTestContext()
	c.Set("actorID", "u1")
	c.Set("actorRole", "user")

	id, role, err := ExtractActor(c)
	if err != nil {
		t.Fatalf("ExtractActor: %v", err)
	}
	if id != "u1" || role != "user" {
		t.Errorf("got (%q, %q), want (u1, user)", id, role)
	}
}

// A missing actor id must surface as a real error so the caller's
// `if err != nil { return err }` guard stops the handler; the helper must not
// write the response itself and hand back nil.
func TestExtractActorMissingIDReturnsError(t *testing.T) {
	c, rec := newTestContext()

	id, _, err := ExtractActor(c)
	if err == nil {
		t.Fatal("want non-nil error for missing actor id")
	}
	if id != "" {
		t.Errorf("id = %q, want empty", id)
	}

	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("err type = %T, want *echo.HTTPError", err)
	}
	if httpErr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", httpErr.Code)
	}

	// the response body belongs to echo's error handler, not this helper
	if rec.Body.Len() != 0 {
		t.Errorf("helper wrote the response itself: %q", rec.Body.String())
	}
}

func TestExtractActorEmptyID(t *testing.T) {
	c, _ := newTestContext()
	c.Set("actorID", "")

	if _, _, err := ExtractActor(c); err == nil {
		t.Fatal("want non-nil error for empty actor id")
	}
}
