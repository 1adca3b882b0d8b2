package fetch

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProfile(t *testing.T) {
	payload := []byte(`{"meta":{"interval":1},"threads":[]}`)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/profile.json":
			_, _ = w.Write(payload)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := NewClient(time.Second, 0, 1<<20)

	t.Run("success", func(t *testing.T) {
		body, err := c.Profile(server.URL + "/profile.json")
		if err != nil {
			t.Fatal(err)
		}
		if string(body) != string(payload) {
			t.Fatalf("wrong body: got %s", body)
		}
	})

	t.Run("not found", func(t *testing.T) {
		if _, err := c.Profile(server.URL + "/missing.json"); err == nil {
			t.Fatal("expected an error for a missing profile")
		}
	})

	t.Run("too large", func(t *testing.T) {
		small := NewClient(time.Second, 0, 8)
		_, err := small.Profile(server.URL + "/profile.json")
		if !errors.Is(err, ErrProfileTooLarge) {
			t.Fatalf("wrong error: %v", err)
		}
	})
}
