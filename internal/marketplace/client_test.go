package marketplace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Notifications(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/u-42/notifications", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"notifications": [
				{"id": "n2", "title": "Application Viewed", "content": "Acme", "user": "a@x.com", "read": false},
				{"id": "n1", "title": "Interview Scheduled", "content": "Tuesday", "user": "a@x.com", "read": true}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())

	items, err := c.Notifications(context.Background(), "u-42")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "n2", items[0].ID)
	assert.False(t, items[0].Read)
	assert.True(t, items[1].Read)
}

func TestClient_Notifications_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())

	_, err := c.Notifications(context.Background(), "u-42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_Notifications_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"notifications": [`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())

	_, err := c.Notifications(context.Background(), "u-42")
	require.Error(t, err)
}
