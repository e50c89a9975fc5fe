package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/gameroom/internal/model"
	"github.com/mcoot/gameroom/internal/services/auth"
)

// staticValidator accepts exactly one token
type staticValidator struct {
	token  string
	player model.Player
}

func (v staticValidator) ValidateSession(token string) (*auth.Session, error) {
	if token != v.token {
		return nil, auth.ErrInvalidSession
	}
	return &auth.Session{Token: token, PlayerID: v.player.ID, Player: v.player}, nil
}

var validator = staticValidator{
	token:  "good",
	player: model.Player{ID: "p_alice", DisplayName: "Alice"},
}

// echoPlayer writes the authenticated player id, or "anonymous"
var echoPlayer = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id := PlayerID(r.Context())
	if id == "" {
		id = "anonymous"
	}
	_, _ = w.Write([]byte(id))
})

func TestAuth(t *testing.T) {
	h := Auth(validator)(echoPlayer)

	tests := []struct {
		name   string
		header string
		query  string
		status int
		body   string
	}{
		{name: "bearer header", header: "Bearer good", status: http.StatusOK, body: "p_alice"},
		{name: "query token", query: "?token=good", status: http.StatusOK, body: "p_alice"},
		{name: "missing token", status: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer bad", status: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic good", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/rooms"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	h := OptionalAuth(validator)(echoPlayer)

	for header, want := range map[string]string{
		"":            "anonymous",
		"Bearer bad":  "anonymous",
		"Bearer good": "p_alice",
	} {
		req := httptest.NewRequest(http.MethodGet, "/rooms/r1", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, header)
		assert.Equal(t, want, rec.Body.String(), header)
	}
}

func TestMustGetPlayerPanicsWithoutAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Panics(t, func() { MustGetPlayer(req.Context()) })
	assert.Nil(t, GetSession(req.Context()))
}
