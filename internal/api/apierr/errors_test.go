package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/gameroom/internal/model"
	"github.com/mcoot/gameroom/internal/services/auth"
)

func TestStatusByCategory(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"spectator", model.ErrSpectator, http.StatusForbidden, CodeSpectator},
		{"not your turn", model.ErrNotYourTurn, http.StatusForbidden, CodeNotYourTurn},
		{"not in progress", model.ErrGameNotInProgress, http.StatusConflict, CodeGameNotInProgress},
		{"finished", model.ErrGameAlreadyFinished, http.StatusConflict, CodeGameAlreadyFinished},
		{"seat taken", model.ErrSeatTaken, http.StatusConflict, CodeSeatTaken},
		{"illegal move", fmt.Errorf("cell 4: %w", model.ErrIllegalMove), http.StatusUnprocessableEntity, CodeIllegalMove},
		{"unknown game", model.ErrUnknownGameType, http.StatusBadRequest, CodeUnknownGameType},
		{"conflict", model.ErrConflict, http.StatusConflict, CodeConflict},
		{"room not found", model.ErrRoomNotFound, http.StatusNotFound, CodeRoomNotFound},
		{"bad session", auth.ErrInvalidSession, http.StatusUnauthorized, CodeUnauthorized},
		{"unexpected", errors.New("connection refused"), http.StatusInternalServerError, CodeInternalError},
		{"invalid request", NewInvalidRequestError("move is required"), http.StatusBadRequest, CodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.status, Status(tt.err))

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestUnexpectedErrorDetailIsHidden(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("dial tcp 10.0.0.1:6379: connection refused"))

	assert.NotContains(t, rec.Body.String(), "10.0.0.1")
}
