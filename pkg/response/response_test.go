package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/YasmaniJob/beeclass/pkg/errors"
	"github.com/YasmaniJob/beeclass/pkg/notify"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestOutcomeFailureUsesNotificationCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	notes := []notify.Notification{
		notify.Failure("Tutor no asignado", "Rosa Huamán ya es tutora de 3er Grado A.").WithCode(appErrors.ErrTutorTaken.Code),
	}
	Outcome(c, false, nil, notes, http.StatusUnprocessableEntity)

	assert.Equal(t, http.StatusConflict, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrTutorTaken.Code, env.Error.Code)
	assert.Equal(t, "Rosa Huamán ya es tutora de 3er Grado A.", env.Error.Message)
	assert.Len(t, env.Notifications, 1)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestOutcomeFailureFallsBackToStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Outcome(c, false, nil, []notify.Notification{notify.Failure("Error", "")}, http.StatusBadGateway)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	env := decode(t, w)
	assert.Equal(t, appErrors.ErrUpstream.Code, env.Error.Code)
	assert.Equal(t, "Error", env.Error.Message)
}

func TestOutcomeSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Outcome(c, true, gin.H{"ok": true}, []notify.Notification{notify.Success("Guardado", "")}, http.StatusBadRequest)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Nil(t, env.Error)
	assert.Equal(t, notify.VariantDefault, env.Notifications[0].Variant)
}
