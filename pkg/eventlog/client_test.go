package eventlog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YasmaniJob/beeclass/internal/models"
	"github.com/YasmaniJob/beeclass/pkg/config"
)

func TestAppendPostsJSON(t *testing.T) {
	var got models.AttendanceRecord
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/asistencia", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client := New(config.EventLogConfig{BaseURL: srv.URL, Token: "secret"}, srv.Client())
	err := client.Append(context.Background(), models.EventAttendance, models.AttendanceRecord{
		StudentID: "stu-1", Grade: "3er Grado", Section: "A", Date: "2024-03-11", Status: models.AttendancePresent,
	})
	require.NoError(t, err)
	assert.Equal(t, "stu-1", got.StudentID)
	assert.Equal(t, models.AttendancePresent, got.Status)
}

func TestAppendFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/permisos":
			_, _ = w.Write([]byte(`{"success":false,"error":"sheet locked"}`))
		case "/incidentes":
			_, _ = w.Write([]byte(`OK`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()
	client := New(config.EventLogConfig{BaseURL: srv.URL}, srv.Client())

	err := client.Append(context.Background(), models.EventPermit, models.Permit{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sheet locked")
	assert.ErrorIs(t, err, ErrRejected)

	require.NoError(t, client.Append(context.Background(), models.EventIncident, models.Incident{}))
	require.Error(t, client.Append(context.Background(), models.EventAttendance, models.AttendanceRecord{}))

	unconfigured := New(config.EventLogConfig{}, nil)
	assert.ErrorIs(t, unconfigured.Append(context.Background(), models.EventPermit, nil), ErrNotConfigured)
}

func TestListDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`[{"id":"inc-1","studentId":"stu-1","tipo":"conducta"}]`))
	}))
	defer srv.Close()

	client := New(config.EventLogConfig{BaseURL: srv.URL}, srv.Client())
	var incidents []models.Incident
	require.NoError(t, client.List(context.Background(), models.EventIncident, &incidents))
	require.Len(t, incidents, 1)
	assert.Equal(t, "conducta", incidents[0].Type)
}
