package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"student_intervention_service/internal/domain/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookNotifier_PostsAlertAsJSON(t *testing.T) {
	var (
		gotMethod      string
		gotContentType string
		gotBody        notify.MentorAlert
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL)
	sent := notify.MentorAlert{
		StudentID:    "student-1",
		StudentName:  "Bek",
		QuizScore:    4,
		FocusMinutes: 25,
		DailyLogID:   "log-1",
		Timestamp:    time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}

	require.NoError(t, n.NotifyMentor(context.Background(), sent))

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, sent, gotBody)
}

func TestWebhookNotifier_FillsMissingTimestamp(t *testing.T) {
	var gotBody notify.MentorAlert
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL)
	require.NoError(t, n.NotifyMentor(context.Background(), notify.MentorAlert{StudentID: "student-1"}))
	assert.False(t, gotBody.Timestamp.IsZero())
}

func TestWebhookNotifier_RejectedByEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL)
	err := n.NotifyMentor(context.Background(), notify.MentorAlert{StudentID: "student-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestWebhookNotifier_EndpointUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	n := NewWebhookNotifier(srv.URL)
	err := n.NotifyMentor(context.Background(), notify.MentorAlert{StudentID: "student-1"})
	assert.Error(t, err)
}
