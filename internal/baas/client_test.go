package baas

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, StaticKey("test-key"), WithHTTPClient(srv.Client()))
}

const meetingDataJSON = `{
  "bot_data": {
    "bot": {"bot_name": "Recorder", "meeting_url": "https://meet.google.com/abc", "created_at": "2025-03-01T10:00:00Z", "ended_at": null},
    "transcripts": [
      {"speaker": "B", "start_time": 20, "end_time": 24.5, "words": [{"text": "second"}, {"text": "turn"}]},
      {"speaker": "A", "start_time": 0, "words": [{"text": "Let's"}, {"text": " start "}, {"text": ""}]},
      {"speaker": "A", "start_time": 30, "words": []}
    ]
  },
  "mp4": "https://cdn.example.com/rec.mp4",
  "duration": 600
}`

func TestMeetingData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/bots/meeting_data", r.URL.Path)
		assert.Equal(t, "bot-1", r.URL.Query().Get("bot_id"))
		assert.Equal(t, "test-key", r.Header.Get(APIKeyHeader))
		_, _ = io.WriteString(w, meetingDataJSON)
	})

	data, err := client.MeetingData(context.Background(), "bot-1")
	require.NoError(t, err)

	assert.Equal(t, "Recorder", data.BotData.Bot.BotName)
	assert.Equal(t, 2025, data.BotData.Bot.CreatedAt.Year())
	assert.True(t, data.BotData.Bot.EndedAt.IsZero())
	assert.Equal(t, 600.0, data.Duration)

	segs := data.Segments()
	require.Len(t, segs, 3)
	assert.Equal(t, "Let's start", segs[0].Text)
	assert.Equal(t, 0.0, segs[0].EndTime)
	assert.Equal(t, 5.0, segs[0].End())
	assert.Equal(t, "second turn", segs[1].Text)
	assert.Equal(t, 24.5, segs[1].EndTime)
	assert.Empty(t, segs[2].Text)

	assert.Equal(t, []string{"B", "A"}, data.Speakers())
}

func TestMeetingData_MissingBotData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"mp4": "x"}`)
	})

	_, err := client.MeetingData(context.Background(), "bot-1")
	require.Error(t, err)
	assert.True(t, IsMalformed(err))
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
		msg    string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"bad key"}`, IsAuth, "bad key"},
		{"forbidden", http.StatusForbidden, `denied`, IsAuth, "denied"},
		{"not found", http.StatusNotFound, `{"error":"no such bot"}`, IsNotFound, "no such bot"},
		{"server error", http.StatusInternalServerError, `{"detail":"boom"}`, func(err error) bool { return isKind(err, KindUpstream) }, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			err := client.LeaveMeeting(context.Background(), "bot-1")
			require.Error(t, err)
			assert.True(t, tt.check(err))

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.msg, apiErr.Message)
			assert.NotEmpty(t, apiErr.UserMessage())
		})
	}
}

func TestMalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{not json`)
	})

	_, err := client.ListCalendars(context.Background())
	assert.True(t, IsMalformed(err))
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, StaticKey("k"))
	err := client.LeaveMeeting(context.Background(), "bot-1")
	assert.True(t, isKind(err, KindTransport))
}

type failingKeys struct{ err error }

func (f failingKeys) APIKey(context.Context) (string, error) { return "", f.err }

func TestKeyProviderErrorSkipsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	errNoKey := errors.New("no key")
	client := NewClient(srv.URL, failingKeys{errNoKey})

	_, err := client.MeetingData(context.Background(), "bot-1")
	assert.ErrorIs(t, err, errNoKey)
	assert.False(t, called)
}

func TestJoinMeeting(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bots", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://meet.google.com/abc", body["meeting_url"])
		assert.Equal(t, "Recorder", body["bot_name"])
		assert.Equal(t, map[string]any{"provider": "Gladia"}, body["speech_to_text"])
		assert.NotContains(t, body, "bot_image")

		_, _ = io.WriteString(w, `{"bot_id":"bot-42"}`)
	})

	id, err := client.JoinMeeting(context.Background(), JoinRequest{
		MeetingURL:   "https://meet.google.com/abc",
		BotName:      "Recorder",
		SpeechToText: &SpeechToText{Provider: ProviderGladia},
	})
	require.NoError(t, err)
	assert.Equal(t, "bot-42", id)
}

func TestListBots(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bots/bots_with_metadata", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "Recorder", r.URL.Query().Get("bot_name"))
		assert.False(t, r.URL.Query().Has("cursor"))
		_, _ = io.WriteString(w, `{"bots":[{"id":"b1","bot_name":"Recorder","created_at":"2025-03-01T10:00:00.123456"}],"next_cursor":"c2"}`)
	})

	list, err := client.ListBots(context.Background(), ListBotsOptions{Limit: 5, BotName: "Recorder"})
	require.NoError(t, err)
	require.Len(t, list.Bots, 1)
	assert.Equal(t, "b1", list.Bots[0].ID)
	assert.Equal(t, 10, list.Bots[0].CreatedAt.Hour())
	assert.Equal(t, "c2", list.NextCursor)
}

func TestDeleteDataAndRetranscribe(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		if r.URL.Path == "/bots/retranscribe" {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "bot-1", body["bot_uuid"])
		}
		_, _ = io.WriteString(w, `{"ok":true}`)
	})

	require.NoError(t, client.DeleteData(context.Background(), "bot-1"))
	require.NoError(t, client.Retranscribe(context.Background(), "bot-1", nil))
	assert.Equal(t, []string{"POST /bots/bot-1/delete_data", "POST /bots/retranscribe"}, paths)
}

func TestCalendars(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "GET /calendars":
			_, _ = io.WriteString(w, `[{"uuid":"c1","name":"Work","email":"me@example.com"}]`)
		case "POST /calendars":
			_, _ = io.WriteString(w, `{"calendar":{"uuid":"c2","name":"New"}}`)
		case "POST /calendars/raw":
			_, _ = io.WriteString(w, `{"calendars":[{"id":"raw1","email":"me@example.com","is_primary":true}]}`)
		case "GET /calendar_events":
			assert.Equal(t, "c1", r.URL.Query().Get("calendar_id"))
			_, _ = io.WriteString(w, `{"data":[{"uuid":"e1","name":"Standup","start_time":"2025-03-01T09:00:00Z","bot_param":{"bot_name":"Rec"}}],"next":""}`)
		case "POST /calendar_events/e1/bot":
			assert.Equal(t, "true", r.URL.Query().Get("all_occurrences"))
			_, _ = io.WriteString(w, `[{"uuid":"e1"}]`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	})
	ctx := context.Background()

	cals, err := client.ListCalendars(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Work", cals[0].Name)

	cal, err := client.CreateCalendar(ctx, OAuthCredentials{Platform: PlatformGoogle})
	require.NoError(t, err)
	assert.Equal(t, "c2", cal.UUID)

	raw, err := client.ListRawCalendars(ctx, OAuthCredentials{Platform: PlatformGoogle})
	require.NoError(t, err)
	assert.True(t, raw[0].IsPrimary)

	events, err := client.ListEvents(ctx, ListEventsOptions{CalendarID: "c1"})
	require.NoError(t, err)
	require.Len(t, events.Data, 1)
	assert.True(t, events.Data[0].Scheduled())

	updated, err := client.ScheduleRecording(ctx, "e1", BotParam{BotName: "Rec"}, true)
	require.NoError(t, err)
	assert.Len(t, updated, 1)
}

func TestParseSpeechToText(t *testing.T) {
	stt, err := ParseSpeechToText("")
	require.NoError(t, err)
	assert.Nil(t, stt)

	stt, err = ParseSpeechToText(" gladia ")
	require.NoError(t, err)
	assert.Equal(t, &SpeechToText{Provider: ProviderGladia}, stt)

	_, err = ParseSpeechToText("whisper")
	assert.Error(t, err)
}

func TestParseRecordingMode(t *testing.T) {
	for _, mode := range []string{"", RecordingSpeakerView, RecordingGalleryView, RecordingAudioOnly} {
		got, err := ParseRecordingMode(mode)
		require.NoError(t, err)
		assert.Equal(t, mode, got)
	}
	_, err := ParseRecordingMode("4k")
	assert.Error(t, err)
}
