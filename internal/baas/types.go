package baas

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/teemow/meeting-mcp/internal/analysis"
)

// JoinRequest asks the API to send a bot into a meeting.
type JoinRequest struct {
	MeetingURL       string         `json:"meeting_url"`
	BotName          string         `json:"bot_name"`
	BotImage         string         `json:"bot_image,omitempty"`
	EntryMessage     string         `json:"entry_message,omitempty"`
	SpeechToText     *SpeechToText  `json:"speech_to_text,omitempty"`
	RecordingMode    string         `json:"recording_mode,omitempty"`
	Reserved         bool           `json:"reserved"`
	DeduplicationKey string         `json:"deduplication_key,omitempty"`
	WebhookURL       string         `json:"webhook_url,omitempty"`
	Extra            map[string]any `json:"extra,omitempty"`
}

// SpeechToText selects the transcription provider.
type SpeechToText struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key,omitempty"`
}

// Recording modes accepted by the API.
const (
	RecordingSpeakerView = "speaker_view"
	RecordingGalleryView = "gallery_view"
	RecordingAudioOnly   = "audio_only"
)

// Speech-to-text providers accepted by the API.
const (
	ProviderGladia  = "Gladia"
	ProviderRunpod  = "Runpod"
	ProviderDefault = "Default"
)

// ParseSpeechToText maps a case-insensitive provider name to its request
// value. Empty selects the account default and returns nil.
func ParseSpeechToText(provider string) (*SpeechToText, error) {
	name := strings.TrimSpace(provider)
	if name == "" {
		return nil, nil
	}
	for _, p := range []string{ProviderDefault, ProviderGladia, ProviderRunpod} {
		if strings.EqualFold(name, p) {
			return &SpeechToText{Provider: p}, nil
		}
	}
	return nil, fmt.Errorf("invalid speech_to_text %q, must be one of: Default, Gladia, Runpod", provider)
}

// ParseRecordingMode validates a recording mode. Empty is accepted and
// leaves the choice to the API.
func ParseRecordingMode(mode string) (string, error) {
	switch mode {
	case "", RecordingSpeakerView, RecordingGalleryView, RecordingAudioOnly:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid recording_mode %q, must be one of: speaker_view, gallery_view, audio_only", mode)
	}
}

type joinResponse struct {
	BotID string `json:"bot_id"`
}

// Word is a single transcribed token.
type Word struct {
	Text      string  `json:"text"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// Transcript is one speaker turn as returned by the API.
type Transcript struct {
	Speaker   string   `json:"speaker"`
	StartTime float64  `json:"start_time"`
	EndTime   *float64 `json:"end_time"`
	Words     []Word   `json:"words"`
}

// Text joins the words with single spaces.
func (t Transcript) Text() string {
	parts := make([]string, 0, len(t.Words))
	for _, w := range t.Words {
		if s := strings.TrimSpace(w.Text); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Segment converts the transcript to the analysis representation.
func (t Transcript) Segment() analysis.Segment {
	seg := analysis.Segment{
		Speaker:   t.Speaker,
		Text:      t.Text(),
		StartTime: t.StartTime,
	}
	if t.EndTime != nil {
		seg.EndTime = *t.EndTime
	}
	return seg
}

// Bot describes the recording bot of a meeting.
type Bot struct {
	ID         int64     `json:"id"`
	UUID       string    `json:"uuid"`
	BotName    string    `json:"bot_name"`
	MeetingURL string    `json:"meeting_url"`
	CreatedAt  Timestamp `json:"created_at"`
	EndedAt    Timestamp `json:"ended_at"`
	Reserved   bool      `json:"reserved"`
}

// BotData is the bot plus its transcripts.
type BotData struct {
	Bot         Bot          `json:"bot"`
	Transcripts []Transcript `json:"transcripts"`
}

// MeetingData is the response of the meeting data endpoint.
type MeetingData struct {
	BotData  *BotData `json:"bot_data"`
	MP4      string   `json:"mp4"`
	Duration float64  `json:"duration"`
}

// Segments returns the transcript as sorted analysis segments.
func (m *MeetingData) Segments() []analysis.Segment {
	if m == nil || m.BotData == nil {
		return nil
	}
	segs := make([]analysis.Segment, 0, len(m.BotData.Transcripts))
	for _, t := range m.BotData.Transcripts {
		segs = append(segs, t.Segment())
	}
	return analysis.SortSegments(segs)
}

// Speakers lists distinct non-empty speakers in order of first appearance.
func (m *MeetingData) Speakers() []string {
	if m == nil || m.BotData == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, t := range m.BotData.Transcripts {
		if t.Speaker == "" {
			continue
		}
		if _, ok := seen[t.Speaker]; ok {
			continue
		}
		seen[t.Speaker] = struct{}{}
		out = append(out, t.Speaker)
	}
	return out
}

// Timestamp accepts the API's RFC 3339 strings with or without a zone, and null.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		t.Time = time.Time{}
		return nil
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, *s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return lastErr
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// BotSummary is one entry of the bot listing.
type BotSummary struct {
	ID         string    `json:"id"`
	BotName    string    `json:"bot_name"`
	MeetingURL string    `json:"meeting_url"`
	CreatedAt  Timestamp `json:"created_at"`
	EndedAt    Timestamp `json:"ended_at"`
}

// BotList is a page of bots.
type BotList struct {
	Bots       []BotSummary `json:"bots"`
	NextCursor string       `json:"next_cursor"`
}

// ListBotsOptions filters the bot listing.
type ListBotsOptions struct {
	Limit      int
	BotName    string
	MeetingURL string
	Cursor     string
}

// Calendar is a connected calendar.
type Calendar struct {
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	GoogleID    string `json:"google_id,omitempty"`
	MicrosoftID string `json:"microsoft_id,omitempty"`
	ResourceID  string `json:"resource_id,omitempty"`
}

// RawCalendar is a calendar visible to an OAuth grant but not yet connected.
type RawCalendar struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	IsPrimary bool   `json:"is_primary"`
}

// OAuthCredentials identify a calendar provider grant.
type OAuthCredentials struct {
	Platform          string `json:"platform"`
	OAuthClientID     string `json:"oauth_client_id"`
	OAuthClientSecret string `json:"oauth_client_secret"`
	OAuthRefreshToken string `json:"oauth_refresh_token"`
	RawCalendarID     string `json:"raw_calendar_id,omitempty"`
}

// Calendar platforms.
const (
	PlatformGoogle    = "Google"
	PlatformMicrosoft = "Microsoft"
)

// ResyncResult reports a calendar resync.
type ResyncResult struct {
	SyncedCalendars []string          `json:"synced_calendars"`
	Errors          []json.RawMessage `json:"errors"`
}

// Attendee of a calendar event.
type Attendee struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Event is a calendar event.
type Event struct {
	UUID         string     `json:"uuid"`
	Name         string     `json:"name"`
	MeetingURL   string     `json:"meeting_url"`
	StartTime    Timestamp  `json:"start_time"`
	EndTime      Timestamp  `json:"end_time"`
	IsOrganizer  bool       `json:"is_organizer"`
	IsRecurring  bool       `json:"is_recurring"`
	Deleted      bool       `json:"deleted"`
	CalendarUUID string     `json:"calendar_uuid"`
	Attendees    []Attendee `json:"attendees"`
	BotParam     *BotParam  `json:"bot_param"`
}

// Scheduled reports whether a bot is booked for the event.
func (e Event) Scheduled() bool {
	return e.BotParam != nil
}

// BotParam is the bot configuration attached to a scheduled event.
type BotParam struct {
	BotName       string        `json:"bot_name"`
	BotImage      string        `json:"bot_image,omitempty"`
	EntryMessage  string        `json:"entry_message,omitempty"`
	RecordingMode string        `json:"recording_mode,omitempty"`
	SpeechToText  *SpeechToText `json:"speech_to_text,omitempty"`
}

// EventList is a page of events.
type EventList struct {
	Data []Event `json:"data"`
	Next string  `json:"next"`
}

// ListEventsOptions filters the event listing.
type ListEventsOptions struct {
	CalendarID   string
	StartDateGTE string
	StartDateLTE string
	Cursor       string
}
