package baas

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// JoinMeeting sends a bot into a meeting and returns its id.
func (c *Client) JoinMeeting(ctx context.Context, req JoinRequest) (string, error) {
	var resp joinResponse
	err := c.do(ctx, request{op: "join_meeting", method: http.MethodPost, path: "/bots", body: req}, &resp)
	if err != nil {
		return "", err
	}
	if resp.BotID == "" {
		return "", &APIError{Kind: KindMalformed, Operation: "join_meeting", Message: "response has no bot_id"}
	}
	return resp.BotID, nil
}

// LeaveMeeting removes a bot from its meeting.
func (c *Client) LeaveMeeting(ctx context.Context, botID string) error {
	return c.do(ctx, request{
		op:     "leave_meeting",
		method: http.MethodDelete,
		path:   "/bots/" + url.PathEscape(botID),
		botID:  botID,
	}, nil)
}

// MeetingData fetches the recording, metadata and transcript of a bot.
// A response without bot data is reported as KindMalformed.
func (c *Client) MeetingData(ctx context.Context, botID string) (*MeetingData, error) {
	var data MeetingData
	err := c.do(ctx, request{
		op:     "meeting_data",
		method: http.MethodGet,
		path:   "/bots/meeting_data",
		query:  url.Values{"bot_id": {botID}},
		botID:  botID,
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.BotData == nil {
		return nil, &APIError{Kind: KindMalformed, Operation: "meeting_data", Message: "response has no bot_data"}
	}
	return &data, nil
}

// DeleteData removes the recording and transcript of a bot.
func (c *Client) DeleteData(ctx context.Context, botID string) error {
	return c.do(ctx, request{
		op:     "delete_data",
		method: http.MethodPost,
		path:   "/bots/" + url.PathEscape(botID) + "/delete_data",
		botID:  botID,
	}, nil)
}

// ListBots returns a page of bots with their metadata.
func (c *Client) ListBots(ctx context.Context, opts ListBotsOptions) (*BotList, error) {
	q := url.Values{}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.BotName != "" {
		q.Set("bot_name", opts.BotName)
	}
	if opts.MeetingURL != "" {
		q.Set("meeting_url", opts.MeetingURL)
	}
	if opts.Cursor != "" {
		q.Set("cursor", opts.Cursor)
	}

	var list BotList
	err := c.do(ctx, request{
		op:     "list_bots",
		method: http.MethodGet,
		path:   "/bots/bots_with_metadata",
		query:  q,
	}, &list)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// Retranscribe runs transcription again for a finished recording.
func (c *Client) Retranscribe(ctx context.Context, botID string, stt *SpeechToText) error {
	body := struct {
		BotUUID      string        `json:"bot_uuid"`
		SpeechToText *SpeechToText `json:"speech_to_text,omitempty"`
	}{BotUUID: botID, SpeechToText: stt}

	return c.do(ctx, request{
		op:     "retranscribe",
		method: http.MethodPost,
		path:   "/bots/retranscribe",
		body:   body,
		botID:  botID,
	}, nil)
}
