package baas

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListCalendars returns the connected calendars.
func (c *Client) ListCalendars(ctx context.Context) ([]Calendar, error) {
	var cals []Calendar
	if err := c.do(ctx, request{op: "list_calendars", method: http.MethodGet, path: "/calendars"}, &cals); err != nil {
		return nil, err
	}
	return cals, nil
}

// GetCalendar returns one connected calendar.
func (c *Client) GetCalendar(ctx context.Context, id string) (*Calendar, error) {
	var cal Calendar
	err := c.do(ctx, request{op: "get_calendar", method: http.MethodGet, path: "/calendars/" + url.PathEscape(id)}, &cal)
	if err != nil {
		return nil, err
	}
	return &cal, nil
}

// ListRawCalendars lists the calendars an OAuth grant can see.
func (c *Client) ListRawCalendars(ctx context.Context, creds OAuthCredentials) ([]RawCalendar, error) {
	var resp struct {
		Calendars []RawCalendar `json:"calendars"`
	}
	err := c.do(ctx, request{op: "list_raw_calendars", method: http.MethodPost, path: "/calendars/raw", body: creds}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Calendars, nil
}

// CreateCalendar connects a calendar using an OAuth grant.
func (c *Client) CreateCalendar(ctx context.Context, creds OAuthCredentials) (*Calendar, error) {
	var resp struct {
		Calendar *Calendar `json:"calendar"`
	}
	err := c.do(ctx, request{op: "create_calendar", method: http.MethodPost, path: "/calendars", body: creds}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Calendar == nil {
		return nil, &APIError{Kind: KindMalformed, Operation: "create_calendar", Message: "response has no calendar"}
	}
	return resp.Calendar, nil
}

// DeleteCalendar disconnects a calendar.
func (c *Client) DeleteCalendar(ctx context.Context, id string) error {
	return c.do(ctx, request{op: "delete_calendar", method: http.MethodDelete, path: "/calendars/" + url.PathEscape(id)}, nil)
}

// ResyncCalendars forces a sync of every connected calendar.
func (c *Client) ResyncCalendars(ctx context.Context) (*ResyncResult, error) {
	var res ResyncResult
	err := c.do(ctx, request{op: "resync_calendars", method: http.MethodPost, path: "/internal/calendar/resync_all"}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ListEvents returns a page of events of one calendar.
func (c *Client) ListEvents(ctx context.Context, opts ListEventsOptions) (*EventList, error) {
	q := url.Values{"calendar_id": {opts.CalendarID}}
	if opts.StartDateGTE != "" {
		q.Set("start_date_gte", opts.StartDateGTE)
	}
	if opts.StartDateLTE != "" {
		q.Set("start_date_lte", opts.StartDateLTE)
	}
	if opts.Cursor != "" {
		q.Set("cursor", opts.Cursor)
	}

	var list EventList
	err := c.do(ctx, request{op: "list_events", method: http.MethodGet, path: "/calendar_events", query: q}, &list)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// GetEvent returns one calendar event.
func (c *Client) GetEvent(ctx context.Context, id string) (*Event, error) {
	var ev Event
	err := c.do(ctx, request{op: "get_event", method: http.MethodGet, path: "/calendar_events/" + url.PathEscape(id)}, &ev)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// ScheduleRecording books a bot for an event, and for the rest of the series
// when allOccurrences is set. It returns the updated events.
func (c *Client) ScheduleRecording(ctx context.Context, eventID string, params BotParam, allOccurrences bool) ([]Event, error) {
	var events []Event
	err := c.do(ctx, request{
		op:     "schedule_record_event",
		method: http.MethodPost,
		path:   "/calendar_events/" + url.PathEscape(eventID) + "/bot",
		query:  occurrences(allOccurrences),
		body:   params,
	}, &events)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// UnscheduleRecording cancels the bot booked for an event.
func (c *Client) UnscheduleRecording(ctx context.Context, eventID string, allOccurrences bool) ([]Event, error) {
	var events []Event
	err := c.do(ctx, request{
		op:     "unschedule_record_event",
		method: http.MethodDelete,
		path:   "/calendar_events/" + url.PathEscape(eventID) + "/bot",
		query:  occurrences(allOccurrences),
	}, &events)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func occurrences(all bool) url.Values {
	if !all {
		return nil
	}
	return url.Values{"all_occurrences": {strconv.FormatBool(all)}}
}
