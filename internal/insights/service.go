// Package insights answers questions about recorded meetings.
//
// It fetches meeting data from the API, runs the key moment extraction or
// the search strategy chain over the transcript, renders the answer with
// timestamped viewer links and records the bot as recently used. Both the
// MCP tools and the CLI commands go through a Service.
package insights

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/meeting-mcp/internal/analysis"
	"github.com/teemow/meeting-mcp/internal/baas"
	"github.com/teemow/meeting-mcp/internal/instrumentation"
	"github.com/teemow/meeting-mcp/internal/links"
	"github.com/teemow/meeting-mcp/internal/logging"
	"github.com/teemow/meeting-mcp/internal/recent"
	"github.com/teemow/meeting-mcp/internal/search"
	"github.com/teemow/meeting-mcp/internal/session"
)

// MeetingFetcher loads a meeting from the API.
type MeetingFetcher interface {
	MeetingData(ctx context.Context, botID string) (*baas.MeetingData, error)
}

// Service runs analyses over fetched meetings.
type Service struct {
	fetcher   MeetingFetcher
	extractor *analysis.Extractor
	links     links.Builder
	tracker   *recent.Tracker
	metrics   *instrumentation.Metrics
	logger    *slog.Logger
	defaults  analysis.Options
}

// Config holds the collaborators of a Service. Only Fetcher is required.
type Config struct {
	Fetcher   MeetingFetcher
	Extractor *analysis.Extractor
	Links     links.Builder
	Tracker   *recent.Tracker
	Metrics   *instrumentation.Metrics
	Logger    *slog.Logger
	// Defaults fill in extraction options a caller leaves out.
	Defaults analysis.Options
}

// NewService returns a Service. Missing optional collaborators get defaults.
func NewService(cfg Config) *Service {
	if cfg.Extractor == nil {
		cfg.Extractor = analysis.NewExtractor()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Links == (links.Builder{}) {
		cfg.Links = links.NewBuilder("")
	}
	cfg.Defaults = withDefaults(cfg.Defaults)
	return &Service{
		fetcher:   cfg.Fetcher,
		extractor: cfg.Extractor,
		links:     cfg.Links,
		tracker:   cfg.Tracker,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		defaults:  cfg.Defaults,
	}
}

// DefaultOptions returns the extraction options used when a caller sets none.
func (s *Service) DefaultOptions() analysis.Options {
	return s.defaults
}

func withDefaults(o analysis.Options) analysis.Options {
	d := analysis.DefaultOptions()
	if o.MaxMoments > 0 {
		d.MaxMoments = o.MaxMoments
	}
	if o.Granularity != "" {
		d.Granularity = o.Granularity
	}
	if o.InitialChunkSize > 0 {
		d.InitialChunkSize = o.InitialChunkSize
	}
	return d
}

// Links returns the link builder used in rendered output.
func (s *Service) Links() links.Builder {
	return s.links
}

// Meeting fetches a meeting and records it as recently used. The returned
// state carries the bot at the front of its recent list.
func (s *Service) Meeting(ctx context.Context, st session.State, botID string) (*baas.MeetingData, session.State, error) {
	data, err := s.fetcher.MeetingData(ctx, botID)
	if err != nil {
		return nil, st, err
	}
	return data, s.track(ctx, st, botID, data), nil
}

func (s *Service) track(ctx context.Context, st session.State, botID string, data *baas.MeetingData) session.State {
	rec := recent.Record{BotID: botID}
	if data != nil && data.BotData != nil {
		rec.BotName = data.BotData.Bot.BotName
		rec.MeetingURL = data.BotData.Bot.MeetingURL
		rec.CreatedAt = data.BotData.Bot.CreatedAt.Time
	}
	return s.tracker.Track(ctx, st, rec)
}

// KeyMomentsRequest describes one key moment extraction.
type KeyMomentsRequest struct {
	BotID        string
	MeetingTitle string
	// Topics are looked up in the transcript in addition to the detected ones.
	Topics  []string
	Options analysis.Options
}

// FindKeyMoments extracts the key moments of a meeting.
func (s *Service) FindKeyMoments(ctx context.Context, st session.State, req KeyMomentsRequest) (*KeyMomentsReport, session.State, error) {
	ctx, span := instrumentation.StartSpan(ctx, "insights.find_key_moments",
		attribute.String(instrumentation.SpanAttrBotID, req.BotID))
	defer span.End()

	data, next, err := s.Meeting(ctx, st, req.BotID)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, st, err
	}

	segments := data.Segments()
	result := s.extractor.Extract(segments, req.Options)

	report := &KeyMomentsReport{
		BotID:         req.BotID,
		Title:         meetingTitle(req.MeetingTitle, data),
		Duration:      data.Duration,
		SegmentCount:  len(segments),
		Result:        result,
		TopicMentions: analysis.FindTopicMentions(segments, req.Topics),
		links:         s.links,
	}
	if report.Duration <= 0 {
		report.Duration = result.Duration
	}

	s.metrics.RecordKeyMoments(ctx, len(result.Moments))
	span.SetAttributes(attribute.Int(instrumentation.SpanAttrMoments, len(result.Moments)))
	instrumentation.SetSpanSuccess(span)
	s.logger.Debug("key moments extracted",
		logging.BotID(req.BotID),
		slog.Int("moments", len(result.Moments)),
		slog.Int("topics", len(result.Topics)),
		slog.Int("chunks", result.ChunkCount))
	return report, next, nil
}

// SearchRequest describes one intelligent search.
type SearchRequest struct {
	BotID string
	Query search.Query
}

// IntelligentSearch runs the search strategy chain over a meeting.
func (s *Service) IntelligentSearch(ctx context.Context, st session.State, req SearchRequest) (*SearchReport, session.State, error) {
	ctx, span := instrumentation.StartSpan(ctx, "insights.intelligent_search",
		attribute.String(instrumentation.SpanAttrBotID, req.BotID))
	defer span.End()

	data, next, err := s.Meeting(ctx, st, req.BotID)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, st, err
	}

	result := search.Run(data.Segments(), req.Query)

	s.metrics.RecordSearchTier(ctx, result.Tier.String())
	span.SetAttributes(attribute.String(instrumentation.SpanAttrSearchTier, result.Tier.String()))
	instrumentation.SetSpanSuccess(span)
	s.logger.Debug("intelligent search answered",
		logging.BotID(req.BotID), logging.Tier(result.Tier.String()), slog.Int("total", result.Total))

	return &SearchReport{
		BotID:  req.BotID,
		Query:  req.Query.Text,
		Result: result,
		links:  s.links,
	}, next, nil
}

// SearchTranscript is a plain substring search over a meeting transcript.
func (s *Service) SearchTranscript(ctx context.Context, st session.State, botID, query string) (*TranscriptMatches, session.State, error) {
	data, next, err := s.Meeting(ctx, st, botID)
	if err != nil {
		return nil, st, err
	}
	return &TranscriptMatches{
		BotID:    botID,
		Query:    query,
		Segments: search.Basic(data.Segments(), query),
		links:    s.links,
	}, next, nil
}

func meetingTitle(requested string, data *baas.MeetingData) string {
	if requested != "" {
		return requested
	}
	if data != nil && data.BotData != nil && data.BotData.Bot.BotName != "" {
		return data.BotData.Bot.BotName
	}
	return "Meeting"
}
