package events

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"routeanalyzer/internal/model"
)

// eventRow is the JSON shape of one access event row on the wire.
type eventRow struct {
	Host            string    `json:"host"`
	Port            int       `json:"port"`
	AccessTimestamp time.Time `json:"access_timestamp"`
}

func (r eventRow) toEvent() model.SocketEvent {
	return model.SocketEvent{Host: r.Host, Port: r.Port, AccessTimestamp: r.AccessTimestamp}
}

// HTTPStore is a Store backed by a JSON analytics API: a resty.Client
// with a bounded, backed-off retry policy that only fires on transport
// errors or 5xx responses.
type HTTPStore struct {
	httpClient *resty.Client
	logger     zerolog.Logger
}

// NewHTTPStore builds an HTTPStore against baseURL, retrying up to
// retryCount times with exponential backoff starting at a 1s base delay.
func NewHTTPStore(baseURL string, timeout time.Duration, retryCount int, logger zerolog.Logger) *HTTPStore {
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	baseDelay := 1 * time.Second
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(retryCount).
		SetRetryWaitTime(baseDelay).
		SetRetryMaxWaitTime(baseDelay * 8).
		AddRetryCondition(retryCondition)

	return &HTTPStore{
		httpClient: httpClient,
		logger:     logger.With().Str("component", "event-store").Logger(),
	}
}

// retryCondition retries on transport failure or 5xx; 4xx responses are
// not retried.
func retryCondition(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	return resp != nil && resp.StatusCode() >= 500
}

// AggregateOnHosts fetches every event in the window and reduces it to the
// distinct set of hosts.
func (s *HTTPStore) AggregateOnHosts(ctx context.Context, window model.TimeWindow) (map[string]struct{}, error) {
	rows, err := s.fetchEvents(ctx, map[string]string{
		"from": window.From.UTC().Format(time.RFC3339),
		"to":   window.To.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	hosts := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		hosts[r.Host] = struct{}{}
	}
	return hosts, nil
}

// FindCorrelatedHosts fetches host's own accesses, expands the time
// window by diffSeconds on either side to capture every candidate access
// that could matter, and applies the shared correlation predicate.
func (s *HTTPStore) FindCorrelatedHosts(ctx context.Context, host string, diffSeconds int) (map[string]struct{}, error) {
	hostRows, err := s.fetchEvents(ctx, map[string]string{"host": host})
	if err != nil {
		return nil, err
	}
	if len(hostRows) < 2 {
		return map[string]struct{}{}, nil
	}

	hostEvents := make([]model.SocketEvent, len(hostRows))
	minTime, maxTime := hostRows[0].AccessTimestamp, hostRows[0].AccessTimestamp
	for i, r := range hostRows {
		hostEvents[i] = r.toEvent()
		if r.AccessTimestamp.Before(minTime) {
			minTime = r.AccessTimestamp
		}
		if r.AccessTimestamp.After(maxTime) {
			maxTime = r.AccessTimestamp
		}
	}

	tolerance := time.Duration(diffSeconds) * time.Second
	candidateRows, err := s.fetchEvents(ctx, map[string]string{
		"from": minTime.Add(-tolerance).UTC().Format(time.RFC3339),
		"to":   maxTime.Add(tolerance + time.Nanosecond).UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	candidateEvents := make([]model.SocketEvent, len(candidateRows))
	for i, r := range candidateRows {
		candidateEvents[i] = r.toEvent()
	}

	return correlatedHosts(hostEvents, candidateEvents, host, diffSeconds), nil
}

func (s *HTTPStore) fetchEvents(ctx context.Context, query map[string]string) ([]eventRow, error) {
	var rows []eventRow

	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(&rows).
		Get("/events")
	if err != nil {
		s.logger.Error().Err(err).Interface("query", query).Msg("failed to fetch events")
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("event store returned status %d: %s", resp.StatusCode(), resp.Body())
	}

	return rows, nil
}
