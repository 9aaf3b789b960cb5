package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// MaxItems caps the number of ids accepted by a single call.
const MaxItems = 50

// DefaultConcurrency is the number of ids processed at once.
const DefaultConcurrency = 4

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Result is the outcome for a single id.
type Result struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Summary aggregates the results of a batch.
type Summary struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// ParseIDs accepts a single id, a comma separated list or an array of
// strings. Duplicates are dropped, order is kept.
func ParseIDs(param any, name string) ([]string, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", name)
	}

	var raw []string
	switch v := param.(type) {
	case string:
		raw = strings.Split(v, ",")
	case []string:
		raw = v
	case []any:
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", name, i)
			}
			raw = append(raw, s)
		}
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", name)
	}

	seen := make(map[string]struct{}, len(raw))
	ids := make([]string, 0, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	switch {
	case len(ids) == 0:
		return nil, fmt.Errorf("%s cannot be empty", name)
	case len(ids) > MaxItems:
		return nil, fmt.Errorf("%s accepts at most %d ids, got %d", name, MaxItems, len(ids))
	}
	return ids, nil
}

// Process runs fn for every id with at most concurrency calls in flight.
// Results keep the order of ids. Ids not started before ctx is cancelled
// are reported with the context error.
func Process(ctx context.Context, ids []string, concurrency int, fn func(ctx context.Context, id string) (string, error)) []Result {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	results := make([]Result, len(ids))

	g := new(errgroup.Group)
	g.SetLimit(concurrency)
	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = ErrorResult(id, err)
				return nil
			}
			msg, err := fn(ctx, id)
			if err != nil {
				results[i] = ErrorResult(id, err)
				return nil
			}
			results[i] = SuccessResult(id, msg)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Summarize counts successes and failures.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results), Results: results}
	for _, r := range results {
		if r.Status == statusSuccess {
			s.Successful++
		} else {
			s.Failed++
		}
	}
	return s
}

// Format renders the summary as indented JSON.
func Format(results []Result) string {
	out, _ := json.MarshalIndent(Summarize(results), "", "  ")
	return string(out)
}

// SuccessResult reports a successful id.
func SuccessResult(id, message string) Result {
	return Result{ID: id, Status: statusSuccess, Result: message}
}

// ErrorResult reports a failed id.
func ErrorResult(id string, err error) Result {
	return Result{ID: id, Status: statusError, Error: err.Error()}
}
