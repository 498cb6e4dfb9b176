// Package jsonl implements the durable record store as an append-structured,
// line-delimited log. Logical state is rebuilt by replaying every line into a
// map keyed by report id; mutations rewrite the whole file so replay always
// reflects current state without compaction logic. Issue volume is low;
// correctness and simplicity win over write throughput.
package jsonl

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"propupkeep/internal/domain/issue"
	"propupkeep/internal/errs"
	"propupkeep/internal/ports"
)

const entryTypeIssueReport = "issue_report"

// logEntry is one physical line: a self-describing wrapper around a payload.
type logEntry struct {
	EntryType string          `json:"entry_type"`
	CreatedAt time.Time       `json:"created_at"`
	Payload   json.RawMessage `json:"payload"`
}

// Store is safe for concurrent use. One process-wide mutex serializes every
// load-modify-rewrite sequence; a flock on a sidecar file extends the
// exclusion across processes sharing the data file.
type Store struct {
	path     string
	mu       sync.Mutex
	fileLock *flock.Flock
	now      func() time.Time
}

var _ ports.IssueRepository = (*Store)(nil)

func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errs.Wrapf(err, "create data directory %q", dir)
		}
	}

	return &Store{
		path:     path,
		fileLock: flock.New(path + ".lock"),
		now:      time.Now,
	}, nil
}

func (s *Store) SaveIssueReport(ctx context.Context, report issue.Report) error {
	return s.UpsertIssue(ctx, report)
}

func (s *Store) UpsertIssue(ctx context.Context, report issue.Report) error {
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if err := report.Validate(); err != nil {
		return errs.Wrap(err, "validate issue report")
	}

	unlock, err := s.acquire()
	if err != nil {
		return err
	}
	defer unlock()

	reports, err := s.loadLocked()
	if err != nil {
		return err
	}
	reports[report.ReportID] = report.Clone()
	return s.rewriteLocked(reports)
}

func (s *Store) GetIssue(ctx context.Context, reportID string) (issue.Report, error) {
	if err := ctx.Err(); err != nil {
		return issue.Report{}, errs.Wrap(err, "check context")
	}

	unlock, err := s.acquire()
	if err != nil {
		return issue.Report{}, err
	}
	defer unlock()

	reports, err := s.loadLocked()
	if err != nil {
		return issue.Report{}, err
	}

	report, ok := reports[reportID]
	if !ok {
		return issue.Report{}, errs.Wrapf(ports.ErrIssueNotFound, "get issue %q", reportID)
	}
	return report.Clone(), nil
}

func (s *Store) ListIssues(ctx context.Context) ([]issue.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	unlock, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer unlock()

	reports, err := s.loadLocked()
	if err != nil {
		return nil, err
	}

	out := make([]issue.Report, 0, len(reports))
	for _, report := range reports {
		out = append(out, report.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *Store) AddComment(ctx context.Context, reportID string, comment issue.Comment) (issue.Report, error) {
	return s.mutate(ctx, reportID, func(report issue.Report) issue.Report {
		return report.WithComment(comment, s.now())
	})
}

func (s *Store) UpdateStatus(ctx context.Context, reportID string, status issue.Status) (issue.Report, error) {
	return s.mutate(ctx, reportID, func(report issue.Report) issue.Report {
		return report.WithStatus(status, s.now())
	})
}

// mutate runs the load-modify-rewrite sequence atomically with respect to
// other callers.
func (s *Store) mutate(ctx context.Context, reportID string, apply func(issue.Report) issue.Report) (issue.Report, error) {
	if err := ctx.Err(); err != nil {
		return issue.Report{}, errs.Wrap(err, "check context")
	}

	unlock, err := s.acquire()
	if err != nil {
		return issue.Report{}, err
	}
	defer unlock()

	reports, err := s.loadLocked()
	if err != nil {
		return issue.Report{}, err
	}

	report, ok := reports[reportID]
	if !ok {
		return issue.Report{}, errs.Wrapf(ports.ErrIssueNotFound, "mutate issue %q", reportID)
	}

	updated := apply(report)
	reports[reportID] = updated
	if err := s.rewriteLocked(reports); err != nil {
		return issue.Report{}, err
	}
	return updated.Clone(), nil
}

func (s *Store) acquire() (func(), error) {
	s.mu.Lock()
	if err := s.fileLock.Lock(); err != nil {
		s.mu.Unlock()
		return nil, errs.Wrap(err, "acquire data file lock")
	}
	return func() {
		_ = s.fileLock.Unlock()
		s.mu.Unlock()
	}, nil
}

// loadLocked replays the log into a map keyed by report id; later lines win.
// Malformed or schema-invalid lines are skipped, never abort the load: old or
// foreign entries must not take the whole store down.
func (s *Store) loadLocked() (map[string]issue.Report, error) {
	reports := make(map[string]issue.Report)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return reports, nil
		}
		return nil, errs.Wrap(err, "read activity log")
	}

	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		payload := extractPayload(line)
		if payload == nil {
			continue
		}

		var report issue.Report
		if err := json.Unmarshal(payload, &report); err != nil {
			continue
		}
		if err := report.Validate(); err != nil {
			continue
		}
		reports[report.ReportID] = report
	}
	return reports, nil
}

// extractPayload unwraps a self-describing entry; lines without the wrapper
// are treated as a direct payload for backward compatibility.
func extractPayload(line []byte) json.RawMessage {
	var entry logEntry
	if err := json.Unmarshal(line, &entry); err != nil {
		return nil
	}
	if entry.EntryType == entryTypeIssueReport && len(entry.Payload) > 0 {
		return entry.Payload
	}
	if entry.EntryType == "" && entry.Payload == nil {
		return json.RawMessage(line)
	}
	return nil
}

// rewriteLocked collapses history into one current line per id, sorted by
// created_at ascending, and swaps the file into place atomically.
func (s *Store) rewriteLocked(reports map[string]issue.Report) error {
	ordered := make([]issue.Report, 0, len(reports))
	for _, report := range reports {
		ordered = append(ordered, report)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	var buf bytes.Buffer
	for _, report := range ordered {
		payload, err := json.Marshal(report)
		if err != nil {
			return errs.Wrapf(err, "encode issue report %q", report.ReportID)
		}
		line, err := json.Marshal(logEntry{
			EntryType: entryTypeIssueReport,
			CreatedAt: report.CreatedAt,
			Payload:   payload,
		})
		if err != nil {
			return errs.Wrapf(err, "encode log entry %q", report.ReportID)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".activity-*.jsonl")
	if err != nil {
		return errs.Wrap(err, "create temp activity log")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errs.Wrap(err, "write activity log")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errs.Wrap(err, "close activity log")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return errs.Wrap(err, "replace activity log")
	}
	return nil
}
