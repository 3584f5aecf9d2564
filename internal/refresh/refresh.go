// Package refresh keeps the local license snapshot current: at most one
// download per calendar day, written atomically next to the live file.
package refresh

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mangobar/mangobar-web/internal/metrics"
)

// Refresh results used as the metrics "result" label.
const (
	ResultDownloaded = "downloaded"
	ResultSkipped    = "skipped"
	ResultFailed     = "failed"
)

// ErrInvalidSnapshot is returned when the source answers with something
// other than a SQLite database, such as an HTML interstitial page.
var ErrInvalidSnapshot = errors.New("source did not return a SQLite database")

// sqliteHeader opens every SQLite database file.
var sqliteHeader = []byte("SQLite format 3\x00")

// stampLayout is the calendar-day format written to the stamp file.
const stampLayout = "2006-01-02"

// Fetcher streams the current snapshot from its source.
type Fetcher interface {
	Fetch(ctx context.Context) (io.ReadCloser, error)
}

// Refresher downloads the snapshot when the stamp file does not hold today's
// date. It never retries; a failed attempt is tried again on the next call.
type Refresher struct {
	fetcher   Fetcher
	dbPath    string
	stampPath string
	now       func() time.Time
	metrics   *metrics.Metrics
	log       *slog.Logger

	mu sync.Mutex
}

// Option customizes a Refresher.
type Option func(*Refresher)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Refresher) { r.now = now }
}

// New constructs a Refresher writing to dbPath and recording the download day
// in stampPath.
func New(f Fetcher, dbPath, stampPath string, m *metrics.Metrics, log *slog.Logger, opts ...Option) *Refresher {
	r := &Refresher{
		fetcher:   f,
		dbPath:    dbPath,
		stampPath: stampPath,
		now:       time.Now,
		metrics:   m,
		log:       log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EnsureFresh downloads the snapshot unless it was already downloaded today
// and the file is still present. Reports whether a download happened.
func (r *Refresher) EnsureFresh(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	today := r.now().Format(stampLayout)
	last, err := r.readStamp()
	if err != nil {
		r.metrics.IncrementRefresh(ResultFailed)
		return false, fmt.Errorf("refresh.Refresher.EnsureFresh: %w", err)
	}
	if last == today && fileExists(r.dbPath) {
		r.log.DebugContext(ctx, "snapshot already downloaded today", "day", today)
		r.metrics.IncrementRefresh(ResultSkipped)
		return false, nil
	}

	r.log.InfoContext(ctx, "downloading license snapshot", "last_download", last, "day", today)
	n, err := r.download(ctx)
	if err != nil {
		r.metrics.IncrementRefresh(ResultFailed)
		return false, fmt.Errorf("refresh.Refresher.EnsureFresh: %w", err)
	}
	if err := os.WriteFile(r.stampPath, []byte(today), 0o644); err != nil {
		r.metrics.IncrementRefresh(ResultFailed)
		return false, fmt.Errorf("refresh.Refresher.EnsureFresh: write stamp: %w", err)
	}

	r.metrics.IncrementRefresh(ResultDownloaded)
	r.metrics.SetSnapshotUpdated(r.now())
	r.log.InfoContext(ctx, "license snapshot updated", "bytes", n, "path", r.dbPath)
	return true, nil
}

// Run calls EnsureFresh every interval until ctx is cancelled. Errors are
// logged, not returned.
func (r *Refresher) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.EnsureFresh(ctx); err != nil {
				r.log.ErrorContext(ctx, "snapshot refresh failed", "error", err)
			}
		}
	}
}

// download writes the fetched snapshot to a temp file in the target directory
// and renames it over dbPath, so readers see either the old or the new file.
// A body that does not start with the SQLite header never reaches dbPath.
func (r *Refresher) download(ctx context.Context) (int64, error) {
	body, err := r.fetcher.Fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}
	defer body.Close()

	br := bufio.NewReader(body)
	head, err := br.Peek(len(sqliteHeader))
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("read: %w", err)
	}
	if len(head) == 0 {
		return 0, errors.New("source returned an empty snapshot")
	}
	if !bytes.Equal(head, sqliteHeader) {
		return 0, fmt.Errorf("%w: body starts with %q", ErrInvalidSnapshot, head)
	}

	dir := filepath.Dir(r.dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return 0, fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(r.dbPath)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	n, err := io.Copy(tmp, br)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("copy: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.dbPath); err != nil {
		return 0, fmt.Errorf("replace snapshot: %w", err)
	}
	return n, nil
}

// readStamp returns the recorded download day, or "" when no stamp exists.
func (r *Refresher) readStamp() (string, error) {
	b, err := os.ReadFile(r.stampPath)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read stamp: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
