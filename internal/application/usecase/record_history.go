package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/domain/repository"
	"github.com/bnema/tabshell/internal/logging"
)

const (
	// historyQueueSize is the buffer size for the async history queue.
	// If the queue is full, new records are dropped with a warning.
	historyQueueSize = 100

	// logURLMaxLen is the max length for URLs in log messages.
	logURLMaxLen = 60

	// historyWorkerFlushInterval coalesces bursts into fewer persistence writes.
	historyWorkerFlushInterval = 100 * time.Millisecond

	// historyDeduplicationWindow collapses repeated visits of one URL by the same pane.
	historyDeduplicationWindow = 2 * time.Second
)

type historyRecord struct {
	url    string
	title  string
	visits int
}

type paneHistoryState struct {
	lastRawURL       string
	lastCanonicalURL string
	lastRecordedAt   time.Time
}

// RecordHistoryUseCase records page visits without blocking the control thread.
type RecordHistoryUseCase struct {
	historyRepo repository.HistoryRepository

	mu           sync.Mutex
	excluded     map[string]struct{}
	recentVisits map[string]paneHistoryState // key: pane ID

	historyQueue chan historyRecord
	done         chan struct{}
	closeOnce    sync.Once
	wg           sync.WaitGroup
	ctx          context.Context // base context for the background worker
}

// NewRecordHistoryUseCase creates the use case and starts its worker.
// excluded lists URLs that are never recorded (the new-tab page, the history page).
func NewRecordHistoryUseCase(
	ctx context.Context,
	historyRepo repository.HistoryRepository,
	excluded ...string,
) *RecordHistoryUseCase {
	uc := &RecordHistoryUseCase{
		historyRepo:  historyRepo,
		recentVisits: make(map[string]paneHistoryState),
		historyQueue: make(chan historyRecord, historyQueueSize),
		done:         make(chan struct{}),
		ctx:          ctx,
	}
	uc.SetExcluded(excluded...)

	uc.wg.Add(1)
	go uc.historyWorker()

	return uc
}

// SetExcluded replaces the list of URLs that are never recorded.
func (uc *RecordHistoryUseCase) SetExcluded(urls ...string) {
	excluded := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			excluded[u] = struct{}{}
		}
	}
	uc.mu.Lock()
	uc.excluded = excluded
	uc.mu.Unlock()
}

// Close shuts down the background worker after flushing pending records.
func (uc *RecordHistoryUseCase) Close() {
	uc.closeOnce.Do(func() {
		close(uc.done)
		uc.wg.Wait()
	})
}

// Record queues a visit of rawURL by a pane. It never blocks.
func (uc *RecordHistoryUseCase) Record(ctx context.Context, paneID, rawURL, title string) {
	log := logging.FromContext(ctx)
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return
	}

	uc.mu.Lock()
	_, skip := uc.excluded[rawURL]
	uc.mu.Unlock()
	if skip {
		return
	}

	canonicalURL := canonicalizeURLForHistory(rawURL)
	if canonicalURL == "" {
		return
	}

	if paneID == "" {
		paneID = "__default__"
	}
	now := time.Now()

	uc.mu.Lock()
	state := uc.recentVisits[paneID]

	// Fragment-only transitions still update the title of the entry.
	hashOnly := isHashOnlyTransition(state.lastRawURL, rawURL)
	dup := state.lastCanonicalURL == canonicalURL && now.Sub(state.lastRecordedAt) < historyDeduplicationWindow
	state.lastRawURL = rawURL
	if !hashOnly && !dup {
		state.lastCanonicalURL = canonicalURL
		state.lastRecordedAt = now
	}
	uc.recentVisits[paneID] = state
	uc.mu.Unlock()

	visits := 1
	if hashOnly || dup {
		visits = 0
	}

	select {
	case uc.historyQueue <- historyRecord{url: canonicalURL, title: title, visits: visits}:
	default:
		log.Warn().Str("url", logging.TruncateURL(canonicalURL, logURLMaxLen)).Msg("history queue full, dropping record")
	}
}

// Forget drops the deduplication state kept for a pane.
func (uc *RecordHistoryUseCase) Forget(paneID string) {
	uc.mu.Lock()
	delete(uc.recentVisits, paneID)
	uc.mu.Unlock()
}

// Recent returns the most recently visited entries.
func (uc *RecordHistoryUseCase) Recent(ctx context.Context, limit, offset int) ([]*entity.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	entries, err := uc.historyRepo.GetRecent(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent history: %w", err)
	}
	return entries, nil
}

// Prune deletes entries last visited before now minus retention.
func (uc *RecordHistoryUseCase) Prune(ctx context.Context, retention time.Duration) error {
	if retention <= 0 {
		return nil
	}
	before := time.Now().Add(-retention)
	if err := uc.historyRepo.DeleteOlderThan(ctx, before); err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	logging.FromContext(ctx).Info().Time("before", before).Msg("history pruned")
	return nil
}

func (uc *RecordHistoryUseCase) historyWorker() {
	defer uc.wg.Done()

	log := logging.FromContext(uc.ctx).With().
		Str("component", "history-worker").
		Logger()

	ticker := time.NewTicker(historyWorkerFlushInterval)
	defer ticker.Stop()

	pending := make(map[string]historyRecord)
	var order []string

	add := func(record historyRecord) {
		p, ok := pending[record.url]
		if !ok {
			order = append(order, record.url)
			p = historyRecord{url: record.url}
		}
		p.visits += record.visits
		if record.title != "" {
			p.title = record.title
		}
		pending[record.url] = p
	}

	flushPending := func() {
		for _, u := range order {
			uc.persistHistory(uc.ctx, pending[u])
		}
		clear(pending)
		order = order[:0]
	}

	drainQueue := func() {
		for {
			select {
			case record := <-uc.historyQueue:
				add(record)
			default:
				return
			}
		}
	}

	for {
		select {
		case record := <-uc.historyQueue:
			add(record)
		case <-ticker.C:
			flushPending()
		case <-uc.done:
			log.Debug().Int("remaining", len(uc.historyQueue)).Msg("draining history queue")
			drainQueue()
			flushPending()
			log.Debug().Msg("history worker shutdown complete")
			return
		}
	}
}

// persistHistory writes one coalesced record. A record with zero visits only
// refreshes the title of an existing entry.
func (uc *RecordHistoryUseCase) persistHistory(ctx context.Context, record historyRecord) {
	log := logging.FromContext(ctx)

	if record.visits == 0 {
		existing, err := uc.historyRepo.FindByURL(ctx, record.url)
		if err != nil {
			log.Warn().Err(err).Str("url", record.url).Msg("failed to check history")
			return
		}
		if existing == nil || record.title == "" || existing.Title == record.title {
			return
		}
		if err := uc.historyRepo.UpdateTitle(ctx, record.url, record.title); err != nil {
			log.Warn().Err(err).Str("url", record.url).Msg("failed to update history title")
		}
		return
	}

	for i := 0; i < record.visits; i++ {
		if err := uc.historyRepo.AddVisit(ctx, record.url, record.title); err != nil {
			log.Warn().Err(err).Str("url", record.url).Msg("failed to save history")
			return
		}
	}
}

func canonicalizeURLForHistory(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return strings.TrimSuffix(raw, "/")
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""
	parsed.Path = normalizePathForHistory(parsed.Path)

	query := parsed.Query()
	for key := range query {
		if isTrackingQueryParam(key) {
			query.Del(key)
		}
	}
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

func normalizePathForHistory(path string) string {
	if path == "/" {
		return ""
	}
	return strings.TrimSuffix(path, "/")
}

func isTrackingQueryParam(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return false
	}
	if strings.HasPrefix(key, "utm_") {
		return true
	}
	switch key {
	case "fbclid", "gclid", "msclkid", "dclid", "yclid", "mc_cid", "mc_eid", "igshid":
		return true
	}
	return false
}

func isHashOnlyTransition(previous, current string) bool {
	if previous == "" || current == "" || previous == current {
		return false
	}

	prevParsed, prevErr := url.Parse(previous)
	currParsed, currErr := url.Parse(current)
	if prevErr != nil || currErr != nil {
		return false
	}

	if !strings.EqualFold(prevParsed.Scheme, currParsed.Scheme) {
		return false
	}
	if !strings.EqualFold(prevParsed.Host, currParsed.Host) {
		return false
	}
	if normalizePathForHistory(prevParsed.Path) != normalizePathForHistory(currParsed.Path) {
		return false
	}
	if prevParsed.RawQuery != currParsed.RawQuery {
		return false
	}
	return prevParsed.Fragment != currParsed.Fragment
}
