// file: internal/watcher/watcher.go
// version: 2.1.0
// guid: b2c3d4e5-f6a7-8901-bcde-f23456789012

package watcher

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/richiekastl/vite-code-monitor/internal/exclude"
	"github.com/richiekastl/vite-code-monitor/internal/metrics"
	"github.com/richiekastl/vite-code-monitor/internal/notify"
)

// relevantOps are the filesystem operations that count as activity.
const relevantOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// changeLogBurst bounds how many change lines may be logged per second
// so an event flood cannot drown the log.
const changeLogBurst = 10

var (
	// ErrNotDirectory is returned by Start when the watch root exists
	// but is not a directory.
	ErrNotDirectory = errors.New("watch path is not a directory")

	// ErrAlreadyStarted is returned by Start on a running monitor.
	ErrAlreadyStarted = errors.New("monitor already started")
)

// Session describes one monitoring run: what to watch, how long
// activity must pause before the notification fires, and which sound
// to play when it does.
type Session struct {
	Root   string
	Delay  time.Duration
	Sound  string
	Volume float64
	Rules  *exclude.RuleSet
}

// Status is a point-in-time snapshot of a monitor, served by the
// status endpoint.
type Status struct {
	Root            string    `json:"root"`
	Sound           string    `json:"sound"`
	DelaySeconds    float64   `json:"delay_seconds"`
	State           string    `json:"state"`
	EpisodesSettled uint64    `json:"episodes_settled"`
	StartedAt       time.Time `json:"started_at"`
}

// Monitor owns one watch session: it subscribes to filesystem events
// under the session root, drops excluded paths, feeds kept events to
// the quiescence Aggregator, and invokes the notifier on every settle.
type Monitor struct {
	session  Session
	notifier notify.Notifier

	fsWatcher *fsnotify.Watcher
	agg       *Aggregator
	changeLog *rate.Limiter

	stop    chan struct{}
	stopped chan struct{}
	errs    chan error

	mu           sync.Mutex
	running      bool
	startedAt    time.Time
	episodeStart time.Time
	episodes     uint64
}

// NewMonitor creates a Monitor for the given session. The session must
// already be validated (non-negative delay, volume in range, sound
// resolvable by the notifier).
func NewMonitor(session Session, notifier notify.Notifier) *Monitor {
	return &Monitor{
		session:   session,
		notifier:  notifier,
		changeLog: rate.NewLimiter(rate.Every(time.Second/changeLogBurst), changeLogBurst),
		stop:      make(chan struct{}),
		stopped:   make(chan struct{}),
		errs:      make(chan error, 1),
	}
}

// Start validates the root, subscribes to filesystem events for the
// whole subtree and launches the event loop. It returns once the
// subscription is established or failed.
func (m *Monitor) Start() error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.mu.Unlock()

	info, err := os.Stat(m.session.Root)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", m.session.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, m.session.Root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	m.fsWatcher = fsw
	m.agg = NewAggregator(m.session.Delay, m.onSettle)

	if err := m.addRecursive(m.session.Root); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", m.session.Root, err)
	}

	m.mu.Lock()
	m.running = true
	m.startedAt = time.Now()
	m.mu.Unlock()

	go m.eventLoop()
	return nil
}

// Stop unsubscribes from the event source and shuts down the
// aggregator. When Stop returns, the event loop has exited and no
// settle notification will fire. Safe to call when Start failed, and
// idempotent.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.mu.Unlock()

	close(m.stop)
	m.fsWatcher.Close()
	<-m.stopped
	m.agg.Stop()
}

// Err delivers a fatal intake error. The monitor no longer processes
// events once an error is delivered; the caller should Stop it.
func (m *Monitor) Err() <-chan error {
	return m.errs
}

// Snapshot returns the monitor's current state.
func (m *Monitor) Snapshot() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := "idle"
	if m.agg != nil && m.agg.Active() {
		state = "active"
	}
	return Status{
		Root:            m.session.Root,
		Sound:           m.session.Sound,
		DelaySeconds:    m.session.Delay.Seconds(),
		State:           state,
		EpisodesSettled: m.episodes,
		StartedAt:       m.startedAt,
	}
}

// addRecursive walks root and adds every directory that is not
// excluded. Excluded directories are pruned entirely, so nothing under
// them ever produces an event.
func (m *Monitor) addRecursive(root string) error {
	added := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && m.session.Rules.Excluded(m.session.Root, path) {
			return filepath.SkipDir
		}
		if watchErr := m.fsWatcher.Add(path); watchErr != nil {
			log.Printf("[WARN] watcher: cannot watch %s: %v", path, watchErr)
			return nil
		}
		added++
		return nil
	})
	if err != nil {
		return err
	}
	metrics.AddWatchedDirs(added)
	return nil
}

func (m *Monitor) eventLoop() {
	defer close(m.stopped)

	for {
		select {
		case <-m.stop:
			return
		case event, ok := <-m.fsWatcher.Events:
			if !ok {
				return
			}
			m.handleEvent(event)
		case err, ok := <-m.fsWatcher.Errors:
			if !ok {
				return
			}
			// The event source breaking mid-run (e.g. the watched
			// tree disappearing) is fatal for the session.
			log.Printf("[ERROR] watcher: event intake failed: %v", err)
			select {
			case m.errs <- fmt.Errorf("event intake failed: %w", err):
			default:
			}
			return
		}
	}
}

func (m *Monitor) handleEvent(event fsnotify.Event) {
	// Watch new directories as they appear, unless they are excluded.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !m.session.Rules.Excluded(m.session.Root, event.Name) {
				_ = m.addRecursive(event.Name)
			}
		}
	}

	if event.Op&relevantOps == 0 {
		return
	}

	if m.session.Rules.Excluded(m.session.Root, event.Name) {
		metrics.IncEventExcluded()
		return
	}

	metrics.IncEventKept()
	if m.changeLog.Allow() {
		log.Printf("[INFO] watcher: change detected: %s (%s)", event.Name, event.Op)
	}

	if !m.agg.Active() {
		m.mu.Lock()
		m.episodeStart = time.Now()
		m.mu.Unlock()
	}
	m.agg.Event()
}

// onSettle fires once per activity episode, after the quiescence delay
// has elapsed with no kept event.
func (m *Monitor) onSettle() {
	episode := ulid.Make().String()

	m.mu.Lock()
	m.episodes++
	duration := time.Since(m.episodeStart)
	m.mu.Unlock()

	metrics.IncSettle()
	metrics.ObserveEpisodeDuration(duration)
	log.Printf("[INFO] watcher: activity settled after %s (episode %s), playing %q",
		duration.Round(time.Millisecond), episode, m.session.Sound)

	if err := m.notifier.Notify(m.session.Sound, m.session.Volume); err != nil {
		metrics.IncDispatchFailure()
		log.Printf("[WARN] watcher: notification failed for episode %s: %v", episode, err)
	}
}
