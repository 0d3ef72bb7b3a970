// file: internal/watcher/watcher_test.go
// version: 2.0.0
// guid: a1b2c3d4-e5f6-7890-abcd-ef1234567890

package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/richiekastl/vite-code-monitor/internal/exclude"
	"github.com/richiekastl/vite-code-monitor/internal/notify"
)

// recorder collects Notify calls for assertions.
type recorder struct {
	mu     sync.Mutex
	sounds []string
	vols   []float64
	err    error
}

func (r *recorder) Notify(sound string, volume float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sounds = append(r.sounds, sound)
	r.vols = append(r.vols, volume)
	return r.err
}

func (r *recorder) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sounds)
}

func testSession(root string, delay time.Duration) Session {
	return Session{
		Root:   root,
		Delay:  delay,
		Sound:  "jobs-done",
		Volume: 0.5,
		Rules:  exclude.New([]string{"*.tmp"}, []string{"node_modules"}),
	}
}

func TestMonitorSettleNotifiesOnce(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}

	m := NewMonitor(testSession(dir, 100*time.Millisecond), rec)
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	defer m.Stop()

	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main"), 0o644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(400 * time.Millisecond)

	if n := rec.calls(); n != 1 {
		t.Fatalf("expected 1 notification, got %d", n)
	}
	if rec.sounds[0] != "jobs-done" || rec.vols[0] != 0.5 {
		t.Fatalf("notified with (%q, %v), want (jobs-done, 0.5)", rec.sounds[0], rec.vols[0])
	}
	if snap := m.Snapshot(); snap.EpisodesSettled != 1 {
		t.Fatalf("snapshot reports %d episodes, want 1", snap.EpisodesSettled)
	}
}

func TestMonitorExcludedEventsDoNotSettle(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}

	m := NewMonitor(testSession(dir, 100*time.Millisecond), rec)
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	defer m.Stop()

	// Only excluded churn: no episode should ever open.
	for i := 0; i < 3; i++ {
		name := filepath.Join(dir, "scratch"+string(rune('a'+i))+".tmp")
		if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(30 * time.Millisecond)
	}

	time.Sleep(300 * time.Millisecond)
	if n := rec.calls(); n != 0 {
		t.Fatalf("excluded-only churn must not notify, got %d calls", n)
	}
}

func TestMonitorExcludedChurnDoesNotExtendEpisode(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}

	m := NewMonitor(testSession(dir, 200*time.Millisecond), rec)
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	defer m.Stop()

	// Kept event opens the episode.
	if err := os.WriteFile(filepath.Join(dir, "kept.go"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Excluded writes inside the window must not reset the timer.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "noise.tmp"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(250 * time.Millisecond)
	if n := rec.calls(); n != 1 {
		t.Fatalf("expected settle despite excluded churn, got %d calls", n)
	}
}

func TestMonitorNewSubdirectoryIsWatched(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}

	m := NewMonitor(testSession(dir, 100*time.Millisecond), rec)
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	defer m.Stop()

	sub := filepath.Join(dir, "pkg")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	// Give the watcher a moment to pick up the new directory, then let
	// the episode from the mkdir settle.
	time.Sleep(50 * time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	if rec.calls() != 1 {
		t.Fatalf("expected mkdir episode to settle, got %d", rec.calls())
	}

	// A change inside the new subdirectory must open a fresh episode.
	if err := os.WriteFile(filepath.Join(sub, "lib.go"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	if n := rec.calls(); n != 2 {
		t.Fatalf("expected a second settle from the new subdirectory, got %d", n)
	}
}

func TestMonitorStartMissingRoot(t *testing.T) {
	m := NewMonitor(testSession(filepath.Join(t.TempDir(), "gone"), time.Second), &recorder{})
	if err := m.Start(); err == nil {
		t.Fatal("expected error for missing root")
	}
	m.Stop() // must be safe after a failed start
}

func TestMonitorStartOnFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewMonitor(testSession(file, time.Second), &recorder{})
	err := m.Start()
	if !errors.Is(err, ErrNotDirectory) {
		t.Fatalf("expected ErrNotDirectory, got %v", err)
	}
}

func TestMonitorStopSuppressesPendingSettle(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}

	m := NewMonitor(testSession(dir, 150*time.Millisecond), rec)
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "a.go"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond) // event delivered, timer pending
	m.Stop()
	after := rec.calls()

	time.Sleep(300 * time.Millisecond)
	if n := rec.calls(); n != after || n != 0 {
		t.Fatalf("settle fired around Stop: %d then %d calls", after, n)
	}
}

func TestMonitorDispatchFailureIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{err: errors.New("playback device unavailable")}

	m := NewMonitor(testSession(dir, 80*time.Millisecond), rec)
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	defer m.Stop()

	if err := os.WriteFile(filepath.Join(dir, "one.go"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(250 * time.Millisecond)

	// The watch survives; a second episode still notifies.
	if err := os.WriteFile(filepath.Join(dir, "two.go"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(250 * time.Millisecond)

	if n := rec.calls(); n != 2 {
		t.Fatalf("expected 2 attempted notifications, got %d", n)
	}
	select {
	case err := <-m.Err():
		t.Fatalf("dispatch failure surfaced as fatal: %v", err)
	default:
	}
}

func TestMonitorDoubleStart(t *testing.T) {
	dir := t.TempDir()
	m := NewMonitor(testSession(dir, time.Second), &recorder{})
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	defer m.Stop()

	if err := m.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}
}

var _ notify.Notifier = (*recorder)(nil)

func TestMonitorSnapshot(t *testing.T) {
	dir := t.TempDir()
	m := NewMonitor(testSession(dir, time.Second), &recorder{})
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	defer m.Stop()

	snap := m.Snapshot()
	if snap.Root != dir {
		t.Errorf("snapshot root = %q, want %q", snap.Root, dir)
	}
	if snap.State != "idle" {
		t.Errorf("snapshot state = %q, want idle", snap.State)
	}
	if snap.DelaySeconds != 1 {
		t.Errorf("snapshot delay = %v, want 1", snap.DelaySeconds)
	}
	if snap.StartedAt.IsZero() {
		t.Error("snapshot started_at is zero")
	}
}

func TestMonitorFloodSettlesOnce(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}

	m := NewMonitor(testSession(dir, 150*time.Millisecond), rec)
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	defer m.Stop()

	var wrote atomic.Int32
	for i := 0; i < 200; i++ {
		name := filepath.Join(dir, "f"+string(rune('a'+i%26))+".go")
		if err := os.WriteFile(name, []byte{byte(i)}, 0o644); err == nil {
			wrote.Add(1)
		}
	}
	if wrote.Load() == 0 {
		t.Fatal("no files written")
	}

	time.Sleep(500 * time.Millisecond)
	if n := rec.calls(); n != 1 {
		t.Fatalf("flood must coalesce to exactly 1 notification, got %d", n)
	}
}
