// file: internal/notify/player.go
// version: 1.1.0
// guid: 9e6d3b80-2a4f-4c17-b8d5-f01a7c52e396

package notify

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

var (
	// ErrUnknownSound is returned when a sound id is not configured.
	ErrUnknownSound = errors.New("unknown sound")

	// ErrUnsupportedFormat is returned for sound files that are
	// neither mp3 nor wav.
	ErrUnsupportedFormat = errors.New("unsupported sound format")
)

// Player plays configured notification sounds through the system audio
// device. The speaker is initialized lazily on the first Notify so that
// merely constructing a Player (e.g. to list sounds) never touches
// audio hardware.
type Player struct {
	sounds map[string]string // id -> file path

	mu          sync.Mutex
	initialized bool
	sampleRate  beep.SampleRate
}

// NewPlayer creates a Player over an id -> file path map.
func NewPlayer(sounds map[string]string) *Player {
	return &Player{sounds: sounds}
}

// Sounds returns the configured sound ids, sorted.
func (p *Player) Sounds() []string {
	ids := make([]string, 0, len(p.sounds))
	for id := range p.sounds {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Has reports whether the sound id is configured.
func (p *Player) Has(id string) bool {
	_, ok := p.sounds[id]
	return ok
}

// Resolve maps a sound id to its file path.
func (p *Player) Resolve(id string) (string, error) {
	path, ok := p.sounds[id]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSound, id)
	}
	return path, nil
}

// Notify plays the sound at the given volume and blocks until playback
// finishes. All failures (unknown id, missing file, decode or device
// error) are returned to the caller; none of them are fatal for the
// monitor.
func (p *Player) Notify(sound string, volume float64) error {
	path, err := p.Resolve(sound)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open sound file: %w", err)
	}

	streamer, format, err := decode(path, f)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	defer streamer.Close()

	if err := p.ensureSpeaker(format.SampleRate); err != nil {
		return err
	}

	stream := beep.Streamer(streamer)
	if format.SampleRate != p.sampleRate {
		stream = beep.Resample(4, format.SampleRate, p.sampleRate, streamer)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(withVolume(stream, volume), beep.Callback(func() {
		close(done)
	})))
	<-done
	return nil
}

func decode(path string, f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".wav":
		return wav.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// withVolume applies a log-scaled gain: 1 is unity, 0 is silence.
func withVolume(s beep.Streamer, volume float64) beep.Streamer {
	if volume >= 1 {
		return s
	}
	return &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   math.Log2(math.Max(volume, 1e-4)),
		Silent:   volume <= 0,
	}
}

// ensureSpeaker initializes the audio device once, at the sample rate
// of the first sound played. Later sounds at other rates are resampled.
func (p *Player) ensureSpeaker(rate beep.SampleRate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return fmt.Errorf("failed to initialize audio device: %w", err)
	}
	p.sampleRate = rate
	p.initialized = true
	return nil
}
