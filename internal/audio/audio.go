package audio

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/wheelibin/ambience/internal/models"
)

var ErrNoTrack = errors.New("audio: no track loaded")

// Stream is one track being played by a backend
type Stream interface {
	Pause() error
	Resume() error
	Stop() error
	// closed when the track finishes or the stream is stopped
	Done() <-chan struct{}
}

type Backend interface {
	Open(url string) (Stream, error)
}

type State struct {
	TrackID string
	Source  models.SourceContext
	Playing bool
}

// Player tracks which track is loaded, who loaded it and whether it is sounding. Decoding
// and output belong to the backend.
type Player struct {
	logger  *log.Logger
	backend Backend

	mu        sync.Mutex
	trackID   string
	url       string
	source    models.SourceContext
	stream    Stream
	playing   bool
	listeners []func(State)
}

func NewPlayer(logger *log.Logger, backend Backend) *Player {
	return &Player{logger: logger, backend: backend}
}

// LoadTrack replaces the current track. Nothing sounds until Play.
func (p *Player) LoadTrack(id string, url string, source models.SourceContext) error {
	p.mu.Lock()
	if p.stream != nil {
		if err := p.stream.Stop(); err != nil {
			p.logger.Warn("stopping previous track", "track", p.trackID, "err", err)
		}
	}
	p.trackID = id
	p.url = url
	p.source = source
	p.stream = nil
	p.playing = false
	p.unlockAndNotify()

	p.logger.Debug("track loaded", "track", id, "source", source.Type, "sourceId", source.ID)
	return nil
}

func (p *Player) Play() error {
	p.mu.Lock()
	if p.trackID == "" {
		p.mu.Unlock()
		return ErrNoTrack
	}
	if p.playing {
		p.mu.Unlock()
		return nil
	}

	if p.stream == nil {
		stream, err := p.backend.Open(p.url)
		if err != nil {
			p.mu.Unlock()
			return fmt.Errorf("error playing track (%s): %w", p.trackID, err)
		}
		p.stream = stream
		go p.watch(stream)
	} else if err := p.stream.Resume(); err != nil {
		p.mu.Unlock()
		return fmt.Errorf("error resuming track (%s): %w", p.trackID, err)
	}

	p.playing = true
	p.unlockAndNotify()
	return nil
}

func (p *Player) Pause() error {
	p.mu.Lock()
	if !p.playing || p.stream == nil {
		p.mu.Unlock()
		return nil
	}
	if err := p.stream.Pause(); err != nil {
		p.mu.Unlock()
		return fmt.Errorf("error pausing track (%s): %w", p.trackID, err)
	}
	p.playing = false
	p.unlockAndNotify()
	return nil
}

func (p *Player) TogglePlay() error {
	if p.IsPlaying() {
		return p.Pause()
	}
	return p.Play()
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *Player) CurrentTrackID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.trackID
}

func (p *Player) SourceContext() models.SourceContext {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source
}

func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state()
}

func (p *Player) OnChange(fn func(State)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Close stops whatever is playing
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
	if p.stream == nil {
		return nil
	}
	err := p.stream.Stop()
	p.stream = nil
	return err
}

// a finished track leaves the player loaded but not playing, Play starts it again
func (p *Player) watch(stream Stream) {
	<-stream.Done()

	p.mu.Lock()
	if p.stream != stream {
		p.mu.Unlock()
		return
	}
	p.stream = nil
	p.playing = false
	p.logger.Debug("track finished", "track", p.trackID)
	p.unlockAndNotify()
}

func (p *Player) state() State {
	return State{TrackID: p.trackID, Source: p.source, Playing: p.playing}
}

func (p *Player) unlockAndNotify() {
	state := p.state()
	listeners := append([]func(State){}, p.listeners...)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}
