package audio

import (
	"errors"
	"fmt"
	"os/exec"
	"sync"

	"github.com/charmbracelet/log"
)

// ProcessBackend plays each track with an external player command (mpv by default), the url
// is appended as the last argument
type ProcessBackend struct {
	logger  *log.Logger
	command []string
}

func NewProcessBackend(logger *log.Logger, command []string) (*ProcessBackend, error) {
	if len(command) == 0 {
		return nil, errors.New("audio: empty player command")
	}
	if _, err := exec.LookPath(command[0]); err != nil {
		return nil, fmt.Errorf("audio: player %q not found: %w", command[0], err)
	}
	return &ProcessBackend{logger: logger, command: command}, nil
}

func (b *ProcessBackend) Open(url string) (Stream, error) {
	args := append(append([]string{}, b.command[1:]...), url)
	cmd := exec.Command(b.command[0], args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("error starting player: %w", err)
	}
	b.logger.Debug("player started", "pid", cmd.Process.Pid, "url", url)

	s := &processStream{cmd: cmd, done: make(chan struct{})}
	go func() {
		err := cmd.Wait()
		s.mu.Lock()
		stopped := s.stopped
		s.mu.Unlock()
		if err != nil && !stopped {
			b.logger.Warn("player exited", "url", url, "err", err)
		}
		close(s.done)
	}()
	return s, nil
}

type processStream struct {
	cmd  *exec.Cmd
	done chan struct{}

	mu      sync.Mutex
	stopped bool
}

func (s *processStream) Pause() error {
	return suspendProcess(s.cmd.Process)
}

func (s *processStream) Resume() error {
	return resumeProcess(s.cmd.Process)
}

func (s *processStream) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.mu.Unlock()

	// a suspended process has to be running again to act on the kill
	_ = resumeProcess(s.cmd.Process)
	if err := s.cmd.Process.Kill(); err != nil {
		select {
		case <-s.done:
			return nil
		default:
			return err
		}
	}
	return nil
}

func (s *processStream) Done() <-chan struct{} {
	return s.done
}

// Unavailable is a backend for hosts without a player, every Open reports err
func Unavailable(err error) Backend {
	return unavailableBackend{err: err}
}

type unavailableBackend struct {
	err error
}

func (b unavailableBackend) Open(url string) (Stream, error) {
	return nil, b.err
}
