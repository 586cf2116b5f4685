package reconciler

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	devicestatestore "github.com/wheelibin/ambience/internal/deviceStateStore"
	"github.com/wheelibin/ambience/internal/models"
)

// Shadow is a control's optimistic view of its target
type Shadow struct {
	Loaded     bool
	On         bool
	Brightness int
	Mixed      bool
	Color      bool
	ColorTemp  bool
	// store updates are ignored while either is set
	Dragging  bool
	Suspended bool
}

func (s Shadow) Percent() int {
	return models.BrightnessPercent(s.Brightness)
}

// Control makes power and brightness feel instant while the bridge catches up. Input updates
// the shadow synchronously, bridge commands and fetches run on their own goroutines and their
// results are dropped when a newer input has arrived since.
type Control struct {
	engine *Engine
	target Target
	logger *log.Logger

	mu     sync.Mutex
	shadow Shadow
	closed bool
	// bumped by every power or brightness input
	seq       uint64
	debounce  clockwork.Timer
	settle    clockwork.Timer
	settleGen uint64
	// closed when the latest brightness command returns
	inflight    chan struct{}
	listeners   []func(Shadow)
	unsubscribe func()
}

func (c *Control) Target() Target {
	return c.target
}

func (c *Control) Shadow() Shadow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shadow
}

// OnChange registers fn to be called with the new shadow after every change
func (c *Control) OnChange(fn func(Shadow)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Sync applies a store update unless the control is dragging or waiting on its own command
func (c *Control) Sync(snap devicestatestore.Snapshot) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.shadow.Dragging || c.shadow.Suspended {
		c.mu.Unlock()
		c.logger.Debug("store update ignored while suspended")
		return
	}
	if !c.resync(snap, false) {
		c.mu.Unlock()
		return
	}
	c.unlockAndNotify()
}

func (c *Control) TogglePower() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.setPower(!c.shadow.On)
	return nil
}

func (c *Control) SetPower(on bool) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.setPower(on)
	return nil
}

// called with mu held, releases it
func (c *Control) setPower(on bool) {
	prev := c.shadow.On
	c.stopDebounce()
	seq := c.nextSeq()

	c.shadow.On = on
	c.shadow.Suspended = true
	c.markRoomActive(on)
	c.unlockAndNotify()

	cmd := models.PowerCommand(on, c.engine.cfg.TransitionTime)
	go c.sendTracked(seq, cmd, func() {
		c.shadow.On = prev
	})
}

// BeginDrag stops store updates reaching the shadow until the drag has settled
func (c *Control) BeginDrag() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.shadow.Dragging = true
	c.cancelSettle()
	c.unlockAndNotify()
	return nil
}

// DragTo updates the shadow immediately and restarts the debounce window. Only the last value
// in a window is sent.
func (c *Control) DragTo(bri int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	wasOn := c.shadow.On

	c.shadow.Dragging = true
	c.cancelSettle()
	c.stopDebounce()
	seq := c.nextSeq()

	// a room set to one value is no longer mixed, brightness implies power on
	c.shadow.On = true
	c.shadow.Brightness = models.ClampBrightness(bri)
	c.shadow.Mixed = false
	if !wasOn {
		c.markRoomActive(true)
	}

	c.debounce = c.engine.clock.AfterFunc(c.engine.cfg.DebounceWindow, func() {
		c.flush(seq)
	})
	c.unlockAndNotify()
	return nil
}

// EndDrag lets the store back in once the settle delay has passed and a fresh fetch has landed
func (c *Control) EndDrag() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if !c.shadow.Dragging {
		return nil
	}

	c.cancelSettle()
	gen, seq := c.settleGen, c.seq
	c.settle = c.engine.clock.AfterFunc(c.engine.cfg.SettleDelay, func() {
		c.finishSettle(gen, seq)
	})
	return nil
}

// SetBrightness is a single step, e.g. from the keyboard
func (c *Control) SetBrightness(bri int) error {
	if err := c.DragTo(bri); err != nil {
		return err
	}
	return c.EndDrag()
}

func (c *Control) SetColor(color models.ColorSpec) error {
	if color.Mode == models.ColorModeNone {
		return fmt.Errorf("%w: no colour mode", models.ErrInvalidColor)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	supported := c.supports(color)
	c.mu.Unlock()

	if !supported {
		return fmt.Errorf("%w: %s on %s", ErrColorUnsupported, color.Mode, c.target.Key())
	}

	cmd := models.LightCommand{TransitionTime: c.engine.cfg.TransitionTime}.WithColor(color)
	go c.sendDiscrete("colour", cmd)
	return nil
}

func (c *Control) SetEffect(effect string) error {
	if effect != models.EffectNone && effect != models.EffectColorLoop {
		return fmt.Errorf("%w: %q", ErrUnknownEffect, effect)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	color := c.shadow.Color
	c.mu.Unlock()

	if effect == models.EffectColorLoop && !color {
		return fmt.Errorf("%w: colorloop on %s", ErrColorUnsupported, c.target.Key())
	}

	cmd := models.LightCommand{TransitionTime: c.engine.cfg.TransitionTime}.WithEffect(effect)
	go c.sendDiscrete("effect", cmd)
	return nil
}

// ApplyPreset sets brightness, colour and effect in one command. Lights that cannot show the
// preset's colour still take its brightness.
func (c *Control) ApplyPreset(preset models.Preset) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}

	cmd := preset.Command(c.engine.cfg.TransitionTime)
	if preset.Color.Mode != models.ColorModeNone && !c.supports(preset.Color) {
		cmd.Hue, cmd.Sat, cmd.CT = nil, nil, nil
	}
	if !c.shadow.Color {
		cmd.Effect = nil
	}

	wasOn := c.shadow.On
	c.stopDebounce()
	seq := c.nextSeq()
	c.shadow.On = true
	c.shadow.Brightness = models.ClampBrightness(preset.Brightness)
	c.shadow.Mixed = false
	c.shadow.Suspended = true
	if !wasOn {
		c.markRoomActive(true)
	}
	c.unlockAndNotify()

	go c.sendTracked(seq, cmd, func() {
		c.resync(c.engine.store.Snapshot(), true)
	})
	return nil
}

// Close stops pending timers and detaches from the store. Commands already sent still
// complete but their results are ignored.
func (c *Control) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopDebounce()
	c.cancelSettle()
	unsubscribe := c.unsubscribe
	c.mu.Unlock()

	// outside mu, the store may be delivering to Sync right now
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (c *Control) flush(seq uint64) {
	c.mu.Lock()
	if c.closed || c.seq != seq || c.debounce == nil {
		c.mu.Unlock()
		return
	}
	c.debounce = nil
	c.sendBrightness()
	c.unlockAndNotify()
}

// called with mu held
func (c *Control) sendBrightness() {
	seq := c.seq
	bri := c.shadow.Brightness
	c.shadow.Suspended = true

	done := make(chan struct{})
	c.inflight = done

	go func() {
		defer close(done)

		ctx, cancel := c.engine.commandContext()
		defer cancel()

		err := c.engine.bridge.ApplyLightConfig(ctx, c.target.Patch(models.BrightnessCommand(bri, c.engine.cfg.TransitionTime)))
		if err == nil {
			c.logger.Debug("brightness sent", "bri", bri)
			return
		}

		c.logger.Warn("brightness command failed, reverting", "bri", bri, "err", err)
		c.mu.Lock()
		if c.closed || c.seq != seq {
			c.mu.Unlock()
			c.logger.Debug("ignoring failure of superseded brightness command", "bri", bri)
			return
		}
		c.shadow.Suspended = false
		c.resync(c.engine.store.Snapshot(), true)
		c.unlockAndNotify()
	}()
}

// finishSettle ends a drag. seq is the input the drag ended on, a later power or preset command
// keeps the shadow suspended until its own result arrives.
func (c *Control) finishSettle(gen uint64, seq uint64) {
	c.mu.Lock()
	if c.closed || c.settleGen != gen {
		c.mu.Unlock()
		return
	}
	c.settle = nil
	// the last value has not left yet
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
		c.sendBrightness()
	}
	done := c.inflight
	c.mu.Unlock()

	if done != nil {
		<-done
	}
	err := c.refresh()

	c.mu.Lock()
	if c.closed || c.settleGen != gen {
		c.mu.Unlock()
		return
	}
	c.shadow.Dragging = false
	if c.seq != seq && c.shadow.Suspended {
		c.logger.Debug("drag settled behind a newer command, leaving the shadow to it")
		c.unlockAndNotify()
		return
	}
	c.shadow.Suspended = false
	if err == nil {
		c.resync(c.engine.store.Snapshot(), false)
	}
	c.unlockAndNotify()
}

// sendTracked sends a command that moved the shadow. Success is followed by a fetch, the
// device may have restored an older brightness or colour. rollback runs with mu held.
func (c *Control) sendTracked(seq uint64, cmd models.LightCommand, rollback func()) {
	ctx, cancel := c.engine.commandContext()
	defer cancel()

	err := c.engine.bridge.ApplyLightConfig(ctx, c.target.Patch(cmd))
	if err != nil {
		c.logger.Warn("command failed, rolling back", "err", err)
		c.mu.Lock()
		if c.closed || c.seq != seq {
			c.mu.Unlock()
			return
		}
		rollback()
		c.shadow.Suspended = false
		c.unlockAndNotify()
		return
	}

	refreshErr := c.refresh()

	c.mu.Lock()
	if c.closed || c.seq != seq {
		c.mu.Unlock()
		c.logger.Debug("ignoring result of superseded command")
		return
	}
	c.shadow.Suspended = false
	if refreshErr == nil && !c.shadow.Dragging {
		c.resync(c.engine.store.Snapshot(), false)
	}
	c.unlockAndNotify()
}

// sendDiscrete sends a command that is not part of the shadow, the follow-up fetch reaches
// the control through Sync
func (c *Control) sendDiscrete(kind string, cmd models.LightCommand) {
	ctx, cancel := c.engine.commandContext()
	defer cancel()

	if err := c.engine.bridge.ApplyLightConfig(ctx, c.target.Patch(cmd)); err != nil {
		c.logger.Warn("command failed", "kind", kind, "err", err)
		return
	}
	_ = c.refresh()
}

func (c *Control) refresh() error {
	ctx, cancel := c.engine.commandContext()
	defer cancel()
	return c.engine.store.Refresh(ctx)
}

// resync copies the derived state into the shadow, called with mu held. force moves the
// brightness even for targets that do not follow it.
func (c *Control) resync(snap devicestatestore.Snapshot, force bool) bool {
	d, ok := c.target.Derive(snap)
	if !ok {
		return false
	}

	before := c.shadow
	c.shadow.On = d.On
	c.shadow.Mixed = d.Mixed
	c.shadow.Color = d.Color
	c.shadow.ColorTemp = d.ColorTemp
	if !c.shadow.Loaded || force || c.target.FollowsBrightness() {
		c.shadow.Brightness = d.Brightness
	}
	c.shadow.Loaded = true

	return c.shadow != before
}

func (c *Control) supports(color models.ColorSpec) bool {
	switch color.Mode {
	case models.ColorModeHS:
		return c.shadow.Color
	case models.ColorModeCT:
		return c.shadow.ColorTemp
	}
	return false
}

func (c *Control) markRoomActive(on bool) {
	roomID, clearOnOff := c.target.ActiveRoom()
	if roomID == "" || (!on && !clearOnOff) {
		return
	}
	c.engine.store.SetRoomActive(roomID, on)
}

func (c *Control) nextSeq() uint64 {
	c.seq++
	return c.seq
}

func (c *Control) stopDebounce() {
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
}

func (c *Control) cancelSettle() {
	c.settleGen++
	if c.settle != nil {
		c.settle.Stop()
		c.settle = nil
	}
}

func (c *Control) unlockAndNotify() {
	shadow := c.shadow
	listeners := append([]func(Shadow){}, c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(shadow)
	}
}
