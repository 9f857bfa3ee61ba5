package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/ledpwm5947/internal/config"
	"github.com/coreman2200/ledpwm5947/internal/fade"
	"github.com/coreman2200/ledpwm5947/internal/line"
	"github.com/coreman2200/ledpwm5947/internal/preview"
	"github.com/coreman2200/ledpwm5947/internal/sim"
	"github.com/coreman2200/ledpwm5947/internal/ws"
	"github.com/coreman2200/ledpwm5947/tlc5947"
)

// openBackend resolves the four lines named by cfg.
func openBackend(cfg *config.Config) (*line.Lines, error) {
	switch cfg.Backend {
	case config.BackendSim:
		latch, data, oe, clock := sim.New().Lines()
		return &line.Lines{Latch: latch, Data: data, OE: oe, Clock: clock}, nil
	case config.BackendPeriph:
		p := cfg.Pins
		return line.Periph(line.Names{Latch: p.Latch, Data: p.Data, OE: p.OE, Clock: p.Clock})
	case config.BackendCdev:
		o := cfg.Cdev.Offsets
		return line.Cdev(cfg.Cdev.Chip, line.Offsets{Latch: o.Latch, Data: o.Data, OE: o.OE, Clock: o.Clock})
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// runner drives one device from a fader, one frame per tick.
type runner struct {
	dev    *tlc5947.Device
	fader  *fade.Fader
	mirror *preview.Mirror
	hub    *ws.Hub // nil when not serving
	log    zerolog.Logger

	// broken is set by a failed flush; the next tick re-issues Begin.
	broken bool
}

func (r *runner) tick() error {
	if r.broken {
		if err := r.dev.Begin(); err != nil {
			r.pinEvent(r.log.Warn(), err).Msg("begin failed")
			return err
		}
		r.broken = false
		r.log.Info().Msg("device reset")
	}

	frame := r.fader.Next()
	frame.WriteTo(r.dev)
	if err := r.dev.Flush(); err != nil {
		r.broken = true
		r.pinEvent(r.log.Warn(), err).Msg("flush failed")
		return err
	}

	if err := r.mirror.Show(frame); err != nil {
		r.log.Debug().Err(err).Msg("mirror")
	}
	if r.hub != nil {
		r.hub.Broadcast(frame)
	}
	return nil
}

func (r *runner) pinEvent(e *zerolog.Event, err error) *zerolog.Event {
	var pe *tlc5947.PinError
	if errors.As(err, &pe) {
		e = e.Stringer("pin", pe.Which)
	}
	return e.Err(err)
}

// loop ticks every interval until ctx is done. Errors are logged by tick.
func (r *runner) loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = r.tick()
		case <-ctx.Done():
			return
		}
	}
}

// shutdown blanks the board and halts every mirror.
func (r *runner) shutdown() error {
	return errors.Join(r.dev.AllBlack(), r.mirror.Halt())
}
