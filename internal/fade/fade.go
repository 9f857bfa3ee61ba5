// Package fade produces one frame of duty values per flush cycle by stepping
// each channel.
package fade

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/coreman2200/ledpwm5947/pwm"
	"github.com/coreman2200/ledpwm5947/tlc5947"
)

// Mode selects how a channel moves.
type Mode string

const (
	// Breathe steps up to max, then back down to min, and so on.
	Breathe Mode = "breathe"
	// Ramp counts up to max and starts again from min.
	Ramp Mode = "ramp"
)

// Frame is one duty per channel, indexed by Channel.Index.
type Frame [tlc5947.NumChannels]pwm.Duty

// Writer takes a frame one channel at a time; *tlc5947.Device is a Writer.
type Writer interface {
	Write(ch tlc5947.Channel, v pwm.Duty)
}

// WriteTo stores every channel of f into w.
func (f Frame) WriteTo(w Writer) {
	for _, ch := range tlc5947.Channels() {
		w.Write(ch, f[ch.Index()])
	}
}

type Options struct {
	Mode Mode
	Step pwm.Step
	// Channels to animate. Empty means all of them; the rest stay off.
	Channels []tlc5947.Channel
	// Spread staggers the starting value across the animated channels.
	Spread bool
}

type track interface {
	next() (d pwm.Duty, wrapped bool)
}

// Fader holds one track per animated channel.
type Fader struct {
	log    zerolog.Logger
	frame  Frame
	chans  []tlc5947.Channel
	tracks []track
	ticks  uint64
}

func New(opts Options, log zerolog.Logger) (*Fader, error) {
	if opts.Step.Amount() == 0 {
		return nil, fmt.Errorf("fade: step must not be zero")
	}
	chans := opts.Channels
	if len(chans) == 0 {
		all := tlc5947.Channels()
		chans = all[:]
	}

	f := &Fader{log: log, chans: chans}
	for i := range chans {
		start := pwm.MinDuty()
		if opts.Spread {
			start = pwm.NewDuty(i * pwm.Mask / len(chans))
		}
		switch opts.Mode {
		case Breathe, "":
			f.tracks = append(f.tracks, &breathe{duty: start, step: opts.Step})
		case Ramp:
			f.tracks = append(f.tracks, newRamp(start, opts.Step))
		default:
			return nil, fmt.Errorf("fade: unknown mode %q", opts.Mode)
		}
		f.frame[chans[i].Index()] = start
	}
	return f, nil
}

// Frame returns the frame produced by the last Next, or the starting frame.
func (f *Fader) Frame() Frame { return f.frame }

// Next advances every track by one step.
func (f *Fader) Next() Frame {
	f.ticks++
	for i, t := range f.tracks {
		d, wrapped := t.next()
		ch := f.chans[i]
		f.frame[ch.Index()] = d
		if wrapped {
			f.log.Debug().
				Stringer("channel", ch).
				Stringer("duty", d).
				Uint64("tick", f.ticks).
				Msg("fade turned")
		}
	}
	return f.frame
}

// breathe bounces off both ends. A step that would leave the range
// lands on the limit and comes back reversed.
type breathe struct {
	duty pwm.Duty
	step pwm.Step
}

func (b *breathe) next() (pwm.Duty, bool) {
	d, err := b.duty.Add(b.step)
	wrapped := false
	switch {
	case errors.Is(err, pwm.Overflow):
		d, b.step, wrapped = pwm.MaxDuty(), b.step.Reverse(), true
	case errors.Is(err, pwm.Underflow):
		d, b.step, wrapped = pwm.MinDuty(), b.step.Reverse(), true
	}
	b.duty = d
	return d, wrapped
}

// ramp pulls from a duty sequence, starting a new one from min when it runs
// out.
type ramp struct {
	seq    *pwm.Sequence
	stride int
}

func newRamp(start pwm.Duty, s pwm.Step) *ramp {
	stride := s.Amount()
	if stride < 0 {
		stride = -stride
	}
	return &ramp{seq: start.Sequence().StepBy(stride), stride: stride}
}

func (r *ramp) next() (pwm.Duty, bool) {
	if d, ok := r.seq.Next(); ok {
		return d, false
	}
	r.seq = pwm.MinDuty().Sequence().StepBy(r.stride)
	return pwm.MinDuty(), true
}
