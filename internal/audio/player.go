package audio

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"lingovibe/backend/internal/logger"
)

// ErrBusy is returned when a playback is already in progress.
var ErrBusy = errors.New("audio: playback in progress")

// Synthesizer produces L16 speech for text; nil means no audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Output plays decoded samples and returns once playback has finished.
type Output interface {
	Play(ctx context.Context, format Format, samples []float32) error
}

// Player speaks one text at a time.
type Player struct {
	synth    Synthesizer
	out      Output
	busy     atomic.Bool
	onChange func(playing bool)
}

// NewPlayer creates a player. onChange, if set, observes the playing flag.
func NewPlayer(synth Synthesizer, out Output, onChange func(playing bool)) *Player {
	if onChange == nil {
		onChange = func(bool) {}
	}
	return &Player{synth: synth, out: out, onChange: onChange}
}

// Playing reports whether a playback is in progress.
func (p *Player) Playing() bool {
	return p.busy.Load()
}

// Play synthesizes text and plays it to completion. Calls made while busy
// return ErrBusy without reaching the synthesizer. Absent audio completes
// silently.
func (p *Player) Play(ctx context.Context, text string) error {
	if !p.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	p.onChange(true)
	defer func() {
		p.busy.Store(false)
		p.onChange(false)
	}()

	pcm, err := p.synth.Synthesize(ctx, text)
	if err != nil {
		logger.Warn("speech synthesis failed", "module", "audio", "action", "play", "resource", "speech", "result", "failed", "error", err)
		return fmt.Errorf("synthesize: %w", err)
	}
	if len(pcm) < 2 {
		logger.Debug("speech empty", "module", "audio", "action", "play", "resource", "speech", "result", "ok")
		return nil
	}

	// Once sound starts it runs to the end; only synthesis follows the caller.
	start := time.Now()
	if err := p.out.Play(context.WithoutCancel(ctx), SpeechFormat, DecodeL16(pcm)); err != nil {
		logger.Warn("speech playback failed", "module", "audio", "action", "play", "resource", "speech", "result", "failed", "error", err)
		return fmt.Errorf("play: %w", err)
	}
	logger.Info("speech played", "module", "audio", "action", "play", "resource", "speech", "result", "ok",
		"audio_ms", SpeechFormat.Duration(int64(len(pcm))).Milliseconds(), "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}
