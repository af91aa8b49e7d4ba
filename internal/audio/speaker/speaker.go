// Package speaker plays audio through the host sound device.
package speaker

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"lingovibe/backend/internal/audio"
	"lingovibe/backend/internal/logger"
)

const pollInterval = 20 * time.Millisecond

// Output is an audio.Output backed by oto. The device is opened on first
// use; oto allows a single context per process.
type Output struct {
	format audio.Format

	once sync.Once
	ctx  *oto.Context
	err  error
}

// New returns an output for format.
func New(format audio.Format) *Output {
	return &Output{format: format}
}

func (o *Output) open() error {
	o.once.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   o.format.SampleRate(),
			ChannelCount: o.format.Channels(),
			Format:       oto.FormatFloat32LE,
		})
		if err != nil {
			o.err = fmt.Errorf("open audio device: %w", err)
			logger.Error("audio device open failed", "module", "audio", "action", "open", "resource", "speaker", "result", "failed", "error", err)
			return
		}
		<-ready
		o.ctx = ctx
		logger.Info("audio device opened", "module", "audio", "action", "open", "resource", "speaker", "result", "ok", "sample_rate", o.format.SampleRate())
	})
	return o.err
}

// Play blocks until samples have been played or ctx is done.
func (o *Output) Play(ctx context.Context, format audio.Format, samples []float32) error {
	if format != o.format {
		return fmt.Errorf("speaker: format %s, device is %s", format, o.format)
	}
	if err := o.open(); err != nil {
		return err
	}

	player := o.ctx.NewPlayer(bytes.NewReader(audio.EncodeFloat32LE(samples)))
	defer player.Close()
	player.Play()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return player.Err()
}
