//go:build !nosound

package audio

import (
	"bytes"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
	"go.uber.org/zap"

	"kibitz/obslog"
	"kibitz/replay"
)

var (
	ctx     *oto.Context
	ctxOnce sync.Once
	ctxErr  error
)

func initContext() {
	var ready chan struct{}
	ctx, ready, ctxErr = oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if ctxErr != nil {
		// ctx stays nil and the gate reports the error
		return
	}
	<-ready
}

func openContext() error {
	ctxOnce.Do(initContext)
	return ctxErr
}

// Player plays cues through the system audio device.
type Player struct {
	device  *gate
	volume  float64
	mu      sync.Mutex
	players map[replay.Cue]*oto.Player
}

var _ replay.CuePlayer = (*Player)(nil)

// NewPlayer prepares a player and starts opening the audio device in the
// background.
func NewPlayer(volume float64) *Player {
	return &Player{
		device:  newGate(openContext),
		volume:  volume,
		players: make(map[replay.Cue]*oto.Player),
	}
}

// Play restarts cue c from the beginning. Cues are dropped until the device
// is open.
func (p *Player) Play(c replay.Cue) {
	if ok, err := p.device.available(); !ok {
		obslog.L().Debug("audio unavailable", zap.Int("cue", int(c)), zap.Error(err))
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	pl, ok := p.players[c]
	if !ok {
		pcm := Synthesize(c, p.volume)
		if pcm == nil {
			return
		}
		pl = ctx.NewPlayer(bytes.NewReader(pcm))
		p.players[c] = pl
	}
	pl.Pause()
	if _, err := pl.Seek(0, io.SeekStart); err != nil {
		obslog.L().Debug("audio rewind failed", zap.Error(err))
		return
	}
	pl.Play()
}
