//go:build nosound

package audio

import "kibitz/replay"

// Player discards cues in builds without sound support.
type Player struct{}

var _ replay.CuePlayer = (*Player)(nil)

func NewPlayer(volume float64) *Player { return &Player{} }

func (p *Player) Play(c replay.Cue) {}
