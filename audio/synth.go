// Package audio plays the move and check cues. Playback is best effort: a
// missing or broken sound device silently disables it.
package audio

import (
	"math"
	"time"

	"kibitz/replay"
)

const sampleRate = 44100

// Synthesize renders cue c as signed 16-bit little-endian mono PCM.
func Synthesize(c replay.Cue, volume float64) []byte {
	switch c {
	case replay.CueMove:
		return render(80*time.Millisecond, volume, moveSample)
	case replay.CueCheck:
		return render(260*time.Millisecond, volume, checkSample)
	default:
		return nil
	}
}

// moveSample is a short wooden knock: a low sine with a fast exponential decay.
func moveSample(t, dur float64) float64 {
	env := math.Exp(-40 * t)
	return env * (0.7*math.Sin(2*math.Pi*330*t) + 0.3*math.Sin(2*math.Pi*990*t))
}

// checkSample is two rising tones.
func checkSample(t, dur float64) float64 {
	freq := 660.0
	if t > dur/2 {
		freq = 880
	}
	local := math.Mod(t, dur/2)
	env := math.Exp(-6*local) * math.Min(1, local*200)
	return env * math.Sin(2*math.Pi*freq*t)
}

func render(d time.Duration, volume float64, sample func(t, dur float64) float64) []byte {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	n := int(float64(sampleRate) * d.Seconds())
	buf := make([]byte, n*2)
	dur := d.Seconds()
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		s := sample(t, dur) * volume
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int16(s * 32767)
		buf[2*i] = byte(v)
		buf[2*i+1] = byte(v >> 8)
	}
	return buf
}
