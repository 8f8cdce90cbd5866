package ui

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// SoundType represents different sound effects.
type SoundType int

const (
	SoundMove SoundType = iota
	SoundCapture
	SoundCheck
	SoundCastle
	SoundPromote
	SoundInvalid
	SoundGameEnd
)

const sampleRate = 44100

// AudioManager plays procedurally generated sound effects.
type AudioManager struct {
	context *audio.Context
	sounds  map[SoundType][]byte
	enabled bool
	volume  float64
}

// NewAudioManager creates a new audio manager.
func NewAudioManager(enabled bool) *AudioManager {
	am := &AudioManager{
		context: audio.NewContext(sampleRate),
		enabled: enabled,
		volume:  0.5,
	}
	am.sounds = map[SoundType][]byte{
		SoundMove:    click(440, 0.08, 0.3),
		SoundCapture: click(330, 0.12, 0.5),
		SoundCheck:   tone(0.15, 0.4, 880),
		SoundCastle:  concat(click(400, 0.06, 0.3), silence(0.05), click(440, 0.06, 0.24)),
		SoundPromote: concat(tone(0.08, 0.3, 523.25), tone(0.12, 0.3, 783.99)),
		SoundInvalid: synth(0.1, 0.15, func(t, progress float64) float64 {
			return (math.Sin(2*math.Pi*150*t) + 0.3*math.Sin(4*math.Pi*150*t)) * (1 - progress)
		}),
		// C major chord
		SoundGameEnd: tone(0.4, 0.5, 261.63, 329.63, 392.00),
	}
	return am
}

// synth renders duration seconds of 16-bit stereo PCM. wave returns a
// sample in [-1, 1] for time t and progress in [0, 1).
func synth(duration, amplitude float64, wave func(t, progress float64) float64) []byte {
	samples := int(sampleRate * duration)
	data := make([]byte, samples*4)
	for i := 0; i < samples; i++ {
		t := float64(i) / sampleRate
		v := int16(wave(t, t/duration) * amplitude * 32767)
		data[i*4] = byte(v)
		data[i*4+1] = byte(v >> 8)
		data[i*4+2] = byte(v)
		data[i*4+3] = byte(v >> 8)
	}
	return data
}

// click is a percussive, exponentially decaying knock.
func click(freq, duration, amplitude float64) []byte {
	n := 0
	return synth(duration, amplitude, func(t, _ float64) float64 {
		n++
		noise := (math.Sin(float64(n)*0.3) + math.Sin(float64(n)*0.7)) * 0.3
		return (math.Sin(2*math.Pi*freq*t) + noise) * math.Exp(-t*30)
	})
}

// tone mixes sine waves of the given frequencies with a short attack and
// a linear release.
func tone(duration, amplitude float64, freqs ...float64) []byte {
	return synth(duration, amplitude, func(t, progress float64) float64 {
		env := 1 - (progress-0.1)/0.9
		if progress < 0.1 {
			env = progress / 0.1
		}
		var s float64
		for _, f := range freqs {
			s += math.Sin(2 * math.Pi * f * t)
		}
		return s / float64(len(freqs)) * env
	})
}

func silence(duration float64) []byte {
	return make([]byte, int(sampleRate*duration)*4)
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Play plays a sound effect.
func (am *AudioManager) Play(sound SoundType) {
	if !am.enabled {
		return
	}
	data, ok := am.sounds[sound]
	if !ok {
		return
	}
	// Create a new player for each play (allows overlapping sounds)
	player := am.context.NewPlayerFromBytes(data)
	player.SetVolume(am.volume)
	player.Play()
}

// SetEnabled enables or disables audio.
func (am *AudioManager) SetEnabled(enabled bool) {
	am.enabled = enabled
}

// IsEnabled returns whether audio is enabled.
func (am *AudioManager) IsEnabled() bool {
	return am.enabled
}
