package audio

import (
	"math"

	"github.com/1siamBot/ecsim/components"
	"github.com/1siamBot/ecsim/ecs"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

// SoundID identifies a sound effect.
type SoundID string

const (
	SndAttack    SoundID = "attack"
	SndExplosion SoundID = "explosion"
	SndSelect    SoundID = "select"
	SndMove      SoundID = "move"
	SndBuild     SoundID = "build"
	SndClick     SoundID = "click"
)

const sampleRate = 44100

// AudioManager handles music and sound effects, backed by an
// ebiten/v2/audio.Context for actual playback once clips are loaded.
type AudioManager struct {
	ctx *audio.Context

	MasterVolume float64
	MusicVolume  float64
	SFXVolume    float64
	MusicPlaying bool
	CameraX      float64
	CameraY      float64

	clips  map[SoundID][]byte
	music  *audio.Player
}

func NewAudioManager() *AudioManager {
	return &AudioManager{
		ctx:          audio.NewContext(sampleRate),
		MasterVolume: 1.0,
		MusicVolume:  0.5,
		SFXVolume:    0.8,
		clips:        make(map[SoundID][]byte),
	}
}

// LoadClip registers raw PCM bytes (already decoded to the context's sample
// rate) for a sound ID. Without a loaded clip, PlaySFX is a silent no-op.
func (am *AudioManager) LoadClip(id SoundID, pcm []byte) {
	am.clips[id] = pcm
}

// SetCameraPos updates the listener position for positional audio.
func (am *AudioManager) SetCameraPos(x, y float64) {
	am.CameraX = x
	am.CameraY = y
}

// PlaySFX plays a sound effect at a world position, attenuated by distance
// from the current camera/listener position.
func (am *AudioManager) PlaySFX(id SoundID, worldX, worldY float64) {
	vol := am.calcVolume(worldX, worldY)
	if vol <= 0 {
		return
	}
	pcm, ok := am.clips[id]
	if !ok {
		return
	}
	p := am.ctx.NewPlayerFromBytes(pcm)
	p.SetVolume(vol)
	p.Play()
}

// PlayMusic starts background music from raw PCM bytes, replacing any
// current track. The track plays once; it is not looped.
func (am *AudioManager) PlayMusic(pcm []byte) {
	if am.music != nil {
		am.music.Close()
	}
	am.music = am.ctx.NewPlayerFromBytes(pcm)
	am.music.SetVolume(am.MusicVolume * am.MasterVolume)
	am.music.Play()
	am.MusicPlaying = true
}

// StopMusic stops background music.
func (am *AudioManager) StopMusic() {
	if am.music != nil {
		am.music.Pause()
	}
	am.MusicPlaying = false
}

func (am *AudioManager) calcVolume(wx, wy float64) float64 {
	dx := wx - am.CameraX
	dy := wy - am.CameraY
	dist := math.Sqrt(dx*dx + dy*dy)
	maxDist := 30.0
	if dist >= maxDist {
		return 0
	}
	return (1.0 - dist/maxDist) * am.SFXVolume * am.MasterVolume
}

// SetVolume sets master volume (0-1).
func (am *AudioManager) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	am.MasterVolume = v
}

// Wire subscribes am to the domain event bus so unit-attack and
// projectile-hit events trigger positional sound effects without the calling
// system needing to know about audio. Unit-destroyed events are not handled.
func (am *AudioManager) Wire(bus *ecs.EventBus, types *components.Types) {
	bus.On(components.EvtUnitAttack, func(payload any) {
		evt, ok := payload.(components.TickEvent)
		if !ok || evt.Entity == nil {
			return
		}
		if pos, ok := ecs.GetComponent(evt.Entity, types.Position); ok {
			am.PlaySFX(SndAttack, pos.X, pos.Y)
		}
	})
	bus.On(components.EvtProjectileHit, func(payload any) {
		evt, ok := payload.(components.TickEvent)
		if !ok || evt.Entity == nil {
			return
		}
		if pos, ok := ecs.GetComponent(evt.Entity, types.Position); ok {
			am.PlaySFX(SndExplosion, pos.X, pos.Y)
		}
	})
}
