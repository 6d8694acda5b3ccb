package audio

import "strings"

const (
	SoundWhiteNoise = "white_noise"
	SoundHeartbeat  = "heartbeat"
	SoundRain       = "rain"
	SoundOcean      = "ocean"
	SoundShush      = "shush"
	SoundLullaby    = "lullaby"
	SoundFan        = "fan"
)

type Sound struct {
	ID       string `json:"id"`
	File     string `json:"file"`
	Loopable bool   `json:"loopable"`
}

var catalog = []Sound{
	{ID: SoundWhiteNoise, File: "white_noise.mp3", Loopable: true},
	{ID: SoundHeartbeat, File: "heartbeat.mp3", Loopable: true},
	{ID: SoundRain, File: "rain.mp3", Loopable: true},
	{ID: SoundOcean, File: "ocean.mp3", Loopable: true},
	{ID: SoundShush, File: "shush.mp3", Loopable: true},
	{ID: SoundLullaby, File: "lullaby.mp3", Loopable: false},
	{ID: SoundFan, File: "fan.mp3", Loopable: true},
}

func Catalog() []Sound {
	result := make([]Sound, len(catalog))
	copy(result, catalog)
	return result
}

func Lookup(soundID string) (Sound, bool) {
	normalized := strings.ToLower(strings.TrimSpace(soundID))
	for _, sound := range catalog {
		if sound.ID == normalized {
			return sound, true
		}
	}
	return Sound{}, false
}
