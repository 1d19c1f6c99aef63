package main

import (
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	/// Sample rate of the tone, and the tone frequency. The period is a
	/// whole number of samples so queued buffers join without clicks.
	///
	SampleRate = 44100
	ToneHz     = 441

	/// Volume of the square wave, signed 8-bit.
	///
	Amplitude = 24
)

var (
	/// Audio device the tone is queued to, 0 if none could be opened.
	///
	Audio sdl.AudioDeviceID

	/// Tone holds a whole number of square wave periods.
	///
	Tone []byte
)

/// Initialize an audio device for the CHIP-8 virtual machine. A machine
/// without audio still runs, silently.
///
func InitAudio() {
	spec := &sdl.AudioSpec{
		Freq:     SampleRate,
		Format:   sdl.AUDIO_S8,
		Channels: 1,
		Samples:  512,
	}

	dev, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		Logger.Warn("No audio device, sound disabled", log.Err(err))
		return
	}

	Audio = dev
	Tone = squareWave(SampleRate/ToneHz, 8)

	// start playing, nothing is queued yet
	sdl.PauseAudioDevice(Audio, false)
}

/// CloseAudio releases the audio device.
///
func CloseAudio() {
	if Audio != 0 {
		sdl.CloseAudioDevice(Audio)
	}
}

/// UpdateAudio keeps the tone queued while the sound timer runs.
///
func UpdateAudio(stop bool) {
	if Audio == 0 {
		return
	}

	if stop || !VM.Tone() || Clock.Paused {
		sdl.ClearQueuedAudio(Audio)
		return
	}

	// keep about two buffers ahead of the device
	if sdl.GetQueuedAudioSize(Audio) < uint32(2*len(Tone)) {
		if err := sdl.QueueAudio(Audio, Tone); err != nil {
			Logger.Warn("Queueing audio failed", log.Err(err))
		}
	}
}

/// squareWave returns count periods of a square wave, each period
/// samples long.
///
func squareWave(period, count int) []byte {
	buf := make([]byte, 0, period*count)

	for i := 0; i < period*count; i++ {
		v := int8(Amplitude)
		if i%period >= period/2 {
			v = -Amplitude
		}

		buf = append(buf, byte(v))
	}

	return buf
}
