package media

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

const (
	transcriptionSampleRate = 16000
	transcriptionChannels   = 1
)

// VerifyTranscriptionWAV checks that an extracted audio file is the mono,
// 16 kHz WAV the transcription engine expects. Catches extraction going
// wrong before a large upload to the inference server.
func VerifyTranscriptionWAV(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return fmt.Errorf("extracted audio is not a valid WAV file")
	}

	if decoder.NumChans != transcriptionChannels {
		return fmt.Errorf("extracted audio has %d channels, want mono", decoder.NumChans)
	}
	if decoder.SampleRate != transcriptionSampleRate {
		return fmt.Errorf("extracted audio sample rate is %d Hz, want %d Hz", decoder.SampleRate, transcriptionSampleRate)
	}

	return nil
}
