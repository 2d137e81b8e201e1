package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWAV(t *testing.T, path string, sampleRate, channels int) {
	t.Helper()

	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	encoder := wav.NewEncoder(file, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, 160*channels),
		SourceBitDepth: 16,
	}
	require.NoError(t, encoder.Write(buf))
	require.NoError(t, encoder.Close())
}

func TestVerifyTranscriptionWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.wav")
	writeWAV(t, path, 16000, 1)

	assert.NoError(t, VerifyTranscriptionWAV(path))
}

func TestVerifyTranscriptionWAVWrongSampleRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.wav")
	writeWAV(t, path, 44100, 1)

	err := VerifyTranscriptionWAV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample rate")
}

func TestVerifyTranscriptionWAVStereo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.wav")
	writeWAV(t, path, 16000, 2)

	err := VerifyTranscriptionWAV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channels")
}

func TestVerifyTranscriptionWAVNotWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wav file"), 0644))

	assert.Error(t, VerifyTranscriptionWAV(path))
}

func TestEscapeFilterPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/tmp/subs.srt", "/tmp/subs.srt"},
		{`C:\videos\subs.srt`, `C\:\\videos\\subs.srt`},
		{"/tmp/job:1/subs.srt", `/tmp/job\:1/subs.srt`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeFilterPath(tt.in))
	}
}
