package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-audio/wav"
	"github.com/tcolgate/mp3"
)

// ErrUnsupportedFormat is returned when no decoder can read the file.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Metadata describes playback properties read from a file's headers.
// Duration is in seconds, Bitrate in bits per second.
type Metadata struct {
	Duration *float64
	Bitrate  *float64
}

// Prober reads audio metadata. WAV and MP3 are decoded natively; anything else
// is handed to ffprobe when a path is configured.
type Prober struct {
	ffprobePath string
}

// NewProber creates a Prober. An empty ffprobePath disables the fallback.
func NewProber(ffprobePath string) *Prober {
	return &Prober{ffprobePath: ffprobePath}
}

// Probe reads metadata for the named file from r. The extension of name selects the decoder.
func (p *Prober) Probe(ctx context.Context, name string, r io.ReadSeeker) (*Metadata, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav", ".wave":
		return probeWAV(r)
	case ".mp3":
		return probeMP3(r)
	default:
		return p.probeFFprobe(ctx, name, r)
	}
}

func probeWAV(r io.ReadSeeker) (*Metadata, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("invalid wav file: %w", ErrUnsupportedFormat)
	}

	duration, err := d.Duration()
	if err != nil {
		return nil, fmt.Errorf("failed to read wav duration: %w", err)
	}
	seconds := duration.Seconds()
	bitrate := float64(d.SampleRate) * float64(d.BitDepth) * float64(d.NumChans)
	return &Metadata{Duration: &seconds, Bitrate: &bitrate}, nil
}

func probeMP3(r io.Reader) (*Metadata, error) {
	d := mp3.NewDecoder(r)

	var (
		frame   mp3.Frame
		skipped int
		seconds float64
		size    int
	)
	for {
		if err := d.Decode(&frame, &skipped); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return nil, fmt.Errorf("failed to decode mp3 frame: %w", err)
		}
		seconds += frame.Duration().Seconds()
		size += frame.Size()
	}
	if seconds == 0 {
		return nil, fmt.Errorf("no mp3 frames found: %w", ErrUnsupportedFormat)
	}

	bitrate := float64(size) * 8 / seconds
	return &Metadata{Duration: &seconds, Bitrate: &bitrate}, nil
}

type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
		BitRate  string `json:"bit_rate"`
	} `json:"format"`
}

// probeFFprobe streams the file to ffprobe on stdin so that object stores work too.
func (p *Prober) probeFFprobe(ctx context.Context, name string, r io.Reader) (*Metadata, error) {
	if p.ffprobePath == "" {
		return nil, fmt.Errorf("%s: %w", filepath.Ext(name), ErrUnsupportedFormat)
	}

	args := []string{
		"-v", "error",
		"-show_entries", "format=duration,bit_rate",
		"-of", "json",
		"-i", "pipe:0",
	}
	cmd := exec.CommandContext(ctx, p.ffprobePath, args...)
	var out, stderr bytes.Buffer
	cmd.Stdin = r
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe execution failed for %s: %w\nFFprobe Error: %s", name, err, stderr.String())
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(out.Bytes(), &probe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ffprobe output for %s: %w", name, err)
	}

	meta := &Metadata{}
	if v, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
		meta.Duration = &v
	}
	if v, err := strconv.ParseFloat(probe.Format.BitRate, 64); err == nil {
		meta.Bitrate = &v
	}
	return meta, nil
}
