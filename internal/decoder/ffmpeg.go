package decoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/RMahshie/pitchscope/internal/audio"
)

// Decoder turns compressed audio bytes into PCM
type Decoder interface {
	Decode(ctx context.Context, raw []byte) (*audio.PCMBuffer, error)
}

// Options configures an FFmpegDecoder
type Options struct {
	FFmpegPath string
	SampleRate int
	Channels   int
	MinBytes   int
	Timeout    time.Duration
}

// FFmpegDecoder runs one ffmpeg process per call, piping the upload through stdin/stdout
type FFmpegDecoder struct {
	ffmpegPath string
	sampleRate int
	channels   int
	minBytes   int
	timeout    time.Duration
}

// NewFFmpegDecoder creates a decoder that normalizes audio to 16-bit PCM WAV
func NewFFmpegDecoder(opts Options) *FFmpegDecoder {
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = 44100
	}
	if opts.Channels <= 0 {
		opts.Channels = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &FFmpegDecoder{
		ffmpegPath: opts.FFmpegPath,
		sampleRate: opts.SampleRate,
		channels:   opts.Channels,
		minBytes:   opts.MinBytes,
		timeout:    opts.Timeout,
	}
}

// Decode transcodes raw to canonical PCM. Uploads below the minimum size never reach ffmpeg.
func (d *FFmpegDecoder) Decode(ctx context.Context, raw []byte) (*audio.PCMBuffer, error) {
	logger := zerolog.Ctx(ctx)

	if len(raw) < d.minBytes {
		return nil, &SizeError{Size: len(raw), Min: d.minBytes}
	}

	args := d.args()
	out, stderr, err := d.run(ctx, args, raw)
	if err != nil {
		logger.Warn().Err(err).Str("stderr", stderr).Msg("ffmpeg failed")
		return nil, err
	}
	if stderr != "" {
		logger.Debug().Str("stderr", stderr).Msg("ffmpeg diagnostics")
	}

	buf, err := ParseWAV(out)
	if err != nil {
		return nil, &TranscodeError{Args: args, Stderr: stderr, Err: err}
	}
	if buf.Frames() == 0 {
		return nil, &TranscodeError{Args: args, Stderr: stderr, Err: errors.New("no audio samples decoded")}
	}

	logger.Debug().
		Int("frames", buf.Frames()).
		Int("channels", buf.Channels).
		Int("sample_rate", buf.SampleRate).
		Msg("Decoded audio")

	return buf, nil
}

func (d *FFmpegDecoder) args() []string {
	return []string{
		"-hide_banner",
		"-loglevel", "warning",
		"-i", "pipe:0",
		"-vn",
		"-map_metadata", "-1",
		"-f", "wav",
		"-acodec", "pcm_s16le",
		"-ac", strconv.Itoa(d.channels),
		"-ar", strconv.Itoa(d.sampleRate),
		"pipe:1",
	}
}

func (d *FFmpegDecoder) run(ctx context.Context, args []string, input []byte) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	// #nosec G204 - ffmpegPath comes from configuration, not user input
	cmd := exec.CommandContext(ctx, d.ffmpegPath, args...)
	cmd.Stdin = bytes.NewReader(input)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), stderr.String(), nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, stderr.String(), fmt.Errorf("%w: no result after %s", ErrTranscoderUnavailable, d.timeout)
	}
	if ctx.Err() != nil {
		return nil, stderr.String(), fmt.Errorf("%w: %w", ErrTranscoderUnavailable, ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// killed by a signal rather than exiting on its own
		if exitErr.ExitCode() == -1 {
			return nil, stderr.String(), fmt.Errorf("%w: %w", ErrTranscoderUnavailable, err)
		}
		return nil, stderr.String(), &TranscodeError{Args: args, Stderr: stderr.String(), Err: err}
	}

	return nil, stderr.String(), fmt.Errorf("%w: %w", ErrTranscoderUnavailable, err)
}
