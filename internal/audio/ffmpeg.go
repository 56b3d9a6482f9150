package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const lessonSampleRate = 48000

// FFmpeg renders tracks and probes durations by shelling out to ffmpeg and
// ffprobe. Silence spans are materialized as cached files in tempDir, keyed
// by millisecond length, so repeated spans cost one generation each.
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	tempDir     string
}

// NewFFmpeg creates a renderer using the given temp directory for silence
// files and concat lists. Empty tool paths fall back to $PATH lookup.
func NewFFmpeg(ffmpegPath, ffprobePath, tempDir string) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpeg{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath, tempDir: tempDir}
}

// Export renders the track into a single MP3 using the concat demuxer.
func (f *FFmpeg) Export(ctx context.Context, track *Track, outputPath string) error {
	if err := os.MkdirAll(f.tempDir, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", f.tempDir, err)
	}

	var list strings.Builder
	for _, segment := range track.Segments() {
		path := ""
		switch {
		case segment.Clip != nil:
			path = segment.Clip.Path
		case segment.Silence > 0:
			silencePath, err := f.silenceFile(ctx, segment.Silence)
			if err != nil {
				return fmt.Errorf("silenceFile > %w", err)
			}
			path = silencePath
		default:
			continue
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("filepath.Abs(%s) > %w", path, err)
		}
		list.WriteString("file '" + strings.ReplaceAll(absPath, "'", `'\''`) + "'\n")
	}

	listFile := filepath.Join(f.tempDir, "concat-"+filepath.Base(outputPath)+".txt")
	if err := os.WriteFile(listFile, []byte(list.String()), 0644); err != nil {
		return fmt.Errorf("os.WriteFile(%s) > %w", listFile, err)
	}
	defer func() {
		_ = os.Remove(listFile)
	}()

	cmd := exec.CommandContext(ctx, f.ffmpegPath,
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-ar", strconv.Itoa(lessonSampleRate),
		"-ac", "1",
		"-codec:a", "libmp3lame",
		"-q:a", "3",
		outputPath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg concat export > %w: %s", err, string(output))
	}
	return nil
}

// silenceFile returns a cached silence MP3 of the given length, generating
// it on first use.
func (f *FFmpeg) silenceFile(ctx context.Context, secs float64) (string, error) {
	ms := int(secs * 1000)
	path := filepath.Join(f.tempDir, fmt.Sprintf("silence-%06d.mp3", ms))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	cmd := exec.CommandContext(ctx, f.ffmpegPath,
		"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("anullsrc=r=%d:cl=mono", lessonSampleRate),
		"-t", fmt.Sprintf("%.3f", secs),
		"-codec:a", "libmp3lame",
		"-q:a", "3",
		path,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("ffmpeg silence generation > %w: %s", err, string(output))
	}
	return path, nil
}

// Probe returns the duration of an audio file in seconds via ffprobe.
func (f *FFmpeg) Probe(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, f.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s > %w", path, err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("strconv.ParseFloat(%q) > %w", strings.TrimSpace(string(output)), err)
	}
	return duration, nil
}
