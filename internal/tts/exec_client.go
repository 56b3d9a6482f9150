package tts

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/lessonforge/lessonforge/internal/audio"
)

// ExecClient synthesizes target-language speech by invoking an external
// synthesizer command, the way low-resource language models are usually
// shipped. The command is expected to accept a reference voice recording and
// write an MP3 to the requested path.
type ExecClient struct {
	commandPath string
	refVoiceDir string
	language    string
	alpha       float64
	cache       *Cache
}

// NewExecClient creates an exec-based synthesizer. alpha stretches speech
// duration; values above 1 slow the voice down for learners.
func NewExecClient(commandPath, refVoiceDir, language string, alpha float64, cache *Cache) *ExecClient {
	return &ExecClient{
		commandPath: commandPath,
		refVoiceDir: refVoiceDir,
		language:    language,
		alpha:       alpha,
		cache:       cache,
	}
}

// Synthesize implements Synthesizer, shelling out only on cache misses.
func (c *ExecClient) Synthesize(ctx context.Context, voice, text string) (audio.Clip, error) {
	text = NormalizeText(text)
	path := c.cache.Path(voice, text)

	if !c.cache.Has(voice, text) {
		if err := c.cache.EnsureDir(); err != nil {
			return audio.Clip{}, fmt.Errorf("cache.EnsureDir > %w", err)
		}

		args := []string{"--lang", c.language}
		if voice != "" {
			args = append(args, "--ref", filepath.Join(c.refVoiceDir, voice+".wav"))
		}
		if c.alpha > 0 {
			args = append(args, "--alpha", fmt.Sprintf("%.2f", c.alpha))
		}
		args = append(args, "--mp3", path, "--text", text)

		cmd := exec.CommandContext(ctx, c.commandPath, args...)
		if output, err := cmd.CombinedOutput(); err != nil {
			return audio.Clip{}, fmt.Errorf("%s > %w: %s", c.commandPath, err, string(output))
		}
	}

	duration, err := c.cache.Duration(ctx, path)
	if err != nil {
		return audio.Clip{}, fmt.Errorf("cache.Duration > %w", err)
	}
	return audio.Clip{Path: path, Voice: voice, Text: text, Duration: duration}, nil
}
