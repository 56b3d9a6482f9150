// Package artifact builds the optional video companion for a session: a
// title-card SVG filled from a template, a PNG rendered by inkscape, and a
// still-image MP4 muxed by ffmpeg with the lesson audio and subtitles.
package artifact

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Tags carries the metadata stamped into the title card and the MP4.
type Tags struct {
	Album  string
	Title  string
	Artist string
}

// TitleCard is the per-session data rendered onto the template.
type TitleCard struct {
	Tags        Tags
	EndNote     string
	NewCards    int
	ReviewCards int
}

// Builder shells out to inkscape and ffmpeg. Empty tool paths fall back to
// $PATH lookup.
type Builder struct {
	inkscapePath string
	ffmpegPath   string
	templatePath string
	outputDir    string
}

func NewBuilder(inkscapePath, ffmpegPath, templatePath, outputDir string) *Builder {
	if inkscapePath == "" {
		inkscapePath = "inkscape"
	}
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Builder{
		inkscapePath: inkscapePath,
		ffmpegPath:   ffmpegPath,
		templatePath: templatePath,
		outputDir:    outputDir,
	}
}

// FillTemplate replaces the template placeholders with the card's values.
// Long titles split on "]" across the two title lines, matching how the
// curriculum names chapters.
func FillTemplate(template string, card TitleCard) string {
	out := strings.ReplaceAll(template, "_album_", card.Tags.Album)

	title := card.Tags.Title
	if i := strings.Index(title, "]"); i >= 0 {
		out = strings.ReplaceAll(out, "_title1_", strings.TrimSpace(title[:i+1]))
		out = strings.ReplaceAll(out, "_title2_", strings.TrimSpace(title[i+1:]))
	} else {
		out = strings.ReplaceAll(out, "_title1_", title)
		out = strings.ReplaceAll(out, "_title2_", " ")
	}
	out = strings.ReplaceAll(out, "_artist_", card.Tags.Artist)

	endNote := card.EndNote
	if endNote == "" {
		endNote = " "
	}
	out = strings.ReplaceAll(out, "_end_note_", endNote)

	out = strings.ReplaceAll(out, "_new_", strconv.Itoa(card.NewCards))
	out = strings.ReplaceAll(out, "_old_", strconv.Itoa(card.ReviewCards))
	return out
}

// RenderTitlePNG writes the filled SVG and converts it with inkscape,
// returning the PNG path.
func (b *Builder) RenderTitlePNG(ctx context.Context, dataset string, sessionNumber int, card TitleCard) (string, error) {
	template, err := os.ReadFile(b.templatePath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", b.templatePath, err)
	}
	if err := os.MkdirAll(b.outputDir, 0755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", b.outputDir, err)
	}

	base := fmt.Sprintf("%s-%04d", dataset, sessionNumber)
	svgPath := filepath.Join(b.outputDir, base+".svg")
	if err := os.WriteFile(svgPath, []byte(FillTemplate(string(template), card)), 0644); err != nil {
		return "", fmt.Errorf("os.WriteFile(%s) > %w", svgPath, err)
	}

	pngPath := filepath.Join(b.outputDir, base+".png")
	cmd := exec.CommandContext(ctx, b.inkscapePath,
		"-o", pngPath,
		"-C",
		"--export-background=white",
		"--export-background-opacity=1.0",
		"--export-png-color-mode=RGB_16",
		"--export-area-page",
		svgPath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("inkscape export > %w: %s", err, string(output))
	}
	return pngPath, nil
}

// BuildMP4 muxes the still title card, the session audio, and the subtitles
// into a faststart MP4.
func (b *Builder) BuildMP4(ctx context.Context, dataset string, sessionNumber int, tags Tags, pngPath, mp3Path, srtPath string) (string, error) {
	mp4Path := filepath.Join(b.outputDir, fmt.Sprintf("%s-%04d.mp4", dataset, sessionNumber))

	title := tags.Title
	if tags.Album != "" {
		title = title + " (" + tags.Album + ")"
	}

	cmd := exec.CommandContext(ctx, b.ffmpegPath,
		"-nostdin",
		"-y",
		"-r", "1",
		"-loop", "1",
		"-i", pngPath,
		"-i", mp3Path,
		"-i", srtPath,
		"-c:s", "mov_text",
		"-q:a", "3",
		"-pix_fmt", "yuv420p",
		"-shortest",
		"-r", "1",
		"-tune", "stillimage",
		"-metadata", "title="+title,
		"-metadata", "album="+tags.Album,
		"-metadata", "artist="+tags.Artist,
		"-movflags", "+faststart",
		mp4Path,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("ffmpeg mp4 mux > %w: %s", err, string(output))
	}
	return mp4Path, nil
}
