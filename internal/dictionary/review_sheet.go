package dictionary

import (
	"fmt"
	"io"

	"github.com/lessonforge/lessonforge/internal/leitner"
)

// WriteReviewSheet emits the pipe-delimited study sheet that accompanies a
// generated course: one line per card with its morphology and both texts.
func WriteReviewSheet(w io.Writer, deck *leitner.Deck) error {
	for _, card := range deck.Cards() {
		if _, err := fmt.Fprintf(w, "%s|%s|%s|%s|%s\n",
			card.ID(), card.BoundPronoun, card.VerbStem, card.Challenge, card.Answer); err != nil {
			return fmt.Errorf("fmt.Fprintf > %w", err)
		}
	}
	return nil
}

// ReviewSheetMarkdown renders the same sheet as a markdown table for the
// printable companion document.
func ReviewSheetMarkdown(deck *leitner.Deck, title string) string {
	out := "# " + title + "\n\n"
	out += "| # | Challenge | Answer |\n|---|---|---|\n"
	for _, card := range deck.Cards() {
		out += fmt.Sprintf("| %s | %s | %s |\n", card.ID(), card.Challenge, card.Answer)
	}
	return out
}
