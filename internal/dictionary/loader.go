// Package dictionary loads the pipe-delimited vocabulary source files and
// builds the main deck. One record per line; `#`-prefixed lines and blank
// lines are skipped. Records with a malformed field count or fully duplicated
// content stop the run so bad source data cannot silently corrupt the card
// population.
package dictionary

import (
	"bufio"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/lessonforge/lessonforge/internal/leitner"
)

// Field positions within one pipe-delimited record.
const (
	ixFlags = iota
	ixChapter
	ixAltPronounce
	ixPronoun
	ixVerb
	ixGender
	ixSyllabary
	ixPronounce
	ixEnglish
	ixIntroNote
	ixEndNote

	minFields = ixEnglish + 1
	maxFields = ixEndNote + 1
)

// Load reads a vocabulary source file into a fresh main deck. The RNG is
// forwarded to the deck for tie-break shuffling later in the pipeline.
func Load(path string, rng *rand.Rand) (*leitner.Deck, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	deck := leitner.NewDeck("main", rng)
	cardsByChallenge := map[string]*leitner.Card{}
	endNotesSeen := map[string]bool{}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	nextID := 0
	for scanner.Scan() {
		lineNo++
		if lineNo == 1 {
			// Header line.
			continue
		}
		line := strings.TrimSpace(norm.NFC.String(scanner.Text()))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "|")
		if len(fields) < minFields || len(fields) > maxFields {
			return nil, fmt.Errorf("line %d: wrong field count of %d, should be %d to %d",
				lineNo, len(fields), minFields, maxFields)
		}

		record, skip := parseRecord(fields, lineNo)
		if skip {
			continue
		}

		if record.EndNote != "" {
			if endNotesSeen[record.EndNote] {
				slog.Warn("duplicate end note", "line", lineNo, "end_note", record.EndNote)
			}
			endNotesSeen[record.EndNote] = true
		}

		key := challengeKey(record.Challenge)
		if existing, ok := cardsByChallenge[key]; ok {
			if existing.Answer == record.Answer {
				return nil, fmt.Errorf("line %d: duplicate record for challenge %q", lineNo, record.Challenge)
			}
			slog.Debug("merging duplicate challenge", "line", lineNo, "challenge", record.Challenge)
			existing.Answer += " Or, " + record.Answer
			if record.IntroNote != "" {
				existing.IntroNote = record.IntroNote
			}
			if record.EndNote != "" {
				existing.EndNote = record.EndNote
			}
			mergeAlts(existing, record)
			continue
		}

		nextID++
		card := leitner.NewCard(nextID)
		card.Challenge = record.Challenge
		card.Answer = record.Answer
		card.BoundPronoun = record.BoundPronoun
		card.VerbStem = record.VerbStem
		card.Syllabary = record.Syllabary
		card.Sex = record.Gender
		card.IntroNote = record.IntroNote
		card.EndNote = record.EndNote
		if record.SkipAsNew {
			card.BoundPronoun = "*"
			card.VerbStem = "*"
		}
		if record.Syllabary != "" {
			card.SetSortKey(record.Syllabary)
		} else {
			card.SetSortKey(record.Challenge)
		}
		mergeAlts(card, record)

		cardsByChallenge[key] = card
		deck.Append(card)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner.Err > %w", err)
	}
	return deck, nil
}

type record struct {
	SkipAsNew     bool
	BoundPronoun  string
	VerbStem      string
	Gender        string
	Syllabary     string
	Challenge     string
	ChallengeAlts []string
	Answer        string
	IntroNote     string
	EndNote       string
}

// parseRecord normalizes one record's fields. skip is true for records
// without usable challenge or answer text; those are warned about and
// dropped rather than failing the whole load.
func parseRecord(fields []string, lineNo int) (record, bool) {
	rec := record{
		SkipAsNew:    strings.Contains(fields[ixFlags], "*"),
		BoundPronoun: stripToneMarks(fields[ixPronoun]),
		VerbStem:     stripToneMarks(fields[ixVerb]),
		Syllabary:    strings.TrimSpace(fields[ixSyllabary]),
	}

	challenge := strings.TrimSpace(fields[ixPronounce])
	if challenge == "" || strings.HasPrefix(challenge, "#") {
		return rec, true
	}
	if !hasLetters(challenge) {
		slog.Warn("record has no pronounceable challenge text", "line", lineNo)
		return rec, true
	}
	challenge, alts := splitAlternates(challenge)
	rec.Challenge = finishSentence(capitalize(challenge))
	for _, alt := range alts {
		rec.ChallengeAlts = append(rec.ChallengeAlts, finishSentence(capitalize(alt)))
	}
	if len(fields) > ixAltPronounce {
		for _, alt := range strings.Split(fields[ixAltPronounce], ";") {
			alt = strings.TrimSpace(alt)
			if alt != "" {
				rec.ChallengeAlts = append(rec.ChallengeAlts, finishSentence(capitalize(alt)))
			}
		}
	}

	english := strings.TrimSpace(fields[ixEnglish])
	if !hasLetters(english) {
		slog.Warn("record has no answer text", "line", lineNo)
		return rec, true
	}
	rec.Answer = normalizeAnswer(english)

	gender := strings.ToLower(strings.TrimSpace(fields[ixGender]))
	if gender != "" {
		gender = gender[:1]
		if gender != "m" && gender != "f" {
			slog.Warn("ambiguous gender tag", "line", lineNo, "gender", fields[ixGender])
			gender = ""
		}
	}
	rec.Gender = gender

	if len(fields) > ixIntroNote {
		rec.IntroNote = strings.TrimSpace(fields[ixIntroNote])
	}
	if len(fields) > ixEndNote {
		rec.EndNote = strings.TrimSpace(fields[ixEndNote])
	}
	return rec, false
}

func mergeAlts(card *leitner.Card, rec record) {
	appendAlt := func(alt string) {
		if alt == "" {
			return
		}
		for _, existing := range card.ChallengeAlts {
			if existing == alt {
				return
			}
		}
		card.ChallengeAlts = append(card.ChallengeAlts, alt)
	}
	if len(rec.ChallengeAlts) > 0 {
		appendAlt(rec.Challenge)
	}
	for _, alt := range rec.ChallengeAlts {
		appendAlt(alt)
	}
}
