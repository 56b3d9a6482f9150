package dictionary

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHeader = "flags|chapter|alt|pronoun|verb|gender|syllabary|pronounce|english|intro|end\n"

func writeSource(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.txt")
	require.NoError(t, os.WriteFile(path, []byte(testHeader+lines), 0644))
	return path
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(1234))
}

func TestLoad(t *testing.T) {
	path := writeSource(t, ""+
		"|1||uwa-|-niha|m|ᎣᏏᏲ|osiyo|hello|welcome note|\n"+
		"# a comment line\n"+
		"\n"+
		"|1||de-|-goliga|f||tohitsu|how are you\n")

	deck, err := Load(path, testRNG())
	require.NoError(t, err)
	require.Equal(t, 2, deck.Len())

	cards := deck.Cards()
	first := cards[0]
	assert.Equal(t, "0001", first.ID())
	assert.Equal(t, "Osiyo.", first.Challenge)
	assert.Equal(t, "Hello.", first.Answer)
	assert.Equal(t, "m", first.Sex)
	assert.Equal(t, "uwa-", first.BoundPronoun)
	assert.Equal(t, "welcome note", first.IntroNote)
	assert.Equal(t, "003-ᎣᏏᏲ", first.SortKey(), "syllabary wins as sort key")

	second := cards[1]
	assert.Equal(t, "0002", second.ID())
	assert.Equal(t, "Tohitsu.", second.Challenge)
	assert.Equal(t, "How are you.", second.Answer)
	assert.Equal(t, "f", second.Sex)
}

func TestLoad_WrongFieldCount(t *testing.T) {
	path := writeSource(t, "only|three|fields\n")

	_, err := Load(path, testRNG())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrong field count")
}

func TestLoad_DuplicateChallengeMergesAnswers(t *testing.T) {
	path := writeSource(t, ""+
		"|1|||||ᎣᏏᏲ|osiyo|hello\n"+
		"|1|||||ᎣᏏᏲ|osiyo|greetings\n")

	deck, err := Load(path, testRNG())
	require.NoError(t, err)
	require.Equal(t, 1, deck.Len())
	assert.Equal(t, "Hello. Or, Greetings.", deck.TopCard().Answer)
}

func TestLoad_IdenticalDuplicateRecordFails(t *testing.T) {
	path := writeSource(t, ""+
		"|1|||||ᎣᏏᏲ|osiyo|hello\n"+
		"|1|||||ᎣᏏᏲ|osiyo|hello\n")

	_, err := Load(path, testRNG())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate record")
}

func TestLoad_BadGenderIsCleared(t *testing.T) {
	path := writeSource(t, "|1||||x||osiyo|hello\n")

	deck, err := Load(path, testRNG())
	require.NoError(t, err)
	assert.Equal(t, "", deck.TopCard().Sex)
}

func TestLoad_SkipAsNewMarker(t *testing.T) {
	path := writeSource(t, "*|1||uwa-|-niha|||osiyo|hello\n")

	deck, err := Load(path, testRNG())
	require.NoError(t, err)
	card := deck.TopCard()
	assert.Equal(t, "*", card.BoundPronoun)
	assert.Equal(t, "*", card.VerbStem)
}

func TestLoad_ChallengeAlternates(t *testing.T) {
	path := writeSource(t, "|1|siyo|||||osiyo; siyo ale|hello\n")

	deck, err := Load(path, testRNG())
	require.NoError(t, err)
	card := deck.TopCard()
	assert.Equal(t, "Osiyo.", card.Challenge)
	assert.Contains(t, card.ChallengeAlts, "Osiyo.")
	assert.Contains(t, card.ChallengeAlts, "Siyo ale.")
	assert.Contains(t, card.ChallengeAlts, "Siyo.")
}

func TestNormalizeAnswer(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "hello", expected: "Hello."},
		{name: "multiple senses", input: "hello; greetings", expected: "Hello. Or. Greetings."},
		{name: "verb abbreviations removed", input: "v.t. to wash", expected: "To wash."},
		{name: "slash becomes or", input: "water/liquid", expected: "Water, or, liquid."},
		{name: "contraction expanded", input: "he's walking", expected: "He or she is walking."},
		{name: "animate marker", input: "hanging (animate)", expected: "Hanging, living, ."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeAnswer(tt.input))
		})
	}
}

func TestFixGenderedEnglish(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "he gains she", input: "He is walking.", expected: "He or she is walking."},
		{name: "him gains her", input: "She sees him.", expected: "She sees him or her."},
		{name: "kinship passes through", input: "His brother is tall.", expected: "His brother is tall."},
		{name: "himself becomes themself", input: "He washed himself.", expected: "He or she washed themself."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fixGenderedEnglish(tt.input))
		})
	}
}

func TestWriteReviewSheet(t *testing.T) {
	path := writeSource(t, "|1||uwa-|-niha|||ᎣᏏᏲ|osiyo|hello\n")
	deck, err := Load(path, testRNG())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteReviewSheet(&buf, deck))
	assert.Equal(t, "0001|uwa-|-niha|Osiyo.|Hello.\n", buf.String())
}
