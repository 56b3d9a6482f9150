package dictionary

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const underdot = "̣"

var (
	toneMarkRE   = regexp.MustCompile("[¹²³⁴" + underdot + "]")
	letterRE     = regexp.MustCompile(`(?i)[a-z]`)
	punctKeyRE   = regexp.MustCompile(`(?i)[.,!?;]`)
	whitespaceRE = regexp.MustCompile(`\s+`)

	numberedSenseRE = regexp.MustCompile(`[2-9]\.`)
	heItRE          = regexp.MustCompile(`(?i)\b(he|him|she|her), it\b`)
	heRE            = regexp.MustCompile(`(?i)\b(He )`)
	himRE           = regexp.MustCompile(`(?i)( him)\b`)
	hisRE           = regexp.MustCompile(`(?i)\b(His)\b`)
	himselfRE       = regexp.MustCompile(`\b[Hh]imself\b`)
	escapedHeRE     = regexp.MustCompile(`(?i)x(he|she|him|her|his)`)
)

// stripToneMarks removes tone digits and underdots from pronunciation
// morphology fields so stems compare equal across tone spellings.
func stripToneMarks(s string) string {
	return norm.NFC.String(toneMarkRE.ReplaceAllString(norm.NFD.String(s), ""))
}

// hasLetters reports whether the text contains any ASCII letters after
// decomposition, i.e. whether there is anything to synthesize.
func hasLetters(s string) bool {
	return letterRE.MatchString(norm.NFD.String(s))
}

// challengeKey is the normalized identity of a challenge line: punctuation
// stripped, lower-cased.
func challengeKey(challenge string) string {
	return strings.ToLower(strings.TrimSpace(punctKeyRE.ReplaceAllString(challenge, "")))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// finishSentence appends a period unless the text already ends with
// sentence punctuation. Synthesizers pause more naturally on closed
// sentences.
func finishSentence(s string) string {
	if s == "" {
		return s
	}
	if strings.ContainsRune(",.?!", rune(s[len(s)-1])) {
		return s
	}
	return s + "."
}

// splitAlternates splits a `;`-separated pronunciation field into the
// primary form and its alternates.
func splitAlternates(challenge string) (string, []string) {
	if !strings.Contains(challenge, ";") {
		return challenge, nil
	}
	parts := strings.Split(challenge, ";")
	var alts []string
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part != "" {
			alts = append(alts, part)
		}
	}
	return strings.TrimSpace(parts[0]), alts
}

// normalizeAnswer rewrites dictionary-style English glosses into speakable
// sentences: multiple senses join with "Or", abbreviations and slashes are
// expanded, contractions are opened up for the synthesizer, and gender-bound
// phrasing is widened.
func normalizeAnswer(english string) string {
	var senses []string
	for _, sense := range strings.Split(english, ";") {
		sense = strings.TrimSpace(sense)
		if sense == "" {
			continue
		}
		senses = append(senses, finishSentence(sense))
	}
	english = strings.Join(senses, " Or. ")

	english = strings.ReplaceAll(english, "v.t.", "")
	english = strings.ReplaceAll(english, "v.i.", "")

	if strings.Contains(english, "1.") {
		english = strings.ReplaceAll(english, "1.", "")
		english = numberedSenseRE.ReplaceAllString(english, ". Or, ")
	}
	english = strings.ReplaceAll(english, " (1)", "")
	english = strings.ReplaceAll(english, " (one)", "")
	english = strings.ReplaceAll(english, " (animate)", ", living, ")
	english = strings.ReplaceAll(english, " (inanimate)", ", non-living, ")
	english = strings.ReplaceAll(english, "/", ", or, ")

	english = heItRE.ReplaceAllString(english, "$1, or, it")

	replacer := strings.NewReplacer(
		"he's", "he is", "He's", "He is",
		"she's", "she is", "She's", "She is",
		"it's", "it is", "It's", "It is",
		"'re", " are",
	)
	english = replacer.Replace(english)

	english = whitespaceRE.ReplaceAllString(english, " ")
	return fixGenderedEnglish(capitalize(strings.TrimSpace(english)))
}

// fixGenderedEnglish widens he/him/his phrasing to include she/her, except
// for kinship terms where the gender is the meaning.
func fixGenderedEnglish(text string) string {
	tmp := strings.TrimSpace(whitespaceRE.ReplaceAllString(text, " "))
	lower := strings.ToLower(tmp)
	if strings.Contains(lower, "brother") || strings.Contains(lower, "sister") {
		return text
	}

	if himselfRE.MatchString(tmp) {
		tmp = heRE.ReplaceAllString(tmp, "${1}or she ")
		tmp = himselfRE.ReplaceAllString(tmp, "themself")
	}
	if hisRE.MatchString(tmp) {
		tmp = hisRE.ReplaceAllString(tmp, "$1 or her")
	}
	if !strings.Contains(tmp, " or she") {
		tmp = heRE.ReplaceAllString(tmp, "${1}or she ")
	}
	if !strings.Contains(tmp, " or her") {
		tmp = himRE.ReplaceAllString(tmp, "$1 or her")
	}
	// Source data escapes literal pronouns with a leading "x".
	tmp = escapedHeRE.ReplaceAllString(tmp, "$1")
	return tmp
}
