package tts

import (
	"math/rand"
	"slices"
)

// Selector rotates through a voice pool without immediate repeats, honoring
// an optional gender hint. Voices are drawn from a shuffled bag so every
// voice is used before any repeats, mirroring how multi-speaker course audio
// keeps variety.
type Selector struct {
	male     []string
	female   []string
	all      []string
	bag      []string
	previous string
	rng      *rand.Rand
}

// NewSelector builds a selector over the given voice pools. The RNG is
// injected so tests can pin the rotation order.
func NewSelector(male, female []string, rng *rand.Rand) *Selector {
	all := make([]string, 0, len(male)+len(female))
	all = append(all, female...)
	all = append(all, male...)
	slices.Sort(all)
	return &Selector{male: male, female: female, all: all, rng: rng}
}

// Next returns the next voice. gender is "m", "f", or empty for any voice.
func (s *Selector) Next(gender string) string {
	// Twice around the pool is enough to satisfy any reachable constraint;
	// past that the no-repeat rule is dropped rather than spinning.
	for attempt := 0; ; attempt++ {
		if attempt > 2*len(s.all) {
			s.previous = ""
		}
		if len(s.bag) == 0 {
			s.bag = append(s.bag, s.all...)
			s.rng.Shuffle(len(s.bag), func(i, j int) {
				s.bag[i], s.bag[j] = s.bag[j], s.bag[i]
			})
		}
		voice := s.bag[len(s.bag)-1]
		s.bag = s.bag[:len(s.bag)-1]

		switch gender {
		case "m":
			if len(s.male) < 2 {
				s.previous = ""
			}
			if !slices.Contains(s.male, voice) {
				continue
			}
		case "f":
			if len(s.female) < 2 {
				s.previous = ""
			}
			if !slices.Contains(s.female, voice) {
				continue
			}
		}

		if s.previous != "" && voice == s.previous {
			continue
		}
		s.previous = voice
		return voice
	}
}
