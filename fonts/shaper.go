package fonts

import (
	"bytes"
	"fmt"
	"sync"
	"unicode"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// Shaper measures text with HarfBuzz shaping so kerning and ligatures are
// reflected in the advance width. It is safe for concurrent use.
type Shaper struct {
	mu     sync.Mutex
	face   *gofont.Face
	shaper *shaping.HarfbuzzShaper
}

// NewShaper parses the font program once for repeated measurement.
func NewShaper(data []byte) (*Shaper, error) {
	face, err := gofont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse face: %w", err)
	}
	return &Shaper{face: face, shaper: &shaping.HarfbuzzShaper{}}, nil
}

// Measure returns the advance width of text in user units at the given size.
func (s *Shaper) Measure(text string, size float64) float64 {
	runes := []rune(norm.NFC.String(text))
	if len(runes) == 0 || size <= 0 {
		return 0
	}
	script := DetectScript(runes)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: scriptDirection(script),
		Face:      s.face,
		Size:      fixed.Int26_6(size * 64),
		Script:    script,
		Language:  language.DefaultLanguage(),
	}

	s.mu.Lock()
	output := s.shaper.Shape(input)
	s.mu.Unlock()

	var adv fixed.Int26_6
	for _, g := range output.Glyphs {
		adv += g.XAdvance
	}
	return float64(adv) / 64.0
}

func scriptDirection(script language.Script) di.Direction {
	switch script {
	case language.Arabic, language.Hebrew:
		return di.DirectionRTL
	default:
		return di.DirectionLTR
	}
}

// DetectScript returns the dominant script of runes, defaulting to Latin.
func DetectScript(runes []rune) language.Script {
	counts := make(map[language.Script]int)
	maxCount := 0
	bestScript := language.Latin

	for _, r := range runes {
		script := scriptFromRune(r)
		if script == language.Unknown {
			continue
		}
		counts[script]++
		if counts[script] > maxCount {
			maxCount = counts[script]
			bestScript = script
		}
	}
	return bestScript
}

func scriptFromRune(r rune) language.Script {
	switch {
	case unicode.Is(unicode.Latin, r):
		return language.Latin
	case unicode.Is(unicode.Greek, r):
		return language.Greek
	case unicode.Is(unicode.Cyrillic, r):
		return language.Cyrillic
	case unicode.Is(unicode.Arabic, r):
		return language.Arabic
	case unicode.Is(unicode.Hebrew, r):
		return language.Hebrew
	}
	return language.Unknown
}
