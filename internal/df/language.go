package df

import (
	"strings"

	"github.com/f3rmion/dfscope/internal/layout"
	lru "github.com/hashicorp/golang-lru/v2"
)

// nameWords is the number of word slots in a generated name.
const nameWords = 7

// PartOfSpeech selects which form of a word a name slot uses.
type PartOfSpeech int16

// Parts of speech, in the order the target stores them.
const (
	Noun PartOfSpeech = iota
	NounPlural
	Adjective
	Verb
	PresentSimpleVerb
	PastSimpleVerb
	PastParticipleVerb
	PresentParticipleVerb
)

// Word is one dictionary entry with its English forms.
type Word struct {
	Forms [8]string `json:"forms"`
}

// Form returns the word in the given part of speech.
func (w *Word) Form(pos PartOfSpeech) string {
	if pos < 0 || int(pos) >= len(w.Forms) {
		return ""
	}
	return w.Forms[pos]
}

// Translation is one language's spelling of every dictionary word.
type Translation struct {
	Name  string   `json:"name"`
	Words []string `json:"-"`
}

// Languages is the shared dictionary plus every translation table.
type Languages struct {
	Words        []Word        `json:"-"`
	Translations []Translation `json:"translations"`
}

// Name is a generated name: personal names plus a compound surname.
type Name struct {
	First    string `json:"first_name"`
	Nickname string `json:"nickname,omitempty"`
	// Last is the surname in the creature's own language.
	Last string `json:"last_name"`
	// English is the full name rendered in English words.
	English string `json:"english_name,omitempty"`
}

// rawName is the word-id form of a generated name.
type rawName struct {
	Language int32
	Words    [nameWords]int32
	Parts    [nameWords]int16
}

type nameForms struct {
	last, english string
}

// nameCache memoizes surname rendering across rebuilds. It is purged when
// the dictionary changes shape.
type nameCache struct {
	cache       *lru.Cache[rawName, nameForms]
	fingerprint [3]int
}

func newNameCache(size int) *nameCache {
	if size <= 0 {
		size = 4096
	}
	c, err := lru.New[rawName, nameForms](size)
	if err != nil {
		return &nameCache{}
	}
	return &nameCache{cache: c}
}

// reset purges the cache when langs differs from the tables it was filled from.
func (c *nameCache) reset(langs *Languages) {
	if c == nil || c.cache == nil {
		return
	}
	fp := [3]int{len(langs.Words), len(langs.Translations), 0}
	if len(langs.Translations) > 0 {
		fp[2] = len(langs.Translations[0].Words)
	}
	if fp != c.fingerprint {
		c.cache.Purge()
		c.fingerprint = fp
	}
}

func (s *session) readLanguages() *Languages {
	l := &Languages{}
	for _, p := range s.r.Pointers(s.global("language_vector")) {
		var w Word
		for i, field := range wordFormFields {
			w.Forms[i] = s.r.String(s.at(p, layout.Word, field))
		}
		l.Words = append(l.Words, w)
	}

	table := s.off(layout.Language, "word_table")
	for _, p := range s.r.Pointers(s.global("translation_vector")) {
		t := Translation{Name: s.r.String(p)}
		for _, wp := range s.r.Pointers(p + table) {
			t.Words = append(t.Words, s.r.String(wp))
		}
		l.Translations = append(l.Translations, t)
	}
	return l
}

var wordFormFields = [8]string{
	"noun_singular", "noun_plural", "adjective", "verb",
	"present_simple_verb", "past_simple_verb", "past_participle_verb",
	"present_participle_verb",
}

// readName decodes the name structure at addr.
func (s *session) readName(addr uint64) Name {
	n := Name{
		First:    capitalizeEach(s.r.String(s.at(addr, layout.Word, "first_name"))),
		Nickname: s.r.String(s.at(addr, layout.Word, "nickname")),
	}

	raw := rawName{Language: s.r.I32(s.at(addr, layout.Word, "language_id"))}
	words := s.at(addr, layout.Word, "words")
	parts := s.at(addr, layout.Word, "word_type")
	for i := range nameWords {
		raw.Words[i] = s.r.I32(words + uint64(i)*4)
		raw.Parts[i] = s.r.I16(parts + uint64(i)*2)
	}

	forms := s.renderName(raw)
	n.Last, n.English = forms.last, forms.english
	return n
}

func (s *session) renderName(raw rawName) nameForms {
	if s.names != nil && s.names.cache != nil {
		if f, ok := s.names.cache.Get(raw); ok {
			return f
		}
	}
	f := nameForms{
		last:    s.w.langs.nativeName(raw),
		english: s.w.langs.englishName(raw),
	}
	if s.names != nil && s.names.cache != nil {
		s.names.cache.Add(raw, f)
	}
	return f
}

// chunk returns word id in language lang, or "" if either is out of range.
func (l *Languages) chunk(word, lang int32) string {
	if word < 0 || lang < 0 || int(lang) >= len(l.Translations) {
		return ""
	}
	t := l.Translations[lang]
	if int(word) >= len(t.Words) {
		return ""
	}
	return t.Words[word]
}

// nativeName joins the front and rear compounds in the creature's language.
func (l *Languages) nativeName(raw rawName) string {
	return capitalizeEach(l.chunk(raw.Words[0], raw.Language) + l.chunk(raw.Words[1], raw.Language))
}

func (l *Languages) english(word int32, pos int16) string {
	if word < 0 || int(word) >= len(l.Words) {
		return ""
	}
	return l.Words[word].Form(PartOfSpeech(pos))
}

// englishName renders "FrontRear The Adj Adj Hyphen-Noun of Noun".
func (l *Languages) englishName(raw rawName) string {
	var w [nameWords]string
	for i := range nameWords {
		w[i] = l.english(raw.Words[i], raw.Parts[i])
	}

	var parts []string
	if first := w[0] + w[1]; first != "" {
		parts = append(parts, capitalizeEach(strings.ToLower(first)))
	}
	if w[5] != "" {
		clause := []string{"The"}
		for _, a := range w[2:4] {
			if a != "" {
				clause = append(clause, a)
			}
		}
		if w[4] != "" {
			clause = append(clause, w[4]+"-"+w[5])
		} else {
			clause = append(clause, w[5])
		}
		parts = append(parts, capitalizeEach(strings.Join(clause, " ")))
	}
	if w[6] != "" {
		parts = append(parts, "of "+capitalizeEach(w[6]))
	}
	return strings.Join(parts, " ")
}
