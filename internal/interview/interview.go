// Package interview holds the vocabulary shared by every part of the simulator:
// personas, languages, categories and the append-only transcript.
package interview

import (
	"strings"
	"time"
)

type Persona string

const (
	PersonaUnset Persona = ""
	// PersonaHope is the friendly HR manager "Mrs. Hope".
	PersonaHope Persona = "hope"
	// PersonaTeacher is the English teacher; interviews are always held in English.
	PersonaTeacher Persona = "teacher"
)

type Language string

const (
	LanguageUnset   Language = ""
	LanguageRussian Language = "russian"
	LanguageEnglish Language = "english"
)

type Category string

const (
	CategoryUnset      Category = ""
	CategorySoft       Category = "soft"
	CategoryHard       Category = "hard"
	CategoryExperience Category = "experience"
)

// FixedLanguage reports the language a persona is locked to, if any.
func (p Persona) FixedLanguage() (Language, bool) {
	if p == PersonaTeacher {
		return LanguageEnglish, true
	}
	return LanguageUnset, false
}

const (
	SpeakerRecruiter = "Рекрутер"
	SpeakerCandidate = "Кандидат"

	dialogHeader = "Диалог между рекрутером и кандидатом:\n\n"
)

type Entry struct {
	Text          string
	FromAssistant bool
	Timestamp     time.Time
}

func (e Entry) Speaker() string {
	if e.FromAssistant {
		return SpeakerRecruiter
	}
	return SpeakerCandidate
}

// Transcript is append-only; entries are never reordered or deduplicated.
type Transcript []Entry

func (t Transcript) Append(text string, fromAssistant bool, at time.Time) Transcript {
	return append(t, Entry{Text: text, FromAssistant: fromAssistant, Timestamp: at})
}

func (t Transcript) Last() (Entry, bool) {
	if len(t) == 0 {
		return Entry{}, false
	}
	return t[len(t)-1], true
}

// Texts returns message texts in order without speaker labels.
func (t Transcript) Texts() []string {
	texts := make([]string, 0, len(t))
	for _, e := range t {
		texts = append(texts, e.Text)
	}
	return texts
}

// Serialize renders the speaker-labelled dialog handed to the analytics request.
func (t Transcript) Serialize() string {
	var b strings.Builder
	b.WriteString(dialogHeader)
	for _, e := range t {
		b.WriteString(e.Speaker())
		b.WriteString(": ")
		b.WriteString(e.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}

// Clone returns a copy that shares no backing array with t.
func (t Transcript) Clone() Transcript {
	if t == nil {
		return nil
	}
	out := make(Transcript, len(t))
	copy(out, t)
	return out
}
