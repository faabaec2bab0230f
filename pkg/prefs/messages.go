package prefs

import (
	"fmt"
	"strconv"
)

// catalog holds the message templates for one language. Each template takes
// the field label first.
type catalog struct {
	required string
	pattern  string
	min      string
	max      string
}

var catalogs = map[string]catalog{
	"en": {
		required: "%q should be filled.",
		pattern:  "%q should match %s.",
		min:      "%q minimum is %s.",
		max:      "%q maximum is %s.",
	},
	"es": {
		required: "%q debe ser completado.",
		pattern:  "%q debe coincidir con %s.",
		min:      "%q el minimo es %s.",
		max:      "%q el maximo es %s.",
	},
	"de": {
		required: "%q muss ausgefullt werden.",
		pattern:  "%q muss %s entsprechen.",
		min:      "%q Minimum ist %s.",
		max:      "%q Maximum ist %s.",
	},
}

// Translator renders validation messages in a chosen language, falling back
// to English for unknown languages. It satisfies the interpreter's message
// catalog interface.
type Translator struct {
	messages catalog
}

// NewTranslator builds a Translator for the given language code.
func NewTranslator(language string) *Translator {
	messages, ok := catalogs[language]
	if !ok {
		messages = catalogs["en"]
	}
	return &Translator{messages: messages}
}

// Languages lists the language codes with a built-in catalog.
func Languages() []string {
	return []string{"de", "en", "es"}
}

func (t *Translator) Required(label string) string {
	return fmt.Sprintf(t.messages.required, label)
}

func (t *Translator) Pattern(label, pattern string) string {
	return fmt.Sprintf(t.messages.pattern, label, pattern)
}

func (t *Translator) Min(label string, min float64) string {
	return fmt.Sprintf(t.messages.min, label, formatNumber(min))
}

func (t *Translator) Max(label string, max float64) string {
	return fmt.Sprintf(t.messages.max, label, formatNumber(max))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
