package models

import "strings"

// Word represents a vocabulary item in the catalog.
// English is the key: two words with the same English term are the same word.
type Word struct {
	English string `json:"english" db:"english"`
	Russian string `json:"russian" db:"russian"`
	IPA     string `json:"ipa" db:"ipa"`         // Optional pronunciation
	Example string `json:"example" db:"example"` // Optional example sentence
}

// Key returns the catalog key of the word
func (w Word) Key() string {
	return w.English
}

// Normalize trims surrounding whitespace from every field
func (w Word) Normalize() Word {
	return Word{
		English: strings.TrimSpace(w.English),
		Russian: strings.TrimSpace(w.Russian),
		IPA:     strings.TrimSpace(w.IPA),
		Example: strings.TrimSpace(w.Example),
	}
}
