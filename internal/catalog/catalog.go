package catalog

import (
	"errors"
	"fmt"

	"github.com/example/engtrainer/pkg/models"
)

var (
	// ErrEmptyCatalog means there is nothing to learn; callers treat it as fatal
	ErrEmptyCatalog  = errors.New("catalog is empty")
	ErrEmptyKey      = errors.New("word has an empty english term")
	ErrDuplicateWord = errors.New("word already exists")
)

// Catalog is the ordered set of words, keyed by their English term
type Catalog struct {
	words []models.Word
	index map[string]int
}

// New builds a catalog from words in the given order.
// Words with an empty key are dropped, later duplicates lose to earlier ones.
// It returns the number of words that were skipped.
func New(words []models.Word) (*Catalog, int) {
	c := &Catalog{index: make(map[string]int, len(words))}
	skipped := 0
	for _, w := range words {
		if err := c.Add(w); err != nil {
			skipped++
		}
	}
	return c, skipped
}

// Add appends a word to the end of the catalog
func (c *Catalog) Add(w models.Word) error {
	w = w.Normalize()
	if w.English == "" {
		return ErrEmptyKey
	}
	if _, ok := c.index[w.English]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateWord, w.English)
	}
	c.index[w.English] = len(c.words)
	c.words = append(c.words, w)
	return nil
}

// Get returns the word with the given key
func (c *Catalog) Get(key string) (models.Word, bool) {
	i, ok := c.index[key]
	if !ok {
		return models.Word{}, false
	}
	return c.words[i], true
}

// Contains reports whether a word with the key exists
func (c *Catalog) Contains(key string) bool {
	_, ok := c.index[key]
	return ok
}

// Words returns the words in catalog order. The slice is a copy.
func (c *Catalog) Words() []models.Word {
	out := make([]models.Word, len(c.words))
	copy(out, c.words)
	return out
}

// Len returns the number of words
func (c *Catalog) Len() int {
	return len(c.words)
}

// Validate returns ErrEmptyCatalog when the catalog has no words
func (c *Catalog) Validate() error {
	if c.Len() == 0 {
		return ErrEmptyCatalog
	}
	return nil
}
