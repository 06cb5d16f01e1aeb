// Package faq provides the ordered question/answer index. Entries are checked
// in load order and the first keyword match wins; that order is the tie-break
// policy and must be preserved.
package faq

import (
	"strings"

	boterrors "github.com/savastore/whatsbot/internal/errors"
)

// Entry is an immutable FAQ record. Keywords are lowercase tokens extracted
// from the source question.
type Entry struct {
	Keywords []string
	Answer   string
}

type Index struct {
	entries []Entry
}

func NewIndex(entries []Entry) *Index {
	return &Index{entries: entries}
}

// Answer finds the first entry with any keyword appearing as a substring of
// the lowercased question. Returns ErrAnswerNotFound when nothing matches.
func (i *Index) Answer(question string) (string, error) {
	q := strings.ToLower(question)
	for _, entry := range i.entries {
		for _, keyword := range entry.Keywords {
			if keyword != "" && strings.Contains(q, keyword) {
				return entry.Answer, nil
			}
		}
	}
	return "", boterrors.ErrAnswerNotFound
}

// Len returns the number of entries in the index.
func (i *Index) Len() int {
	return len(i.entries)
}
