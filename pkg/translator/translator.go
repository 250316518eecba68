// Package translator provides machine translation of content fragments.
package translator

import "context"

// Request describes one text fragment to translate.
type Request struct {
	Text           string
	SourceLanguage string
	TargetLanguage string

	// Format hints at the fragment's markup: "text" (default) or "html".
	// HTML fragments keep their tags and attributes untouched.
	Format string
}

// Translator translates a single fragment. Implementations must be safe
// for concurrent use.
type Translator interface {
	Translate(ctx context.Context, req Request) (string, error)
}
