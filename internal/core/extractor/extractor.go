package extractor

import (
	"context"
)

// Extractor converts one file on disk into plain text. Implementations pick
// their parsing strategy from the file's extension.
type Extractor interface {
	Extract(ctx context.Context, filePath string) (string, error)
}

// Outcome reports which of the two extraction paths produced the content:
// the converter, or the fallback to the caller-supplied literal text.
type Outcome struct {
	Text      string
	Extracted bool
	Reason    string // set when Extracted is false
}

// Run attempts extraction and folds any failure into a fallback outcome
// carrying the literal text. Extraction failure is never fatal to the caller.
// An empty extraction result is a valid outcome, not a failure.
func Run(ctx context.Context, ext Extractor, filePath, literal string) Outcome {
	text, err := ext.Extract(ctx, filePath)
	if err != nil {
		return Outcome{Text: literal, Reason: err.Error()}
	}
	return Outcome{Text: text, Extracted: true}
}
