package extractor

import (
	"context"
	"fmt"
	"strings"

	"code.sajari.com/docconv"
)

// DocconvExtractor converts files in-process with sajari/docconv. It keeps
// the same contract as the external-converter path so the two are
// interchangeable behind the Extractor interface.
type DocconvExtractor struct{}

func NewDocconvExtractor() *DocconvExtractor {
	return &DocconvExtractor{}
}

func (e *DocconvExtractor) Extract(ctx context.Context, filePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	res, err := docconv.ConvertPath(filePath)
	if err != nil {
		return "", fmt.Errorf("docconv: %w", err)
	}
	if res == nil {
		return "", fmt.Errorf("docconv: no result for %s", filePath)
	}
	return strings.TrimSpace(res.Body), nil
}

var _ Extractor = (*DocconvExtractor)(nil)
