package match

import "context"

// ValueExtractor reads the single monetary value out of a supporting
// document. A nil value with a nil error means the document was readable but
// contained no usable number; an error means the document could not be read
// at all. The matcher treats both as an unknown extracted value.
//
//go:generate mockgen -destination=mocks/mock_extractor.go -source=interface.go ValueExtractor
type ValueExtractor interface {
	ExtractDocValue(ctx context.Context, path string) (*float64, error)
}
