package mock

import "github.com/fwojciec/htmldrop"

var _ htmldrop.Converter = (*Converter)(nil)

// Converter is a mock implementation of htmldrop.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
