package formatters

import (
	"github.com/puzpuzpuz/xsync/v3"
)

var (
	// defaultPrefixStyles contains ANSI color codes that are assigned sequentially to each unique prefix in a rotating order.
	// https://www.hackitu.de/termcolor256/
	defaultPrefixStyles = []ColorStyle{
		"66", "67", "95", "96", "102", "103", "108", "109", "139", "138", "144", "145",
	}

	// prefixStyle implements PrefixStyle
	_ PrefixStyle = new(prefixStyle)
)

// PrefixStyle assigns a stable color to each log prefix, so that interleaved
// output from concurrently processed runs stays readable.
type PrefixStyle interface {
	// ColorFunc creates a closure to avoid recomputing the ANSI color code.
	ColorFunc(prefixName string) ColorFunc
}

type prefixStyle struct {
	// cache stores prefixes with their color funcs. `xsync.MapOf` is used
	// instead of the standard `sync.Map` since it's faster and has generic types.
	cache *xsync.MapOf[string, ColorFunc]

	availableStyles []ColorStyle

	// nextStyleIndex points at the style to hand out to the next newly discovered prefix.
	nextStyleIndex int
}

func NewPrefixStyle() *prefixStyle {
	return &prefixStyle{
		cache:           xsync.NewMapOf[string, ColorFunc](),
		availableStyles: defaultPrefixStyles,
	}
}

func (prefix *prefixStyle) ColorFunc(prefixName string) ColorFunc {
	if colorFunc, ok := prefix.cache.Load(prefixName); ok {
		return colorFunc
	}

	if prefix.nextStyleIndex >= len(prefix.availableStyles) {
		prefix.nextStyleIndex = 0
	}

	colorFunc := prefix.availableStyles[prefix.nextStyleIndex].ColorFunc()

	prefix.cache.Store(prefixName, colorFunc)

	prefix.nextStyleIndex++

	return colorFunc
}
