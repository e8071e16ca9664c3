package builtins

import "github.com/tpascal/go-tpc/pkg/ident"

// crtColors are the CRT unit's colour constants. They resolve like ordinary
// integer constants unless the program declares its own symbol of the same
// name; the emitter maps them onto the runtime's prefixed spellings.
var crtColors = map[string]int{
	"black":        0,
	"blue":         1,
	"green":        2,
	"cyan":         3,
	"red":          4,
	"magenta":      5,
	"brown":        6,
	"lightgray":    7,
	"darkgray":     8,
	"lightblue":    9,
	"lightgreen":   10,
	"lightcyan":    11,
	"lightred":     12,
	"lightmagenta": 13,
	"yellow":       14,
	"white":        15,
}

// CRTColor returns the ordinal of a CRT colour constant name.
func CRTColor(name string) (int, bool) {
	v, ok := crtColors[ident.Normalize(name)]
	return v, ok
}
