package settings

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FallbackHSL is returned for any color that is not a valid hex string.
const FallbackHSL = "0 0% 0%"

// HexToHSL converts "#rrggbb" or "#rgb" (the "#" is optional) to an
// "H S% L%" triple with every component rounded to an integer. Malformed
// input yields FallbackHSL instead of an error so a bad stored color never
// breaks rendering.
func HexToHSL(hex string) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return FallbackHSL
	}
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255
	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))
	l := (max + min) / 2

	var h, s float64
	if max != min {
		d := max - min
		if l > 0.5 {
			s = d / (2 - max - min)
		} else {
			s = d / (max + min)
		}
		switch max {
		case rf:
			h = (gf - bf) / d
			if gf < bf {
				h += 6
			}
		case gf:
			h = (bf-rf)/d + 2
		default:
			h = (rf-gf)/d + 4
		}
		h *= 60
	}

	hue := int(math.Round(h))
	if hue >= 360 {
		hue = 0
	}
	return fmt.Sprintf("%d %d%% %d%%", hue, int(math.Round(s*100)), int(math.Round(l*100)))
}

func parseHex(hex string) (r, g, b uint8, ok bool) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}
