package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHexToHSL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"#ff0000", "0 100% 50%"},
		{"#00ff00", "120 100% 50%"},
		{"#0000ff", "240 100% 50%"},
		{"#ffffff", "0 0% 100%"},
		{"#000000", "0 0% 0%"},
		{"#808080", "0 0% 50%"},
		{"#2563eb", "221 83% 53%"},
		{"2563EB", "221 83% 53%"},
		{"#fff", "0 0% 100%"},
		{"f00", "0 100% 50%"},
		// hue 359.76 rounds up to 360 and wraps to 0
		{"#ff0001", "0 100% 50%"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, HexToHSL(tc.in))
		})
	}
}

func TestHexToHSLFallback(t *testing.T) {
	for _, in := range []string{"", "#", "#12", "#1234", "#1234567", "#zzzzzz", "red", "rgb(1,2,3)", "#-12345"} {
		assert.Equal(t, FallbackHSL, HexToHSL(in), "input %q", in)
	}
}

func TestThemeHSLCoversEveryColor(t *testing.T) {
	hsl := Defaults().ThemeHSL()
	assert.Len(t, hsl, 5)
	assert.Equal(t, "0 0% 100%", hsl["tableHeaderText"])
	for name, v := range hsl {
		assert.NotEmpty(t, v, name)
	}
}
