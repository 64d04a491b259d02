package overlay

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidColor reports a color string that is not six hex digits.
var ErrInvalidColor = errors.New("invalid color")

// PackColor converts an RGB hex color and an opacity percentage into the
// alpha+blue+green+red form the subtitle styling language expects, e.g.
// PackColor("#FF0000", 100) == "&H000000FF". Alpha is inverted opacity:
// 0% opaque packs to FF, 100% to 00. The fractional alpha is truncated,
// matching the renderer this output feeds.
func PackColor(hexColor string, opacity int) (string, error) {
	code := strings.TrimPrefix(strings.TrimSpace(hexColor), "#")
	if len(code) != 6 || !isHex(code) {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, hexColor)
	}
	if opacity < 0 || opacity > 100 {
		return "", fmt.Errorf("%w: opacity %d out of range [0,100]", ErrInvalidColor, opacity)
	}
	code = strings.ToUpper(code)
	r, g, b := code[0:2], code[2:4], code[4:6]
	alpha := int(255 - float64(opacity)*255.0/100.0)
	return fmt.Sprintf("&H%02X%s%s%s", alpha, b, g, r), nil
}

// MustPackColor is PackColor for compiled-in defaults that are known valid.
func MustPackColor(hexColor string, opacity int) string {
	packed, err := PackColor(hexColor, opacity)
	if err != nil {
		panic(err)
	}
	return packed
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
