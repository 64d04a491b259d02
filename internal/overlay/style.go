package overlay

import (
	"fmt"
	"strings"
)

// Background selects how caption text is set off from the video.
type Background int

const (
	// BackgroundNone renders bare outlined text.
	BackgroundNone Background = iota
	// BackgroundShadow adds a drop shadow behind the text.
	BackgroundShadow
	// BackgroundBox renders text over a solid box.
	BackgroundBox
)

// Border style values understood by the caption renderer. Outlined text with
// or without a shadow is style 1; a solid box is style 3.
const (
	borderStyleOutline = 1
	borderStyleBox     = 3
)

// ParseBackground normalizes a user-supplied background selection.
func ParseBackground(value string) (Background, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "none":
		return BackgroundNone, true
	case "shadow":
		return BackgroundShadow, true
	case "box":
		return BackgroundBox, true
	default:
		return BackgroundNone, false
	}
}

// Style carries the resolved caption styling parameters. Colors are already
// packed (see PackColor); the zero value is not usable, construct via
// NewStyle or fill every field.
type Style struct {
	FontName      string
	FontSize      int
	PrimaryColour string
	OutlineColour string
	BackColour    string
	BorderStyle   int
	Outline       int
	Shadow        int
}

// StyleParams is the user-facing styling input before color packing.
type StyleParams struct {
	FontName     string
	FontSize     int
	TextColor    string // RGB hex
	StrokeWidth  int
	StrokeColor  string // RGB hex
	Background   Background
	ShadowWidth  int    // BackgroundShadow only
	ShadowColor  string // BackgroundShadow only, RGB hex
	BoxColor     string // BackgroundBox only, RGB hex
	BoxOpacity   int    // BackgroundBox only, percent
}

// NewStyle packs colors and resolves border/shadow fields from params.
func NewStyle(params StyleParams) (Style, error) {
	primary, err := PackColor(params.TextColor, 100)
	if err != nil {
		return Style{}, fmt.Errorf("text color: %w", err)
	}
	outline, err := PackColor(params.StrokeColor, 100)
	if err != nil {
		return Style{}, fmt.Errorf("stroke color: %w", err)
	}

	style := Style{
		FontName:      params.FontName,
		FontSize:      params.FontSize,
		PrimaryColour: primary,
		OutlineColour: outline,
		Outline:       params.StrokeWidth,
	}

	switch params.Background {
	case BackgroundShadow:
		back, err := PackColor(params.ShadowColor, 100)
		if err != nil {
			return Style{}, fmt.Errorf("shadow color: %w", err)
		}
		style.BorderStyle = borderStyleOutline
		style.Shadow = params.ShadowWidth
		style.BackColour = back
	case BackgroundBox:
		back, err := PackColor(params.BoxColor, params.BoxOpacity)
		if err != nil {
			return Style{}, fmt.Errorf("box color: %w", err)
		}
		style.BorderStyle = borderStyleBox
		style.BackColour = back
	default:
		style.BorderStyle = borderStyleOutline
		style.BackColour = MustPackColor("#000000", 0)
	}

	return style, nil
}

// ForceStyle serializes the style into the renderer's force_style syntax.
// Alignment is fixed at 2 (bottom center).
func (s Style) ForceStyle() string {
	return fmt.Sprintf(
		"FontName=%s,Fontsize=%d,PrimaryColour=%s,OutlineColour=%s,BackColour=%s,BorderStyle=%d,Outline=%d,Shadow=%d,Alignment=2",
		s.FontName,
		s.FontSize,
		s.PrimaryColour,
		s.OutlineColour,
		s.BackColour,
		s.BorderStyle,
		s.Outline,
		s.Shadow,
	)
}
