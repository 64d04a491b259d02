package overlay

import (
	"strconv"
	"strings"
)

// ScaleTarget selects an optional output height; width follows at -2 to keep
// the encoder's even-dimension requirement.
type ScaleTarget string

const (
	ScaleNone  ScaleTarget = ""
	Scale1080p ScaleTarget = "1080p"
	Scale720p  ScaleTarget = "720p"
	Scale480p  ScaleTarget = "480p"
)

// ParseScaleTarget normalizes a user-supplied scale selection.
func ParseScaleTarget(value string) (ScaleTarget, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "none", "original":
		return ScaleNone, true
	case "1080p", "1080":
		return Scale1080p, true
	case "720p", "720":
		return Scale720p, true
	case "480p", "480":
		return Scale480p, true
	default:
		return ScaleNone, false
	}
}

func (t ScaleTarget) fragment() string {
	switch t {
	case Scale1080p:
		return "scale=-2:1080,"
	case Scale720p:
		return "scale=-2:720,"
	case Scale480p:
		return "scale=-2:480,"
	default:
		return ""
	}
}

// Watermark describes the optional branding overlay. Position is fixed:
// top-right corner, 20 units in from each edge, white text at the configured
// opacity. Empty text disables the overlay.
type Watermark struct {
	Text     string
	FontSize int
	Opacity  float64 // [0,1]
}

// Builder combines scaling, caption burn-in, and watermark parameters into
// one filter-graph expression for the transcoder.
type Builder struct {
	Scale        ScaleTarget
	SubtitlePath string
	Style        Style
	Watermark    Watermark
}

// FilterGraph renders the complete video filter expression:
// [scale,]subtitles=<path>:force_style='<style>'[,drawtext=...].
func (b Builder) FilterGraph() string {
	var sb strings.Builder
	sb.WriteString(b.Scale.fragment())
	sb.WriteString("subtitles=")
	sb.WriteString(b.SubtitlePath)
	sb.WriteString(":force_style='")
	sb.WriteString(b.Style.ForceStyle())
	sb.WriteString("'")

	if text := strings.TrimSpace(b.Watermark.Text); text != "" {
		sb.WriteString(",drawtext=text='")
		sb.WriteString(escapeDrawText(text))
		sb.WriteString("':fontcolor=white@")
		sb.WriteString(strconv.FormatFloat(b.Watermark.Opacity, 'g', -1, 64))
		sb.WriteString(":fontsize=")
		sb.WriteString(strconv.Itoa(b.Watermark.FontSize))
		sb.WriteString(":x=w-tw-20:y=20")
	}
	return sb.String()
}

// escapeDrawText neutralizes characters that are syntactically significant to
// the filter-graph grammar. Unescaped quotes or colons in user-supplied
// watermark text would be interpreted as filter syntax.
func escapeDrawText(text string) string {
	text = strings.ReplaceAll(text, "'", `\'`)
	return strings.ReplaceAll(text, ":", `\:`)
}
