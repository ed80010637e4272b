package theme

import (
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/semana/internal/task"
)

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Current     lipgloss.Color
	Warning     lipgloss.Color
	Success     lipgloss.Color

	TextOnAccent  lipgloss.Color
	TextOnWarning lipgloss.Color
	TextOnCurrent lipgloss.Color

	Modal ModalColors

	light      bool
	bgHex      string
	fgHex      string
	categories map[task.Category]lipgloss.Color
}

// ModalColors holds modal-specific colors derived from a Theme.
type ModalColors struct {
	Bg        lipgloss.Color
	Border    lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
}

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load(DefaultName)
	}

	modal := t.Modal()
	p := &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Current:     lipgloss.Color(t.Current),
		Warning:     lipgloss.Color(t.Warning),
		Success:     lipgloss.Color(t.Success),

		TextOnAccent:  lipgloss.Color(chooseTextColor(t.Accent, t.Bg, t.Fg)),
		TextOnWarning: lipgloss.Color(chooseTextColor(t.Warning, t.Bg, t.Fg)),
		TextOnCurrent: lipgloss.Color(chooseTextColor(t.Current, t.Bg, t.Fg)),

		Modal: ModalColors{
			Bg:        lipgloss.Color(modal.BaseBg),
			Border:    adaptiveColor(modal.ModalBorder),
			Text:      adaptiveColor(modal.TextPrimary),
			Muted:     adaptiveColor(modal.TextMuted),
			Highlight: adaptiveColor(modal.Highlight),
		},

		light:      isLightTheme(t.Bg),
		bgHex:      t.Bg,
		fgHex:      t.Fg,
		categories: make(map[task.Category]lipgloss.Color, len(task.Categories)),
	}
	for _, c := range task.Categories {
		p.categories[c] = lipgloss.Color(t.Category(c))
	}
	return p
}

// Category returns the marker color for c.
func (p *Palette) Category(c task.Category) lipgloss.Color {
	if col, ok := p.categories[c]; ok {
		return col
	}
	return p.FgMuted
}

// BlockBg returns the background of a block drawn in a task's own color.
// Dark themes darken the color and light themes wash it out so text stays
// readable.
func (p *Palette) BlockBg(hex string) lipgloss.Color {
	if _, _, _, ok := rgb(hex); !ok {
		return p.BgSelection
	}
	return lipgloss.Color(p.blockBgHex(hex))
}

// BlockBgSelected is BlockBg shifted so the block under the cursor stands out.
func (p *Palette) BlockBgSelected(hex string) lipgloss.Color {
	if _, _, _, ok := rgb(hex); !ok {
		return p.Accent
	}
	return lipgloss.Color(alternateShade(p.blockBgHex(hex), p.light))
}

// GhostBg is the faded color used to preview where a held block would land.
func (p *Palette) GhostBg(hex string) lipgloss.Color {
	if _, _, _, ok := rgb(hex); !ok {
		return p.BgHighlight
	}
	if p.light {
		return lipgloss.Color(blendColors(hex, p.bgHex, 0.88))
	}
	return lipgloss.Color(scaleColor(hex, 0.30, 30))
}

// TextOn picks whichever of the theme's foreground and background reads
// better on bg.
func (p *Palette) TextOn(bg lipgloss.Color) lipgloss.Color {
	return lipgloss.Color(chooseTextColor(string(bg), p.bgHex, p.fgHex))
}

func (p *Palette) blockBgHex(hex string) string {
	if p.light {
		return blendColors(hex, p.bgHex, 0.75)
	}
	return scaleColor(hex, 0.50, 40)
}

func isLightTheme(bg string) bool {
	return relativeLuminance(bg) > 0.55
}

// scaleColor multiplies each channel by factor, keeping it at least floor
// so dark blocks stay visible on dark backgrounds.
func scaleColor(hex string, factor float64, floor int) string {
	r, g, b, ok := rgb(hex)
	if !ok {
		return hex
	}
	scale := func(c int) int {
		return max(int(float64(c)*factor), floor)
	}
	return formatHexColor(scale(r), scale(g), scale(b))
}

// alternateShade nudges a block color so adjacent blocks can be told apart.
func alternateShade(hex string, isLight bool) string {
	if isLight {
		return blendColors(hex, "#000000", 0.10)
	}
	return blendColors(hex, "#ffffff", 0.30)
}

// rgb parses "#rrggbb".
func rgb(hex string) (r, g, b int, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

func formatHexColor(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func adaptiveColor(hex string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{
		Dark:  hex,
		Light: hex,
	}
}

func chooseTextColor(bg, lightText, darkText string) string {
	if contrastRatio(bg, lightText) >= contrastRatio(bg, darkText) {
		return lightText
	}
	return darkText
}

func contrastRatio(a, b string) float64 {
	l1 := relativeLuminance(a)
	l2 := relativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

func relativeLuminance(hex string) float64 {
	r, g, b, ok := rgb(hex)
	if !ok {
		return 0
	}
	return 0.2126*srgbToLinear(r) + 0.7152*srgbToLinear(g) + 0.0722*srgbToLinear(b)
}

func srgbToLinear(c int) float64 {
	v := float64(c) / 255.0
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// blendColors mixes ratio of b into a.
func blendColors(a, b string, ratio float64) string {
	ar, ag, ab, okA := rgb(a)
	br, bg, bb, okB := rgb(b)
	if !okA || !okB {
		return a
	}
	ratio = min(max(ratio, 0), 1)
	mix := func(x, y int) int {
		return int(float64(x)*(1-ratio) + float64(y)*ratio)
	}
	return formatHexColor(mix(ar, br), mix(ag, bg), mix(ab, bb))
}
