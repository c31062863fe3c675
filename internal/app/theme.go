package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// RectLinkTheme keeps the default look but uses a light variant, so the white
// canvas does not sit in a dark frame, and a muted primary color.
type RectLinkTheme struct{}

var _ fyne.Theme = (*RectLinkTheme)(nil)

func (t *RectLinkTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x37, G: 0x47, B: 0x4F, A: 0xFF} // slate
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0x37, G: 0x47, B: 0x4F, A: 0x40}
	default:
		return theme.DefaultTheme().Color(name, theme.VariantLight)
	}
}

func (t *RectLinkTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *RectLinkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *RectLinkTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 13
	default:
		return theme.DefaultTheme().Size(name)
	}
}
