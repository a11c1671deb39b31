// Package render turns assistant answers into styled terminal text.
package render

// Options selects how an answer is rendered. It is comparable and is used
// directly as the renderer pool key.
type Options struct {
	// Width is the wrap column of the answer bubble
	Width int

	// Style is a glamour standard style name or a path to a JSON style file
	Style string

	// Emoji turns :shortcodes: into unicode
	Emoji bool

	// KeepLineBreaks keeps single newlines in answers instead of reflowing them
	KeepLineBreaks bool
}

// DefaultOptions matches the defaults of the markdown config section.
func DefaultOptions() Options {
	return Options{
		Width:          80,
		Style:          StyleDark,
		Emoji:          true,
		KeepLineBreaks: true,
	}
}

// WithWidth returns a copy wrapping at width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns a copy using style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// WithDarkMode returns a copy using the style that follows the theme.
func (o Options) WithDarkMode(dark bool) Options {
	return o.WithStyle(StyleForMode(dark))
}
