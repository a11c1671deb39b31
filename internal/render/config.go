package render

import (
	"os"

	"github.com/diogo/repochat/internal/config"
)

// OptionsFromConfig builds render options from the user configuration.
// An explicit markdown.style wins over the theme flag, and GLAMOUR_STYLE
// wins over both.
func OptionsFromConfig(cfg config.Config, dark bool) Options {
	opts := DefaultOptions().WithDarkMode(dark)

	md := cfg.Markdown
	if md.Style != "" {
		opts = opts.WithStyle(md.Style)
	}
	opts.Emoji = md.EnableEmoji
	opts.KeepLineBreaks = md.PreserveNewLines

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts = opts.WithStyle(style)
	}

	return opts
}
