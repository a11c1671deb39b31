package render

import "strings"

// Markdown renders content with a renderer borrowed for opts.
func Markdown(content string, opts Options) (string, error) {
	tr, err := answerRenderers.borrow(opts)
	if err != nil {
		return "", err
	}
	defer answerRenderers.release(opts, tr)

	return tr.Render(content)
}

// Answer renders an assistant answer, falling back to the raw text when
// rendering fails. Surrounding blank lines added by glamour are trimmed.
func Answer(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
