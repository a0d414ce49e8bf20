package chat

// TitleLimit is the number of characters kept from a question when it
// becomes a session title.
const TitleLimit = 30

const titleEllipsis = "..."

// TruncateTitle shortens text to TitleLimit runes, appending an ellipsis when
// anything was cut.
func TruncateTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= TitleLimit {
		return text
	}
	return string(runes[:TitleLimit]) + titleEllipsis
}
