package bot

import (
	"fmt"
	"strings"

	"messages-bot/internal/storage"
)

// FormatMessageLine renders one record as a single listing line.
func FormatMessageLine(m storage.Message) string {
	return fmt.Sprintf("🆔 %d | 👤 %s | 📞 %s | ✉ %s", m.ID, m.Name, m.Number, m.Message)
}

// FormatListing renders the page header followed by one line per record.
func FormatListing(offset int, messages []storage.Message) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 Foydalanuvchilar (%d-sahifa):\n\n", PageNumber(offset))
	for _, m := range messages {
		sb.WriteString(FormatMessageLine(m))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// NavigationButtons returns the prev/next buttons that apply to a page.
func NavigationButtons(offset, total int) []Button {
	var buttons []Button
	if HasPrev(offset) {
		buttons = append(buttons, Button{Text: ButtonPrevPage, Data: CallbackPrevPage})
	}
	if HasNext(offset, total) {
		buttons = append(buttons, Button{Text: ButtonNextPage, Data: CallbackNextPage})
	}
	return buttons
}
