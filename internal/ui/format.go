package ui

import "time"

// DatePlaceholder is rendered for absent timestamps.
const DatePlaceholder = "N/A"

// FormatDate renders t as dd/mm/yyyy, hh:mm in loc (time.Local when nil).
func FormatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return DatePlaceholder
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("02/01/2006, 15:04")
}

// FormatBoolean picks trueText or falseText, defaulting to Sim/Não.
func FormatBoolean(v bool, texts ...string) string {
	trueText, falseText := "Sim", "Não"
	if len(texts) > 0 && texts[0] != "" {
		trueText = texts[0]
	}
	if len(texts) > 1 && texts[1] != "" {
		falseText = texts[1]
	}
	if v {
		return trueText
	}
	return falseText
}
