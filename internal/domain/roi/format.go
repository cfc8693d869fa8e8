package roi

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func printerFor(locale string) (*message.Printer, bool) {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Italian
	}
	base, _ := tag.Base()
	italian, _ := language.Italian.Base()
	return message.NewPrinter(tag), base == italian
}

// FormatHours renders hours with exactly one decimal digit, e.g. "8,0" (it) or "8.0" (en).
func FormatHours(hours float64, locale string) string {
	p, _ := printerFor(locale)
	return p.Sprintf("%.1f", RoundHalfUp(hours, 1))
}

// FormatCurrency renders a whole-euro amount with locale grouping,
// e.g. "1.212 €" (it) or "€1,212" (en).
func FormatCurrency(amount float64, locale string) string {
	p, italian := printerFor(locale)
	whole := int64(RoundHalfUp(amount, 0))
	if italian {
		return p.Sprintf("%d €", whole)
	}
	if whole < 0 {
		return p.Sprintf("-€%d", -whole)
	}
	return p.Sprintf("€%d", whole)
}
