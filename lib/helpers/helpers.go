package helpers

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatPrice prints with thousands separators and precision scaled to magnitude.
func FormatPrice(price float64) string {
	decimals := 6

	if price > 1.2 {
		decimals = 2
	} else if price < 0.00001 {
		decimals = 8
	}

	p := message.NewPrinter(language.English)
	formatted := p.Sprintf("%.*f", decimals, price)
	if decimals > 2 {
		formatted = strings.TrimRight(strings.TrimRight(formatted, "0"), ".")
	}
	return formatted
}

func FormatPrices(prices []float64) string {
	out := make([]string, 0, len(prices))
	for _, p := range prices {
		out = append(out, FormatPrice(p))
	}
	return strings.Join(out, " / ")
}

func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatSince renders t relative to now, "never" for the zero time.
func FormatSince(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}
