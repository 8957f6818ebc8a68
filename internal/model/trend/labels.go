package trend

import (
	"slices"
	"time"
)

const defaultLocale = "it"

var shortMonthNames = map[string][12]string{
	"it": {"gen", "feb", "mar", "apr", "mag", "giu", "lug", "ago", "set", "ott", "nov", "dic"},
	"en": {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
}

// SupportedLocales lists the locales with month labels, sorted.
func SupportedLocales() []string {
	res := make([]string, 0, len(shortMonthNames))
	for k := range shortMonthNames {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}

func monthLabel(locale string, m time.Month) string {
	names, ok := shortMonthNames[locale]
	if !ok {
		names = shortMonthNames[defaultLocale]
	}
	return names[m-1]
}
