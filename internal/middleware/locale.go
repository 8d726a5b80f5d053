package middleware

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey string

const (
	localeKey  localeContextKey = "locale"
	countryKey localeContextKey = "country"
)

// CountryLookup resolves a client IP to an ISO country code. It may be
// nil when no GeoIP database is configured.
type CountryLookup func(ip string) (string, error)

var supported = language.NewMatcher([]language.Tag{
	language.English, // first entry is the fallback
	language.Hindi,
})

// Locale picks a response locale for each request. An explicit ?lang=
// query wins, then Accept-Language, then the GeoIP country (India
// defaults to Hindi). Everything else falls back to English.
func Locale(lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			country := ""
			if lookup != nil {
				if c, err := lookup(ClientIP(r)); err == nil {
					country = c
				}
			}
			loc := detectLocale(r, country)
			ctx := context.WithValue(r.Context(), localeKey, loc)
			ctx = context.WithValue(ctx, countryKey, country)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLocale(r *http.Request, country string) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		if loc, ok := normalizeLocale(lang); ok {
			return loc
		}
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			tag, _, conf := supported.Match(tags...)
			if conf > language.No {
				base, _ := tag.Base()
				return base.String()
			}
		}
	}
	if strings.EqualFold(country, "IN") {
		return "hi"
	}
	return "en"
}

func normalizeLocale(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "en", "en-us", "en-in":
		return "en", true
	case "hi", "hi-in":
		return "hi", true
	}
	return "", false
}

func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(localeKey).(string); ok && v != "" {
		return v
	}
	return "en"
}

func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(countryKey).(string); ok {
		return v
	}
	return ""
}
