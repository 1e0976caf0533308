package terceros

import (
	"fmt"
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Notice texts. The Spanish wording doubles as the catalog key.
const (
	noticeLoadFailed   = "Error al cargar datos: %s"
	noticeSaved        = "¡Registro guardado exitosamente!"
	noticeSaveFailed   = "Error al guardar: %s"
	noticeDeleted      = "¡Registro eliminado exitosamente!"
	noticeDeleteFailed = "Error al eliminar: %s"
)

var supportedLocales = []language.Tag{language.Spanish, language.English}

var localeMatcher = language.NewMatcher(supportedLocales)

var englishNotices = map[string]string{
	noticeLoadFailed:   "Could not load data: %s",
	noticeSaved:        "Record saved successfully!",
	noticeSaveFailed:   "Could not save: %s",
	noticeDeleted:      "Record deleted successfully!",
	noticeDeleteFailed: "Could not delete: %s",
}

func init() {
	for key, msg := range englishNotices {
		if err := message.SetString(language.English, key, msg); err != nil {
			panic(fmt.Sprintf("terceros: register notice %q: %v", key, err))
		}
	}
}

// ParseLocale resolves a configured locale to a supported one, defaulting to
// Spanish.
func ParseLocale(raw string) language.Tag {
	tag, err := language.Parse(raw)
	if err != nil {
		return language.Spanish
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return language.Spanish
	}
	return supportedLocales[idx]
}

// negotiateLocale picks the notice language from Accept-Language, falling
// back when nothing supported is requested.
func negotiateLocale(r *http.Request, fallback language.Tag) language.Tag {
	header := r.Header.Get("Accept-Language")
	if header == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return supportedLocales[idx]
}

func noticePrinter(r *http.Request, fallback language.Tag) *message.Printer {
	return message.NewPrinter(negotiateLocale(r, fallback))
}
