package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Source is one news source of a locale.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	Kind string `yaml:"kind,omitempty"` // "html" (default) or "rss"
}

// Locale is the immutable configuration record for one supported language
// edition. Records are returned by value; callers never mutate the registry.
type Locale struct {
	Code        string
	Name        string
	NativeName  string
	Tag         language.Tag
	ServiceName string
	Voice       string // neural voice for the primary TTS provider
	SpeechLang  string // plain language code for the fallback voice
	Greeting    string
	Themes      []string // canonical theme order for the digest
	Sources     []Source
	Selectors   []string // ordered CSS selector strategies
	OutputDir   string
	AudioDir    string
}

// Base selectors tried first on every site; per-language lists extend them.
var baseSelectors = []string{
	"h1, h2, h3",
	`[data-testid*="headline"]`,
	".headline",
	".title",
	"article h1, article h2",
}

func selectors(extra ...string) []string {
	out := make([]string, 0, len(baseSelectors)+len(extra))
	out = append(out, baseSelectors...)
	return append(out, extra...)
}

var localeCodes = []string{
	"en_GB", "fr_FR", "de_DE", "es_ES", "it_IT", "nl_NL", "en_GB_LON", "en_GB_LIV",
}

var locales = map[string]Locale{
	"en_GB": {
		Code:        "en_GB",
		Name:        "English (UK)",
		NativeName:  "English (UK)",
		Tag:         language.BritishEnglish,
		ServiceName: "AudioNews UK",
		Voice:       "en-IE-EmilyNeural",
		SpeechLang:  "en",
		Greeting:    "Good morning",
		Themes:      []string{"politics", "economy", "health", "international", "climate", "technology", "crime"},
		Sources: []Source{
			{Name: "BBC News", URL: "https://www.bbc.co.uk/news"},
			{Name: "Guardian", URL: "https://www.theguardian.com/uk"},
			{Name: "Independent", URL: "https://www.independent.co.uk"},
			{Name: "Sky News", URL: "https://news.sky.com"},
			{Name: "Telegraph", URL: "https://www.telegraph.co.uk"},
		},
		Selectors: selectors(
			".fc-item__title",   // Guardian
			".story-headline",   // BBC
			".headline-text",    // Independent
		),
		OutputDir: "docs/en_GB",
		AudioDir:  "docs/en_GB/audio",
	},
	"fr_FR": {
		Code:        "fr_FR",
		Name:        "French (France)",
		NativeName:  "Français",
		Tag:         language.French,
		ServiceName: "AudioNews France",
		Voice:       "fr-FR-DeniseNeural",
		SpeechLang:  "fr",
		Greeting:    "Bonjour",
		Themes:      []string{"politique", "économie", "santé", "international", "climat", "technologie", "société"},
		Sources: []Source{
			{Name: "Le Monde", URL: "https://www.lemonde.fr/"},
			{Name: "Le Figaro", URL: "https://www.lefigaro.fr/"},
			{Name: "Libération", URL: "https://www.liberation.fr/"},
			{Name: "France 24", URL: "https://www.france24.com/fr/"},
		},
		Selectors: selectors(
			".article__title",    // Le Monde
			".fig-headline",      // Le Figaro
			".teaser__title",     // Libération
			".t-content__title",  // France 24
			".article-title",
			".titre",
			".headline-title",
		),
		OutputDir: "docs/fr_FR",
		AudioDir:  "docs/fr_FR/audio",
	},
	"de_DE": {
		Code:        "de_DE",
		Name:        "German (Germany)",
		NativeName:  "Deutsch",
		Tag:         language.German,
		ServiceName: "AudioNews Deutschland",
		Voice:       "de-DE-KatjaNeural",
		SpeechLang:  "de",
		Greeting:    "Guten Morgen",
		Themes:      []string{"politik", "wirtschaft", "gesundheit", "international", "klima", "technologie", "gesellschaft"},
		Sources: []Source{
			{Name: "Der Spiegel", URL: "https://www.spiegel.de/"},
			{Name: "Die Zeit", URL: "https://www.zeit.de/"},
			{Name: "Süddeutsche Zeitung", URL: "https://www.sueddeutsche.de/"},
			{Name: "Frankfurter Allgemeine", URL: "https://www.faz.net/"},
		},
		Selectors: selectors(
			".article-title",      // Der Spiegel
			".zon-teaser__title",  // Die Zeit
			".entry-title",        // Süddeutsche Zeitung
			".js-headline",        // FAZ
			".headline",
			".titel",
			".schlagzeile",
		),
		OutputDir: "docs/de_DE",
		AudioDir:  "docs/de_DE/audio",
	},
	"es_ES": {
		Code:        "es_ES",
		Name:        "Spanish (Spain)",
		NativeName:  "Español",
		Tag:         language.EuropeanSpanish,
		ServiceName: "AudioNews España",
		Voice:       "es-ES-ElviraNeural",
		SpeechLang:  "es",
		Greeting:    "Buenos días",
		Themes:      []string{"política", "economía", "salud", "internacional", "clima", "tecnología", "crimen"},
		Sources: []Source{
			{Name: "El País", URL: "https://elpais.com/"},
			{Name: "El Mundo", URL: "https://www.elmundo.es/"},
			{Name: "ABC", URL: "https://www.abc.es/"},
			{Name: "La Vanguardia", URL: "https://www.lavanguardia.com/"},
		},
		Selectors: selectors(
			".c_h_t",                         // El País
			".ue-c-cover-content__headline",  // El Mundo
			".titular",                       // ABC
			".tit",                           // La Vanguardia
			".headline",
			".titulo",
			".cabecera",
		),
		OutputDir: "docs/es_ES",
		AudioDir:  "docs/es_ES/audio",
	},
	"it_IT": {
		Code:        "it_IT",
		Name:        "Italian (Italy)",
		NativeName:  "Italiano",
		Tag:         language.Italian,
		ServiceName: "AudioNews Italia",
		Voice:       "it-IT-ElsaNeural",
		SpeechLang:  "it",
		Greeting:    "Buongiorno",
		Themes:      []string{"politica", "economia", "salute", "internazionale", "clima", "tecnologia", "crimine"},
		Sources: []Source{
			{Name: "Corriere della Sera", URL: "https://www.corriere.it/"},
			{Name: "La Repubblica", URL: "https://www.repubblica.it/"},
			{Name: "La Gazzetta dello Sport", URL: "https://www.gazzetta.it/"},
			{Name: "Il Sole 24 Ore", URL: "https://www.ilsole24ore.com/"},
		},
		Selectors: selectors(
			".title-art",       // Corriere della Sera
			".entry-title",     // La Repubblica
			".gazzetta-title",  // Gazzetta dello Sport
			".article-title",   // Il Sole 24 Ore
			".headline",
			".titolo",
			".intestazione",
		),
		OutputDir: "docs/it_IT",
		AudioDir:  "docs/it_IT/audio",
	},
	"nl_NL": {
		Code:        "nl_NL",
		Name:        "Dutch (Netherlands)",
		NativeName:  "Nederlands",
		Tag:         language.Dutch,
		ServiceName: "AudioNews Nederland",
		Voice:       "nl-NL-ColetteNeural",
		SpeechLang:  "nl",
		Greeting:    "Goedemorgen",
		Themes:      []string{"politiek", "economie", "gezondheid", "internationaal", "klimaat", "technologie", "misdaad"},
		Sources: []Source{
			{Name: "NOS", URL: "https://nos.nl/"},
			{Name: "De Telegraaf", URL: "https://www.telegraaf.nl/"},
			{Name: "Volkskrant", URL: "https://www.volkskrant.nl/"},
			{Name: "NRC", URL: "https://www.nrc.nl/"},
		},
		Selectors: selectors(
			".sc-1x7olzq",            // NOS
			".ArticleTeaser__title",  // De Telegraaf
			".teaser__title",         // Volkskrant
			".article__title",        // NRC
			".headline",
			".titel",
			".kop",
		),
		OutputDir: "docs/nl_NL",
		AudioDir:  "docs/nl_NL/audio",
	},
	"en_GB_LON": {
		Code:        "en_GB_LON",
		Name:        "English (London)",
		NativeName:  "English (London)",
		Tag:         language.BritishEnglish,
		ServiceName: "AudioNews London",
		Voice:       "en-GB-SoniaNeural",
		SpeechLang:  "en",
		Greeting:    "Good morning London",
		Themes:      []string{"transport", "housing", "westminster", "culture", "crime", "business", "tfl"},
		Sources: []Source{
			{Name: "Evening Standard", URL: "https://www.standard.co.uk/"},
			{Name: "Time Out London", URL: "https://www.timeout.com/london/news"},
			{Name: "MyLondon", URL: "https://www.mylondon.news/"},
			{Name: "BBC London", URL: "https://www.bbc.co.uk/news/england/london"},
			{Name: "ITV London", URL: "https://www.itv.com/news/london"},
		},
		Selectors: selectors(
			".fc-item__title",      // Guardian
			".story-headline",      // BBC
			".headline-text",       // Independent
			".standard-headline",   // Evening Standard
			".echo-headline",       // Liverpool Echo
			".article-headline",
		),
		OutputDir: "docs/en_GB_LON",
		AudioDir:  "docs/en_GB_LON/audio",
	},
	"en_GB_LIV": {
		Code:        "en_GB_LIV",
		Name:        "English (Liverpool)",
		NativeName:  "English (Liverpool)",
		Tag:         language.BritishEnglish,
		ServiceName: "AudioNews Liverpool",
		Voice:       "en-GB-LibbyNeural",
		SpeechLang:  "en",
		Greeting:    "Good morning Liverpool",
		Themes:      []string{"football", "merseyside", "culture", "waterfront", "music", "business", "transport"},
		Sources: []Source{
			{Name: "Liverpool Echo", URL: "https://www.liverpoolecho.co.uk/"},
			{Name: "Liverpool FC", URL: "https://www.liverpoolfc.com/news"},
			{Name: "BBC Merseyside", URL: "https://www.bbc.co.uk/news/england/merseyside"},
			{Name: "Radio City", URL: "https://www.radiocity.co.uk/news/liverpool-news/"},
			{Name: "The Guide Liverpool", URL: "https://www.theguideliverpool.com/news/"},
		},
		Selectors: selectors(
			".fc-item__title",      // Guardian
			".story-headline",      // BBC
			".headline-text",       // Independent
			".standard-headline",   // Evening Standard
			".echo-headline",       // Liverpool Echo
			".article-headline",
		),
		OutputDir: "docs/en_GB_LIV",
		AudioDir:  "docs/en_GB_LIV/audio",
	},
}

// GetLocale looks up a locale record by code.
func GetLocale(code string) (Locale, error) {
	l, ok := locales[code]
	if !ok {
		return Locale{}, fmt.Errorf("unknown language %q (available: %s)", code, strings.Join(localeCodes, ", "))
	}
	return l, nil
}

// LocaleCodes returns the supported codes in registry order.
func LocaleCodes() []string {
	out := make([]string, len(localeCodes))
	copy(out, localeCodes)
	return out
}

// WithSources returns a copy of the locale with its source list replaced.
// Used by the YAML override file; the registry itself stays untouched.
func (l Locale) WithSources(src []Source) Locale {
	l.Sources = make([]Source, len(src))
	copy(l.Sources, src)
	return l
}
