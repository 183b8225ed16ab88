package digest

import (
	"fmt"
	"strings"

	"github.com/dynamicdevices/audionews/internal/config"
	"github.com/dynamicdevices/audionews/internal/news"
)

// All prompt and digest wording lives here as plain data keyed by locale,
// so editorial changes never touch pipeline logic. Lookups fall back to
// en_GB for locales without their own entry.

const dateLayout = "January 02, 2006"

const analysisSystem = "You are a news editor for a spoken accessibility digest. You respond with valid JSON only."

const analysisTemplate = `Analyze these %s news headlines and organize them into themes.

Headlines:
%s

Use only these theme keys: %s.

Return ONLY a JSON object mapping each theme to a list of story
assignments. Each assignment has "index" (the 1-based headline number),
"significance" (1 to 10, where 10 is a story of major national importance)
and "reasoning" (one short sentence). Leave out headlines that are adverts,
listings or navigation text. Never invent stories.`

const (
	englishSystem = "You are a professional news editor writing for an audio accessibility service. You synthesize today's coverage in your own words and never copy headlines."

	englishSynthesis = `Write a concise spoken-news synthesis of today's %s stories.

Headlines:
%s

Requirements: under 80 words, neutral broadcast tone, open with "In %s news today", plain sentences suitable for text-to-speech, no lists, no URLs.`

	englishClosing = "This digest provides a synthesis of today's most significant news stories. All content is original analysis designed for accessibility. For complete coverage, visit news websites directly."
)

type promptSet struct {
	Region    string // noun phrase dropped into the analysis prompt
	System    string // synthesis system message
	Synthesis string // verbs: theme, headline block, theme
	Intro     string // verbs: greeting, formatted date
	Closing   string
}

var promptSets = map[string]promptSet{
	"en_GB": {
		Region:    "UK",
		System:    englishSystem,
		Synthesis: englishSynthesis,
		Intro:     "%s. Here's your UK news digest for %s, brought to you by Dynamic Devices. ",
		Closing:   englishClosing,
	},
	"fr_FR": {
		Region: "French",
		System: "Vous êtes un rédacteur d'actualités professionnel écrivant pour un service audio d'accessibilité. Vous synthétisez la couverture du jour avec vos propres mots et ne copiez jamais les titres.",
		Synthesis: `Rédigez une synthèse parlée et concise des actualités %s du jour.

Titres :
%s

Exigences : moins de 80 mots, ton neutre de bulletin, commencez par « Dans l'actualité %s aujourd'hui », phrases simples adaptées à la synthèse vocale, pas de listes, pas d'URL.`,
		Intro:   "%s. Voici votre résumé d'actualités françaises pour %s, présenté par Dynamic Devices. ",
		Closing: "Ce résumé fournit une synthèse des actualités les plus importantes d'aujourd'hui. Tout le contenu est une analyse originale conçue pour l'accessibilité. Pour une couverture complète, visitez directement les sites d'actualités.",
	},
	"de_DE": {
		Region: "German",
		System: "Sie sind ein professioneller Nachrichtenredakteur für einen Audio-Dienst zur Barrierefreiheit. Sie fassen die heutige Berichterstattung in eigenen Worten zusammen und kopieren niemals Schlagzeilen.",
		Synthesis: `Verfassen Sie eine kurze gesprochene Zusammenfassung der heutigen Nachrichten zum Thema %s.

Schlagzeilen:
%s

Vorgaben: unter 80 Wörtern, neutraler Nachrichtenton, beginnen Sie mit "In den %s-Nachrichten heute", einfache Sätze für die Sprachausgabe, keine Listen, keine URLs.`,
		Intro:   "%s. Hier ist Ihre deutsche Nachrichtenzusammenfassung für %s, präsentiert von Dynamic Devices. ",
		Closing: "Diese Zusammenfassung bietet eine Synthese der wichtigsten Nachrichten von heute. Alle Inhalte sind ursprüngliche Analysen, die für die Barrierefreiheit entwickelt wurden. Für eine vollständige Berichterstattung besuchen Sie direkt die Nachrichten-Websites.",
	},
	"es_ES": {
		Region: "Spanish",
		System: "Eres un editor de noticias profesional que escribe para un servicio de audio de accesibilidad. Sintetizas la cobertura de hoy con tus propias palabras y nunca copias titulares.",
		Synthesis: `Redacta una síntesis hablada y concisa de las noticias de %s de hoy.

Titulares:
%s

Requisitos: menos de 80 palabras, tono neutro de boletín, comienza con "En las noticias de %s de hoy", frases sencillas aptas para síntesis de voz, sin listas, sin URL.`,
		Intro:   "%s. Aquí está su resumen de noticias españolas para %s, presentado por Dynamic Devices. ",
		Closing: "Este resumen ofrece una síntesis de las noticias más importantes de hoy. Todo el contenido es un análisis original diseñado para la accesibilidad. Para una cobertura completa, visite directamente los sitios web de noticias.",
	},
	"it_IT": {
		Region: "Italian",
		System: "Sei un editor di notizie professionista che scrive per un servizio audio di accessibilità. Sintetizzi la copertura di oggi con parole tue e non copi mai i titoli.",
		Synthesis: `Scrivi una sintesi parlata e concisa delle notizie di %s di oggi.

Titoli:
%s

Requisiti: meno di 80 parole, tono neutro da notiziario, inizia con "Nelle notizie di %s di oggi", frasi semplici adatte alla sintesi vocale, niente elenchi, niente URL.`,
		Intro:   "%s. Ecco il suo riepilogo delle notizie italiane per %s, presentato da Dynamic Devices. ",
		Closing: "Questo riepilogo offre una sintesi delle notizie più importanti di oggi. Tutti i contenuti sono analisi originali pensate per l'accessibilità. Per una copertura completa, visitate direttamente i siti web di notizie.",
	},
	"nl_NL": {
		Region: "Dutch",
		System: "Je bent een professionele nieuwsredacteur die schrijft voor een audiodienst voor toegankelijkheid. Je vat de berichtgeving van vandaag in je eigen woorden samen en kopieert nooit koppen.",
		Synthesis: `Schrijf een beknopte gesproken samenvatting van het %s-nieuws van vandaag.

Koppen:
%s

Eisen: minder dan 80 woorden, neutrale nieuwstoon, begin met "In het %s-nieuws van vandaag", eenvoudige zinnen geschikt voor spraaksynthese, geen lijsten, geen URL's.`,
		Intro:   "%s. Hier is uw Nederlandse nieuwsoverzicht voor %s, aangeboden door Dynamic Devices. ",
		Closing: "Dit overzicht biedt een synthese van de belangrijkste nieuwsberichten van vandaag. Alle inhoud is originele analyse, ontworpen voor toegankelijkheid. Bezoek voor volledige berichtgeving rechtstreeks de nieuwswebsites.",
	},
	"en_GB_LON": {
		Region:    "London",
		System:    englishSystem,
		Synthesis: englishSynthesis,
		Intro:     "%s. Here's your London news digest for %s, brought to you by Dynamic Devices. ",
		Closing:   englishClosing,
	},
	"en_GB_LIV": {
		Region:    "Liverpool",
		System:    englishSystem,
		Synthesis: englishSynthesis,
		Intro:     "%s. Here's your Liverpool news digest for %s, brought to you by Dynamic Devices. ",
		Closing:   englishClosing,
	},
}

func promptsFor(code string) promptSet {
	if p, ok := promptSets[code]; ok {
		return p
	}
	return promptSets["en_GB"]
}

func buildAnalysisPrompt(loc config.Locale, stories []news.Story) string {
	lines := make([]string, len(stories))
	for i, s := range stories {
		lines[i] = fmt.Sprintf("%d. %s (Source: %s)", i+1, s.Title, s.Source)
	}
	p := promptsFor(loc.Code)
	return fmt.Sprintf(analysisTemplate, p.Region, strings.Join(lines, "\n"), strings.Join(loc.Themes, ", "))
}

func buildSynthesisPrompt(code, theme string, stories []news.Story) string {
	n := len(stories)
	if n > maxSynthesisStories {
		n = maxSynthesisStories
	}
	lines := make([]string, 0, n)
	for _, s := range stories[:n] {
		lines = append(lines, "- "+s.Title)
	}
	p := promptsFor(code)
	return fmt.Sprintf(p.Synthesis, theme, strings.Join(lines, "\n"), theme)
}
