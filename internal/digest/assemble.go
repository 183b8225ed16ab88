package digest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dynamicdevices/audionews/internal/config"
	"github.com/dynamicdevices/audionews/internal/news"
)

// EmptyDigest is published when analysis finds no themed stories at all.
const EmptyDigest = "No significant news themes identified today."

// Assembler concatenates the localized introduction, one synthesized
// paragraph per theme and the localized closing into the digest text.
type Assembler struct {
	synth *Synthesizer
	now   func() time.Time
}

func NewAssembler(synth *Synthesizer) *Assembler {
	return &Assembler{synth: synth, now: time.Now}
}

// Assemble builds the full digest for the locale. Themes appear in the
// group's canonical order; themes whose synthesis comes back empty are
// skipped without failing the run.
func (a *Assembler) Assemble(ctx context.Context, loc config.Locale, group *news.ThemeGroup) (string, error) {
	if group == nil || group.Len() == 0 {
		return EmptyDigest, nil
	}

	p := promptsFor(loc.Code)

	var b strings.Builder
	fmt.Fprintf(&b, p.Intro, loc.Greeting, a.now().Format(dateLayout))

	for _, theme := range group.Themes() {
		content, err := a.synth.Synthesize(ctx, loc, theme, group.Stories(theme))
		if err != nil {
			return "", err
		}
		if content == "" {
			continue
		}
		b.WriteString("\n\n")
		b.WriteString(content)
	}

	b.WriteString("\n\n")
	b.WriteString(p.Closing)
	return b.String(), nil
}
