package digest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dynamicdevices/audionews/internal/news"
)

func fixedAssembler(client *fakeClient) *Assembler {
	a := NewAssembler(NewSynthesizer(client))
	a.now = func() time.Time {
		return time.Date(2025, time.March, 5, 8, 0, 0, 0, time.UTC)
	}
	return a
}

func TestAssemble_BuildsTheFullDigest(t *testing.T) {
	client := &fakeClient{responses: []string{
		"In politics news today, the government won.",
		"In economy news today, rates rose again.",
	}}

	group := news.NewThemeGroup()
	group.Add("politics", []news.Story{{Title: "Election won"}})
	group.Add("economy", []news.Story{{Title: "Rates rise"}})

	digest, err := fixedAssembler(client).Assemble(context.Background(), ukLocale(t), group)
	require.NoError(t, err)

	want := "Good morning. Here's your UK news digest for March 05, 2025, brought to you by Dynamic Devices. " +
		"\n\nIn politics news today, the government won." +
		"\n\nIn economy news today, rates rose again." +
		"\n\nThis digest provides a synthesis of today's most significant news stories. " +
		"All content is original analysis designed for accessibility. " +
		"For complete coverage, visit news websites directly."
	require.Equal(t, want, digest)
}

func TestAssemble_EmptyGroupPublishesTheEmptyDigest(t *testing.T) {
	client := &fakeClient{}

	digest, err := fixedAssembler(client).Assemble(context.Background(), ukLocale(t), news.NewThemeGroup())
	require.NoError(t, err)
	require.Equal(t, EmptyDigest, digest)
	require.Empty(t, client.requests, "empty group must not reach the model")
}

func TestAssemble_SkipsThemesWithEmptySynthesis(t *testing.T) {
	client := &fakeClient{responses: []string{
		"   \n",
		"In economy news today, something happened.",
	}}

	group := news.NewThemeGroup()
	group.Add("politics", []news.Story{{Title: "a"}})
	group.Add("economy", []news.Story{{Title: "b"}})

	digest, err := fixedAssembler(client).Assemble(context.Background(), ukLocale(t), group)
	require.NoError(t, err)
	require.NotContains(t, digest, "\n\n\n")
	require.Contains(t, digest, "In economy news today")
}

func TestAssemble_SynthesisFailureIsFatal(t *testing.T) {
	client := &fakeClient{err: errors.New("model down")}

	group := news.NewThemeGroup()
	group.Add("politics", []news.Story{{Title: "a"}})

	_, err := fixedAssembler(client).Assemble(context.Background(), ukLocale(t), group)
	require.Error(t, err)
	require.Contains(t, err.Error(), "politics")
}

func TestSynthesize_PromptTakesTopThreeStories(t *testing.T) {
	client := &fakeClient{responses: []string{"paragraph"}}

	stories := []news.Story{
		{Title: "First ranked story", Significance: 9},
		{Title: "Second ranked story", Significance: 8},
		{Title: "Third ranked story", Significance: 7},
		{Title: "Fourth ranked story", Significance: 6},
	}

	_, err := NewSynthesizer(client).Synthesize(context.Background(), ukLocale(t), "politics", stories)
	require.NoError(t, err)

	require.Len(t, client.requests, 1)
	prompt := client.requests[0].Prompt
	require.Contains(t, prompt, "- First ranked story")
	require.Contains(t, prompt, "- Second ranked story")
	require.Contains(t, prompt, "- Third ranked story")
	require.NotContains(t, prompt, "Fourth ranked story")
	require.Contains(t, prompt, `"In politics news today"`)
	require.Contains(t, prompt, "under 80 words")
	require.NotEmpty(t, client.requests[0].System)
}

func TestSynthesize_NoStoriesNoModelCall(t *testing.T) {
	client := &fakeClient{}

	got, err := NewSynthesizer(client).Synthesize(context.Background(), ukLocale(t), "politics", nil)
	require.NoError(t, err)
	require.Equal(t, "", got)
	require.Empty(t, client.requests)
}
