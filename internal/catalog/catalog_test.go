package catalog

import (
	"errors"
	"testing"

	"github.com/sjc-hospitality/hestia-bot/internal/language"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	t.Parallel()
	c := New()

	got, err := c.Lookup(TopicLocation, language.English)
	require.NoError(t, err)
	assert.Contains(t, got, "Maasin City")

	got, err = c.Lookup(TopicLocation, language.Tagalog)
	require.NoError(t, err)
	assert.Contains(t, got, "Nandito kami")
}

func TestLookup_FallsBackToEnglish(t *testing.T) {
	t.Parallel()
	c := New()

	english, err := c.Lookup(TopicInstructors, language.English)
	require.NoError(t, err)
	bisaya, err := c.Lookup(TopicInstructors, language.Bisaya)
	require.NoError(t, err)
	assert.Equal(t, english, bisaya)
}

func TestLookup_UnknownTopic(t *testing.T) {
	t.Parallel()
	_, err := New().Lookup("SCHOLARSHIPS", language.English)
	assert.True(t, errors.Is(err, ErrUnknownTopic))
}

func TestLookup_Idempotent(t *testing.T) {
	t.Parallel()
	c := Default()
	first, err := c.Lookup(TopicCosts, language.Bisaya)
	require.NoError(t, err)
	second, err := c.Lookup(TopicCosts, language.Bisaya)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEveryMenuTopicHasText(t *testing.T) {
	t.Parallel()
	c := New()
	for _, lang := range language.All {
		menu := c.QuickReplies(lang)
		assert.Len(t, menu, 10, "menu size for %s", lang)
		for _, qr := range menu {
			assert.True(t, c.Has(qr.Topic), "topic %s in %s menu has no text", qr.Topic, lang)
			text, err := c.Lookup(qr.Topic, lang)
			require.NoError(t, err)
			assert.NotEmpty(t, text)
		}
	}
}

func TestKeywordMatch(t *testing.T) {
	t.Parallel()
	c := New()

	tests := []struct {
		name string
		text string
		want Topic
	}{
		{"program", "What courses do you have?", TopicPrograms},
		{"cost tagalog", "magkano ang tuition?", TopicCosts},
		{"cost bisaya", "pila ang bayad", TopicCosts},
		{"location", "Where is the school", TopicLocation},
		{"instructor", "Who is the dean", TopicInstructors},
		{"thesis", "is there a thesis?", TopicThesis},
		{"career", "what jobs can I get", TopicCareers},
		{"partnership", "any industry partners?", TopicPartnerships},
		{"event", "what events are there", TopicEvents},
		{"training", "do you have OJT", TopicTraining},
		{"academic", "is it heavy on memorization", TopicAcademic},
		{"upper case", "TUITION", TopicCosts},
		{"no match", "blah blah", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, got := c.KeywordMatch(tt.text, language.English)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeywordMatch_FirstRuleWins(t *testing.T) {
	t.Parallel()
	c := New()

	// cost precedes career
	text, topic := c.KeywordMatch("what is the tuition and what jobs after", language.English)
	assert.Equal(t, TopicCosts, topic)
	want, _ := c.Lookup(TopicCosts, language.English)
	assert.Equal(t, want, text)

	// program precedes cost
	_, topic = c.KeywordMatch("tuition for the BSTM course", language.English)
	assert.Equal(t, TopicPrograms, topic)
}

func TestKeywordMatch_DefaultText(t *testing.T) {
	t.Parallel()
	c := New()
	text, topic := c.KeywordMatch("hmm", language.Bisaya)
	assert.Empty(t, topic)
	assert.Equal(t, c.Fallback(language.Bisaya), text)
}

func TestQuickReplies_ReturnsCopy(t *testing.T) {
	t.Parallel()
	c := New()
	menu := c.QuickReplies(language.English)
	menu[0].Label = "changed"
	assert.Equal(t, "Programs", c.QuickReplies(language.English)[0].Label)
}

func TestParseTopic(t *testing.T) {
	t.Parallel()
	assert.Equal(t, TopicLocation, ParseTopic(" location "))
	assert.Equal(t, TopicCosts, ParseTopic("COSTS"))
}

func TestTopics(t *testing.T) {
	t.Parallel()
	topics := New().Topics()
	require.Len(t, topics, 10)
	assert.Equal(t, TopicPrograms, topics[0])
	assert.Equal(t, TopicLocation, topics[9])
}

func TestFixedReplies_EveryLanguage(t *testing.T) {
	t.Parallel()
	c := New()
	for _, lang := range []language.Tag{language.English, language.Bisaya, language.Tagalog} {
		for name, text := range map[string]string{
			"welcome":        c.Welcome(lang),
			"fallback":       c.Fallback(lang),
			"not understood": c.NotUnderstood(lang),
			"apology":        c.Apology(lang),
			"slow down":      c.SlowDown(lang),
		} {
			assert.NotEmpty(t, text, "%s in %s", name, lang)
		}
	}
	assert.NotEqual(t, c.SlowDown(language.English), c.SlowDown(language.Tagalog))
	assert.Equal(t, c.SlowDown(language.English), c.SlowDown(language.Tag("klingon")))
}
