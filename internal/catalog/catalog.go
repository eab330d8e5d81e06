// Package catalog holds the static canned replies of the bot: topic texts per
// language, quick-reply menus, and the keyword rules used when no generative
// backend answers.
package catalog

import (
	"errors"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/sjc-hospitality/hestia-bot/internal/language"
)

// Topic is a canned-response category. Its value doubles as the quick-reply
// payload sent back by the messaging platform.
type Topic string

// Topic keys.
const (
	TopicPrograms     Topic = "PROGRAMS"
	TopicPartnerships Topic = "PARTNERSHIPS"
	TopicEvents       Topic = "EVENTS"
	TopicTraining     Topic = "TRAINING"
	TopicCosts        Topic = "COSTS"
	TopicAcademic     Topic = "ACADEMIC"
	TopicCareers      Topic = "CAREERS"
	TopicThesis       Topic = "THESIS"
	TopicInstructors  Topic = "INSTRUCTORS"
	TopicLocation     Topic = "LOCATION"
)

// ErrUnknownTopic is returned by Lookup for keys without a catalog entry.
var ErrUnknownTopic = errors.New("unknown topic")

// QuickReply is a labeled shortcut carrying a topic key as its payload.
type QuickReply struct {
	Label string
	Topic Topic
}

// Texts maps each language to a literal reply.
type Texts map[language.Tag]string

// get returns the text for lang, falling back to English.
func (t Texts) get(lang language.Tag) string {
	if s, ok := t[lang]; ok && s != "" {
		return s
	}
	return t[language.English]
}

// keywordRule maps a pattern over case-folded input to a topic.
type keywordRule struct {
	topic   Topic
	pattern *regexp.Regexp
}

// Catalog is immutable after construction and safe for concurrent use.
type Catalog struct {
	topics        map[Topic]Texts
	quickReplies  map[language.Tag][]QuickReply
	rules         []keywordRule
	welcome       Texts
	fallback      Texts
	notUnderstood Texts
	apology       Texts
	slowDown      Texts
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the process-wide catalog, built on first use.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = New()
	})
	return defaultCatalog
}

// New builds a catalog from the built-in tables.
func New() *Catalog {
	rules := make([]keywordRule, 0, len(keywordRules))
	for _, r := range keywordRules {
		rules = append(rules, keywordRule{topic: r.topic, pattern: regexp.MustCompile(r.pattern)})
	}

	return &Catalog{
		topics:        topicTexts,
		quickReplies:  quickReplyMenus,
		rules:         rules,
		welcome:       welcomeTexts,
		fallback:      fallbackTexts,
		notUnderstood: notUnderstoodTexts,
		apology:       apologyTexts,
		slowDown:      slowDownTexts,
	}
}

// ParseTopic normalizes a postback payload into a Topic.
// It does not check whether the topic exists.
func ParseTopic(payload string) Topic {
	return Topic(strings.ToUpper(strings.TrimSpace(payload)))
}

// Has reports whether topic has an entry.
func (c *Catalog) Has(topic Topic) bool {
	_, ok := c.topics[topic]
	return ok
}

// Topics returns the known topic keys in menu order.
func (c *Catalog) Topics() []Topic {
	menu := c.quickReplies[language.English]
	out := make([]Topic, 0, len(menu))
	for _, qr := range menu {
		out = append(out, qr.Topic)
	}
	return out
}

// Lookup returns the text of topic in lang, or the English text when lang
// has no entry. Unknown topics return ErrUnknownTopic.
func (c *Catalog) Lookup(topic Topic, lang language.Tag) (string, error) {
	texts, ok := c.topics[topic]
	if !ok {
		return "", ErrUnknownTopic
	}
	return texts.get(lang), nil
}

// KeywordMatch runs the keyword rules in their fixed priority order against
// text and returns the first matching topic's text in lang. When nothing
// matches it returns the generic help text and an empty topic.
func (c *Catalog) KeywordMatch(text string, lang language.Tag) (string, Topic) {
	folded := cases.Fold().String(text)

	for _, r := range c.rules {
		if r.pattern.MatchString(folded) {
			return c.topics[r.topic].get(lang), r.topic
		}
	}
	return c.fallback.get(lang), ""
}

// QuickReplies returns the quick-reply menu for lang. The slice is a copy.
func (c *Catalog) QuickReplies(lang language.Tag) []QuickReply {
	menu, ok := c.quickReplies[lang]
	if !ok {
		menu = c.quickReplies[language.English]
	}
	out := make([]QuickReply, len(menu))
	copy(out, menu)
	return out
}

// Welcome returns the greeting reply.
func (c *Catalog) Welcome(lang language.Tag) string { return c.welcome.get(lang) }

// Fallback returns the generic help reply.
func (c *Catalog) Fallback(lang language.Tag) string { return c.fallback.get(lang) }

// NotUnderstood returns the reply for unknown menu selections.
func (c *Catalog) NotUnderstood(lang language.Tag) string { return c.notUnderstood.get(lang) }

// Apology returns the reply sent when handling an event fails unexpectedly.
func (c *Catalog) Apology(lang language.Tag) string { return c.apology.get(lang) }

// SlowDown returns the reply sent instead of a full answer when a sender
// writes faster than the bot will process.
func (c *Catalog) SlowDown(lang language.Tag) string { return c.slowDown.get(lang) }
