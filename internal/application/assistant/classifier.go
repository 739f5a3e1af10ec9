// Package assistant implements the chat assistant's intent classification
// and slot extraction. Classification is a prioritized rule table over
// regular expressions: every utterance maps to exactly one intent, first
// match by priority wins, and the danger rules short-circuit everything.
package assistant

import (
	"regexp"
	"sort"
	"strings"
)

// Intent is the classified purpose of an utterance.
type Intent string

const (
	IntentNavigate  Intent = "NAVIGATE"
	IntentDo        Intent = "DO"
	IntentQnAHealth Intent = "QNA_HEALTH"
	IntentSmalltalk Intent = "SMALLTALK"
	IntentBlocked   Intent = "BLOCKED"
)

// rule pairs a pattern with the intent it selects. Lower priority values
// match first, so precedence is data rather than control flow.
type rule struct {
	pattern  *regexp.Regexp
	intent   Intent
	priority int
}

var rules = buildRules()

func buildRules() []rule {
	r := []rule{
		// Safety override: medical emergency language blocks the assistant
		// outright, regardless of any other keyword in the utterance.
		{regexp.MustCompile(`(?i)\b(heart attack|chest pain|stroke|seizure|can'?t breathe|cannot breathe|overdose|suicid\w*|kill myself|passing out|unconscious|911|emergency room)\b`), IntentBlocked, 0},

		// Navigation verb plus a destination keyword.
		{regexp.MustCompile(`(?i)\b(open|go to|goto|take me to|show me|show|navigate to|bring up)\b.*\b(dashboard|home|shopping|list|planner|meal plan|plans?|glucose|diabetes|settings|profile|pricing|fitbrain|progress|tracker)\b`), IntentNavigate, 10},

		// Add-to-shopping-list command.
		{regexp.MustCompile(`(?i)\b(add|put)\b.+\b(list|cart|groceries)\b`), IntentDo, 20},
		// Other action verb plus object.
		{regexp.MustCompile(`(?i)\b(log|track|record|save|remove|delete|clear)\b\s+\w+`), IntentDo, 21},

		// Nutrition, fitness, and mindset questions.
		{regexp.MustCompile(`(?i)\b(protein|carb\w*|calorie\w*|fat\w*|fiber|vitamin\w*|macro\w*|nutrition|nutrient\w*|diet|keto|fasting|sugar|glucose|insulin)\b`), IntentQnAHealth, 30},
		{regexp.MustCompile(`(?i)\b(workout\w*|exercise\w*|cardio|strength|running|yoga|steps)\b`), IntentQnAHealth, 31},
		{regexp.MustCompile(`(?i)\b(sleep|stress|motivat\w*|mindset|habit\w*|craving\w*)\b`), IntentQnAHealth, 32},

		// Exact greeting and closing tokens.
		{regexp.MustCompile(`(?i)^\s*(hi|hello|hey|yo|howdy|thanks|thank you|bye|goodbye|good morning|good night|see you)[.!?\s]*$`), IntentSmalltalk, 40},
	}
	sort.SliceStable(r, func(i, j int) bool { return r[i].priority < r[j].priority })
	return r
}

// Classify maps a free-text utterance to exactly one intent. Total and
// deterministic: unmatched input defaults to a health question.
func Classify(utterance string) Intent {
	text := strings.TrimSpace(utterance)
	if text == "" {
		return IntentQnAHealth
	}
	for _, r := range rules {
		if r.pattern.MatchString(text) {
			return r.intent
		}
	}
	return IntentQnAHealth
}
