// Package conversation provides intent parsing and user notification
// implementations.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/pantryloop/pantryloop/internal/domain"
	"github.com/pantryloop/pantryloop/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches user input to intents using keywords and simple
// patterns.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
	// payload captures the named group "rest" as the intent payload.
	payload bool
}

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regex: regexp.MustCompile(`(?i)^(recommend|suggest|what should (i|we) (cook|eat)|dinner|meal)$`), intent: domain.IntentRecommend},
		{regex: regexp.MustCompile(`(?i)^(no|nah|pass|another|something else|reject)\b\s*(?P<rest>.*)$`), intent: domain.IntentReject, payload: true},
		{regex: regexp.MustCompile(`(?i)^(cook|start|let'?s cook|begin|go)\b\s*(?P<rest>.*)$`), intent: domain.IntentStartCooking, payload: true},
		{regex: regexp.MustCompile(`(?i)^(next|done|continue|n)$`), intent: domain.IntentNextStep},
		{regex: regexp.MustCompile(`(?i)^(back|prev|previous)$`), intent: domain.IntentPrevStep},
		{regex: regexp.MustCompile(`(?i)^(check|uncheck|have|got)\s+(?P<rest>.+)$`), intent: domain.IntentToggleIngredient, payload: true},
		{regex: regexp.MustCompile(`(?i)^(more|double|servings? up|\+)$`), intent: domain.IntentServingsUp},
		{regex: regexp.MustCompile(`(?i)^(less|fewer|halve|servings? down|-)$`), intent: domain.IntentServingsDown},
		{regex: regexp.MustCompile(`(?i)^(timer|start timer|set timer)$`), intent: domain.IntentStartTimer},
		{regex: regexp.MustCompile(`(?i)^(pause|pause timer|hold)$`), intent: domain.IntentPauseTimer},
		{regex: regexp.MustCompile(`(?i)^(reset|reset timer|restart timer)$`), intent: domain.IntentResetTimer},
		{regex: regexp.MustCompile(`(?i)^(rate|stars?)\s+(?P<rest>.+)$`), intent: domain.IntentRate, payload: true},
		{regex: regexp.MustCompile(`(?i)^(skip|skip rating|no rating)$`), intent: domain.IntentSkipRating},
		{regex: regexp.MustCompile(`(?i)^(leave|abandon|exit session|stop cooking)$`), intent: domain.IntentExitSession},
		{regex: regexp.MustCompile(`(?i)^(add|buy|bought|pantry add)\s+(?P<rest>.+)$`), intent: domain.IntentPantryAdd, payload: true},
		{regex: regexp.MustCompile(`(?i)^(pantry|inventory|what do (i|we) have)$`), intent: domain.IntentPantryList},
		{regex: regexp.MustCompile(`(?i)^(expiring|going bad|use soon)$`), intent: domain.IntentPantryExpiring},
		{regex: regexp.MustCompile(`(?i)^(remove|toss|used up|throw out)\s+(?P<rest>.+)$`), intent: domain.IntentPantryRemove, payload: true},
		{regex: regexp.MustCompile(`(?i)^(recipes|list|browse|catalog)$`), intent: domain.IntentListRecipes},
		{regex: regexp.MustCompile(`(?i)^(prep|prep list|tasks)$`), intent: domain.IntentPrepList},
		{regex: regexp.MustCompile(`(?i)^(prepped|prep done|finished)\s+(?P<rest>.+)$`), intent: domain.IntentPrepDone, payload: true},
		{regex: regexp.MustCompile(`(?i)^(stats|level|xp|progress|streak)$`), intent: domain.IntentStats},
		{regex: regexp.MustCompile(`(?i)^invite\b\s*(?P<rest>.*)$`), intent: domain.IntentInvite, payload: true},
		{regex: regexp.MustCompile(`(?i)^(status|where|info)$`), intent: domain.IntentStatus},
		{regex: regexp.MustCompile(`(?i)^(help|h|\?)$`), intent: domain.IntentHelp},
		{regex: regexp.MustCompile(`(?i)^(quit|exit|q)$`), intent: domain.IntentQuit},
	}
	return p
}

// Parse converts user input into an intent. The active session, when
// present, disambiguates bare numbers.
func (p *KeywordParser) Parse(ctx context.Context, input string, session *domain.Session) (*domain.Intent, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	// Bare numbers mean different things mid-session: a rating while
	// one is pending, an ingredient index while cooking.
	if len(trimmed) <= 2 && isDigits(trimmed) && session != nil {
		switch session.Phase {
		case domain.PhaseAwaitingRating:
			return &domain.Intent{Type: domain.IntentRate, Payload: trimmed}, nil
		case domain.PhaseInProgress:
			return &domain.Intent{Type: domain.IntentToggleIngredient, Payload: trimmed}, nil
		}
	}

	for _, rule := range p.patterns {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		p.log.Debug("matched intent: %s", rule.intent)
		intent := &domain.Intent{Type: rule.intent}
		if rule.payload {
			for i, name := range rule.regex.SubexpNames() {
				if name == "rest" && i < len(m) {
					intent.Payload = strings.TrimSpace(m[i])
				}
			}
		}
		return intent, nil
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
