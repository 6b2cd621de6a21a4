// internal/detection/detector.go
package detection

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aeolab/aeolab-workflows/internal/models"
	"github.com/aeolab/aeolab-workflows/internal/openrouter"
)

// Querier is the slice of the gateway client the detector needs for
// AI-assisted verification.
type Querier interface {
	Query(ctx context.Context, prompt string, platform models.Platform) *openrouter.Result
}

// Detection is the outcome of one mention check.
type Detection struct {
	Appeared bool `json:"appeared"`
	Position *int `json:"position"`
}

// Detector decides whether a business is mentioned in an AI response and at
// what rank. It escalates from deterministic string matching to a single
// AI verification call only when the deterministic check finds nothing.
type Detector struct {
	querier Querier
}

func NewDetector(querier Querier) *Detector {
	return &Detector{querier: querier}
}

// Trailing corporate suffixes stripped during name normalization, applied in
// order, each at most once.
var nameSuffixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s+llc\s*$`),
	regexp.MustCompile(`(?i)\s+inc\.?\s*$`),
	regexp.MustCompile(`(?i)\s+co\.?\s*$`),
	regexp.MustCompile(`(?i)\s+ltd\.?\s*$`),
	regexp.MustCompile(`(?i)\s+company\s*$`),
	regexp.MustCompile(`(?i)\s+corp\.?\s*$`),
	regexp.MustCompile(`(?i)\s+corporation\s*$`),
}

var (
	sentenceSplit = regexp.MustCompile(`[.!?]\s+`)
	numberedItem  = regexp.MustCompile(`^\d+[.)]\s`)
	leadingNumber = regexp.MustCompile(`^(\d+)[.)]\s`)
	ordinalItem   = regexp.MustCompile(`(?i)^(first|second|third|fourth|fifth|sixth|seventh|eighth|ninth|tenth)[,.]?\s`)
	bulletItem    = regexp.MustCompile(`^[•\-*]\s`)
)

// NormalizeBusinessName lowercases a business name and strips trailing
// corporate suffixes (LLC, Inc, Co, Ltd, Company, Corp, Corporation).
func NormalizeBusinessName(name string) string {
	normalized := strings.TrimSpace(strings.ToLower(name))
	for _, suffix := range nameSuffixes {
		normalized = suffix.ReplaceAllString(normalized, "")
	}
	return strings.TrimSpace(normalized)
}

// Detect reports whether businessName is mentioned in responseText and at
// what position. Detection failure never propagates: any panic in the
// heuristics is absorbed and reported as not-appeared.
func (d *Detector) Detect(ctx context.Context, businessName, responseText string, platform models.Platform) (det Detection) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("[MentionDetector] ❌ Error detecting mention: %v\n", r)
			det = Detection{Appeared: false, Position: nil}
		}
	}()

	// Stage 1: deterministic string match
	if fuzzyStringMatch(businessName, responseText) {
		position := extractPosition(businessName, responseText)
		fmt.Printf("[MentionDetector] Business %q found via string match at position %v\n", businessName, formatPosition(position))
		return Detection{Appeared: true, Position: position}
	}

	// Stage 2: AI verification, only when stage 1 finds nothing
	fmt.Printf("[MentionDetector] String match unclear for %q, using AI verification...\n", businessName)
	if !d.aiVerification(ctx, businessName, responseText) {
		return Detection{Appeared: false, Position: nil}
	}

	// Stage 3: position extraction for verified mentions
	position := extractPosition(businessName, responseText)
	fmt.Printf("[MentionDetector] Business %q verified via AI at position %v\n", businessName, formatPosition(position))
	return Detection{Appeared: true, Position: position}
}

// fuzzyStringMatch checks for the normalized name in the response, accepting
// reordered multi-word names when all significant words land within a 50
// character window.
func fuzzyStringMatch(businessName, responseText string) bool {
	normalizedBusiness := NormalizeBusinessName(businessName)
	normalizedResponse := strings.ToLower(responseText)

	if strings.Contains(normalizedResponse, normalizedBusiness) {
		return true
	}

	var significantWords []string
	for _, word := range strings.Fields(normalizedBusiness) {
		if len(word) > 2 {
			significantWords = append(significantWords, word)
		}
	}
	if len(significantWords) < 2 {
		return false
	}

	for _, word := range significantWords {
		if !strings.Contains(normalizedResponse, word) {
			return false
		}
	}

	firstWordIndex := strings.Index(normalizedResponse, significantWords[0])
	if firstWordIndex == -1 {
		return false
	}
	lastWord := significantWords[len(significantWords)-1]
	lastWordOffset := strings.Index(normalizedResponse[firstWordIndex:], lastWord)
	return lastWordOffset != -1 && lastWordOffset < 50
}

// aiVerification asks the first platform whether the business is mentioned,
// expecting a literal YES or NO. A failed verification call is treated as
// not-mentioned rather than retried: an unverifiable response is not a
// positive signal.
func (d *Detector) aiVerification(ctx context.Context, businessName, responseText string) bool {
	verificationPrompt := fmt.Sprintf("Does this response mention the business '%s'? Answer only: YES or NO.\n\nResponse: %s", businessName, responseText)

	result := d.querier.Query(ctx, verificationPrompt, models.PlatformChatGPT)
	if !result.Success || result.ResponseText == nil {
		errMsg := "no response text"
		if result.ErrorMessage != nil {
			errMsg = *result.ErrorMessage
		}
		fmt.Printf("[MentionDetector] AI verification failed: %s\n", errMsg)
		return false
	}

	answer := strings.ToUpper(strings.TrimSpace(*result.ResponseText))
	return strings.Contains(answer, "YES")
}

// extractPosition estimates the 1-indexed rank of the business among the
// recommendations in the response. The >20-character fallback treats any
// substantial earlier sentence as a probable prior recommendation; it is a
// heuristic, kept as-is for behavioral parity with the dashboard history.
func extractPosition(businessName, responseText string) *int {
	normalizedBusiness := NormalizeBusinessName(businessName)

	var sentences []string
	for _, s := range sentenceSplit.Split(responseText, -1) {
		if strings.TrimSpace(s) != "" {
			sentences = append(sentences, s)
		}
	}

	firstMentionIndex := -1
	for i, sentence := range sentences {
		if strings.Contains(strings.ToLower(sentence), normalizedBusiness) {
			firstMentionIndex = i
			break
		}
	}
	if firstMentionIndex == -1 {
		return nil
	}

	position := 1
	for _, sentence := range sentences[:firstMentionIndex] {
		trimmed := strings.TrimSpace(sentence)
		switch {
		case numberedItem.MatchString(trimmed):
			position++
		case ordinalItem.MatchString(trimmed):
			position++
		case bulletItem.MatchString(trimmed):
			position++
		case len(trimmed) > 20:
			position++
		}
	}

	// A literal "N." / "N)" on the mention sentence wins over the count.
	if match := leadingNumber.FindStringSubmatch(strings.TrimSpace(sentences[firstMentionIndex])); match != nil {
		if explicit, err := strconv.Atoi(match[1]); err == nil && explicit > 0 && explicit <= 10 {
			return &explicit
		}
	}

	if position < 1 {
		position = 1
	}
	return &position
}

func formatPosition(position *int) interface{} {
	if position == nil {
		return "<nil>"
	}
	return *position
}
