package email

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dailydish/recipe-feed/internal/domain"
)

// Parser extracts position/stars pairs from free-form reply text. It is
// deliberately forgiving about format; anything it cannot read is ignored.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

var (
	// "Recipe 1: 4", "recipe 2 - 5", "#1: 3", "1: 4 stars", "2: 5/5"
	numericRatingPattern = regexp.MustCompile(
		`(?i)(?:recipe\s*)?#?(\d+)\s*[:：\-]\s*(\d+)(?:\s*(?:stars?|/5))?`)

	// "Recipe 1: ⭐⭐⭐⭐", "2: ★★★"
	starRatingPattern = regexp.MustCompile(
		`(?i)(?:recipe\s*)?#?(\d+)\s*[:：\-]\s*([⭐★]+)`)

	// "4/5 for recipe 1", "5 stars for the second one"
	reverseRatingPattern = regexp.MustCompile(
		`(?i)(\d+)\s*(?:stars?|/5|out of 5)\s+for\s+(?:the\s+)?(?:recipe\s*)?#?(\d+|first|second|third|fourth|fifth)`)

	quotedHeaderPattern = regexp.MustCompile(`(?i)^on .+ wrote:\s*$`)
)

var ordinalPositions = map[string]int{
	"first":  1,
	"second": 2,
	"third":  3,
	"fourth": 4,
	"fifth":  5,
}

// ParseRatings scans the reply body for ratings. The first rating found
// for a position wins; later mentions of the same position are ignored.
func (p *Parser) ParseRatings(body string) []domain.PositionRating {
	body = stripQuotedText(body)

	seen := make(map[int]bool)
	var ratings []domain.PositionRating

	record := func(position, stars int) {
		if position < 1 || seen[position] {
			return
		}
		seen[position] = true
		ratings = append(ratings, domain.PositionRating{Position: position, Stars: stars})
	}

	for _, match := range reverseRatingPattern.FindAllStringSubmatch(body, -1) {
		stars, _ := strconv.Atoi(match[1])
		position, ok := ordinalPositions[strings.ToLower(match[2])]
		if !ok {
			position, _ = strconv.Atoi(match[2])
		}
		record(position, stars)
	}

	for _, match := range starRatingPattern.FindAllStringSubmatch(body, -1) {
		position, _ := strconv.Atoi(match[1])
		record(position, len([]rune(match[2])))
	}

	for _, match := range numericRatingPattern.FindAllStringSubmatch(body, -1) {
		position, _ := strconv.Atoi(match[1])
		stars, _ := strconv.Atoi(match[2])
		record(position, stars)
	}

	return ratings
}

// stripQuotedText drops the quoted original message and any signature,
// keeping only the text the sender actually wrote.
func stripQuotedText(body string) string {
	var kept []string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if quotedHeaderPattern.MatchString(trimmed) {
			break
		}
		if trimmed == "--" || strings.HasPrefix(trimmed, "-- ") {
			break
		}
		if strings.HasPrefix(trimmed, ">") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
