package prompt

import (
	"strings"

	"github.com/yildizm/go-promptfmt"
)

const systemPrompt = "You extract product insights from customer reviews. " +
	"Answer only from the reviews you are given and respond with a JSON object " +
	"containing \"item_name\" and \"common_themes\"."

const instructions = `Answer the question using only the provided customer reviews.
Respond with a JSON object with two fields: "item_name" and "common_themes".`

// fewShotExamples is the fixed two-shot block preceding every query.
const fewShotExamples = `EXAMPLE 1
REVIEWS:
- The grinder is quiet and the espresso tastes rich.
- Grinder settings are easy to dial in for espresso.
QUESTION: What do people think about the grinder?
ANSWER: {"item_name": "espresso grinder", "common_themes": ["quiet operation", "easy to adjust", "rich espresso flavor"]}

EXAMPLE 2
REVIEWS:
- The milk frother stopped working after two weeks.
- Frother produces thin foam and feels flimsy.
QUESTION: How reliable is the milk frother?
ANSWER: {"item_name": "milk frother", "common_themes": ["stops working quickly", "thin foam", "flimsy build"]}`

// ReviewAnswer is the expected shape of a generated answer.
type ReviewAnswer struct {
	ItemName     string   `json:"item_name"`
	CommonThemes []string `json:"common_themes"`
}

// ReviewInsightPattern creates prompts for answering a question about a
// set of retrieved customer reviews.
type ReviewInsightPattern struct {
	promptfmt.BasePattern
	Query   string
	Reviews []string
}

// NewReviewInsightPattern creates a review insight pattern
func NewReviewInsightPattern() *ReviewInsightPattern {
	return &ReviewInsightPattern{
		BasePattern: promptfmt.BasePattern{
			Description: "Answers a question about retrieved customer reviews with item name and common themes",
			Tags:        []string{"reviews", "rag", "product-insights"},
		},
	}
}

func (p *ReviewInsightPattern) WithQuery(query string) *ReviewInsightPattern {
	p.Query = query
	return p
}

func (p *ReviewInsightPattern) WithReviews(reviews []string) *ReviewInsightPattern {
	p.Reviews = reviews
	return p
}

// Build composes the prompt. Construction is pure and deterministic:
// the output embeds the query and every review verbatim.
func (p *ReviewInsightPattern) Build() *promptfmt.Prompt {
	var body strings.Builder
	body.WriteString(instructions)
	body.WriteString("\n\n")
	body.WriteString(fewShotExamples)
	body.WriteString("\n\nREVIEWS:\n")
	for _, review := range p.Reviews {
		body.WriteString("- ")
		body.WriteString(review)
		body.WriteString("\n")
	}
	body.WriteString("QUESTION: ")
	body.WriteString(p.Query)
	body.WriteString("\nANSWER:")

	return promptfmt.New().
		System(systemPrompt).
		User("%s", body.String()).
		ExpectJSON(&ReviewAnswer{}).
		Build()
}

// Compose builds the generation prompt for a query and its retrieved
// reviews.
func Compose(query string, reviews []string) *promptfmt.Prompt {
	return NewReviewInsightPattern().
		WithQuery(query).
		WithReviews(reviews).
		Build()
}

// ParseAnswer attempts to extract the structured answer from generated
// text. The boolean reports whether parsing succeeded; generation
// output is never required to parse.
func ParseAnswer(text string) (*ReviewAnswer, bool) {
	response := promptfmt.NewResponse(text)
	var answer ReviewAnswer
	result := response.TryParseJSON(&answer)
	if !result.Success {
		return nil, false
	}
	return &answer, true
}
