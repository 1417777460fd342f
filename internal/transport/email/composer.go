package email

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/dailydish/recipe-feed/internal/domain"
)

// Composer renders a batch of recipes into the daily email. Recipes are
// numbered in order; the numbers are what reply ratings refer to.
type Composer struct {
	Now func() time.Time
}

func NewComposer() *Composer {
	return &Composer{Now: time.Now}
}

var htmlBodyTemplate = template.Must(template.New("daily").Parse(`<html>
<body style="font-family: Georgia, serif; max-width: 640px; margin: 0 auto;">
<h1>Tonight's Dinner {{if gt (len .Recipes) 1}}Ideas{{else}}Idea{{end}}</h1>
{{range $i, $r := .Recipes}}
<div style="margin-bottom: 32px;">
<h2>Recipe {{$r.Number}}: {{$r.Title}}</h2>
{{if $r.ImageURL}}<img src="{{$r.ImageURL}}" alt="{{$r.Title}}" style="max-width: 100%;">{{end}}
<p>{{$r.Summary}}</p>
{{if $r.Ingredients}}<h3>Ingredients</h3>
<ul>{{range $r.Ingredients}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{if $r.Instructions}}<h3>Instructions</h3>
<ol>{{range $r.Instructions}}<li>{{.}}</li>{{end}}</ol>{{end}}
{{if $r.SourceURL}}<p><a href="{{$r.SourceURL}}">Full recipe{{if $r.SourceWebsite}} at {{$r.SourceWebsite}}{{end}}</a></p>{{end}}
</div>
{{end}}
<hr>
<p>Cooked one of these? Reply to this email to rate it, for example:</p>
<p><em>{{.RatingExample}}</em></p>
<p>Ratings from 1 (never again) to 5 (loved it) tune future picks.</p>
</body>
</html>
`))

type composedRecipe struct {
	Number        int
	Title         string
	Summary       string
	ImageURL      string
	Ingredients   []string
	Instructions  []string
	SourceURL     string
	SourceWebsite string
}

// ComposeDailyEmail returns the subject, HTML body, and plain text body
// for the given recipes, in email order.
func (c *Composer) ComposeDailyEmail(recipes []domain.Recipe) (string, string, string, error) {
	if len(recipes) == 0 {
		return "", "", "", fmt.Errorf("composing email with no recipes")
	}

	composed := make([]composedRecipe, 0, len(recipes))
	for i, recipe := range recipes {
		composed = append(composed, composedRecipe{
			Number:        i + 1,
			Title:         recipe.Title,
			Summary:       recipeSummary(recipe),
			ImageURL:      recipe.ImageURL,
			Ingredients:   recipe.Ingredients,
			Instructions:  recipe.Instructions,
			SourceURL:     recipe.SourceURL,
			SourceWebsite: recipe.SourceWebsite,
		})
	}

	var html strings.Builder
	err := htmlBodyTemplate.Execute(&html, struct {
		Recipes       []composedRecipe
		RatingExample string
	}{
		Recipes:       composed,
		RatingExample: ratingExample(len(recipes)),
	})
	if err != nil {
		return "", "", "", fmt.Errorf("rendering HTML body: %w", err)
	}

	return c.subject(recipes), html.String(), textBody(composed), nil
}

func (c *Composer) subject(recipes []domain.Recipe) string {
	if len(recipes) == 1 {
		return "Today's Dinner Recipe: " + recipes[0].Title
	}
	return "Your Daily Dinner Recipes - " + c.Now().Format("Jan 02")
}

func recipeSummary(r domain.Recipe) string {
	var parts []string
	if r.Cuisine != "" {
		parts = append(parts, capitalize(r.Cuisine))
	}
	if r.CookTimeMinutes > 0 {
		parts = append(parts, fmt.Sprintf("%d min", r.CookTimeMinutes))
	}
	if r.Difficulty != "" {
		parts = append(parts, r.Difficulty)
	}
	if r.Servings > 0 {
		parts = append(parts, fmt.Sprintf("serves %d", r.Servings))
	}
	return strings.Join(parts, " · ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func ratingExample(count int) string {
	if count == 1 {
		return "Recipe 1: 4"
	}
	examples := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		examples = append(examples, fmt.Sprintf("Recipe %d: %d", i, 3+i%3))
	}
	return strings.Join(examples, ", ")
}

func textBody(recipes []composedRecipe) string {
	var b strings.Builder

	for _, recipe := range recipes {
		fmt.Fprintf(&b, "Recipe %d: %s\n", recipe.Number, recipe.Title)
		if recipe.Summary != "" {
			b.WriteString(recipe.Summary + "\n")
		}
		if len(recipe.Ingredients) > 0 {
			b.WriteString("\nIngredients:\n")
			for _, ingredient := range recipe.Ingredients {
				b.WriteString("- " + ingredient + "\n")
			}
		}
		if len(recipe.Instructions) > 0 {
			b.WriteString("\nInstructions:\n")
			for i, step := range recipe.Instructions {
				fmt.Fprintf(&b, "%d. %s\n", i+1, step)
			}
		}
		if recipe.SourceURL != "" {
			b.WriteString("\nFull recipe: " + recipe.SourceURL + "\n")
		}
		b.WriteString("\n----\n\n")
	}

	b.WriteString("Cooked one of these? Reply to rate it, for example:\n")
	b.WriteString(ratingExample(len(recipes)) + "\n")
	b.WriteString("Ratings from 1 (never again) to 5 (loved it) tune future picks.\n")

	return b.String()
}
