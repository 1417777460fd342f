package spoonacular

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dailydish/recipe-feed/internal/datasources"
	"github.com/dailydish/recipe-feed/internal/domain"
)

var _ datasources.RecipeSource = (*Client)(nil)

const defaultBaseURL = "https://api.spoonacular.com/recipes"

// Difficulty is estimated from cook time, as the original data source
// carries no difficulty field of its own.
const (
	easyMaxMinutes   = 30
	mediumMaxMinutes = 60
)

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

type randomRecipesResponse struct {
	Recipes []apiRecipe `json:"recipes"`
}

type apiRecipe struct {
	ID                   int64            `json:"id"`
	Title                string           `json:"title"`
	Image                string           `json:"image"`
	ReadyInMinutes       int              `json:"readyInMinutes"`
	Servings             int              `json:"servings"`
	Cuisines             []string         `json:"cuisines"`
	DishTypes            []string         `json:"dishTypes"`
	SourceURL            string           `json:"sourceUrl"`
	SourceName           string           `json:"sourceName"`
	ExtendedIngredients  []apiIngredient  `json:"extendedIngredients"`
	AnalyzedInstructions []apiInstruction `json:"analyzedInstructions"`
}

type apiIngredient struct {
	Original string `json:"original"`
}

type apiInstruction struct {
	Steps []apiStep `json:"steps"`
}

type apiStep struct {
	Step string `json:"step"`
}

// FetchRandomRecipes pulls up to count random recipes from the API and
// maps them onto catalog entries.
func (c *Client) FetchRandomRecipes(ctx context.Context, count int) ([]domain.Recipe, error) {
	if count <= 0 {
		return nil, fmt.Errorf("recipe count must be positive, got %d", count)
	}

	query := url.Values{}
	query.Set("number", strconv.Itoa(count))
	query.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+"/random?"+query.Encode(), nil,
	)
	if err != nil {
		return nil, fmt.Errorf("building random recipes request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting random recipes: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("random recipes request failed with status %d", resp.StatusCode)
	}

	var payload randomRecipesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding random recipes response: %w", err)
	}

	recipes := make([]domain.Recipe, 0, len(payload.Recipes))
	for _, raw := range payload.Recipes {
		recipes = append(recipes, mapRecipe(raw))
	}
	return recipes, nil
}

func mapRecipe(raw apiRecipe) domain.Recipe {
	recipe := domain.Recipe{
		Title:           raw.Title,
		CookTimeMinutes: raw.ReadyInMinutes,
		Servings:        raw.Servings,
		ImageURL:        raw.Image,
		Difficulty:      estimateDifficulty(raw.ReadyInMinutes),
		SourceURL:       raw.SourceURL,
		SourceWebsite:   raw.SourceName,
		AddedAt:         time.Now(),
	}

	if len(raw.Cuisines) > 0 {
		recipe.Cuisine = raw.Cuisines[0]
	}
	if len(raw.DishTypes) > 0 {
		recipe.DishType = raw.DishTypes[0]
	}

	for _, ingredient := range raw.ExtendedIngredients {
		if ingredient.Original != "" {
			recipe.Ingredients = append(recipe.Ingredients, ingredient.Original)
		}
	}
	for _, instruction := range raw.AnalyzedInstructions {
		for _, step := range instruction.Steps {
			if step.Step != "" {
				recipe.Instructions = append(recipe.Instructions, step.Step)
			}
		}
	}

	return recipe
}

func estimateDifficulty(readyInMinutes int) string {
	switch {
	case readyInMinutes < easyMaxMinutes:
		return "easy"
	case readyInMinutes < mediumMaxMinutes:
		return "medium"
	default:
		return "hard"
	}
}
