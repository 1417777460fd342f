package controller

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/feeds"

	"github.com/dailydish/recipe-feed/internal/datasources"
	"github.com/dailydish/recipe-feed/internal/domain"
)

const rssFeedItemLimit = 30

// RSS serves the recently sent recipes as an RSS feed, so the daily
// picks can be followed from a feed reader as well as email.
type RSS struct {
	FeedHostname    string
	FeedPath        string
	FeedAuthorName  string
	FeedAuthorEmail string
	History         datasources.SentRecipeLister
	CacheMaxAge     time.Duration
}

func (c RSS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	feed := &feeds.Feed{
		Title:       "Daily Dish",
		Link:        &feeds.Link{Href: c.FeedHostname + c.FeedPath},
		Description: "Feed of dinner recipes picked for recent daily emails",
		Author:      &feeds.Author{Name: c.FeedAuthorName, Email: c.FeedAuthorEmail},
		Created:     time.Now(),
	}

	sent, err := c.History.ListRecentSentRecipes(r.Context(), rssFeedItemLimit)
	if err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to fetch sent recipes for feed", "error", err)

		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	for _, item := range sent {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          fmt.Sprintf("send-%d", item.Send.ID),
			IsPermaLink: "false",
			Title:       item.Recipe.Title,
			Link:        &feeds.Link{Href: item.Recipe.SourceURL},
			Description: rssItemDescription(item.Recipe),
			Created:     item.Send.SentAt,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to format feed as RSS", "error", err)

		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/xml")
	w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(c.CacheMaxAge.Seconds())))

	if _, err := w.Write([]byte(rss)); err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to write feed to response", "error", err)
	}
}

func rssItemDescription(recipe domain.Recipe) string {
	var parts []string
	if recipe.Cuisine != "" {
		parts = append(parts, recipe.Cuisine+" cuisine")
	}
	if recipe.CookTimeMinutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutes", recipe.CookTimeMinutes))
	}
	if recipe.Difficulty != "" {
		parts = append(parts, recipe.Difficulty+" difficulty")
	}
	return strings.Join(parts, ", ")
}
