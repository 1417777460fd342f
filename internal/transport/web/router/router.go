package router

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dailydish/recipe-feed/internal/command"
	"github.com/dailydish/recipe-feed/internal/datasources"
	"github.com/dailydish/recipe-feed/internal/transport/web/controller"
)

func MakeRouter(
	catalog datasources.CatalogRepository,
	history datasources.HistoryRepository,
	preferences datasources.PreferenceRepository,
	applyRatingCmd *command.ApplyRating,
	sendCmd command.Command[command.SendDailyRecipesRequest, command.Empty],
	processReplyCmd command.Command[command.ProcessRatingReplyRequest, int],
	rssFeedBaseURL, rssFeedAuthorName, rssFeedAuthorEmail string,
	catalogCacheMaxAge time.Duration,
	authMiddleware func(http.Handler) http.Handler,
) (http.Handler, error) {
	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.Use(authMiddleware)

	r.Handle("/v1/recipes", controller.RecipesList{
		Lister:      catalog,
		CacheMaxAge: catalogCacheMaxAge,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/sends", controller.SendsList{
		Lister: history,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/sends", controller.SendTrigger{
		SendCmd: sendCmd,
	}).Methods(http.MethodPost)

	r.Handle("/v1/sends/{send_id}/rating/{stars}", controller.RatingSet{
		Sends:        history,
		ApplyRatings: applyRatingCmd,
	}).Methods(http.MethodPost, http.MethodOptions)

	r.Handle("/v1/preferences", controller.PreferencesList{
		Lister:  preferences,
		Counter: preferences,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/replies", controller.ReplySubmit{
		ProcessCmd: processReplyCmd,
	}).Methods(http.MethodPost)

	r.Handle("/rss", controller.RSS{
		FeedHostname:    rssFeedBaseURL,
		FeedPath:        "/rss",
		FeedAuthorName:  rssFeedAuthorName,
		FeedAuthorEmail: rssFeedAuthorEmail,
		History:         history,
		CacheMaxAge:     catalogCacheMaxAge,
	})

	return r, nil
}
