package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/huandu/go-sqlbuilder"

	"github.com/dailydish/recipe-feed/internal/datasources"
	"github.com/dailydish/recipe-feed/internal/domain"
)

var _ datasources.CatalogRepository = (*Repository)(nil)
var _ datasources.HistoryRepository = (*Repository)(nil)
var _ datasources.PreferenceRepository = (*Repository)(nil)

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const recipeColumns = "id, title, cuisine, dish_type, difficulty, " +
	"cook_time_minutes, servings, image_url, ingredients, instructions, " +
	"source_url, source_website, added_at"

func (r *Repository) ListCandidateRecipes(ctx context.Context) ([]domain.Recipe, error) {
	sb := sqlbuilder.Select(recipeColumns)
	sb.From("recipes")
	sb.OrderBy("added_at DESC")

	query, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("running candidate recipes query: %w", err)
	}
	return scanRecipes(rows)
}

func (r *Repository) FetchRecipesByID(ctx context.Context, ids []int64) ([]domain.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	sb := sqlbuilder.Select(recipeColumns)
	sb.From("recipes")
	idArgs := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		idArgs = append(idArgs, id)
	}
	sb.Where(sb.In("id", idArgs...))

	query, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("running recipes by ID query: %w", err)
	}

	fetched, err := scanRecipes(rows)
	if err != nil {
		return nil, err
	}

	// Return results in the same order as the input IDs.
	byID := make(map[int64]domain.Recipe, len(fetched))
	for _, recipe := range fetched {
		byID[recipe.ID] = recipe
	}
	recipes := make([]domain.Recipe, 0, len(ids))
	for _, id := range ids {
		if recipe, ok := byID[id]; ok {
			recipes = append(recipes, recipe)
		}
	}
	return recipes, nil
}

const upsertRecipeQuery = `
INSERT INTO recipes
	(title, cuisine, dish_type, difficulty, cook_time_minutes, servings,
	 image_url, ingredients, instructions, source_url, source_website, added_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
	title = VALUES(title),
	cuisine = VALUES(cuisine),
	dish_type = VALUES(dish_type),
	difficulty = VALUES(difficulty),
	cook_time_minutes = VALUES(cook_time_minutes),
	servings = VALUES(servings),
	image_url = VALUES(image_url),
	ingredients = VALUES(ingredients),
	instructions = VALUES(instructions),
	id = LAST_INSERT_ID(id)`

// UpsertRecipe inserts a recipe or refreshes an existing one, keyed by
// source URL. Returns the catalog ID either way.
func (r *Repository) UpsertRecipe(ctx context.Context, recipe domain.Recipe) (int64, error) {
	ingredients, err := stringSliceToJSON(recipe.Ingredients)
	if err != nil {
		return 0, fmt.Errorf("encoding ingredients: %w", err)
	}
	instructions, err := stringSliceToJSON(recipe.Instructions)
	if err != nil {
		return 0, fmt.Errorf("encoding instructions: %w", err)
	}

	addedAt := recipe.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now()
	}

	res, err := r.db.ExecContext(ctx, upsertRecipeQuery,
		recipe.Title, recipe.Cuisine, recipe.DishType, recipe.Difficulty,
		recipe.CookTimeMinutes, recipe.Servings, recipe.ImageURL,
		ingredients, instructions, recipe.SourceURL, recipe.SourceWebsite,
		addedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("upserting recipe: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading upserted recipe ID: %w", err)
	}
	return id, nil
}

const sendColumns = "id, recipe_id, sent_at, message_id, position, rated, stars, rated_at"

func (r *Repository) ListSendRecordsSince(
	ctx context.Context, cutoff time.Time,
) ([]domain.SendRecord, error) {
	sb := sqlbuilder.Select(sendColumns)
	sb.From("sends")
	sb.Where(sb.GreaterEqualThan("sent_at", cutoff))
	sb.OrderBy("sent_at DESC", "position")

	query, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("running send records query: %w", err)
	}
	return scanSendRecords(rows)
}

func (r *Repository) RecordSends(
	ctx context.Context, messageID string, sentAt time.Time, recipeIDs []int64,
) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, recipeID := range recipeIDs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO sends (recipe_id, sent_at, message_id, position, rated) VALUES (?, ?, ?, ?, FALSE)",
			recipeID, sentAt, messageID, i+1,
		)
		if err != nil {
			return fmt.Errorf("inserting send record at position %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (r *Repository) GetSendRecord(ctx context.Context, id int64) (domain.SendRecord, error) {
	sb := sqlbuilder.Select(sendColumns)
	sb.From("sends")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	row := r.db.QueryRowContext(ctx, query, args...)

	record, err := scanSendRecord(row)
	if err != nil {
		return domain.SendRecord{}, fmt.Errorf("getting send record [%d]: %w", id, err)
	}
	return record, nil
}

func (r *Repository) ListLatestUnratedBatch(
	ctx context.Context, messageID string,
) ([]domain.SendRecord, error) {
	if messageID == "" {
		row := r.db.QueryRowContext(ctx,
			"SELECT message_id FROM sends ORDER BY sent_at DESC, id DESC LIMIT 1")
		if err := row.Scan(&messageID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}
			return nil, fmt.Errorf("finding most recent send: %w", err)
		}
	}

	sb := sqlbuilder.Select(sendColumns)
	sb.From("sends")
	sb.Where(sb.Equal("message_id", messageID), sb.Equal("rated", false))
	sb.OrderBy("position")

	query, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("running unrated batch query: %w", err)
	}
	return scanSendRecords(rows)
}

func (r *Repository) ListRecentSentRecipes(
	ctx context.Context, limit int,
) ([]domain.SentRecipe, error) {
	sb := sqlbuilder.Select(
		"s.id, s.recipe_id, s.sent_at, s.message_id, s.position, s.rated, s.stars, s.rated_at",
		"r.id, r.title, r.cuisine, r.dish_type, r.difficulty, r.cook_time_minutes, "+
			"r.servings, r.image_url, r.ingredients, r.instructions, "+
			"r.source_url, r.source_website, r.added_at",
	)
	sb.From("sends s")
	sb.JoinWithOption(sqlbuilder.InnerJoin, "recipes r", "r.id = s.recipe_id")
	sb.OrderBy("s.sent_at DESC", "s.position")
	sb.Limit(limit)

	query, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("running sent recipes query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sent []domain.SentRecipe
	for rows.Next() {
		var (
			record       domain.SendRecord
			recipe       domain.Recipe
			stars        sql.NullInt64
			ratedAt      sql.NullTime
			ingredients  sql.NullString
			instructions sql.NullString
		)
		if err := rows.Scan(
			&record.ID, &record.RecipeID, &record.SentAt, &record.MessageID,
			&record.Position, &record.Rated, &stars, &ratedAt,
			&recipe.ID, &recipe.Title, &recipe.Cuisine, &recipe.DishType,
			&recipe.Difficulty, &recipe.CookTimeMinutes, &recipe.Servings,
			&recipe.ImageURL, &ingredients, &instructions,
			&recipe.SourceURL, &recipe.SourceWebsite, &recipe.AddedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning sent recipe: %w", err)
		}
		applyRatingColumns(&record, stars, ratedAt)
		if recipe.Ingredients, err = jsonToStringSlice(ingredients.String); err != nil {
			return nil, fmt.Errorf("decoding ingredients: %w", err)
		}
		if recipe.Instructions, err = jsonToStringSlice(instructions.String); err != nil {
			return nil, fmt.Errorf("decoding instructions: %w", err)
		}
		sent = append(sent, domain.SentRecipe{Send: record, Recipe: recipe})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return sent, nil
}

func (r *Repository) ListPreferenceScores(ctx context.Context) ([]domain.PreferenceScore, error) {
	sb := sqlbuilder.Select("dimension, value, score, updated_at")
	sb.From("preferences")
	sb.OrderBy("dimension", "score DESC")

	query, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("running preferences query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var scores []domain.PreferenceScore
	for rows.Next() {
		var score domain.PreferenceScore
		if err := rows.Scan(&score.Dimension, &score.Value, &score.Score, &score.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning preference score: %w", err)
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return scores, nil
}

func (r *Repository) GetPreferenceScore(
	ctx context.Context, dimension domain.Dimension, value string,
) (float64, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT score FROM preferences WHERE dimension = ? AND value = ?",
		string(dimension), value,
	)

	var score float64
	if err := row.Scan(&score); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("getting preference score: %w", err)
	}
	return score, nil
}

func (r *Repository) CountRatings(ctx context.Context) (int, error) {
	row := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sends WHERE rated = TRUE")

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting ratings: %w", err)
	}
	return count, nil
}

func (r *Repository) ListLowRatedRecipeIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT recipe_id FROM sends WHERE rated = TRUE AND stars <= 2")
	if err != nil {
		return nil, fmt.Errorf("running low rated recipes query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning low rated recipe ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return ids, nil
}

const upsertPreferenceQuery = `
INSERT INTO preferences (dimension, value, score, updated_at)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
	score = score + VALUES(score),
	updated_at = VALUES(updated_at)`

// ApplyRating marks the send record rated and applies every preference
// delta in a single transaction, so a rating either fully lands or not
// at all. A send record already rated returns domain.ErrSendAlreadyRated.
func (r *Repository) ApplyRating(
	ctx context.Context,
	event domain.RatingEvent,
	deltas []domain.PreferenceDelta,
) ([]domain.PreferenceScore, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"UPDATE sends SET rated = TRUE, stars = ?, rated_at = ? WHERE id = ? AND rated = FALSE",
		event.Stars, event.RatedAt, event.SendRecordID,
	)
	if err != nil {
		return nil, fmt.Errorf("marking send record rated: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking rated rows: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("send record [%d]: %w", event.SendRecordID, domain.ErrSendAlreadyRated)
	}

	for _, delta := range deltas {
		if _, err := tx.ExecContext(ctx, upsertPreferenceQuery,
			string(delta.Dimension), delta.Value, delta.Delta, event.RatedAt,
		); err != nil {
			return nil, fmt.Errorf("upserting preference %s=%s: %w", delta.Dimension, delta.Value, err)
		}
	}

	updated := make([]domain.PreferenceScore, 0, len(deltas))
	for _, delta := range deltas {
		row := tx.QueryRowContext(ctx,
			"SELECT score, updated_at FROM preferences WHERE dimension = ? AND value = ?",
			string(delta.Dimension), delta.Value,
		)
		score := domain.PreferenceScore{Dimension: delta.Dimension, Value: delta.Value}
		if err := row.Scan(&score.Score, &score.UpdatedAt); err != nil {
			return nil, fmt.Errorf("reading updated preference %s=%s: %w", delta.Dimension, delta.Value, err)
		}
		updated = append(updated, score)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return updated, nil
}

func scanRecipes(rows *sql.Rows) ([]domain.Recipe, error) {
	defer func() { _ = rows.Close() }()

	var recipes []domain.Recipe
	for rows.Next() {
		var (
			recipe       domain.Recipe
			ingredients  sql.NullString
			instructions sql.NullString
		)
		if err := rows.Scan(
			&recipe.ID, &recipe.Title, &recipe.Cuisine, &recipe.DishType,
			&recipe.Difficulty, &recipe.CookTimeMinutes, &recipe.Servings,
			&recipe.ImageURL, &ingredients, &instructions,
			&recipe.SourceURL, &recipe.SourceWebsite, &recipe.AddedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}

		var err error
		if recipe.Ingredients, err = jsonToStringSlice(ingredients.String); err != nil {
			return nil, fmt.Errorf("decoding ingredients: %w", err)
		}
		if recipe.Instructions, err = jsonToStringSlice(instructions.String); err != nil {
			return nil, fmt.Errorf("decoding instructions: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return recipes, nil
}

func scanSendRecords(rows *sql.Rows) ([]domain.SendRecord, error) {
	defer func() { _ = rows.Close() }()

	var records []domain.SendRecord
	for rows.Next() {
		var (
			record  domain.SendRecord
			stars   sql.NullInt64
			ratedAt sql.NullTime
		)
		if err := rows.Scan(
			&record.ID, &record.RecipeID, &record.SentAt, &record.MessageID,
			&record.Position, &record.Rated, &stars, &ratedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning send record: %w", err)
		}
		applyRatingColumns(&record, stars, ratedAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return records, nil
}

func scanSendRecord(row *sql.Row) (domain.SendRecord, error) {
	var (
		record  domain.SendRecord
		stars   sql.NullInt64
		ratedAt sql.NullTime
	)
	if err := row.Scan(
		&record.ID, &record.RecipeID, &record.SentAt, &record.MessageID,
		&record.Position, &record.Rated, &stars, &ratedAt,
	); err != nil {
		return domain.SendRecord{}, err
	}
	applyRatingColumns(&record, stars, ratedAt)
	return record, nil
}

func applyRatingColumns(record *domain.SendRecord, stars sql.NullInt64, ratedAt sql.NullTime) {
	if stars.Valid {
		record.Stars = int(stars.Int64)
	}
	if ratedAt.Valid {
		t := ratedAt.Time
		record.RatedAt = &t
	}
}
