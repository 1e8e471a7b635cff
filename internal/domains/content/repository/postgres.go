package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"artfolio-backend/internal/domains/content"
)

const pgUniqueViolation = "23505"

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) content.Repository {
	return &postgresRepository{pool: pool}
}

const stateColumns = `
  artist_id, survey_data, home_content, about_content,
  is_published, published_url, compiled_json_path, compiled_at,
  survey_completed, version, created_at, updated_at
`

func scanState(row pgx.Row) (*content.ContentState, error) {
	var state content.ContentState
	var survey, home, about []byte

	err := row.Scan(
		&state.ArtistID, &survey, &home, &about,
		&state.IsPublished, &state.PublishedURL, &state.CompiledJSONPath, &state.CompiledAt,
		&state.SurveyCompleted, &state.Version, &state.CreatedAt, &state.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(survey, &state.SurveyData); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(home, &state.HomeContent); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(about, &state.AboutContent); err != nil {
		return nil, err
	}

	return &state, nil
}

func marshalDocs(state *content.ContentState) (survey, home, about []byte, err error) {
	if survey, err = json.Marshal(state.SurveyData); err != nil {
		return
	}
	if home, err = json.Marshal(state.HomeContent); err != nil {
		return
	}
	about, err = json.Marshal(state.AboutContent)
	return
}

func (r *postgresRepository) GetByArtist(ctx context.Context, artistID uuid.UUID) (*content.ContentState, error) {
	query := `SELECT ` + stateColumns + ` FROM content_states WHERE artist_id = $1`

	state, err := scanState(r.pool.QueryRow(ctx, query, artistID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, content.NewRepositoryError(err)
	}

	return state, nil
}

func (r *postgresRepository) Create(ctx context.Context, state *content.ContentState) (*content.ContentState, error) {
	survey, home, about, err := marshalDocs(state)
	if err != nil {
		return nil, content.NewRepositoryError(err)
	}

	query := `
    INSERT INTO content_states
      (artist_id, survey_data, home_content, about_content,
       is_published, published_url, compiled_json_path, compiled_at,
       survey_completed, version, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
    RETURNING ` + stateColumns

	row := r.pool.QueryRow(
		ctx, query,
		state.ArtistID, survey, home, about,
		state.IsPublished, state.PublishedURL, state.CompiledJSONPath, state.CompiledAt,
		state.SurveyCompleted, state.Version,
	)

	created, err := scanState(row)
	if err != nil {
		return nil, content.NewRepositoryError(err)
	}
	return created, nil
}

// UpdateWithVersion is the single concurrency guard: the database's atomic
// row update plus the version predicate. No in-process locking exists.
func (r *postgresRepository) UpdateWithVersion(ctx context.Context, state *content.ContentState, expectedVersion int64) (*content.ContentState, error) {
	survey, home, about, err := marshalDocs(state)
	if err != nil {
		return nil, content.NewRepositoryError(err)
	}

	query := `
    UPDATE content_states
    SET survey_data = $1, home_content = $2, about_content = $3,
        is_published = $4, published_url = $5,
        compiled_json_path = $6, compiled_at = $7, survey_completed = $8,
        version = version + 1, updated_at = NOW()
    WHERE artist_id = $9 AND version = $10
    RETURNING ` + stateColumns

	row := r.pool.QueryRow(
		ctx, query,
		survey, home, about,
		state.IsPublished, state.PublishedURL,
		state.CompiledJSONPath, state.CompiledAt, state.SurveyCompleted,
		state.ArtistID, expectedVersion,
	)

	updated, err := scanState(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.versionConflict(ctx, state.ArtistID)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			slug := ""
			if state.PublishedURL != nil {
				slug = *state.PublishedURL
			}
			return nil, content.NewSlugTaken(slug)
		}
		return nil, content.NewRepositoryError(err)
	}

	return updated, nil
}

// versionConflict reads the current stored version so the caller can
// reconcile. The document existed when the caller read it, so a missing row
// here is a genuine not-found.
func (r *postgresRepository) versionConflict(ctx context.Context, artistID uuid.UUID) error {
	var current int64
	err := r.pool.QueryRow(ctx, `SELECT version FROM content_states WHERE artist_id = $1`, artistID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return content.NewNotFound()
		}
		return content.NewRepositoryError(err)
	}
	return content.NewVersionConflict(current)
}

func (r *postgresRepository) ResetVersion(ctx context.Context, state *content.ContentState) (*content.ContentState, error) {
	survey, home, about, err := marshalDocs(state)
	if err != nil {
		return nil, content.NewRepositoryError(err)
	}

	query := `
    UPDATE content_states
    SET survey_data = $1, home_content = $2, about_content = $3,
        is_published = $4, published_url = $5,
        compiled_json_path = $6, compiled_at = $7, survey_completed = $8,
        version = 1, updated_at = NOW()
    WHERE artist_id = $9
    RETURNING ` + stateColumns

	row := r.pool.QueryRow(
		ctx, query,
		survey, home, about,
		state.IsPublished, state.PublishedURL,
		state.CompiledJSONPath, state.CompiledAt, state.SurveyCompleted,
		state.ArtistID,
	)

	updated, err := scanState(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, content.NewNotFound()
		}
		return nil, content.NewRepositoryError(err)
	}

	return updated, nil
}
