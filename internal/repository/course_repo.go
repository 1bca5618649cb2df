package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// CourseRepository defines the interface for interacting with course data
type CourseRepository interface {
	// ListPublished returns published courses, newest first. A non-empty search
	// is a literal, case-insensitive substring of title, description or category.
	ListPublished(ctx context.Context, search string) ([]model.Course, error)
	// ListByEducator returns every course owned by educatorID, newest first.
	ListByEducator(ctx context.Context, educatorID string) ([]model.Course, error)
	// GetCourseByID returns ErrNotFound when no course matches.
	GetCourseByID(ctx context.Context, courseID string) (*model.Course, error)
	CreateCourse(ctx context.Context, c *model.Course) error
	// UpdateCourse only touches a course owned by c.EducatorID.
	UpdateCourse(ctx context.Context, c *model.Course) error
	// DeleteCourse only removes a course owned by educatorID.
	DeleteCourse(ctx context.Context, courseID, educatorID string) error
}

const courseColumns = `id, educator_id, title, description, ROUND(price * 100)::bigint,
	thumbnail_url, video_url, duration, level::text, category, is_published, created_at, updated_at`

type courseRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCourseRepo creates a new CourseRepository
func NewCourseRepo(pool *pgxpool.Pool, logger zerolog.Logger) CourseRepository {
	return &courseRepo{pool: pool, logger: logger.With().Str("repo", "CourseRepository").Logger()}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner, c *model.Course) error {
	var level *string
	if err := row.Scan(
		&c.CourseID,
		&c.EducatorID,
		&c.Title,
		&c.Description,
		&c.PriceCents,
		&c.ThumbnailURL,
		&c.VideoURL,
		&c.Duration,
		&level,
		&c.Category,
		&c.IsPublished,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return err
	}
	c.Level = nil
	if level != nil {
		l := model.Level(*level)
		c.Level = &l
	}
	return nil
}

func levelArg(l *model.Level) *string {
	if l == nil {
		return nil
	}
	s := string(*l)
	return &s
}

func collectCourses(rows pgx.Rows) ([]model.Course, error) {
	defer rows.Close()
	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := scanCourse(rows, &c); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepo) ListPublished(ctx context.Context, search string) ([]model.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE is_published = TRUE
		  AND ($1 = ''
		    OR strpos(lower(title), lower($1)) > 0
		    OR strpos(lower(description), lower($1)) > 0
		    OR strpos(lower(COALESCE(category, '')), lower($1)) > 0)
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, search)
	if err != nil {
		return nil, readError("list published courses", err)
	}
	courses, err := collectCourses(rows)
	if err != nil {
		return nil, readError("list published courses", err)
	}
	return courses, nil
}

func (r *courseRepo) ListByEducator(ctx context.Context, educatorID string) ([]model.Course, error) {
	if !validID(educatorID) {
		return []model.Course{}, nil
	}
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE educator_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, educatorID)
	if err != nil {
		return nil, readError(fmt.Sprintf("list courses of educator %s", educatorID), err)
	}
	courses, err := collectCourses(rows)
	if err != nil {
		return nil, readError(fmt.Sprintf("list courses of educator %s", educatorID), err)
	}
	return courses, nil
}

func (r *courseRepo) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	if !validID(courseID) {
		return nil, ErrNotFound
	}
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	var c model.Course
	if err := scanCourse(r.pool.QueryRow(ctx, query, courseID), &c); err != nil {
		return nil, readError(fmt.Sprintf("get course %s", courseID), err)
	}
	return &c, nil
}

// CreateCourse inserts a new course and fills in the generated fields
func (r *courseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	query := `
		INSERT INTO courses (educator_id, title, description, price, thumbnail_url, video_url,
			duration, level, category, is_published)
		VALUES ($1, $2, $3, $4::numeric / 100, $5, $6, $7, $8, $9, $10)
		RETURNING ` + courseColumns
	row := r.pool.QueryRow(ctx, query,
		c.EducatorID, c.Title, c.Description, c.PriceCents, c.ThumbnailURL, c.VideoURL,
		c.Duration, levelArg(c.Level), c.Category, c.IsPublished,
	)
	if err := scanCourse(row, c); err != nil {
		r.logger.Error().Err(err).Str("educator_id", c.EducatorID).Msg("Failed to insert course")
		return writeError("insert course", err)
	}
	return nil
}

func (r *courseRepo) UpdateCourse(ctx context.Context, c *model.Course) error {
	if !validID(c.CourseID, c.EducatorID) {
		return ErrNotFound
	}
	query := `
		UPDATE courses
		SET title = $1, description = $2, price = $3::numeric / 100, thumbnail_url = $4,
			video_url = $5, duration = $6, level = $7, category = $8, is_published = $9,
			updated_at = NOW()
		WHERE id = $10 AND educator_id = $11
		RETURNING ` + courseColumns
	row := r.pool.QueryRow(ctx, query,
		c.Title, c.Description, c.PriceCents, c.ThumbnailURL, c.VideoURL, c.Duration,
		levelArg(c.Level), c.Category, c.IsPublished, c.CourseID, c.EducatorID,
	)
	if err := scanCourse(row, c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return writeError(fmt.Sprintf("update course %s", c.CourseID), err)
	}
	return nil
}

func (r *courseRepo) DeleteCourse(ctx context.Context, courseID, educatorID string) error {
	if !validID(courseID, educatorID) {
		return ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1 AND educator_id = $2`, courseID, educatorID)
	if err != nil {
		return writeError(fmt.Sprintf("delete course %s", courseID), err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
