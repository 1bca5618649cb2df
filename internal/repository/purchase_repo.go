package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/model"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/pgmq"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// PurchaseRepository defines methods for accessing purchase data.
type PurchaseRepository interface {
	// Exists reports whether studentID has at least one purchase of courseID.
	Exists(ctx context.Context, studentID, courseID string) (bool, error)
	// OwnedCourseIDs returns the subset of courseIDs that studentID has bought,
	// in a single query. A nil courseIDs returns every course the student owns.
	OwnedCourseIDs(ctx context.Context, studentID string, courseIDs []string) (map[string]bool, error)
	// ListPurchasedCourses returns the student's purchases joined with their courses.
	ListPurchasedCourses(ctx context.Context, studentID string) ([]model.PurchasedCourse, error)
	// CreatePurchase inserts p unless the pair already has a purchase, in which
	// case p is filled from the existing row and created is false.
	CreatePurchase(ctx context.Context, p *model.Purchase) (created bool, err error)
}

type purchaseRepo struct {
	pool        *pgxpool.Pool
	outboxQueue string
	logger      zerolog.Logger
}

// NewPurchaseRepo creates a new PurchaseRepository. When outboxQueue is not
// empty, every new purchase also enqueues a model.PurchaseEvent on that pgmq
// queue inside the same transaction.
func NewPurchaseRepo(pool *pgxpool.Pool, outboxQueue string, logger zerolog.Logger) PurchaseRepository {
	return &purchaseRepo{
		pool:        pool,
		outboxQueue: outboxQueue,
		logger:      logger.With().Str("repo", "PurchaseRepository").Logger(),
	}
}

func (r *purchaseRepo) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	if !validID(studentID, courseID) {
		return false, nil
	}
	const q = `SELECT EXISTS (SELECT 1 FROM purchases WHERE student_id = $1 AND course_id = $2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, q, studentID, courseID).Scan(&exists); err != nil {
		err = readError(fmt.Sprintf("check purchase of course %s by %s", courseID, studentID), err)
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

func (r *purchaseRepo) OwnedCourseIDs(ctx context.Context, studentID string, courseIDs []string) (map[string]bool, error) {
	owned := map[string]bool{}
	if !validID(studentID) {
		return owned, nil
	}
	if courseIDs != nil {
		wanted := make([]string, 0, len(courseIDs))
		for _, id := range courseIDs {
			if validID(id) {
				wanted = append(wanted, id)
			}
		}
		if len(wanted) == 0 {
			return owned, nil
		}
		courseIDs = wanted
	}

	var (
		rows pgx.Rows
		err  error
	)
	if courseIDs == nil {
		rows, err = r.pool.Query(ctx, `SELECT DISTINCT course_id::text FROM purchases WHERE student_id = $1`, studentID)
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT DISTINCT course_id::text
			FROM purchases
			WHERE student_id = $1 AND course_id::text = ANY($2::text[])
		`, studentID, courseIDs)
	}
	if err != nil {
		return nil, readError(fmt.Sprintf("list owned courses of %s", studentID), err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, readError(fmt.Sprintf("list owned courses of %s", studentID), err)
	}
	for _, id := range ids {
		owned[id] = true
	}
	return owned, nil
}

func (r *purchaseRepo) ListPurchasedCourses(ctx context.Context, studentID string) ([]model.PurchasedCourse, error) {
	if !validID(studentID) {
		return []model.PurchasedCourse{}, nil
	}
	const q = `
		SELECT p.id, p.student_id, p.course_id, ROUND(p.amount * 100)::bigint, p.purchased_at,
			c.id, c.educator_id, c.title, c.description, ROUND(c.price * 100)::bigint,
			c.thumbnail_url, c.video_url, c.duration, c.level::text, c.category, c.is_published,
			c.created_at, c.updated_at
		FROM purchases p
		JOIN courses c ON c.id = p.course_id
		WHERE p.student_id = $1
		ORDER BY p.purchased_at DESC
	`
	rows, err := r.pool.Query(ctx, q, studentID)
	if err != nil {
		return nil, readError(fmt.Sprintf("list purchases of %s", studentID), err)
	}
	defer rows.Close()

	out := []model.PurchasedCourse{}
	for rows.Next() {
		var (
			pc    model.PurchasedCourse
			level *string
		)
		c := &pc.Course
		if err := rows.Scan(
			&pc.Purchase.PurchaseID, &pc.Purchase.StudentID, &pc.Purchase.CourseID,
			&pc.Purchase.AmountCents, &pc.Purchase.PurchasedAt,
			&c.CourseID, &c.EducatorID, &c.Title, &c.Description, &c.PriceCents,
			&c.ThumbnailURL, &c.VideoURL, &c.Duration, &level, &c.Category, &c.IsPublished,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, readError(fmt.Sprintf("scan purchases of %s", studentID), err)
		}
		if level != nil {
			l := model.Level(*level)
			c.Level = &l
		}
		out = append(out, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, readError(fmt.Sprintf("list purchases of %s", studentID), err)
	}
	return out, nil
}

func (r *purchaseRepo) CreatePurchase(ctx context.Context, p *model.Purchase) (bool, error) {
	op := fmt.Sprintf("insert purchase of course %s by %s", p.CourseID, p.StudentID)
	if !validID(p.StudentID, p.CourseID) {
		return false, &PersistenceError{Op: op, Err: errMalformedID, Code: codeInvalidText}
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, writeError(op, err)
	}
	defer tx.Rollback(ctx)

	const insert = `
		INSERT INTO purchases (student_id, course_id, amount)
		VALUES ($1, $2, $3::numeric / 100)
		ON CONFLICT (student_id, course_id) DO NOTHING
		RETURNING id, ROUND(amount * 100)::bigint, purchased_at
	`
	created := true
	err = tx.QueryRow(ctx, insert, p.StudentID, p.CourseID, p.AmountCents).
		Scan(&p.PurchaseID, &p.AmountCents, &p.PurchasedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		created = false
		const existing = `
			SELECT id, ROUND(amount * 100)::bigint, purchased_at
			FROM purchases
			WHERE student_id = $1 AND course_id = $2
		`
		err = tx.QueryRow(ctx, existing, p.StudentID, p.CourseID).
			Scan(&p.PurchaseID, &p.AmountCents, &p.PurchasedAt)
	}
	if err != nil {
		return false, writeError(op, err)
	}

	if created && r.outboxQueue != "" {
		payload, err := json.Marshal(model.PurchaseEvent{
			EventID:     uuid.NewString(),
			PurchaseID:  p.PurchaseID,
			StudentID:   p.StudentID,
			CourseID:    p.CourseID,
			AmountCents: p.AmountCents,
			PurchasedAt: p.PurchasedAt,
		})
		if err != nil {
			return false, fmt.Errorf("marshal purchase event: %w", err)
		}
		if _, err := pgmq.Send(ctx, tx, r.outboxQueue, payload); err != nil {
			return false, writeError(op, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, writeError(op, err)
	}
	if !created {
		r.logger.Info().Str("student_id", p.StudentID).Str("course_id", p.CourseID).
			Str("purchase_id", p.PurchaseID).Msg("Purchase already recorded, returning existing row")
	}
	return created, nil
}
