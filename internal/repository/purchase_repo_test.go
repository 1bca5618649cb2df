package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPool connects to a database with migrations/0001_init.sql applied.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set, skip repository integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestPurchaseRepoRoundTrip(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	logger := zerolog.Nop()

	courses := NewCourseRepo(pool, logger)
	purchases := NewPurchaseRepo(pool, "", logger)

	level := model.LevelBeginner
	course := &model.Course{
		EducatorID:  uuid.NewString(),
		Title:       "Go for Backend Engineers",
		Description: "Services, storage and concurrency",
		PriceCents:  4999,
		Level:       &level,
		IsPublished: true,
	}
	require.NoError(t, courses.CreateCourse(ctx, course))
	require.NotEmpty(t, course.CourseID)
	assert.Equal(t, int64(4999), course.PriceCents)

	student := uuid.NewString()

	ok, err := purchases.Exists(ctx, student, course.CourseID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = purchases.Exists(ctx, student, "course-42")
	require.NoError(t, err)
	assert.False(t, ok, "a malformed id never matches")

	first := &model.Purchase{StudentID: student, CourseID: course.CourseID, AmountCents: 4999}
	created, err := purchases.CreatePurchase(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, first.PurchaseID)

	second := &model.Purchase{StudentID: student, CourseID: course.CourseID, AmountCents: 4999}
	created, err = purchases.CreatePurchase(ctx, second)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.PurchaseID, second.PurchaseID)

	ok, err = purchases.Exists(ctx, student, course.CourseID)
	require.NoError(t, err)
	assert.True(t, ok)

	owned, err := purchases.OwnedCourseIDs(ctx, student, []string{course.CourseID, uuid.NewString()})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{course.CourseID: true}, owned)

	list, err := purchases.ListPurchasedCourses(ctx, student)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, course.Title, list[0].Course.Title)

	err = courses.DeleteCourse(ctx, course.CourseID, course.EducatorID)
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe, "purchased courses cannot be deleted")
	assert.Equal(t, "23503", pe.Code)
}

func TestCourseRepoOwnership(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	courses := NewCourseRepo(pool, zerolog.Nop())

	course := &model.Course{EducatorID: uuid.NewString(), Title: "Draft", PriceCents: 0}
	require.NoError(t, courses.CreateCourse(ctx, course))

	_, err := courses.GetCourseByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	other := *course
	other.EducatorID = uuid.NewString()
	other.Title = "Hijacked"
	assert.ErrorIs(t, courses.UpdateCourse(ctx, &other), ErrNotFound)
	assert.ErrorIs(t, courses.DeleteCourse(ctx, course.CourseID, other.EducatorID), ErrNotFound)

	course.Title = "Published"
	course.IsPublished = true
	require.NoError(t, courses.UpdateCourse(ctx, course))
	assert.Equal(t, "Published", course.Title)

	require.NoError(t, courses.DeleteCourse(ctx, course.CourseID, course.EducatorID))
}

func TestListPublishedSearchIsLiteral(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	courses := NewCourseRepo(pool, zerolog.Nop())

	tag := uuid.NewString()[:8]
	category := "Data " + tag
	discount := &model.Course{EducatorID: uuid.NewString(), Title: "100% Go " + tag, IsPublished: true}
	plain := &model.Course{EducatorID: uuid.NewString(), Title: "1000 Go " + tag, Category: &category, IsPublished: true}
	require.NoError(t, courses.CreateCourse(ctx, discount))
	require.NoError(t, courses.CreateCourse(ctx, plain))
	t.Cleanup(func() {
		_ = courses.DeleteCourse(ctx, discount.CourseID, discount.EducatorID)
		_ = courses.DeleteCourse(ctx, plain.CourseID, plain.EducatorID)
	})

	ids := func(list []model.Course) []string {
		out := []string{}
		for _, c := range list {
			out = append(out, c.CourseID)
		}
		return out
	}

	list, err := courses.ListPublished(ctx, "100%")
	require.NoError(t, err)
	assert.Contains(t, ids(list), discount.CourseID)
	assert.NotContains(t, ids(list), plain.CourseID, "% must not act as a wildcard")

	list, err = courses.ListPublished(ctx, "1_0 Go "+tag)
	require.NoError(t, err)
	assert.Empty(t, list, "_ must not act as a wildcard")

	list, err = courses.ListPublished(ctx, "DATA "+tag)
	require.NoError(t, err)
	assert.Equal(t, []string{plain.CourseID}, ids(list), "category is searched")
}
