package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/model"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCourseFixture() (CourseService, *fakeCourseRepo) {
	repo := newFakeCourseRepo()
	users := &fakeUserRepo{roles: map[string]model.UserRole{
		"edu-1": model.RoleEducator,
		"edu-2": model.RoleEducator,
		"stu-1": model.RoleStudent,
	}}
	return NewCourseService(repo, users, zerolog.Nop()), repo
}

func TestCreateCourseRequiresEducator(t *testing.T) {
	svc, _ := newCourseFixture()
	ctx := context.Background()

	_, err := svc.CreateCourse(ctx, &model.Course{EducatorID: "stu-1", Title: "Nope"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CreateCourse(ctx, &model.Course{EducatorID: "nobody", Title: "Nope"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CreateCourse(ctx, &model.Course{Title: "Nope"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	created, err := svc.CreateCourse(ctx, &model.Course{EducatorID: "edu-1", Title: "  Intro to Go  ", PriceCents: 4999})
	require.NoError(t, err)
	assert.NotEmpty(t, created.CourseID)
	assert.Equal(t, "Intro to Go", created.Title)
}

func TestCreateCourseValidation(t *testing.T) {
	svc, _ := newCourseFixture()
	ctx := context.Background()
	expert := model.Level("expert")
	zero := 0

	for name, c := range map[string]*model.Course{
		"empty title":    {EducatorID: "edu-1", Title: " "},
		"negative price": {EducatorID: "edu-1", Title: "T", PriceCents: -1},
		"unknown level":  {EducatorID: "edu-1", Title: "T", Level: &expert},
		"zero duration":  {EducatorID: "edu-1", Title: "T", Duration: &zero},
	} {
		_, err := svc.CreateCourse(ctx, c)
		assert.ErrorIs(t, err, ErrInvalidCourse, name)
	}
}

func TestUpdateAndDeleteAreOwnerOnly(t *testing.T) {
	svc, repo := newCourseFixture()
	ctx := context.Background()

	created, err := svc.CreateCourse(ctx, &model.Course{EducatorID: "edu-1", Title: "Draft"})
	require.NoError(t, err)

	// Another educator cannot see an unpublished course at all.
	_, err = svc.GetOwnedCourse(ctx, "edu-2", created.CourseID)
	assert.ErrorIs(t, err, ErrCourseNotFound)

	update := *created
	update.Title = "Published"
	update.IsPublished = true
	updated, err := svc.UpdateCourse(ctx, &update)
	require.NoError(t, err)
	assert.True(t, updated.IsPublished)

	hijack := *updated
	hijack.EducatorID = "edu-2"
	_, err = svc.UpdateCourse(ctx, &hijack)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.DeleteCourse(ctx, "edu-2", created.CourseID), ErrForbidden)

	repo.delErr = &repository.PersistenceError{Op: "delete course", Err: errors.New("fk"), Code: "23503"}
	assert.ErrorIs(t, svc.DeleteCourse(ctx, "edu-1", created.CourseID), ErrCourseHasPurchases)

	repo.delErr = nil
	require.NoError(t, svc.DeleteCourse(ctx, "edu-1", created.CourseID))
	assert.ErrorIs(t, svc.DeleteCourse(ctx, "edu-1", created.CourseID), ErrCourseNotFound)
}

func TestListMyCourses(t *testing.T) {
	svc, _ := newCourseFixture()
	ctx := context.Background()

	_, err := svc.CreateCourse(ctx, &model.Course{EducatorID: "edu-1", Title: "A"})
	require.NoError(t, err)
	_, err = svc.CreateCourse(ctx, &model.Course{EducatorID: "edu-2", Title: "B"})
	require.NoError(t, err)

	mine, err := svc.ListMyCourses(ctx, "edu-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "A", mine[0].Title)
}
