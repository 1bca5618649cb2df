package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/model"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/repository"

	"github.com/rs/zerolog"
)

// CourseService defines the educator-side course operations
type CourseService interface {
	CreateCourse(ctx context.Context, c *model.Course) (*model.Course, error)
	// ListMyCourses returns every course the educator owns, published or not
	ListMyCourses(ctx context.Context, educatorID string) ([]model.Course, error)
	// GetOwnedCourse returns a course only if educatorID owns it
	GetOwnedCourse(ctx context.Context, educatorID, courseID string) (*model.Course, error)
	UpdateCourse(ctx context.Context, c *model.Course) (*model.Course, error)
	DeleteCourse(ctx context.Context, educatorID, courseID string) error
}

// courseService is the implementation of CourseService
type courseService struct {
	repo   repository.CourseRepository
	users  repository.UserRepository
	logger zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(repo repository.CourseRepository, users repository.UserRepository, logger zerolog.Logger) CourseService {
	return &courseService{
		repo:   repo,
		users:  users,
		logger: logger.With().Str("service", "CourseService").Logger(),
	}
}

func validateCourse(c *model.Course) error {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidCourse)
	}
	if c.PriceCents < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidCourse)
	}
	if c.Level != nil && !c.Level.Valid() {
		return fmt.Errorf("%w: unknown level %q", ErrInvalidCourse, *c.Level)
	}
	if c.Duration != nil && *c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidCourse)
	}
	return nil
}

// requireEducator checks that userID may author courses
func (s *courseService) requireEducator(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	role, err := s.users.GetRole(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrForbidden
		}
		return fmt.Errorf("load role of %s: %w", userID, err)
	}
	if role != model.RoleEducator && role != model.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

// CreateCourse creates a new course owned by c.EducatorID
func (s *courseService) CreateCourse(ctx context.Context, c *model.Course) (*model.Course, error) {
	if err := s.requireEducator(ctx, c.EducatorID); err != nil {
		return nil, err
	}
	if err := validateCourse(c); err != nil {
		return nil, err
	}
	if err := s.repo.CreateCourse(ctx, c); err != nil {
		s.logger.Error().Err(err).Str("educator_id", c.EducatorID).Msg("Failed to create course")
		return nil, err
	}
	s.logger.Info().Str("course_id", c.CourseID).Str("educator_id", c.EducatorID).Bool("published", c.IsPublished).Msg("Course created")
	return c, nil
}

func (s *courseService) ListMyCourses(ctx context.Context, educatorID string) ([]model.Course, error) {
	if educatorID == "" {
		return nil, ErrUnauthenticated
	}
	return s.repo.ListByEducator(ctx, educatorID)
}

func (s *courseService) GetOwnedCourse(ctx context.Context, educatorID, courseID string) (*model.Course, error) {
	course, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if !course.OwnedBy(educatorID) {
		// Do not reveal unpublished courses to other users.
		if course.IsPublished {
			return nil, ErrForbidden
		}
		return nil, ErrCourseNotFound
	}
	return course, nil
}

// UpdateCourse updates a course the caller owns
func (s *courseService) UpdateCourse(ctx context.Context, c *model.Course) (*model.Course, error) {
	if _, err := s.GetOwnedCourse(ctx, c.EducatorID, c.CourseID); err != nil {
		return nil, err
	}
	if err := validateCourse(c); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCourse(ctx, c); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error().Err(err).Str("course_id", c.CourseID).Msg("Failed to update course")
		return nil, err
	}
	return c, nil
}

// DeleteCourse deletes a course the caller owns. Courses that were bought stay.
func (s *courseService) DeleteCourse(ctx context.Context, educatorID, courseID string) error {
	if _, err := s.GetOwnedCourse(ctx, educatorID, courseID); err != nil {
		return err
	}
	err := s.repo.DeleteCourse(ctx, courseID, educatorID)
	if err == nil {
		s.logger.Info().Str("course_id", courseID).Str("educator_id", educatorID).Msg("Course deleted")
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCourseNotFound
	}
	var pe *repository.PersistenceError
	if errors.As(err, &pe) && pe.Code == "23503" {
		return ErrCourseHasPurchases
	}
	s.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to delete course")
	return err
}
