package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/model"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/repository"

	"github.com/rs/zerolog"
)

// CatalogEntry is a published course with the viewer's ownership of it.
type CatalogEntry struct {
	Course    model.Course
	Purchased bool
}

// ContentService composes courses, entitlements and media into what a viewer may see.
type ContentService interface {
	// Catalog lists published courses. viewerID may be empty.
	Catalog(ctx context.Context, viewerID, search string) ([]CatalogEntry, error)
	// GetCourseContent returns a course with its protected media gated on the
	// viewer's entitlement. viewerID may be empty. Unpublished courses are
	// only found by their educator and by students who already bought them.
	GetCourseContent(ctx context.Context, viewerID, courseID string) (*model.CourseContent, error)
	// PurchaseCourse buys the course at its current price and returns the
	// unlocked content.
	PurchaseCourse(ctx context.Context, studentID, courseID string) (*model.Purchase, *model.CourseContent, error)
}

type contentService struct {
	courses      repository.CourseRepository
	entitlements EntitlementService
	media        MediaService
	logger       zerolog.Logger
}

func NewContentService(courses repository.CourseRepository, entitlements EntitlementService, media MediaService, logger zerolog.Logger) ContentService {
	return &contentService{
		courses:      courses,
		entitlements: entitlements,
		media:        media,
		logger:       logger.With().Str("service", "ContentService").Logger(),
	}
}

func (s *contentService) Catalog(ctx context.Context, viewerID, search string) ([]CatalogEntry, error) {
	courses, err := s.courses.ListPublished(ctx, search)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list published courses")
		return nil, err
	}

	owned := map[string]bool{}
	if viewerID != "" && len(courses) > 0 {
		ids := make([]string, len(courses))
		for i, c := range courses {
			ids[i] = c.CourseID
		}
		owned = s.entitlements.OwnedCourseIDs(ctx, viewerID, ids)
	}

	entries := make([]CatalogEntry, len(courses))
	for i, c := range courses {
		c.VideoURL = nil
		entries[i] = CatalogEntry{Course: c, Purchased: owned[c.CourseID]}
	}
	return entries, nil
}

func (s *contentService) loadCourse(ctx context.Context, courseID string) (*model.Course, error) {
	course, err := s.courses.GetCourseByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to load course")
		return nil, fmt.Errorf("load course %s: %w", courseID, err)
	}
	return course, nil
}

func (s *contentService) GetCourseContent(ctx context.Context, viewerID, courseID string) (*model.CourseContent, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if course.OwnedBy(viewerID) {
		return s.render(ctx, course, model.AccessEntitled, true), nil
	}

	session := NewAccessSession()
	state := session.Evaluate(ctx, s.entitlements, viewerID, courseID)
	// An unpublished course stays readable for students who bought it.
	if !course.IsPublished && !session.Entitled() {
		return nil, ErrCourseNotFound
	}
	return s.render(ctx, course, state, false), nil
}

func (s *contentService) PurchaseCourse(ctx context.Context, studentID, courseID string) (*model.Purchase, *model.CourseContent, error) {
	if studentID == "" {
		return nil, nil, ErrUnauthenticated
	}
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	if !course.VisibleTo(studentID) {
		return nil, nil, ErrCourseNotFound
	}

	session := NewAccessSession()
	session.SetContext(studentID, courseID)

	purchase, err := s.entitlements.RecordPurchase(ctx, studentID, courseID, course.PriceCents)
	if err != nil {
		return nil, nil, err
	}
	session.MarkPurchased(studentID, courseID)
	return purchase, s.render(ctx, course, session.State(), course.OwnedBy(studentID)), nil
}

// render strips the raw video reference and exposes a playable URL only to an
// entitled viewer.
func (s *contentService) render(ctx context.Context, course *model.Course, state model.AccessState, owner bool) *model.CourseContent {
	content := &model.CourseContent{
		Course: *course,
		State:  state,
		Owner:  owner,
		Locked: state != model.AccessEntitled,
	}
	content.Course.VideoURL = nil

	if content.Locked || course.VideoURL == nil || *course.VideoURL == "" {
		return content
	}
	mediaURL, err := s.media.ResolveURL(ctx, *course.VideoURL)
	if err != nil {
		s.logger.Warn().Err(err).Str("course_id", course.CourseID).Msg("Course video unavailable")
		return content
	}
	content.MediaURL = mediaURL
	return content
}
