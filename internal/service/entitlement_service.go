package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/cache"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/model"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/repository"

	"github.com/rs/zerolog"
)

// EntitlementService answers whether a student may view a course's protected
// content and records new purchases.
type EntitlementService interface {
	// CheckEntitlement is true iff a purchase of courseID by studentID exists.
	// It never fails: missing rows and store failures both yield false.
	CheckEntitlement(ctx context.Context, studentID, courseID string) bool
	// OwnedCourseIDs reports which of courseIDs the student owns with one query.
	// Store failures yield an empty set.
	OwnedCourseIDs(ctx context.Context, studentID string, courseIDs []string) map[string]bool
	// RecordPurchase stores a purchase of a published course at its current
	// price. Buying the same course again returns the original purchase.
	RecordPurchase(ctx context.Context, studentID, courseID string, amountCents int64) (*model.Purchase, error)
	// ListPurchases returns the student's purchased courses, newest first.
	ListPurchases(ctx context.Context, studentID string) ([]model.PurchasedCourse, error)
}

type entitlementService struct {
	purchases repository.PurchaseRepository
	courses   repository.CourseRepository
	cache     cache.EntitlementCache
	logger    zerolog.Logger
}

// NewEntitlementService creates an EntitlementService. A nil cache disables caching.
func NewEntitlementService(
	purchases repository.PurchaseRepository,
	courses repository.CourseRepository,
	entitlementCache cache.EntitlementCache,
	logger zerolog.Logger,
) EntitlementService {
	if entitlementCache == nil {
		entitlementCache = cache.Nop{}
	}
	return &entitlementService{
		purchases: purchases,
		courses:   courses,
		cache:     entitlementCache,
		logger:    logger.With().Str("service", "EntitlementService").Logger(),
	}
}

func (s *entitlementService) CheckEntitlement(ctx context.Context, studentID, courseID string) bool {
	if studentID == "" || courseID == "" {
		return false
	}

	hit, err := s.cache.Owned(ctx, studentID, courseID)
	if err != nil {
		s.logger.Warn().Err(err).Str("student_id", studentID).Str("course_id", courseID).Msg("Entitlement cache lookup failed")
	} else if hit {
		return true
	}

	ok, err := s.purchases.Exists(ctx, studentID, courseID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn().Err(err).Str("student_id", studentID).Str("course_id", courseID).
				Msg("Entitlement check failed, denying access")
		}
		return false
	}
	if ok {
		s.remember(ctx, studentID, courseID)
	}
	return ok
}

func (s *entitlementService) OwnedCourseIDs(ctx context.Context, studentID string, courseIDs []string) map[string]bool {
	if studentID == "" {
		return map[string]bool{}
	}
	owned, err := s.purchases.OwnedCourseIDs(ctx, studentID, courseIDs)
	if err != nil {
		s.logger.Warn().Err(err).Str("student_id", studentID).Int("courses", len(courseIDs)).
			Msg("Batch entitlement check failed, denying access")
		return map[string]bool{}
	}
	return owned
}

func (s *entitlementService) RecordPurchase(ctx context.Context, studentID, courseID string, amountCents int64) (*model.Purchase, error) {
	if studentID == "" {
		return nil, ErrUnauthenticated
	}

	course, err := s.courses.GetCourseByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to load course for purchase")
		return nil, fmt.Errorf("load course %s: %w", courseID, err)
	}
	if !course.IsPublished {
		return nil, ErrCourseNotPurchasable
	}
	if amountCents != course.PriceCents {
		return nil, fmt.Errorf("%w: paid %s, price %s", ErrPriceMismatch,
			model.FormatPrice(amountCents), model.FormatPrice(course.PriceCents))
	}

	p := &model.Purchase{StudentID: studentID, CourseID: courseID, AmountCents: amountCents}
	created, err := s.purchases.CreatePurchase(ctx, p)
	if err != nil {
		s.logger.Error().Err(err).Str("student_id", studentID).Str("course_id", courseID).Msg("Failed to record purchase")
		return nil, err
	}
	s.remember(ctx, studentID, courseID)

	s.logger.Info().
		Str("purchase_id", p.PurchaseID).
		Str("student_id", studentID).
		Str("course_id", courseID).
		Int64("amount_cents", p.AmountCents).
		Bool("created", created).
		Msg("Purchase recorded")
	return p, nil
}

func (s *entitlementService) ListPurchases(ctx context.Context, studentID string) ([]model.PurchasedCourse, error) {
	if studentID == "" {
		return nil, ErrUnauthenticated
	}
	list, err := s.purchases.ListPurchasedCourses(ctx, studentID)
	if err != nil {
		s.logger.Error().Err(err).Str("student_id", studentID).Msg("Failed to list purchases")
		return nil, err
	}
	return list, nil
}

func (s *entitlementService) remember(ctx context.Context, studentID, courseID string) {
	if err := s.cache.MarkOwned(ctx, studentID, courseID); err != nil {
		s.logger.Warn().Err(err).Str("student_id", studentID).Str("course_id", courseID).Msg("Failed to cache entitlement")
	}
}
