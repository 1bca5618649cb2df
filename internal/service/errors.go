package service

import "errors"

var (
	ErrUnauthenticated      = errors.New("authentication required")
	ErrForbidden            = errors.New("forbidden")
	ErrCourseNotFound       = errors.New("course not found")
	ErrCourseNotPurchasable = errors.New("course is not available for purchase")
	ErrPriceMismatch        = errors.New("amount does not match the course price")
	ErrInvalidCourse        = errors.New("invalid course")
	ErrCourseHasPurchases   = errors.New("course has purchases and cannot be deleted")
	ErrInvalidRole          = errors.New("invalid role")
	ErrRoleNotSet           = errors.New("role not set")
	ErrRoleAlreadySet       = errors.New("role already set")
	ErrMediaUnavailable     = errors.New("media storage is not configured")
)
