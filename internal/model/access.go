package model

// AccessState is the entitlement state of one course view.
type AccessState string

const (
	AccessUnknown     AccessState = "unknown"
	AccessChecking    AccessState = "checking"
	AccessEntitled    AccessState = "entitled"
	AccessNotEntitled AccessState = "not_entitled"
)

// CourseContent is a course as seen by a particular viewer. MediaURL is only
// set when the viewer is entitled to the protected content.
type CourseContent struct {
	Course   Course
	State    AccessState
	Owner    bool
	MediaURL string
	// Locked is true when the protected content is withheld.
	Locked bool
}
