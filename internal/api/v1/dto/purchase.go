package dto

import "time"

// PurchaseResponseDTO is a recorded purchase
type PurchaseResponseDTO struct {
	PurchaseID  string    `json:"purchase_id"`
	StudentID   string    `json:"student_id"`
	CourseID    string    `json:"course_id"`
	Amount      string    `json:"amount"`
	AmountCents int64     `json:"amount_cents"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// PurchaseCourseResponseDTO is returned after buying a course, with the
// content already unlocked.
type PurchaseCourseResponseDTO struct {
	Purchase PurchaseResponseDTO     `json:"purchase"`
	Course   CourseDetailResponseDTO `json:"course"`
}

// PurchasedCourseDTO is an entry of the student dashboard
type PurchasedCourseDTO struct {
	Purchase PurchaseResponseDTO `json:"purchase"`
	Course   CourseResponseDTO   `json:"course"`
}

// EntitlementsResponseDTO maps each requested course id to ownership
type EntitlementsResponseDTO struct {
	Entitlements map[string]bool `json:"entitlements"`
}
