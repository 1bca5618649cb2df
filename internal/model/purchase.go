package model

import "time"

// Purchase records that a student bought a course. Purchases are never
// updated or deleted.
type Purchase struct {
	PurchaseID  string    `db:"id" json:"purchase_id"`
	StudentID   string    `db:"student_id" json:"student_id"`
	CourseID    string    `db:"course_id" json:"course_id"`
	AmountCents int64     `db:"amount" json:"amount_cents"`
	PurchasedAt time.Time `db:"purchased_at" json:"purchased_at"`
}

// PurchaseEvent is the outbox payload emitted once per new purchase.
type PurchaseEvent struct {
	EventID     string    `json:"event_id"`
	PurchaseID  string    `json:"purchase_id"`
	StudentID   string    `json:"student_id"`
	CourseID    string    `json:"course_id"`
	AmountCents int64     `json:"amount_cents"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// PurchasedCourse pairs a purchase with the course it bought.
type PurchasedCourse struct {
	Purchase Purchase
	Course   Course
}
