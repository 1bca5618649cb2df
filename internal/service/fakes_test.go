package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/model"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/repository"
)

var errTransport = &repository.TransientQueryError{Op: "test", Err: fmt.Errorf("dial tcp: connection refused")}

type fakePurchaseRepo struct {
	mu          sync.Mutex
	rows        []model.Purchase
	existsErr   error
	ownedErr    error
	createErr   error
	existsCalls int
}

func (r *fakePurchaseRepo) Exists(_ context.Context, studentID, courseID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.existsCalls++
	if r.existsErr != nil {
		return false, r.existsErr
	}
	for _, p := range r.rows {
		if p.StudentID == studentID && p.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePurchaseRepo) OwnedCourseIDs(_ context.Context, studentID string, courseIDs []string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ownedErr != nil {
		return nil, r.ownedErr
	}
	want := map[string]bool{}
	for _, id := range courseIDs {
		want[id] = true
	}
	owned := map[string]bool{}
	for _, p := range r.rows {
		if p.StudentID == studentID && (courseIDs == nil || want[p.CourseID]) {
			owned[p.CourseID] = true
		}
	}
	return owned, nil
}

func (r *fakePurchaseRepo) ListPurchasedCourses(_ context.Context, studentID string) ([]model.PurchasedCourse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.PurchasedCourse{}
	for _, p := range r.rows {
		if p.StudentID == studentID {
			out = append(out, model.PurchasedCourse{Purchase: p, Course: model.Course{CourseID: p.CourseID}})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Purchase.PurchasedAt.After(out[j].Purchase.PurchasedAt) })
	return out, nil
}

func (r *fakePurchaseRepo) CreatePurchase(_ context.Context, p *model.Purchase) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return false, r.createErr
	}
	for _, existing := range r.rows {
		if existing.StudentID == p.StudentID && existing.CourseID == p.CourseID {
			*p = existing
			return false, nil
		}
	}
	p.PurchaseID = fmt.Sprintf("purchase-%d", len(r.rows)+1)
	p.PurchasedAt = time.Now().Add(time.Duration(len(r.rows)) * time.Second)
	r.rows = append(r.rows, *p)
	return true, nil
}

func (r *fakePurchaseRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type fakeCourseRepo struct {
	mu      sync.Mutex
	courses map[string]model.Course
	getErr  error
	delErr  error
	nextID  int
}

func newFakeCourseRepo(courses ...model.Course) *fakeCourseRepo {
	r := &fakeCourseRepo{courses: map[string]model.Course{}}
	for _, c := range courses {
		r.courses[c.CourseID] = c
	}
	return r
}

func (r *fakeCourseRepo) ListPublished(_ context.Context, search string) ([]model.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Course{}
	for _, c := range r.courses {
		if c.IsPublished {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseID < out[j].CourseID })
	return out, nil
}

func (r *fakeCourseRepo) ListByEducator(_ context.Context, educatorID string) ([]model.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Course{}
	for _, c := range r.courses {
		if c.EducatorID == educatorID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) GetCourseByID(_ context.Context, courseID string) (*model.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	c, ok := r.courses[courseID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *fakeCourseRepo) CreateCourse(_ context.Context, c *model.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.CourseID = fmt.Sprintf("course-%d", r.nextID)
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.courses[c.CourseID] = *c
	return nil
}

func (r *fakeCourseRepo) UpdateCourse(_ context.Context, c *model.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.courses[c.CourseID]
	if !ok || existing.EducatorID != c.EducatorID {
		return repository.ErrNotFound
	}
	c.UpdatedAt = time.Now()
	r.courses[c.CourseID] = *c
	return nil
}

func (r *fakeCourseRepo) DeleteCourse(_ context.Context, courseID, educatorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.delErr != nil {
		return r.delErr
	}
	existing, ok := r.courses[courseID]
	if !ok || existing.EducatorID != educatorID {
		return repository.ErrNotFound
	}
	delete(r.courses, courseID)
	return nil
}

type fakeUserRepo struct {
	roles  map[string]model.UserRole
	setErr error
}

func (r *fakeUserRepo) GetRole(_ context.Context, userID string) (model.UserRole, error) {
	role, ok := r.roles[userID]
	if !ok {
		return "", repository.ErrNotFound
	}
	return role, nil
}

func (r *fakeUserRepo) SetRole(_ context.Context, userID string, role model.UserRole) error {
	if r.setErr != nil {
		return r.setErr
	}
	if r.roles == nil {
		r.roles = map[string]model.UserRole{}
	}
	r.roles[userID] = role
	return nil
}

type fakeCache struct {
	mu    sync.Mutex
	owned map[string]bool
	err   error
}

func (c *fakeCache) Owned(_ context.Context, studentID, courseID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	return c.owned[studentID+"/"+courseID], nil
}

func (c *fakeCache) MarkOwned(_ context.Context, studentID, courseID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	if c.owned == nil {
		c.owned = map[string]bool{}
	}
	c.owned[studentID+"/"+courseID] = true
	return nil
}

type fakeMedia struct{}

func (fakeMedia) ResolveURL(_ context.Context, ref string) (string, error) {
	return "https://media.test/" + ref + "?signed=1", nil
}

func strPtr(s string) *string { return &s }

func publishedCourse(id string, priceCents int64) model.Course {
	return model.Course{
		CourseID:    id,
		EducatorID:  "edu-1",
		Title:       "Course " + id,
		PriceCents:  priceCents,
		VideoURL:    strPtr("courses/" + id + "/video.mp4"),
		IsPublished: true,
	}
}
