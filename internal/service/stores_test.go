package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

// memStore is an in-memory stand-in for the postgres repositories.
type memStore struct {
	classes     map[string]models.Class
	students    map[string]models.Student
	enrollments []models.Enrollment
	evaluations map[string]map[string]models.Grade
	seq         int
	loadErr     error
}

func newMemStore() *memStore {
	return &memStore{
		classes:     map[string]models.Class{},
		students:    map[string]models.Student{},
		evaluations: map[string]map[string]models.Grade{},
	}
}

func (m *memStore) addClass(topic string, year, semester int) string {
	id := models.ClassID(topic, year, semester)
	m.classes[id] = models.Class{ID: id, Topic: topic, Year: year, Semester: semester}
	return id
}

func (m *memStore) addStudent(id, name string) {
	m.students[id] = models.Student{ID: id, Name: name}
}

func (m *memStore) enroll(classID, studentID string, grades ...models.EvaluationRecord) string {
	m.seq++
	enrollment := models.Enrollment{ID: fmt.Sprintf("enr-%03d", m.seq), ClassID: classID, StudentID: studentID, CreatedAt: time.Unix(int64(m.seq), 0)}
	m.enrollments = append(m.enrollments, enrollment)
	for _, g := range grades {
		m.grade(enrollment.ID, g.Goal, g.Grade)
	}
	return enrollment.ID
}

func (m *memStore) grade(enrollmentID, goal string, grade models.Grade) {
	if m.evaluations[enrollmentID] == nil {
		m.evaluations[enrollmentID] = map[string]models.Grade{}
	}
	m.evaluations[enrollmentID][goal] = grade
}

func (m *memStore) records(enrollmentID string) []models.EvaluationRecord {
	goals := make([]string, 0, len(m.evaluations[enrollmentID]))
	for goal := range m.evaluations[enrollmentID] {
		goals = append(goals, goal)
	}
	sort.Strings(goals)
	records := make([]models.EvaluationRecord, 0, len(goals))
	for _, goal := range goals {
		records = append(records, models.EvaluationRecord{Goal: goal, Grade: m.evaluations[enrollmentID][goal]})
	}
	return records
}

func (m *memStore) LoadSnapshot(ctx context.Context, classID string) (*models.ClassSnapshot, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	class, ok := m.classes[classID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	snapshot := &models.ClassSnapshot{ClassID: class.ID, Topic: class.Topic, Year: class.Year, Semester: class.Semester}
	for _, e := range m.enrollments {
		if e.ClassID != classID {
			continue
		}
		entry := models.SnapshotEnrollment{EnrollmentID: e.ID, StudentID: e.StudentID}
		if student, ok := m.students[e.StudentID]; ok {
			s := student
			entry.Student = &s
		}
		if records := m.records(e.ID); len(records) > 0 {
			entry.Evaluations = records
		}
		snapshot.Enrollments = append(snapshot.Enrollments, entry)
	}
	return snapshot, nil
}

type memClasses struct{ *memStore }

func (m memClasses) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassSummary, int, error) {
	var out []models.ClassSummary
	for _, c := range m.classes {
		count := 0
		for _, e := range m.enrollments {
			if e.ClassID == c.ID {
				count++
			}
		}
		out = append(out, models.ClassSummary{Class: c, EnrolledCount: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (m memClasses) FindByID(ctx context.Context, id string) (*models.Class, error) {
	class, ok := m.classes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &class, nil
}

func (m memClasses) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := m.classes[id]
	return ok, nil
}

func (m memClasses) Create(ctx context.Context, class *models.Class) error {
	m.classes[class.ID] = *class
	return nil
}

func (m memClasses) Delete(ctx context.Context, id string) error {
	delete(m.classes, id)
	kept := m.enrollments[:0]
	for _, e := range m.enrollments {
		if e.ClassID == id {
			delete(m.evaluations, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	m.enrollments = kept
	return nil
}

type memStudents struct{ *memStore }

func (m memStudents) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	var out []models.Student
	for _, s := range m.students {
		if filter.Search == "" || strings.Contains(strings.ToLower(s.Name), strings.ToLower(filter.Search)) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func (m memStudents) FindByID(ctx context.Context, id string) (*models.Student, error) {
	student, ok := m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &student, nil
}

func (m memStudents) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := m.students[id]
	return ok, nil
}

func (m memStudents) Create(ctx context.Context, student *models.Student) error {
	m.students[student.ID] = *student
	return nil
}

func (m memStudents) Update(ctx context.Context, student *models.Student) error {
	m.students[student.ID] = *student
	return nil
}

func (m memStudents) Delete(ctx context.Context, id string) error {
	delete(m.students, id)
	kept := m.enrollments[:0]
	for _, e := range m.enrollments {
		if e.StudentID == id {
			delete(m.evaluations, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	m.enrollments = kept
	return nil
}

func (m memStudents) ListClassIDs(ctx context.Context, id string) ([]string, error) {
	var ids []string
	for _, e := range m.enrollments {
		if e.StudentID == id {
			ids = append(ids, e.ClassID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type memEnrollments struct{ *memStore }

func (m memEnrollments) ListByClass(ctx context.Context, classID string) ([]models.EnrollmentDetail, error) {
	var out []models.EnrollmentDetail
	for _, e := range m.enrollments {
		if e.ClassID != classID {
			continue
		}
		detail := models.EnrollmentDetail{Enrollment: e}
		if student, ok := m.students[e.StudentID]; ok {
			name := student.Name
			detail.StudentName = &name
		}
		out = append(out, detail)
	}
	return out, nil
}

func (m memEnrollments) Find(ctx context.Context, classID, studentID string) (*models.Enrollment, error) {
	for _, e := range m.enrollments {
		if e.ClassID == classID && e.StudentID == studentID {
			enrollment := e
			return &enrollment, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m memEnrollments) Exists(ctx context.Context, classID, studentID string) (bool, error) {
	_, err := m.Find(ctx, classID, studentID)
	return err == nil, nil
}

func (m memEnrollments) Create(ctx context.Context, enrollment *models.Enrollment) error {
	m.seq++
	enrollment.ID = fmt.Sprintf("enr-%03d", m.seq)
	enrollment.CreatedAt = time.Unix(int64(m.seq), 0)
	m.enrollments = append(m.enrollments, *enrollment)
	return nil
}

func (m memEnrollments) Delete(ctx context.Context, classID, studentID string) error {
	for i, e := range m.enrollments {
		if e.ClassID == classID && e.StudentID == studentID {
			delete(m.evaluations, e.ID)
			m.enrollments = append(m.enrollments[:i], m.enrollments[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type memEvaluations struct{ *memStore }

func (m memEvaluations) ListByEnrollment(ctx context.Context, enrollmentID string) ([]models.Evaluation, error) {
	var out []models.Evaluation
	for _, record := range m.records(enrollmentID) {
		out = append(out, models.Evaluation{EnrollmentID: enrollmentID, EvaluationRecord: record})
	}
	return out, nil
}

func (m memEvaluations) ListByClass(ctx context.Context, classID string) (map[string][]models.Evaluation, error) {
	out := map[string][]models.Evaluation{}
	for _, e := range m.enrollments {
		if e.ClassID != classID {
			continue
		}
		evaluations, _ := m.ListByEnrollment(ctx, e.ID)
		if len(evaluations) > 0 {
			out[e.ID] = evaluations
		}
	}
	return out, nil
}

func (m memEvaluations) Upsert(ctx context.Context, evaluation *models.Evaluation) error {
	m.grade(evaluation.EnrollmentID, evaluation.Goal, evaluation.Grade)
	evaluation.UpdatedAt = time.Now().UTC()
	return nil
}

func (m memEvaluations) Delete(ctx context.Context, enrollmentID, goal string) error {
	if _, ok := m.evaluations[enrollmentID][goal]; !ok {
		return sql.ErrNoRows
	}
	delete(m.evaluations[enrollmentID], goal)
	return nil
}

// memCache mimics the redis cache repository.
type memCache struct {
	entries map[string][]byte
	deleted []string
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}}
}

func (c *memCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *memCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.entries, key)
		c.deleted = append(c.deleted, key)
	}
	return nil
}

func (c *memCache) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			c.deleted = append(c.deleted, key)
		}
	}
	return nil
}

// services bundles every service wired to one memStore.
type services struct {
	store       *memStore
	cache       *memCache
	metrics     *MetricsService
	classes     *ClassService
	students    *StudentService
	enrollments *EnrollmentService
	evaluations *EvaluationService
	reports     *ReportService
}

func newServices(cacheEnabled bool) *services {
	store := newMemStore()
	cacheRepo := newMemCache()
	metrics := NewMetricsService()
	cache := NewCacheService(cacheRepo, metrics, time.Minute, nil, cacheEnabled)
	classes := memClasses{store}
	students := memStudents{store}
	enrollments := memEnrollments{store}
	evaluations := memEvaluations{store}
	return &services{
		store:       store,
		cache:       cacheRepo,
		metrics:     metrics,
		classes:     NewClassService(classes, cache, nil, nil),
		students:    NewStudentService(students, cache, nil, nil),
		enrollments: NewEnrollmentService(enrollments, classes, students, evaluations, cache, nil, nil),
		evaluations: NewEvaluationService(evaluations, enrollments, classes, cache, nil, nil),
		reports:     NewReportService(store, nil, cache, metrics, ReportConfig{}, nil),
	}
}

func rec(goal string, grade models.Grade) models.EvaluationRecord {
	return models.EvaluationRecord{Goal: goal, Grade: grade}
}
