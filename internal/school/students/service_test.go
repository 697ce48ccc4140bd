// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

package students_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kietvo/scolara/internal/platform/apperr"
	"github.com/kietvo/scolara/internal/platform/sec"
	"github.com/kietvo/scolara/internal/school/students"
	"github.com/kietvo/scolara/pkg/pagination"
)

// memoryStudentRepository is an in-memory StudentRepository.
type memoryStudentRepository struct {
	mu      sync.Mutex
	records []*students.Student
}

func (repo *memoryStudentRepository) Create(_ context.Context, student *students.Student) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.records = append(repo.records, student)
	return nil
}

func (repo *memoryStudentRepository) FindByID(_ context.Context, id string) (*students.Student, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, record := range repo.records {
		if record.ID == id {
			return record, nil
		}
	}
	return nil, apperr.NotFound("Student")
}

func (repo *memoryStudentRepository) FindByUserID(_ context.Context, userID string) (*students.Student, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, record := range repo.records {
		if record.UserID == userID {
			return record, nil
		}
	}
	return nil, apperr.NotFound("Student")
}

func (repo *memoryStudentRepository) List(_ context.Context, filter students.StudentFilter) ([]students.Student, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	var out []students.Student
	for _, record := range repo.records {
		if filter.SchoolID == "" || record.SchoolID == filter.SchoolID {
			out = append(out, *record)
		}
	}
	return out, len(out), nil
}

// memoryMarkRepository is an in-memory MarkRepository.
type memoryMarkRepository struct {
	mu    sync.Mutex
	marks []*students.Mark
}

func (repo *memoryMarkRepository) Create(_ context.Context, mark *students.Mark) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.marks = append(repo.marks, mark)
	return nil
}

func (repo *memoryMarkRepository) ListByStudent(_ context.Context, studentID string) ([]students.Mark, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	var out []students.Mark
	for _, mark := range repo.marks {
		if mark.StudentID == studentID {
			out = append(out, *mark)
		}
	}
	return out, nil
}

func newTestService() (*students.Service, *memoryStudentRepository) {
	studentRepo := &memoryStudentRepository{}
	return students.NewService(studentRepo, &memoryMarkRepository{}), studentRepo
}

var (
	superAdmin  = students.Actor{UserID: "u-super", Role: sec.RoleSuperAdmin}
	schoolAdmin = students.Actor{UserID: "u-admin", Role: sec.RoleSchoolAdmin, SchoolID: "school-1"}
	teacher     = students.Actor{UserID: "u-teacher", Role: sec.RoleTeacher, SchoolID: "school-1"}
	pupil       = students.Actor{UserID: "u-pupil", Role: sec.RoleStudent, SchoolID: "school-1"}
)

func enroll(t *testing.T, service *students.Service, actor students.Actor, input students.CreateStudentInput) *students.Student {
	t.Helper()
	student, err := service.CreateStudent(context.Background(), actor, input)
	require.NoError(t, err)
	return student
}

func requireForbidden(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusForbidden, appError.HTTPStatus)
}

/*
TestCalculateGrade pins the letter-grade thresholds.
*/
func TestCalculateGrade(t *testing.T) {
	tests := []struct {
		total float64
		want  string
	}{
		{95, "A+"},
		{90, "A+"},
		{89.5, "A"},
		{80, "A"},
		{75, "B"},
		{70, "B"},
		{60, "C"},
		{55, "D"},
		{50, "D"},
		{49.9, "F"},
		{0, "F"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, students.CalculateGrade(tt.total), "total=%v", tt.total)
	}
}

/*
TestService_CreateStudent checks school scoping on enrollment: school-bound
actors cannot create into another school, super admins must name one.
*/
func TestService_CreateStudent(t *testing.T) {
	service, _ := newTestService()

	// A school admin naming a foreign school still creates into their own.
	student := enroll(t, service, schoolAdmin, students.CreateStudentInput{
		Name:     "Bob",
		Age:      12,
		SchoolID: "school-other",
	})
	assert.Equal(t, "school-1", student.SchoolID)

	// A super admin creates into exactly the school named.
	student = enroll(t, service, superAdmin, students.CreateStudentInput{
		Name:     "Carol",
		Age:      13,
		SchoolID: "school-2",
	})
	assert.Equal(t, "school-2", student.SchoolID)

	// A super admin naming no school is a validation failure.
	_, err := service.CreateStudent(context.Background(), superAdmin, students.CreateStudentInput{
		Name: "Dave",
		Age:  11,
	})
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
}

/*
TestService_ListStudents checks per-role visibility of the roster.
*/
func TestService_ListStudents(t *testing.T) {
	service, _ := newTestService()
	enroll(t, service, superAdmin, students.CreateStudentInput{Name: "A", Age: 12, SchoolID: "school-1"})
	enroll(t, service, superAdmin, students.CreateStudentInput{Name: "B", Age: 12, SchoolID: "school-2"})

	records, total, err := service.ListStudents(context.Background(), superAdmin, pagination.Params{Limit: 25})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, records, 2)

	records, total, err = service.ListStudents(context.Background(), teacher, pagination.Params{Limit: 25})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, records, 1)
	assert.Equal(t, "school-1", records[0].SchoolID)
}

/*
TestService_GetStudent drives the per-role record access rules.
*/
func TestService_GetStudent(t *testing.T) {
	service, _ := newTestService()
	own := enroll(t, service, superAdmin, students.CreateStudentInput{
		UserID:   pupil.UserID,
		Name:     "Pupil One",
		Age:      12,
		SchoolID: "school-1",
	})
	foreign := enroll(t, service, superAdmin, students.CreateStudentInput{
		Name:     "Far Away",
		Age:      12,
		SchoolID: "school-2",
	})

	// Same-school staff and the student's own account may read the record.
	for _, actor := range []students.Actor{superAdmin, schoolAdmin, teacher, pupil} {
		_, err := service.GetStudent(context.Background(), actor, own.ID)
		assert.NoError(t, err, "actor %s", actor.Role)
	}

	// Cross-school staff and unrelated students may not.
	_, err := service.GetStudent(context.Background(), teacher, foreign.ID)
	requireForbidden(t, err)

	_, err = service.GetStudent(context.Background(), pupil, foreign.ID)
	requireForbidden(t, err)

	_, err = service.GetStudent(context.Background(), superAdmin, "no-such-id")
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
}

/*
TestService_RecordMark verifies derived totals and grades and the same-school
restriction on mark entry.
*/
func TestService_RecordMark(t *testing.T) {
	service, _ := newTestService()
	student := enroll(t, service, superAdmin, students.CreateStudentInput{
		Name:     "Bob",
		Age:      12,
		SchoolID: "school-1",
	})

	mark, err := service.RecordMark(context.Background(), teacher, students.RecordMarkInput{
		StudentID:  student.ID,
		Subject:    "Mathematics",
		MidTerm:    30,
		FinalTerm:  40,
		Assignment: 22,
	})
	require.NoError(t, err)
	assert.Equal(t, 92.0, mark.Total)
	assert.Equal(t, "A+", mark.Grade)
	assert.Equal(t, "school-1", mark.SchoolID)

	foreignTeacher := students.Actor{UserID: "u-t2", Role: sec.RoleTeacher, SchoolID: "school-2"}
	_, err = service.RecordMark(context.Background(), foreignTeacher, students.RecordMarkInput{
		StudentID: student.ID,
		Subject:   "History",
	})
	requireForbidden(t, err)
}

/*
TestService_ListMarks verifies a student reads their own marks but nobody
else's.
*/
func TestService_ListMarks(t *testing.T) {
	service, _ := newTestService()
	own := enroll(t, service, superAdmin, students.CreateStudentInput{
		UserID:   pupil.UserID,
		Name:     "Pupil One",
		Age:      12,
		SchoolID: "school-1",
	})
	other := enroll(t, service, superAdmin, students.CreateStudentInput{
		UserID:   "u-pupil-2",
		Name:     "Pupil Two",
		Age:      12,
		SchoolID: "school-1",
	})

	_, err := service.RecordMark(context.Background(), teacher, students.RecordMarkInput{
		StudentID: own.ID,
		Subject:   "Science",
		MidTerm:   20, FinalTerm: 25, Assignment: 15,
	})
	require.NoError(t, err)

	marks, err := service.ListMarks(context.Background(), pupil, own.ID)
	require.NoError(t, err)
	require.Len(t, marks, 1)
	assert.Equal(t, "C", marks[0].Grade)

	_, err = service.ListMarks(context.Background(), pupil, other.ID)
	requireForbidden(t, err)
}

/*
TestService_MyRecord verifies the student self-lookup and that staff accounts
have no linked record.
*/
func TestService_MyRecord(t *testing.T) {
	service, _ := newTestService()
	enroll(t, service, superAdmin, students.CreateStudentInput{
		UserID:   pupil.UserID,
		Name:     "Pupil One",
		Age:      12,
		SchoolID: "school-1",
	})

	record, err := service.MyRecord(context.Background(), pupil)
	require.NoError(t, err)
	assert.Equal(t, pupil.UserID, record.UserID)

	_, err = service.MyRecord(context.Background(), teacher)
	requireForbidden(t, err)
}
