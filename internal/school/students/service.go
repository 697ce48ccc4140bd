// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

package students

import (
	"context"
	"fmt"

	"github.com/kietvo/scolara/internal/platform/apperr"
	"github.com/kietvo/scolara/internal/platform/sec"
	"github.com/kietvo/scolara/pkg/pagination"
	"github.com/kietvo/scolara/pkg/uuidv7"
)

// Service implements the student-records use cases.
type Service struct {
	studentRepository StudentRepository
	markRepository    MarkRepository
}

// NewService constructs a new students [Service] with its dependencies.
func NewService(studentRepo StudentRepository, markRepo MarkRepository) *Service {
	return &Service{
		studentRepository: studentRepo,
		markRepository:    markRepo,
	}
}

// # Student Records

// CreateStudentInput holds the data required to enroll a student.
type CreateStudentInput struct {
	UserID    string
	Name      string
	Age       int
	Gender    string
	ClassName string
	SchoolID  string
}

// CreateStudent enrolls a new student record.
//
// School-scoped actors always create into their own school; a super admin
// must name the target school explicitly.
func (service *Service) CreateStudent(ctx context.Context, actor Actor, input CreateStudentInput) (*Student, error) {
	schoolID := input.SchoolID
	if actor.Role != sec.RoleSuperAdmin {
		schoolID = actor.SchoolID
	}
	if schoolID == "" {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldSchoolID,
			Message: "This field is required",
		})
	}

	student := &Student{
		ID:        uuidv7.New(),
		UserID:    input.UserID,
		Name:      input.Name,
		Age:       input.Age,
		Gender:    input.Gender,
		ClassName: input.ClassName,
		SchoolID:  schoolID,
	}

	if err := service.studentRepository.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("students_service_create_failed: %w", err)
	}

	return student, nil
}

// ListStudents returns a page of student records visible to the actor.
func (service *Service) ListStudents(ctx context.Context, actor Actor, params pagination.Params) ([]Student, int, error) {
	filter := StudentFilter{Params: params}
	if actor.Role != sec.RoleSuperAdmin {
		filter.SchoolID = actor.SchoolID
	}

	records, total, err := service.studentRepository.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("students_service_list_failed: %w", err)
	}

	return records, total, nil
}

// GetStudent returns a single student record, enforcing school scoping.
func (service *Service) GetStudent(ctx context.Context, actor Actor, studentID string) (*Student, error) {
	student, err := service.studentRepository.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if err := service.authorizeStudentAccess(ctx, actor, student); err != nil {
		return nil, err
	}

	return student, nil
}

// # Marks

// RecordMarkInput holds the data required to record term marks.
type RecordMarkInput struct {
	StudentID  string
	Subject    string
	MidTerm    float64
	FinalTerm  float64
	Assignment float64
}

// RecordMark records a subject's term marks for a student.
// Total and grade are derived server-side.
func (service *Service) RecordMark(ctx context.Context, actor Actor, input RecordMarkInput) (*Mark, error) {
	student, err := service.studentRepository.FindByID(ctx, input.StudentID)
	if err != nil {
		return nil, err
	}

	// Mark entry is never cross-school, even for super admins.
	if actor.Role != sec.RoleSuperAdmin && student.SchoolID != actor.SchoolID {
		return nil, apperr.Forbidden("Student belongs to another school")
	}

	total := input.MidTerm + input.FinalTerm + input.Assignment
	mark := &Mark{
		ID:         uuidv7.New(),
		StudentID:  student.ID,
		SchoolID:   student.SchoolID,
		Subject:    input.Subject,
		MidTerm:    input.MidTerm,
		FinalTerm:  input.FinalTerm,
		Assignment: input.Assignment,
		Total:      total,
		Grade:      CalculateGrade(total),
	}

	if err := service.markRepository.Create(ctx, mark); err != nil {
		return nil, fmt.Errorf("students_service_record_mark_failed: %w", err)
	}

	return mark, nil
}

// ListMarks returns all marks recorded for a student visible to the actor.
func (service *Service) ListMarks(ctx context.Context, actor Actor, studentID string) ([]Mark, error) {
	student, err := service.studentRepository.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if err := service.authorizeStudentAccess(ctx, actor, student); err != nil {
		return nil, err
	}

	marks, err := service.markRepository.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("students_service_list_marks_failed: %w", err)
	}

	return marks, nil
}

// MyRecord resolves the student record linked to the acting student account.
func (service *Service) MyRecord(ctx context.Context, actor Actor) (*Student, error) {
	if actor.Role != sec.RoleStudent {
		return nil, apperr.Forbidden("Only student accounts have a linked record")
	}
	return service.studentRepository.FindByUserID(ctx, actor.UserID)
}

// authorizeStudentAccess applies the per-role visibility rules for one record.
func (service *Service) authorizeStudentAccess(ctx context.Context, actor Actor, student *Student) error {
	switch actor.Role {
	case sec.RoleSuperAdmin:
		return nil
	case sec.RoleSchoolAdmin, sec.RoleTeacher:
		if student.SchoolID != actor.SchoolID {
			return apperr.Forbidden("Student belongs to another school")
		}
		return nil
	case sec.RoleStudent:
		if student.UserID != actor.UserID {
			return apperr.Forbidden("Students may only access their own record")
		}
		return nil
	}
	return apperr.Forbidden("You do not have enough permissions to perform this action")
}
