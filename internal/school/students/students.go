// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

/*
Package students implements the student-records domain: enrollment data and
term marks, scoped per school and per role.

# Access Model

Every operation receives an [Actor] describing the caller. Super admins see
all schools; school admins and teachers are confined to their own school;
students may only read their own record and marks. The HTTP layer enforces
the coarse role gate, the service enforces school scoping.
*/
package students

import (
	"time"

	"github.com/kietvo/scolara/internal/platform/sec"
)

// # Domain Entities

// Student represents an enrolled student record.
//
// UserID links the record to a login account when the student has dashboard
// access; records imported in bulk may not have one yet.
type Student struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Name      string    `json:"name"`
	Age       int       `json:"age,omitempty"`
	Gender    string    `json:"gender,omitempty"`
	ClassName string    `json:"class_name,omitempty"`
	SchoolID  string    `json:"school_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Mark represents one subject's term marks for a student.
//
// Total and Grade are derived on write, never trusted from input.
type Mark struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	SchoolID   string    `json:"school_id"`
	Subject    string    `json:"subject"`
	MidTerm    float64   `json:"mid_term"`
	FinalTerm  float64   `json:"final_term"`
	Assignment float64   `json:"assignment"`
	Total      float64   `json:"total"`
	Grade      string    `json:"grade"`
	CreatedAt  time.Time `json:"created_at"`
}

// Actor identifies the caller of a service operation.
type Actor struct {
	UserID   string
	Role     sec.Role
	SchoolID string
}

// ActorFromClaims builds an [Actor] from verified token claims.
func ActorFromClaims(claims *sec.AuthClaims) Actor {
	return Actor{
		UserID:   claims.UserID,
		Role:     sec.Role(claims.Role),
		SchoolID: claims.SchoolID,
	}
}

// # Grading

// CalculateGrade maps a total score to a letter grade.
//
// Thresholds match the reporting scale used across school deployments.
func CalculateGrade(total float64) string {
	switch {
	case total >= 90:
		return "A+"
	case total >= 80:
		return "A"
	case total >= 70:
		return "B"
	case total >= 60:
		return "C"
	case total >= 50:
		return "D"
	default:
		return "F"
	}
}

// # Field Identifiers

const (
	FieldName       = "name"
	FieldAge        = "age"
	FieldClassName  = "class_name"
	FieldSchoolID   = "school_id"
	FieldSubject    = "subject"
	FieldMidTerm    = "mid_term"
	FieldFinalTerm  = "final_term"
	FieldAssignment = "assignment"
	FieldStudentID  = "student_id"
)
