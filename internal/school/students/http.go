// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

package students

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kietvo/scolara/internal/platform/middleware"
	requestutil "github.com/kietvo/scolara/internal/platform/request"
	"github.com/kietvo/scolara/internal/platform/respond"
	"github.com/kietvo/scolara/internal/platform/sec"
	"github.com/kietvo/scolara/internal/platform/validate"
	"github.com/kietvo/scolara/pkg/pagination"
)

// Handler implements the student-records HTTP endpoints.
type Handler struct {
	studentService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{studentService: service}
}

// Routes returns a [chi.Router] with the student and mark endpoints.
//
// Role gates mirror the dashboard's view structure: administrative roles
// manage records, teachers record marks, students read their own data.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(sec.RoleSuperAdmin, sec.RoleSchoolAdmin, sec.RoleTeacher))
		r.Get("/", handler.list)
		r.Get("/{studentID}", handler.get)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(sec.RoleSuperAdmin, sec.RoleSchoolAdmin))
		r.Post("/", handler.create)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(sec.RoleSuperAdmin, sec.RoleSchoolAdmin, sec.RoleTeacher))
		r.Post("/{studentID}/marks", handler.recordMark)
	})

	// Marks are also readable by the student themselves; the service applies
	// the ownership check.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/{studentID}/marks", handler.listMarks)
		r.Get("/me", handler.myRecord)
	})

	return router
}

// # Request Payloads

type createStudentRequest struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Age       int    `json:"age"`
	Gender    string `json:"gender"`
	ClassName string `json:"class_name"`
	SchoolID  string `json:"school_id"`
}

type recordMarkRequest struct {
	Subject    string  `json:"subject"`
	MidTerm    float64 `json:"mid_term"`
	FinalTerm  float64 `json:"final_term"`
	Assignment float64 `json:"assignment"`
}

/*
list returns a page of student records visible to the caller.

GET /api/students?page=&limit=
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	records, total, err := handler.studentService.ListStudents(request.Context(), ActorFromClaims(claims), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, records, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
get returns a single student record.

GET /api/students/{studentID}
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	student, err := handler.studentService.GetStudent(request.Context(), ActorFromClaims(claims), requestutil.Param(request, "studentID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, student)
}

/*
create enrolls a new student record.

POST /api/students
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createStudentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		Custom(FieldAge, input.Age < 0 || input.Age > 120, "Must be a plausible age")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	student, err := handler.studentService.CreateStudent(request.Context(), ActorFromClaims(claims), CreateStudentInput{
		UserID:    input.UserID,
		Name:      input.Name,
		Age:       input.Age,
		Gender:    input.Gender,
		ClassName: input.ClassName,
		SchoolID:  input.SchoolID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, student)
}

/*
recordMark records a subject's term marks for a student.

POST /api/students/{studentID}/marks
*/
func (handler *Handler) recordMark(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input recordMarkRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldSubject, input.Subject).
		Custom(FieldMidTerm, input.MidTerm < 0 || input.MidTerm > 100, "Must be between 0 and 100").
		Custom(FieldFinalTerm, input.FinalTerm < 0 || input.FinalTerm > 100, "Must be between 0 and 100").
		Custom(FieldAssignment, input.Assignment < 0 || input.Assignment > 100, "Must be between 0 and 100")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	mark, err := handler.studentService.RecordMark(request.Context(), ActorFromClaims(claims), RecordMarkInput{
		StudentID:  requestutil.Param(request, "studentID"),
		Subject:    input.Subject,
		MidTerm:    input.MidTerm,
		FinalTerm:  input.FinalTerm,
		Assignment: input.Assignment,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, mark)
}

/*
listMarks returns all marks recorded for a student.

GET /api/students/{studentID}/marks
*/
func (handler *Handler) listMarks(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	marks, err := handler.studentService.ListMarks(request.Context(), ActorFromClaims(claims), requestutil.Param(request, "studentID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, marks)
}

/*
myRecord returns the student record linked to the calling account.

GET /api/students/me
*/
func (handler *Handler) myRecord(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	student, err := handler.studentService.MyRecord(request.Context(), ActorFromClaims(claims))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, student)
}
