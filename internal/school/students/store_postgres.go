// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

package students

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kietvo/scolara/internal/platform/dberr"
)

// # Student Repository

// PostgresStudentRepository implements [StudentRepository] using pgx.
type PostgresStudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a PostgreSQL-backed [StudentRepository].
func NewStudentRepository(pool *pgxpool.Pool) *PostgresStudentRepository {
	return &PostgresStudentRepository{pool: pool}
}

const studentColumns = `id, user_id, name, age, gender, class_name, school_id, created_at, updated_at`

// Create persists a new student record.
func (repository *PostgresStudentRepository) Create(ctx context.Context, student *Student) error {
	const query = `
		INSERT INTO students (` + studentColumns + `)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		student.ID,
		student.UserID,
		student.Name,
		student.Age,
		student.Gender,
		student.ClassName,
		student.SchoolID,
		student.CreatedAt,
		student.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Student")
	}

	return nil
}

// FindByID retrieves a student record by primary key.
func (repository *PostgresStudentRepository) FindByID(ctx context.Context, id string) (*Student, error) {
	const query = `
		SELECT ` + studentColumns + `
		FROM students
		WHERE id = $1`

	return repository.scanOne(ctx, query, id)
}

// FindByUserID retrieves the student record linked to a login account.
func (repository *PostgresStudentRepository) FindByUserID(ctx context.Context, userID string) (*Student, error) {
	const query = `
		SELECT ` + studentColumns + `
		FROM students
		WHERE user_id = $1`

	return repository.scanOne(ctx, query, userID)
}

// List returns a page of student records plus the unpaged total count.
func (repository *PostgresStudentRepository) List(ctx context.Context, filter StudentFilter) ([]Student, int, error) {
	// NULLIF collapses the "all schools" case into a single query shape.
	const query = `
		SELECT ` + studentColumns + `
		FROM students
		WHERE ($1::text IS NULL OR school_id = $1)
		ORDER BY name
		LIMIT $2 OFFSET $3`

	const countQuery = `
		SELECT count(*)
		FROM students
		WHERE ($1::text IS NULL OR school_id = $1)`

	schoolArg := nullableText(filter.SchoolID)

	rows, err := repository.pool.Query(ctx, query, schoolArg, filter.Params.Limit, filter.Params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_student_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var records []Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_student_repo_scan_failed: %w", err)
		}
		records = append(records, *student)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_student_repo_rows_failed: %w", err)
	}

	var total int
	if err := repository.pool.QueryRow(ctx, countQuery, schoolArg).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_student_repo_count_failed: %w", err)
	}

	return records, total, nil
}

func (repository *PostgresStudentRepository) scanOne(ctx context.Context, query string, arg any) (*Student, error) {
	row := repository.pool.QueryRow(ctx, query, arg)
	student, err := scanStudent(row)
	if err != nil {
		return nil, dberr.Wrap(err, "Student")
	}
	return student, nil
}

func scanStudent(row pgx.Row) (*Student, error) {
	student := &Student{}
	var userID *string

	err := row.Scan(
		&student.ID,
		&userID,
		&student.Name,
		&student.Age,
		&student.Gender,
		&student.ClassName,
		&student.SchoolID,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID != nil {
		student.UserID = *userID
	}

	return student, nil
}

// nullableText converts an empty string to a SQL NULL argument.
func nullableText(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// # Mark Repository

// PostgresMarkRepository implements [MarkRepository] using pgx.
type PostgresMarkRepository struct {
	pool *pgxpool.Pool
}

// NewMarkRepository creates a PostgreSQL-backed [MarkRepository].
func NewMarkRepository(pool *pgxpool.Pool) *PostgresMarkRepository {
	return &PostgresMarkRepository{pool: pool}
}

const markColumns = `id, student_id, school_id, subject, mid_term, final_term, assignment, total, grade, created_at`

// Create persists a new mark row.
func (repository *PostgresMarkRepository) Create(ctx context.Context, mark *Mark) error {
	const query = `
		INSERT INTO marks (` + markColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	if mark.CreatedAt.IsZero() {
		mark.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(ctx, query,
		mark.ID,
		mark.StudentID,
		mark.SchoolID,
		mark.Subject,
		mark.MidTerm,
		mark.FinalTerm,
		mark.Assignment,
		mark.Total,
		mark.Grade,
		mark.CreatedAt,
	)
	if err != nil {
		// A mark for a deleted student fails the FK and reads as validation.
		return dberr.Wrap(err, "Mark")
	}

	return nil
}

// ListByStudent returns all marks recorded for one student, newest first.
func (repository *PostgresMarkRepository) ListByStudent(ctx context.Context, studentID string) ([]Mark, error) {
	const query = `
		SELECT ` + markColumns + `
		FROM marks
		WHERE student_id = $1
		ORDER BY created_at DESC`

	rows, err := repository.pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("postgres_mark_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var marks []Mark
	for rows.Next() {
		mark := Mark{}
		err := rows.Scan(
			&mark.ID,
			&mark.StudentID,
			&mark.SchoolID,
			&mark.Subject,
			&mark.MidTerm,
			&mark.FinalTerm,
			&mark.Assignment,
			&mark.Total,
			&mark.Grade,
			&mark.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_mark_repo_scan_failed: %w", err)
		}
		marks = append(marks, mark)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_mark_repo_rows_failed: %w", err)
	}

	return marks, nil
}
