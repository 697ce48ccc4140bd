// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

package students

import (
	"context"

	"github.com/kietvo/scolara/pkg/pagination"
)

// StudentFilter narrows student listings.
// An empty SchoolID means "all schools" and is only valid for super admins.
type StudentFilter struct {
	SchoolID string
	Params   pagination.Params
}

// StudentRepository abstracts persistent student-record storage.
type StudentRepository interface {
	Create(ctx context.Context, student *Student) error
	FindByID(ctx context.Context, id string) (*Student, error)
	FindByUserID(ctx context.Context, userID string) (*Student, error)
	List(ctx context.Context, filter StudentFilter) ([]Student, int, error)
}

// MarkRepository abstracts persistent mark storage.
type MarkRepository interface {
	Create(ctx context.Context, mark *Mark) error
	ListByStudent(ctx context.Context, studentID string) ([]Mark, error)
}
