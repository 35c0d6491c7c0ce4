// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"context"
	"io"

	"github.com/jeranaias/studydesk/internal/model"
)

// Service is the document service as seen by the managers.
// *docsvc.Client satisfies it. Failures are classified *apierr.Error values.
type Service interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
	UploadFile(ctx context.Context, path string) (string, error)
	Summary(ctx context.Context, docID string) (string, error)
	Questions(ctx context.Context, docID string, n int) ([]model.Question, error)
	StudyPlan(ctx context.Context, docID string) (string, error)
	Grade(ctx context.Context, docID string, q model.Question, answer string) (model.GradingResult, error)
	Chat(ctx context.Context, docID, question string) (string, error)
}
