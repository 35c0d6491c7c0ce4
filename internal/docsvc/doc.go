// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package docsvc is the HTTP client for the document service.
//
// Each endpoint method decodes the response once and returns either the
// endpoint's result or a classified *apierr.Error. Callers never inspect raw
// response bodies.
//
// # Endpoints
//
//   - POST /documents/upload (multipart field "file") -> doc_id
//   - POST /documents/{id}/summary -> summary
//   - POST /documents/{id}/practice/generate?n= -> questions
//   - POST /documents/{id}/study-plan -> study_plan
//   - POST /documents/{id}/practice/grade?question_id&question&user_answer
//   - POST /chat {doc_id, question} -> answer (or response)
//
// # Usage
//
//	client := docsvc.FromConfig(cfg.Service, logger)
//	docID, err := client.UploadFile(ctx, "apuntes.pdf")
//	summary, err := client.Summary(ctx, docID)
package docsvc
