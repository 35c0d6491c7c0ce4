// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/studydesk/internal/apierr"
	"github.com/jeranaias/studydesk/internal/docsvc"
	"github.com/jeranaias/studydesk/internal/notify"
)

// Upload screen messages.
const (
	MsgSelectFile   = "Por favor, seleccione un archivo para continuar"
	MsgUploaded     = "Documento cargado exitosamente"
	MsgFileNotFound = "No se encontró el archivo seleccionado"
	MsgFileIsDir    = "La ruta seleccionada es un directorio"
)

// UploadResult is the fetched result of one upload.
type UploadResult struct {
	Path  string
	Name  string
	DocID string
	Err   error
}

// UploadFetch performs the network call of a started upload.
type UploadFetch func(ctx context.Context) UploadResult

// Uploader sends documents to the service. It has its own busy flag and
// notifier, separate from the workspace's.
type Uploader struct {
	svc     Service
	notes   *notify.Notifier
	log     *zap.Logger
	pending bool
}

// NewUploader creates an uploader.
func NewUploader(svc Service, notes *notify.Notifier, log *zap.Logger) *Uploader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Uploader{svc: svc, notes: notes, log: log}
}

// Pending reports whether an upload is in flight.
func (u *Uploader) Pending() bool {
	return u.pending
}

// Notifier returns the upload screen's notifier.
func (u *Uploader) Notifier() *notify.Notifier {
	return u.notes
}

// Start validates path and returns the fetch that uploads it. The returned
// notification, when non-nil, explains a rejection.
func (u *Uploader) Start(path string) (UploadFetch, *notify.Notification, error) {
	if u.pending {
		return nil, nil, ErrBusy
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, noted(u.notes.Warning(MsgSelectFile)), docsvc.ErrNoFile
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, noted(u.notes.Error(MsgFileNotFound)), fmt.Errorf("stat document: %w", err)
	}
	if info.IsDir() {
		return nil, noted(u.notes.Error(MsgFileIsDir)), fmt.Errorf("%s is a directory", path)
	}

	u.pending = true
	svc, name := u.svc, filepath.Base(path)
	u.log.Info("upload started", zap.String("name", name), zap.Int64("size", info.Size()))
	return func(ctx context.Context) UploadResult {
		id, err := svc.UploadFile(ctx, path)
		return UploadResult{Path: path, Name: name, DocID: id, Err: err}
	}, nil, nil
}

// Complete clears the busy flag and notifies the outcome.
func (u *Uploader) Complete(res UploadResult) Outcome {
	if !u.pending {
		return Outcome{Stale: true}
	}
	u.pending = false

	if res.Err != nil {
		u.log.Warn("upload failed",
			zap.String("name", res.Name),
			zap.String("kind", apierr.KindOf(res.Err).String()),
			zap.Error(res.Err),
		)
		if apierr.KindOf(res.Err) == apierr.KindRateLimited {
			return Outcome{Err: res.Err, Note: noted(u.notes.Warning(apierr.Message(res.Err)))}
		}
		return Outcome{Err: res.Err, Note: noted(u.notes.Error(apierr.Message(res.Err)))}
	}

	u.log.Info("upload completed", zap.String("name", res.Name), zap.String("doc_id", res.DocID))
	return Outcome{Note: noted(u.notes.Success(MsgUploaded))}
}

// Run uploads path and waits for the result.
func (u *Uploader) Run(ctx context.Context, path string) (UploadResult, error) {
	fetch, _, err := u.Start(path)
	if err != nil {
		return UploadResult{}, err
	}
	res := fetch(ctx)
	out := u.Complete(res)
	return res, out.Err
}
