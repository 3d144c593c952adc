package service

import (
	"bytes"
	"context"
	"encoding/json"
	"path"
	"workbook_coach_backend/internal/model"
	"workbook_coach_backend/internal/util"
	"workbook_coach_backend/pkg/logger"

	"go.uber.org/zap"
)

// Archive kinds, used as the storage folder.
const (
	ArchiveSubmission = "submissions"
	ArchiveFollowup   = "followups"
)

// DiagnosisArchive writes every generated diagnosis to object storage as JSON.
type DiagnosisArchive struct {
	Storage *StorageService
}

func NewDiagnosisArchive(storage *StorageService) *DiagnosisArchive {
	return &DiagnosisArchive{Storage: storage}
}

func ArchiveKey(kind, id string) string {
	return path.Join("diagnoses", kind, id+".json")
}

// Store never fails the caller; errors are logged.
func (a *DiagnosisArchive) Store(ctx context.Context, kind, id string, d *model.DiagnosisResult) {
	if a == nil || a.Storage == nil || d == nil {
		return
	}
	data, err := json.Marshal(d)
	if err != nil {
		logger.Log.Warn("Diagnosis archive encode failed", zap.String("id", id), zap.Error(err))
		return
	}
	if _, err := a.Storage.Upload(ctx, ArchiveKey(kind, id), bytes.NewReader(data), int64(len(data)), util.MimeJSON); err != nil {
		logger.Log.Warn("Diagnosis archive write failed", zap.String("kind", kind), zap.String("id", id), zap.Error(err))
	}
}

// Load reads an archived diagnosis back.
func (a *DiagnosisArchive) Load(ctx context.Context, kind, id string) (*model.DiagnosisResult, error) {
	rc, err := a.Storage.Download(ctx, ArchiveKey(kind, id))
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var d model.DiagnosisResult
	if err := json.NewDecoder(rc).Decode(&d); err != nil {
		return nil, err
	}
	d.Normalize()
	return &d, nil
}
