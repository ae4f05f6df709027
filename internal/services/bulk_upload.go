// internal/services/bulk_upload.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/commodity-admin/internal/catalog"
	"github.com/javajoker/commodity-admin/internal/i18n"
	"github.com/javajoker/commodity-admin/internal/models"
)

var (
	ErrNotCSV           = errors.New("only .csv files are allowed")
	ErrNoFile           = errors.New("no file staged")
	ErrFileTooLarge     = errors.New("file exceeds the upload size limit")
	ErrUploadInProgress = errors.New("upload already in progress")
)

// SizeLimitError reports a file over the configured upload limit.
type SizeLimitError struct {
	Limit int64
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("%s (%d bytes)", ErrFileTooLarge, e.Limit)
}

func (e *SizeLimitError) Unwrap() error { return ErrFileTooLarge }

func (e *SizeLimitError) MessageArgs() []interface{} { return []interface{}{e.Limit} }

type UploadSource string

const (
	SourcePicker UploadSource = "picker"
	SourceDrop   UploadSource = "drop"
)

// DefaultStatusTTL is how long an upload status stays visible.
const DefaultStatusTTL = 3 * time.Second

type stagedFile struct {
	name        string
	contentType string
	data        []byte
	stagedAt    time.Time
}

// BulkUpload owns the single staged CSV file of one admin and its status line.
type BulkUpload struct {
	mu        sync.Mutex
	api       UploadAPI
	archiver  CSVArchiver
	maxBytes  int64
	statusTTL time.Duration
	staged    *stagedFile
	status    *models.Notice
	statusGen uint64
	uploading bool
	lastCount int
}

type StagedFileInfo struct {
	Name     string    `json:"name"`
	Size     int       `json:"size"`
	StagedAt time.Time `json:"staged_at"`
}

type UploadState struct {
	File      *StagedFileInfo `json:"file,omitempty"`
	Status    *models.Notice  `json:"status,omitempty"`
	Uploading bool            `json:"uploading"`
	Inserted  int             `json:"inserted"`
}

func NewBulkUpload(api UploadAPI, archiver CSVArchiver, maxBytes int64, statusTTL time.Duration) *BulkUpload {
	if statusTTL <= 0 {
		statusTTL = DefaultStatusTTL
	}
	return &BulkUpload{
		api:       api,
		archiver:  archiver,
		maxBytes:  maxBytes,
		statusTTL: statusTTL,
	}
}

// IsCSV reports whether a file is accepted, by MIME type or by extension.
func IsCSV(name, contentType string) bool {
	if mt := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0])); mt == "text/csv" {
		return true
	}
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

// Stage replaces the staged file. Anything that is not CSV is rejected without
// contacting the catalog and leaves nothing staged. The same rule applies to
// the file picker and to drag and drop.
func (u *BulkUpload) Stage(source UploadSource, name, contentType string, data []byte) (UploadState, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if !IsCSV(name, contentType) {
		u.staged = nil
		u.setStatusLocked(models.NewNotice(models.NoticeError, i18n.KeyUploadOnlyCSV), true)
		logrus.WithFields(logrus.Fields{
			"source":       source,
			"filename":     name,
			"content_type": contentType,
		}).Info("Rejected non-CSV upload")
		return u.stateLocked(), ErrNotCSV
	}
	if u.maxBytes > 0 && int64(len(data)) > u.maxBytes {
		u.staged = nil
		u.setStatusLocked(models.NewNotice(models.NoticeError, i18n.KeyUploadTooLarge, u.maxBytes), true)
		return u.stateLocked(), &SizeLimitError{Limit: u.maxBytes}
	}

	u.staged = &stagedFile{
		name:        name,
		contentType: contentType,
		data:        append([]byte(nil), data...),
		stagedAt:    time.Now(),
	}
	u.setStatusLocked(nil, false)
	return u.stateLocked(), nil
}

// Clear removes the staged file and any status.
func (u *BulkUpload) Clear() UploadState {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.staged = nil
	u.setStatusLocked(nil, false)
	return u.stateLocked()
}

func (u *BulkUpload) State() UploadState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.stateLocked()
}

// Submit posts the staged file as one multipart request. Success clears the
// staged file; failure keeps it so the admin can retry. The resulting status
// clears itself after the status TTL.
func (u *BulkUpload) Submit(ctx context.Context, uploadedBy string) (UploadState, error) {
	u.mu.Lock()
	if u.staged == nil {
		u.mu.Unlock()
		return u.State(), ErrNoFile
	}
	if u.uploading {
		u.mu.Unlock()
		return u.State(), ErrUploadInProgress
	}
	file := u.staged
	u.uploading = true
	u.setStatusLocked(models.NewNotice(models.NoticeInfo, i18n.KeyUploadInProgress), false)
	u.mu.Unlock()

	if u.archiver != nil {
		if res, err := u.archiver.ArchiveCSV(ctx, file.name, file.data, uploadedBy); err != nil {
			logrus.WithError(err).WithField("filename", file.name).Warn("CSV archive failed")
		} else if res.Archived {
			logrus.WithFields(logrus.Fields{
				"filename": file.name,
				"key":      res.Key,
			}).Info("CSV archived")
		}
	}

	inserted, err := u.api.UploadCSV(ctx, file.name, bytes.NewReader(file.data))

	u.mu.Lock()
	defer u.mu.Unlock()
	u.uploading = false

	if err != nil {
		u.setStatusLocked(models.NewNotice(models.NoticeError, i18n.KeyUploadFailed, catalog.UserMessage(err)), true)
		logrus.WithError(err).WithFields(logrus.Fields{
			"filename":    file.name,
			"uploaded_by": uploadedBy,
		}).Error("Bulk upload failed")
		return u.stateLocked(), err
	}

	if u.staged == file {
		u.staged = nil
	}
	u.lastCount = inserted
	u.setStatusLocked(models.NewNotice(models.NoticeSuccess, i18n.KeyUploadInserted, inserted), true)
	logrus.WithFields(logrus.Fields{
		"filename":    file.name,
		"inserted":    inserted,
		"uploaded_by": uploadedBy,
	}).Info("Bulk upload completed")
	return u.stateLocked(), nil
}

// setStatusLocked replaces the status. With expire set, the status clears
// after the TTL unless a newer status replaced it first.
func (u *BulkUpload) setStatusLocked(status *models.Notice, expire bool) {
	u.statusGen++
	u.status = status
	if !expire || status == nil {
		return
	}

	gen := u.statusGen
	time.AfterFunc(u.statusTTL, func() {
		u.mu.Lock()
		defer u.mu.Unlock()
		if u.statusGen == gen {
			u.status = nil
		}
	})
}

func (u *BulkUpload) stateLocked() UploadState {
	state := UploadState{
		Status:    u.status,
		Uploading: u.uploading,
		Inserted:  u.lastCount,
	}
	if u.staged != nil {
		state.File = &StagedFileInfo{
			Name:     u.staged.name,
			Size:     len(u.staged.data),
			StagedAt: u.staged.stagedAt,
		}
	}
	return state
}
