package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/ports"
)

const (
	mimeJPEG = "image/jpeg"
	mimeJPG  = "image/jpg"
	mimePNG  = "image/png"
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	mib = 1 << 20
)

// UploadRule bounds what a kind of upload may contain.
type UploadRule struct {
	Types   []string
	MaxSize int64
	Label   string
}

var (
	// ProfileImage is an avatar for the signed-in identity.
	ProfileImage = UploadRule{Types: []string{mimeJPEG, mimeJPG, mimePNG}, MaxSize: 5 * mib, Label: "JPG or PNG images"}
	// Attachment is a file attached to a user record.
	Attachment = UploadRule{Types: []string{mimeJPEG, mimeJPG, mimePNG, mimePDF, mimeDOCX}, MaxSize: 10 * mib, Label: "JPG, PNG, PDF, or DOCX files"}
)

// MediaService validates and uploads files, returning their reference URL.
type MediaService struct {
	api ports.UploadAPI
	log zerolog.Logger
}

func NewMediaService(api ports.UploadAPI, log zerolog.Logger) *MediaService {
	return &MediaService{api: api, log: log}
}

// UploadProfileImage sends an avatar: JPG or PNG up to 5MB.
func (s *MediaService) UploadProfileImage(ctx context.Context, file ports.Upload) (string, error) {
	return s.Upload(ctx, ProfileImage, file)
}

// UploadAttachment sends a user attachment: JPG, PNG, PDF or DOCX up to 10MB.
func (s *MediaService) UploadAttachment(ctx context.Context, file ports.Upload) (string, error) {
	return s.Upload(ctx, Attachment, file)
}

// Upload checks file against rule and sends it.
func (s *MediaService) Upload(ctx context.Context, rule UploadRule, file ports.Upload) (string, error) {
	if err := rule.check(file); err != nil {
		return "", err
	}
	ref, err := s.api.Upload(ctx, file)
	if err != nil {
		return "", err
	}
	s.log.Debug().Str("filename", file.Filename).Int64("size", file.Size).Msg("file uploaded")
	return ref, nil
}

func (r UploadRule) check(file ports.Upload) error {
	if file.Body == nil {
		return domain.ValidationError("file is required")
	}
	if !slices.Contains(r.Types, file.ContentType) {
		return domain.ValidationError(fmt.Sprintf("please upload %s only", r.Label))
	}
	if file.Size > r.MaxSize {
		return domain.ValidationError(fmt.Sprintf("file size must be less than %dMB", r.MaxSize/mib))
	}
	return nil
}
