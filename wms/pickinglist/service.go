package pickinglist

import (
	"context"

	"metalflow-app/utils"

	"gorm.io/gorm"
)

// Notifier dipanggil setelah import berhasil di-commit
type Notifier interface {
	NotifyImported(ctx context.Context, doc *ImportDocument, summary *ImportSummary) error
}

type Preview struct {
	Document   *ImportDocument   `json:"document"`
	Validation *ValidationResult `json:"validation"`
}

type Service struct {
	Validator *Validator
	Importer  *Importer
	Notifier  Notifier
}

func NewService(DB *gorm.DB) *Service {
	return &Service{
		Validator: NewValidator(DB),
		Importer:  NewImporter(DB),
	}
}

// Preview = parse + validate, tanpa menulis apa pun
func (s *Service) Preview(ctx context.Context, text, userID string) (*Preview, error) {
	doc, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return s.PreviewDocument(ctx, doc, userID)
}

func (s *Service) PreviewRows(ctx context.Context, rows [][]string, userID string) (*Preview, error) {
	doc, err := ParseRows(rows)
	if err != nil {
		return nil, err
	}
	return s.PreviewDocument(ctx, doc, userID)
}

func (s *Service) PreviewDocument(ctx context.Context, doc *ImportDocument, userID string) (*Preview, error) {
	validation, err := s.Validator.Validate(ctx, doc, userID)
	if err != nil {
		return nil, err
	}
	return &Preview{Document: doc, Validation: validation}, nil
}

func (s *Service) Commit(ctx context.Context, text, userID string, routing map[int]uint) (*ImportSummary, error) {
	doc, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return s.CommitDocument(ctx, doc, userID, routing, SourceText)
}

func (s *Service) CommitRows(ctx context.Context, rows [][]string, userID string, routing map[int]uint) (*ImportSummary, error) {
	doc, err := ParseRows(rows)
	if err != nil {
		return nil, err
	}
	return s.CommitDocument(ctx, doc, userID, routing, SourceSheet)
}

// CommitDocument selalu menjalankan Validate lagi sebelum import
func (s *Service) CommitDocument(ctx context.Context, doc *ImportDocument, userID string, routing map[int]uint, source string) (*ImportSummary, error) {
	log := utils.LoggerFromContext(ctx).WithField("user_id", userID)
	ctx = utils.WithLogger(ctx, log)

	validation, err := s.Validator.Validate(ctx, doc, userID)
	if err != nil {
		return nil, err
	}
	if err := validation.Err(); err != nil {
		return nil, err
	}

	summary, err := s.Importer.Import(ctx, doc, validation.BranchID, routing, ImportMeta{UserID: userID, Source: source})
	if err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		if err := s.Notifier.NotifyImported(ctx, doc, summary); err != nil {
			log.WithError(err).Warn("picking list import notification failed")
		}
	}
	return summary, nil
}
