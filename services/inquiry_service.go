package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"catalog-service/models"
	"catalog-service/repository"

	"github.com/google/uuid"
)

// Notifier is told about every new inquiry. Implementations must not block.
type Notifier interface {
	NotifyAsync(inquiry models.Inquiry)
}

type InquiryService struct {
	repo     repository.InquiryRepo
	notifier Notifier
}

func NewInquiryService(repo repository.InquiryRepo, notifier Notifier) *InquiryService {
	return &InquiryService{repo: repo, notifier: notifier}
}

func (s *InquiryService) CreateInquiry(ctx context.Context, req InquiryRequest) (*models.Inquiry, error) {
	now := time.Now().UTC()
	inquiry := &models.Inquiry{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Company:   strings.TrimSpace(req.Company),
		Subject:   strings.TrimSpace(req.Subject),
		Message:   req.Message,
		Status:    models.InquiryStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("create inquiry: %w", err)
	}
	if s.notifier != nil {
		s.notifier.NotifyAsync(*inquiry)
	}
	return inquiry, nil
}

func (s *InquiryService) ListInquiries(ctx context.Context) ([]models.Inquiry, error) {
	return s.repo.FindAll(ctx)
}

func (s *InquiryService) GetInquiry(ctx context.Context, id string) (*models.Inquiry, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *InquiryService) UpdateInquiry(ctx context.Context, id string, req InquiryUpdate) (*models.Inquiry, error) {
	if req.Status != nil && !models.IsValidInquiryStatus(*req.Status) {
		return nil, fmt.Errorf("status %q: %w", *req.Status, ErrInvalidStatus)
	}

	inquiry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&inquiry.Name, req.Name)
	set(&inquiry.Email, req.Email)
	set(&inquiry.Phone, req.Phone)
	set(&inquiry.Company, req.Company)
	set(&inquiry.Subject, req.Subject)
	set(&inquiry.Message, req.Message)
	set(&inquiry.Status, req.Status)
	inquiry.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, inquiry); err != nil {
		return nil, err
	}
	return inquiry, nil
}

func (s *InquiryService) DeleteInquiry(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
