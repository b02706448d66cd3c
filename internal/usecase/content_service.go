package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ovrplay/fantasy-cricket/internal/domain/content"
	"github.com/ovrplay/fantasy-cricket/internal/platform/logging"
)

// ContentService is thin CRUD over the static app content: banners, FAQs,
// pages, and the referral settings.
type ContentService struct {
	repo   content.Repository
	logger *logging.Logger
}

func NewContentService(repo content.Repository, logger *logging.Logger) *ContentService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ContentService{repo: repo, logger: logger}
}

func (s *ContentService) ListBanners(ctx context.Context, onlyActive bool) ([]content.Banner, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContentService.ListBanners")
	defer span.End()

	return s.repo.ListBanners(ctx, onlyActive)
}

func (s *ContentService) SaveBanner(ctx context.Context, b content.Banner) (content.Banner, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContentService.SaveBanner")
	defer span.End()

	if strings.TrimSpace(b.Title) == "" || strings.TrimSpace(b.ImageURL) == "" {
		return content.Banner{}, fmt.Errorf("%w: banner title and image are required", ErrInvalidInput)
	}
	if b.ID > 0 {
		if err := s.repo.UpdateBanner(ctx, b); err != nil {
			return content.Banner{}, fmt.Errorf("update banner id=%d: %w", b.ID, err)
		}
		return b, nil
	}
	return s.repo.CreateBanner(ctx, b)
}

func (s *ContentService) DeleteBanner(ctx context.Context, id int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContentService.DeleteBanner")
	defer span.End()

	return s.repo.DeleteBanner(ctx, id)
}

func (s *ContentService) ListFAQs(ctx context.Context, onlyActive bool) ([]content.FAQ, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContentService.ListFAQs")
	defer span.End()

	return s.repo.ListFAQs(ctx, onlyActive)
}

func (s *ContentService) SaveFAQ(ctx context.Context, f content.FAQ) (content.FAQ, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContentService.SaveFAQ")
	defer span.End()

	if strings.TrimSpace(f.Question) == "" || strings.TrimSpace(f.Answer) == "" {
		return content.FAQ{}, fmt.Errorf("%w: faq question and answer are required", ErrInvalidInput)
	}
	if f.ID > 0 {
		if err := s.repo.UpdateFAQ(ctx, f); err != nil {
			return content.FAQ{}, fmt.Errorf("update faq id=%d: %w", f.ID, err)
		}
		return f, nil
	}
	return s.repo.CreateFAQ(ctx, f)
}

func (s *ContentService) DeleteFAQ(ctx context.Context, id int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContentService.DeleteFAQ")
	defer span.End()

	return s.repo.DeleteFAQ(ctx, id)
}

func (s *ContentService) GetPage(ctx context.Context, slug string) (content.Page, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContentService.GetPage")
	defer span.End()

	if strings.TrimSpace(slug) == "" {
		return content.Page{}, fmt.Errorf("%w: page slug is required", ErrInvalidInput)
	}
	page, found, err := s.repo.GetPageBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return content.Page{}, fmt.Errorf("load page slug=%s: %w", slug, err)
	}
	if !found {
		return content.Page{}, fmt.Errorf("%w: page slug=%s", ErrNotFound, slug)
	}
	return page, nil
}

func (s *ContentService) ListPages(ctx context.Context, onlyActive bool) ([]content.Page, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContentService.ListPages")
	defer span.End()

	return s.repo.ListPages(ctx, onlyActive)
}

func (s *ContentService) SavePage(ctx context.Context, p content.Page) (content.Page, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContentService.SavePage")
	defer span.End()

	if strings.TrimSpace(p.Slug) == "" || strings.TrimSpace(p.Title) == "" {
		return content.Page{}, fmt.Errorf("%w: page slug and title are required", ErrInvalidInput)
	}
	if p.ID > 0 {
		if err := s.repo.UpdatePage(ctx, p); err != nil {
			return content.Page{}, fmt.Errorf("update page id=%d: %w", p.ID, err)
		}
		return p, nil
	}
	return s.repo.CreatePage(ctx, p)
}

func (s *ContentService) DeletePage(ctx context.Context, id int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContentService.DeletePage")
	defer span.End()

	return s.repo.DeletePage(ctx, id)
}

func (s *ContentService) GetReferralSettings(ctx context.Context) (content.ReferralSettings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContentService.GetReferralSettings")
	defer span.End()

	return s.repo.GetReferralSettings(ctx)
}

func (s *ContentService) SaveReferralSettings(ctx context.Context, settings content.ReferralSettings) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContentService.SaveReferralSettings")
	defer span.End()

	if settings.Bonus.IsNegative() {
		return fmt.Errorf("%w: referral bonus cannot be negative", ErrInvalidInput)
	}
	if err := s.repo.SaveReferralSettings(ctx, settings); err != nil {
		return fmt.Errorf("save referral settings: %w", err)
	}
	s.logger.InfoContext(ctx, "referral settings updated", "enabled", settings.Enabled, "bonus", settings.Bonus.String())
	return nil
}
