package content

import "context"

type Repository interface {
	CreateBanner(ctx context.Context, b Banner) (Banner, error)
	UpdateBanner(ctx context.Context, b Banner) error
	DeleteBanner(ctx context.Context, id int64) error
	ListBanners(ctx context.Context, onlyActive bool) ([]Banner, error)

	CreateFAQ(ctx context.Context, f FAQ) (FAQ, error)
	UpdateFAQ(ctx context.Context, f FAQ) error
	DeleteFAQ(ctx context.Context, id int64) error
	ListFAQs(ctx context.Context, onlyActive bool) ([]FAQ, error)

	CreatePage(ctx context.Context, p Page) (Page, error)
	UpdatePage(ctx context.Context, p Page) error
	DeletePage(ctx context.Context, id int64) error
	GetPageBySlug(ctx context.Context, slug string) (Page, bool, error)
	ListPages(ctx context.Context, onlyActive bool) ([]Page, error)

	GetReferralSettings(ctx context.Context) (ReferralSettings, error)
	SaveReferralSettings(ctx context.Context, s ReferralSettings) error
}
