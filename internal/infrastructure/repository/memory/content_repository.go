package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ovrplay/fantasy-cricket/internal/domain/content"
)

type ContentRepository struct {
	mu       sync.RWMutex
	nextID   int64
	banners  map[int64]content.Banner
	faqs     map[int64]content.FAQ
	pages    map[int64]content.Page
	referral content.ReferralSettings
}

func NewContentRepository() *ContentRepository {
	return &ContentRepository{
		nextID:  1,
		banners: make(map[int64]content.Banner),
		faqs:    make(map[int64]content.FAQ),
		pages:   make(map[int64]content.Page),
	}
}

func (r *ContentRepository) CreateBanner(_ context.Context, b content.Banner) (content.Banner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	b.ID = r.nextID
	r.nextID++
	b.CreatedAt = now
	b.UpdatedAt = now
	r.banners[b.ID] = b
	return b, nil
}

func (r *ContentRepository) UpdateBanner(_ context.Context, b content.Banner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.banners[b.ID]
	if !ok {
		return nil
	}
	b.CreatedAt = row.CreatedAt
	b.UpdatedAt = time.Now().UTC()
	r.banners[b.ID] = b
	return nil
}

func (r *ContentRepository) DeleteBanner(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.banners, id)
	return nil
}

func (r *ContentRepository) ListBanners(_ context.Context, onlyActive bool) ([]content.Banner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]content.Banner, 0, len(r.banners))
	for _, b := range r.banners {
		if onlyActive && !b.Active {
			continue
		}
		out = append(out, b)
	}
	sortByID(out, func(b content.Banner) int64 { return b.ID })
	return out, nil
}

func (r *ContentRepository) CreateFAQ(_ context.Context, f content.FAQ) (content.FAQ, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	f.ID = r.nextID
	r.nextID++
	f.CreatedAt = now
	f.UpdatedAt = now
	r.faqs[f.ID] = f
	return f, nil
}

func (r *ContentRepository) UpdateFAQ(_ context.Context, f content.FAQ) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.faqs[f.ID]
	if !ok {
		return nil
	}
	f.CreatedAt = row.CreatedAt
	f.UpdatedAt = time.Now().UTC()
	r.faqs[f.ID] = f
	return nil
}

func (r *ContentRepository) DeleteFAQ(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.faqs, id)
	return nil
}

func (r *ContentRepository) ListFAQs(_ context.Context, onlyActive bool) ([]content.FAQ, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]content.FAQ, 0, len(r.faqs))
	for _, f := range r.faqs {
		if onlyActive && !f.Active {
			continue
		}
		out = append(out, f)
	}
	sortByID(out, func(f content.FAQ) int64 { return f.ID })
	return out, nil
}

func (r *ContentRepository) CreatePage(_ context.Context, p content.Page) (content.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = now
	p.UpdatedAt = now
	r.pages[p.ID] = p
	return p, nil
}

func (r *ContentRepository) UpdatePage(_ context.Context, p content.Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.pages[p.ID]
	if !ok {
		return nil
	}
	p.CreatedAt = row.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	r.pages[p.ID] = p
	return nil
}

func (r *ContentRepository) DeletePage(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pages, id)
	return nil
}

func (r *ContentRepository) GetPageBySlug(_ context.Context, slug string) (content.Page, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.pages {
		if p.Slug == slug {
			return p, true, nil
		}
	}
	return content.Page{}, false, nil
}

func (r *ContentRepository) ListPages(_ context.Context, onlyActive bool) ([]content.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]content.Page, 0, len(r.pages))
	for _, p := range r.pages {
		if onlyActive && !p.Active {
			continue
		}
		out = append(out, p)
	}
	sortByID(out, func(p content.Page) int64 { return p.ID })
	return out, nil
}

func (r *ContentRepository) GetReferralSettings(_ context.Context) (content.ReferralSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.referral, nil
}

func (r *ContentRepository) SaveReferralSettings(_ context.Context, s content.ReferralSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.UpdatedAt = time.Now().UTC()
	r.referral = s
	return nil
}
