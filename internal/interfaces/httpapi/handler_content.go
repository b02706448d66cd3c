package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ovrplay/fantasy-cricket/internal/domain/content"
	"github.com/ovrplay/fantasy-cricket/internal/usecase"
)

type saveBannerRequest struct {
	ID       int64  `json:"id"`
	Title    string `json:"title" validate:"required,max=200"`
	ImageURL string `json:"imageUrl" validate:"required,max=500"`
	LinkURL  string `json:"linkUrl" validate:"max=500"`
	Position int    `json:"position" validate:"gte=0"`
	Active   bool   `json:"active"`
}

type saveFAQRequest struct {
	ID       int64  `json:"id"`
	Question string `json:"question" validate:"required,max=500"`
	Answer   string `json:"answer" validate:"required"`
	Position int    `json:"position" validate:"gte=0"`
	Active   bool   `json:"active"`
}

type savePageRequest struct {
	ID     int64  `json:"id"`
	Slug   string `json:"slug" validate:"required,max=100"`
	Title  string `json:"title" validate:"required,max=200"`
	Body   string `json:"body" validate:"required"`
	Active bool   `json:"active"`
}

type referralSettingsRequest struct {
	Enabled bool   `json:"enabled"`
	Bonus   string `json:"bonus" validate:"required"`
}

type bannerDTO struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
	LinkURL  string `json:"linkUrl,omitempty"`
	Position int    `json:"position"`
	Active   bool   `json:"active"`
}

type faqDTO struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Position int    `json:"position"`
	Active   bool   `json:"active"`
}

type pageDTO struct {
	ID        int64  `json:"id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Active    bool   `json:"active"`
	UpdatedAt string `json:"updatedAt"`
}

type referralSettingsDTO struct {
	Enabled bool   `json:"enabled"`
	Bonus   string `json:"bonus"`
}

func bannerToDTO(v content.Banner) bannerDTO {
	return bannerDTO{ID: v.ID, Title: v.Title, ImageURL: v.ImageURL, LinkURL: v.LinkURL, Position: v.Position, Active: v.Active}
}

func faqToDTO(v content.FAQ) faqDTO {
	return faqDTO{ID: v.ID, Question: v.Question, Answer: v.Answer, Position: v.Position, Active: v.Active}
}

func pageToDTO(v content.Page) pageDTO {
	return pageDTO{
		ID:        v.ID,
		Slug:      v.Slug,
		Title:     v.Title,
		Body:      v.Body,
		Active:    v.Active,
		UpdatedAt: v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handler) ListBanners(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBanners")
	defer span.End()

	items, err := h.contentService.ListBanners(ctx, true)
	if err != nil {
		h.logger.WarnContext(ctx, "list banners failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	out := make([]bannerDTO, 0, len(items))
	for _, item := range items {
		out = append(out, bannerToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) AdminListBanners(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdminListBanners")
	defer span.End()

	items, err := h.contentService.ListBanners(ctx, false)
	if err != nil {
		h.logger.WarnContext(ctx, "admin list banners failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	out := make([]bannerDTO, 0, len(items))
	for _, item := range items {
		out = append(out, bannerToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) SaveBanner(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveBanner")
	defer span.End()

	var req saveBannerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.contentService.SaveBanner(ctx, content.Banner{
		ID:       req.ID,
		Title:    req.Title,
		ImageURL: req.ImageURL,
		LinkURL:  req.LinkURL,
		Position: req.Position,
		Active:   req.Active,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save banner failed", "banner_id", req.ID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, bannerToDTO(item))
}

func (h *Handler) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteBanner")
	defer span.End()

	id, err := pathID(r, "bannerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.contentService.DeleteBanner(ctx, id); err != nil {
		h.logger.WarnContext(ctx, "delete banner failed", "banner_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]int64{"id": id})
}

func (h *Handler) ListFAQs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFAQs")
	defer span.End()

	items, err := h.contentService.ListFAQs(ctx, true)
	if err != nil {
		h.logger.WarnContext(ctx, "list faqs failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	out := make([]faqDTO, 0, len(items))
	for _, item := range items {
		out = append(out, faqToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) AdminListFAQs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdminListFAQs")
	defer span.End()

	items, err := h.contentService.ListFAQs(ctx, false)
	if err != nil {
		h.logger.WarnContext(ctx, "admin list faqs failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	out := make([]faqDTO, 0, len(items))
	for _, item := range items {
		out = append(out, faqToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) SaveFAQ(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveFAQ")
	defer span.End()

	var req saveFAQRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.contentService.SaveFAQ(ctx, content.FAQ{
		ID:       req.ID,
		Question: req.Question,
		Answer:   req.Answer,
		Position: req.Position,
		Active:   req.Active,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save faq failed", "faq_id", req.ID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, faqToDTO(item))
}

func (h *Handler) DeleteFAQ(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteFAQ")
	defer span.End()

	id, err := pathID(r, "faqID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.contentService.DeleteFAQ(ctx, id); err != nil {
		h.logger.WarnContext(ctx, "delete faq failed", "faq_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]int64{"id": id})
}

func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPage")
	defer span.End()

	slug := r.PathValue("slug")
	if slug == "" {
		writeError(ctx, w, fmt.Errorf("%w: page slug is required", usecase.ErrInvalidInput))
		return
	}

	item, err := h.contentService.GetPage(ctx, slug)
	if err != nil {
		h.logger.WarnContext(ctx, "get page failed", "slug", slug, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, pageToDTO(item))
}

func (h *Handler) AdminListPages(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdminListPages")
	defer span.End()

	items, err := h.contentService.ListPages(ctx, false)
	if err != nil {
		h.logger.WarnContext(ctx, "admin list pages failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	out := make([]pageDTO, 0, len(items))
	for _, item := range items {
		out = append(out, pageToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) SavePage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SavePage")
	defer span.End()

	var req savePageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.contentService.SavePage(ctx, content.Page{
		ID:     req.ID,
		Slug:   req.Slug,
		Title:  req.Title,
		Body:   req.Body,
		Active: req.Active,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save page failed", "slug", req.Slug, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, pageToDTO(item))
}

func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePage")
	defer span.End()

	id, err := pathID(r, "pageID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.contentService.DeletePage(ctx, id); err != nil {
		h.logger.WarnContext(ctx, "delete page failed", "page_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]int64{"id": id})
}

func (h *Handler) GetReferralSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetReferralSettings")
	defer span.End()

	settings, err := h.contentService.GetReferralSettings(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get referral settings failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, referralSettingsDTO{Enabled: settings.Enabled, Bonus: settings.Bonus.String()})
}

func (h *Handler) SaveReferralSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveReferralSettings")
	defer span.End()

	var req referralSettingsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	bonus, err := parseAmount("bonus", req.Bonus)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.contentService.SaveReferralSettings(ctx, content.ReferralSettings{Enabled: req.Enabled, Bonus: bonus}); err != nil {
		h.logger.WarnContext(ctx, "save referral settings failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, referralSettingsDTO{Enabled: req.Enabled, Bonus: bonus.String()})
}
