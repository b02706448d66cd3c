package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/ovrplay/fantasy-cricket/internal/domain/content"
	qb "github.com/ovrplay/fantasy-cricket/internal/platform/querybuilder"
)

type bannerTableModel struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	ImageURL  string    `db:"image_url"`
	LinkURL   string    `db:"link_url"`
	Position  int       `db:"position"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type faqTableModel struct {
	ID        int64     `db:"id"`
	Question  string    `db:"question"`
	Answer    string    `db:"answer"`
	Position  int       `db:"position"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type pageTableModel struct {
	ID        int64     `db:"id"`
	Slug      string    `db:"slug"`
	Title     string    `db:"title"`
	Body      string    `db:"body"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type ContentRepository struct {
	db *sqlx.DB
}

func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) CreateBanner(ctx context.Context, b content.Banner) (content.Banner, error) {
	query, args, err := qb.InsertInto("banners").
		Columns("title", "image_url", "link_url", "position", "active").
		Values(b.Title, b.ImageURL, b.LinkURL, b.Position, b.Active).
		Suffix("RETURNING id, created_at, updated_at").
		ToSQL()
	if err != nil {
		return content.Banner{}, fmt.Errorf("build banner insert query: %w", err)
	}
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return content.Banner{}, fmt.Errorf("create banner: %w", err)
	}
	return b, nil
}

func (r *ContentRepository) UpdateBanner(ctx context.Context, b content.Banner) error {
	query, args, err := qb.Update("banners").
		Set("title", b.Title).
		Set("image_url", b.ImageURL).
		Set("link_url", b.LinkURL).
		Set("position", b.Position).
		Set("active", b.Active).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", b.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build banner update query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update banner: %w", err)
	}
	return nil
}

func (r *ContentRepository) DeleteBanner(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM banners WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete banner: %w", err)
	}
	return nil
}

func (r *ContentRepository) ListBanners(ctx context.Context, onlyActive bool) ([]content.Banner, error) {
	builder := qb.Select("*").From("banners").OrderBy("position", "id")
	if onlyActive {
		builder.Where(qb.Eq("active", true))
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list banners query: %w", err)
	}

	var rows []bannerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}

	out := make([]content.Banner, 0, len(rows))
	for _, row := range rows {
		out = append(out, content.Banner(row))
	}
	return out, nil
}

func (r *ContentRepository) CreateFAQ(ctx context.Context, f content.FAQ) (content.FAQ, error) {
	query, args, err := qb.InsertInto("faqs").
		Columns("question", "answer", "position", "active").
		Values(f.Question, f.Answer, f.Position, f.Active).
		Suffix("RETURNING id, created_at, updated_at").
		ToSQL()
	if err != nil {
		return content.FAQ{}, fmt.Errorf("build faq insert query: %w", err)
	}
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return content.FAQ{}, fmt.Errorf("create faq: %w", err)
	}
	return f, nil
}

func (r *ContentRepository) UpdateFAQ(ctx context.Context, f content.FAQ) error {
	query, args, err := qb.Update("faqs").
		Set("question", f.Question).
		Set("answer", f.Answer).
		Set("position", f.Position).
		Set("active", f.Active).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", f.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build faq update query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update faq: %w", err)
	}
	return nil
}

func (r *ContentRepository) DeleteFAQ(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM faqs WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete faq: %w", err)
	}
	return nil
}

func (r *ContentRepository) ListFAQs(ctx context.Context, onlyActive bool) ([]content.FAQ, error) {
	builder := qb.Select("*").From("faqs").OrderBy("position", "id")
	if onlyActive {
		builder.Where(qb.Eq("active", true))
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list faqs query: %w", err)
	}

	var rows []faqTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list faqs: %w", err)
	}

	out := make([]content.FAQ, 0, len(rows))
	for _, row := range rows {
		out = append(out, content.FAQ(row))
	}
	return out, nil
}

func (r *ContentRepository) CreatePage(ctx context.Context, p content.Page) (content.Page, error) {
	query, args, err := qb.InsertInto("pages").
		Columns("slug", "title", "body", "active").
		Values(p.Slug, p.Title, p.Body, p.Active).
		Suffix("RETURNING id, created_at, updated_at").
		ToSQL()
	if err != nil {
		return content.Page{}, fmt.Errorf("build page insert query: %w", err)
	}
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return content.Page{}, fmt.Errorf("create page: %w", err)
	}
	return p, nil
}

func (r *ContentRepository) UpdatePage(ctx context.Context, p content.Page) error {
	query, args, err := qb.Update("pages").
		Set("slug", p.Slug).
		Set("title", p.Title).
		Set("body", p.Body).
		Set("active", p.Active).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", p.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build page update query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update page: %w", err)
	}
	return nil
}

func (r *ContentRepository) DeletePage(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM pages WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	return nil
}

func (r *ContentRepository) GetPageBySlug(ctx context.Context, slug string) (content.Page, bool, error) {
	query, args, err := qb.Select("*").From("pages").Where(qb.Eq("slug", slug)).ToSQL()
	if err != nil {
		return content.Page{}, false, fmt.Errorf("build get page query: %w", err)
	}

	var row pageTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return content.Page{}, false, nil
		}
		return content.Page{}, false, fmt.Errorf("get page: %w", err)
	}
	return content.Page(row), true, nil
}

func (r *ContentRepository) ListPages(ctx context.Context, onlyActive bool) ([]content.Page, error) {
	builder := qb.Select("*").From("pages").OrderBy("slug")
	if onlyActive {
		builder.Where(qb.Eq("active", true))
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pages query: %w", err)
	}

	var rows []pageTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	out := make([]content.Page, 0, len(rows))
	for _, row := range rows {
		out = append(out, content.Page(row))
	}
	return out, nil
}

// Referral settings live in a single keyed row so operators can flip the
// bonus without a deploy.
func (r *ContentRepository) GetReferralSettings(ctx context.Context) (content.ReferralSettings, error) {
	var row struct {
		Enabled   bool            `db:"enabled"`
		Bonus     decimal.Decimal `db:"bonus"`
		UpdatedAt time.Time       `db:"updated_at"`
	}
	query, _, err := qb.Select("enabled", "bonus", "updated_at").
		From("referral_settings").
		Where(qb.EqLiteral("id", "1")).
		ToSQL()
	if err != nil {
		return content.ReferralSettings{}, fmt.Errorf("build referral settings query: %w", err)
	}
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		if isNotFound(err) {
			return content.ReferralSettings{}, nil
		}
		return content.ReferralSettings{}, fmt.Errorf("get referral settings: %w", err)
	}
	return content.ReferralSettings{
		Enabled:   row.Enabled,
		Bonus:     row.Bonus,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (r *ContentRepository) SaveReferralSettings(ctx context.Context, s content.ReferralSettings) error {
	query, args, err := qb.InsertInto("referral_settings").
		Columns("id", "enabled", "bonus").
		Values(1, s.Enabled, s.Bonus).
		Suffix(`ON CONFLICT (id)
DO UPDATE SET enabled = EXCLUDED.enabled, bonus = EXCLUDED.bonus, updated_at = NOW()`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build referral settings upsert query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save referral settings: %w", err)
	}
	return nil
}
