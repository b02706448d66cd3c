package content

import (
	"time"

	"github.com/shopspring/decimal"
)

// Banner is a promotional image slot on the app home screen.
type Banner struct {
	ID        int64
	Title     string
	ImageURL  string
	LinkURL   string
	Position  int
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FAQ is one question/answer pair on the help screen.
type FAQ struct {
	ID        int64
	Question  string
	Answer    string
	Position  int
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Page is a static content page addressed by slug, e.g. terms or privacy.
type Page struct {
	ID        int64
	Slug      string
	Title     string
	Body      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReferralSettings controls the signup referral bonus.
type ReferralSettings struct {
	Enabled   bool
	Bonus     decimal.Decimal
	UpdatedAt time.Time
}
