package billing

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// YearMonth is a UTC calendar month in YYYY-MM form
type YearMonth string

var yearMonthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// CurrentYearMonth returns the current UTC calendar month
func CurrentYearMonth() YearMonth {
	return YearMonthOf(time.Now())
}

// YearMonthOf returns the UTC calendar month containing t
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth(t.UTC().Format("2006-01"))
}

// String returns the YYYY-MM representation
func (ym YearMonth) String() string {
	return string(ym)
}

// IsValid reports whether the value is in YYYY-MM form
func (ym YearMonth) IsValid() bool {
	return yearMonthPattern.MatchString(string(ym))
}

// MonthlyUsage is the per-company/feature/month counter of consumed quota
// units. Rows are created lazily on first use each month; an absent row means
// used = 0. The counter is mutated exclusively through UsageLedger.
type MonthlyUsage struct {
	CompanyID  uuid.UUID
	FeatureKey FeatureKey
	YearMonth  YearMonth
	Used       int
}

// Reservation is the outcome of an atomic check-and-increment. A denied
// reservation is valid business information, not an error: callers branch
// into upgrade/overage prompting on Allowed == false.
type Reservation struct {
	Allowed       bool       `json:"allowed"`
	FeatureKey    FeatureKey `json:"feature_key"`
	YearMonth     YearMonth  `json:"year_month"`
	Used          int        `json:"used"`
	LimitPerMonth *int       `json:"limit_per_month"`
	WillOverageBy int        `json:"will_overage_by"`
	AllowOverage  bool       `json:"allow_overage"`
}

// IsUnlimited reports whether no monthly cap applies
func (r *Reservation) IsUnlimited() bool {
	return r.LimitPerMonth == nil
}

// UsageLedger is the authoritative gate for consuming quota. Implementations
// must execute CheckAndIncrement as one indivisible operation against the
// data store: the limit check and the increment are never observable as
// separate steps by concurrent callers.
type UsageLedger interface {
	// CheckAndIncrement atomically decides and, when allowed, consumes
	// amount units for the current UTC month. Denied calls leave the
	// counter untouched. Decision rule: no limit defined => allow;
	// otherwise allow when used+amount <= limit+addon or the active
	// subscription has allow_overage set.
	CheckAndIncrement(ctx context.Context, companyID uuid.UUID, featureKey FeatureKey, amount int) (*Reservation, error)

	// Decrement compensates a prior reservation after a downstream failure.
	// The counter is floored at zero, so duplicate compensation cannot make
	// it negative. Returns the post-decrement state.
	Decrement(ctx context.Context, companyID uuid.UUID, featureKey FeatureKey, amount int) (*MonthlyUsage, error)

	// CurrentUsage reads the counter for the given month, used = 0 when no
	// row exists yet
	CurrentUsage(ctx context.Context, companyID uuid.UUID, featureKey FeatureKey, ym YearMonth) (*MonthlyUsage, error)
}

// ValidateAmount rejects non-positive reservation amounts
func ValidateAmount(amount int) error {
	if amount <= 0 {
		return shared.NewDomainError("INVALID_AMOUNT",
			fmt.Sprintf("Amount must be positive, got %d", amount))
	}
	return nil
}
