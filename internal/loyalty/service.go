package loyalty

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/db/models"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/enums"
	pkgerrors "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/errors"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
)

// Account is the public view of a loyalty account.
type Account struct {
	Phone          string              `json:"phone"`
	Points         int                 `json:"points"`
	LifetimePoints int                 `json:"lifetime_points"`
	OrdersCount    int                 `json:"orders_count"`
	Level          enums.LoyaltyLevel  `json:"level"`
	NextLevel      *enums.LoyaltyLevel `json:"next_level,omitempty"`
	PointsToNext   int                 `json:"points_to_next_level,omitempty"`
	Achievements   []enums.Achievement `json:"achievements"`
}

// Award is the result of crediting one order.
type Award struct {
	Account         Account             `json:"account"`
	PointsEarned    int                 `json:"points_earned"`
	LevelUp         bool                `json:"level_up"`
	NewAchievements []enums.Achievement `json:"new_achievements"`
}

type Service interface {
	Get(ctx context.Context, phone string) (*Account, error)
	Award(ctx context.Context, tx *gorm.DB, phone string, orderTotal decimal.Decimal) (*Award, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("loyalty repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// Get returns the account for phone. Unknown phones get an empty bronze account.
func (s *service) Get(ctx context.Context, phone string) (*Account, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	row, err := s.repo.Find(ctx, normalized)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load loyalty account")
	}
	if row == nil {
		row = &models.LoyaltyAccount{Phone: normalized, Level: enums.LoyaltyLevelBronze}
	}
	account := toAccount(row)
	return &account, nil
}

// Award credits an order to the phone's account using tx, so it commits or
// rolls back together with the order.
func (s *service) Award(ctx context.Context, tx *gorm.DB, phone string, orderTotal decimal.Decimal) (*Award, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	repo := s.repo.WithTx(tx)
	row, err := repo.Find(ctx, normalized)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load loyalty account")
	}
	if row == nil {
		row = &models.LoyaltyAccount{Phone: normalized, Level: enums.LoyaltyLevelBronze}
	}

	earned := PointsFor(orderTotal)
	previous := row.Level
	row.Points += earned
	row.LifetimePoints += earned
	row.OrdersCount++
	row.Level = LevelFor(row.LifetimePoints)

	var fresh []enums.Achievement
	for _, achievement := range unlocked(row.OrdersCount, orderTotal) {
		if slices.Contains(row.Achievements, achievement.String()) {
			continue
		}
		row.Achievements = append(row.Achievements, achievement.String())
		fresh = append(fresh, achievement)
	}

	if err := repo.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save loyalty account")
	}

	award := &Award{
		Account:         toAccount(row),
		PointsEarned:    earned,
		LevelUp:         previous != row.Level,
		NewAchievements: fresh,
	}
	if award.LevelUp {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"loyalty_level": row.Level.String(),
			"orders_count":  row.OrdersCount,
		}), "loyalty level up")
	}
	return award, nil
}

// NormalizePhone keeps digits only and requires 10 to 13 of them.
func NormalizePhone(phone string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
	if len(digits) < 10 || len(digits) > 13 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid phone number").
			WithDetails(map[string]any{"phone": "must contain 10 to 13 digits"})
	}
	return digits, nil
}

func toAccount(row *models.LoyaltyAccount) Account {
	account := Account{
		Phone:          row.Phone,
		Points:         row.Points,
		LifetimePoints: row.LifetimePoints,
		OrdersCount:    row.OrdersCount,
		Level:          row.Level,
		Achievements:   make([]enums.Achievement, 0, len(row.Achievements)),
	}
	for _, a := range row.Achievements {
		account.Achievements = append(account.Achievements, enums.Achievement(a))
	}
	if next, points, ok := NextLevel(row.Level); ok {
		account.NextLevel = &next
		account.PointsToNext = points - row.LifetimePoints
	}
	return account
}
