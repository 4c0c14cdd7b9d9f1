package models

import (
	"errors"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// PlanType — тариф подписки.
type PlanType string

const (
	// PlanSD — стандартное качество.
	PlanSD PlanType = "SD"
	// PlanHD — высокое качество.
	PlanHD PlanType = "HD"
	// PlanUHD — ультра высокое качество.
	PlanUHD PlanType = "UHD"
)

// ErrUnknownPlan возвращается, если тариф не входит в таблицу цен.
var ErrUnknownPlan = errors.New("unknown plan type")

// ParsePlanType нормализует строку (trim + upper case) и проверяет, что тариф известен.
func ParsePlanType(s string) (PlanType, error) {
	p := PlanType(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case PlanSD, PlanHD, PlanUHD:
		return p, nil
	default:
		return "", ErrUnknownPlan
	}
}

// Plan — строка прайс-листа.
type Plan struct {
	Type  PlanType        `json:"type"`
	Price decimal.Decimal `json:"price"`
}

// Plans — неизменяемая таблица цен тарифов.
// Значение создаётся один раз при старте и передаётся в сервис подписок.
type Plans struct {
	prices map[PlanType]decimal.Decimal
}

// DefaultPlans возвращает стандартный прайс: SD=7.99, HD=10.99, UHD=13.99.
func DefaultPlans() Plans {
	return Plans{prices: map[PlanType]decimal.Decimal{
		PlanSD:  decimal.RequireFromString("7.99"),
		PlanHD:  decimal.RequireFromString("10.99"),
		PlanUHD: decimal.RequireFromString("13.99"),
	}}
}

// NewPlans строит таблицу цен из строкового представления (например, из конфига).
// Ключи нормализуются через ParsePlanType, неизвестные тарифы и некорректные цены — ошибка.
func NewPlans(raw map[string]string) (Plans, error) {
	prices := make(map[PlanType]decimal.Decimal, len(raw))
	for k, v := range raw {
		p, err := ParsePlanType(k)
		if err != nil {
			return Plans{}, err
		}
		price, err := decimal.NewFromString(v)
		if err != nil {
			return Plans{}, err
		}
		if price.IsNegative() {
			return Plans{}, errors.New("plan price must not be negative")
		}
		prices[p] = price
	}
	return Plans{prices: prices}, nil
}

// Price возвращает цену тарифа и признак того, что тариф есть в таблице.
func (p Plans) Price(t PlanType) (decimal.Decimal, bool) {
	price, ok := p.prices[t]
	return price, ok
}

// List возвращает тарифы, отсортированные по цене.
func (p Plans) List() []Plan {
	out := make([]Plan, 0, len(p.prices))
	for t, price := range p.prices {
		out = append(out, Plan{Type: t, Price: price})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Price.Equal(out[j].Price) {
			return out[i].Type < out[j].Type
		}
		return out[i].Price.LessThan(out[j].Price)
	})
	return out
}
