package models

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money представляет денежную сумму в минимальных единицах валюты (копейки, центы).
// Вся арифметика над хранимыми и распределяемыми суммами ведется в целых числах.
type Money int64

// minorUnitExponent количество знаков после запятой у основной единицы
const minorUnitExponent = 2

var (
	// ErrMalformedAmount возвращается, если сумму не удалось разобрать
	ErrMalformedAmount = errors.New("неверный формат суммы")
	// ErrAmountOutOfRange сумма в минимальных единицах не помещается в int64
	ErrAmountOutOfRange = errors.New("сумма вне допустимого диапазона")
)

var (
	minMoney = decimal.NewFromInt(math.MinInt64)
	maxMoney = decimal.NewFromInt(math.MaxInt64)
)

// MoneyFromDecimal переводит сумму в основных единицах в минимальные: round(major * 100).
// Если результат не помещается в int64, возвращается ErrAmountOutOfRange.
func MoneyFromDecimal(major decimal.Decimal) (Money, error) {
	minor := major.Shift(minorUnitExponent).Round(0)
	if minor.LessThan(minMoney) || minor.GreaterThan(maxMoney) {
		return 0, ErrAmountOutOfRange
	}
	return Money(minor.IntPart()), nil
}

// ParseMoney разбирает введенную пользователем десятичную строку, например "1250.50"
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrMalformedAmount
	}
	return MoneyFromDecimal(d)
}

// Decimal возвращает сумму в основных единицах. Используется только для отображения.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -minorUnitExponent)
}

// String форматирует сумму с двумя знаками после запятой
func (m Money) String() string {
	return m.Decimal().StringFixed(minorUnitExponent)
}

// Min возвращает меньшую из двух сумм
func Min(a, b Money) Money {
	if a < b {
		return a
	}
	return b
}
