package view

import (
	"errors"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}

	return nil
}

func positiveAmount(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.New("not a number")
	}

	if !d.IsPositive() {
		return errors.New("must be positive")
	}

	return nil
}

func validDate(s string) error {
	if _, err := civil.ParseDate(strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}

	return nil
}

// parseAgreement converts the already validated form strings.
func parseAgreement(amount, start string) (decimal.Decimal, civil.Date, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return decimal.Decimal{}, civil.Date{}, err
	}

	date, err := civil.ParseDate(strings.TrimSpace(start))
	if err != nil {
		return decimal.Decimal{}, civil.Date{}, err
	}

	return d, date, nil
}
