package enums

import "fmt"

// CouponType selects how a coupon's value is turned into a discount.
type CouponType string

const (
	CouponTypePercentage CouponType = "percentage"
	CouponTypeFixed      CouponType = "fixed"
)

var validCouponTypes = []CouponType{
	CouponTypePercentage,
	CouponTypeFixed,
}

func (c CouponType) String() string {
	return string(c)
}

func (c CouponType) IsValid() bool {
	for _, candidate := range validCouponTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

func ParseCouponType(value string) (CouponType, error) {
	for _, candidate := range validCouponTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid coupon type %q", value)
}
