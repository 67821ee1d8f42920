package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	boardingDailyRate     = decimal.NewFromInt(35)
	boardingDiscountNight = 7
	boardingDiscount      = decimal.RequireFromString("0.90")
)

var flatPrices = map[ServiceType]map[string]decimal.Decimal{
	ServiceGrooming: {
		"Bath & Brush": decimal.NewFromInt(25),
		"Full Groom":   decimal.NewFromInt(45),
		"Nail Trim":    decimal.NewFromInt(10),
	},
	ServiceTraining: {
		"Basic Obedience":     decimal.NewFromInt(60),
		"Puppy Training":      decimal.NewFromInt(50),
		"Behavior Correction": decimal.NewFromInt(80),
	},
	ServiceMedical: {
		"General Checkup": decimal.NewFromInt(40),
		"Vaccination":     decimal.NewFromInt(30),
		"Dental Care":     decimal.NewFromInt(70),
	},
}

// Quote prices a service from the server-side table.
func Quote(serviceType ServiceType, details Details) (decimal.Decimal, error) {
	details = trimDetails(details)
	switch serviceType {
	case ServiceGrooming:
		return flatPrice(serviceType, "groomingType", details.GroomingType)
	case ServiceTraining:
		return flatPrice(serviceType, "trainingType", details.TrainingType)
	case ServiceMedical:
		return flatPrice(serviceType, "medicalType", details.MedicalType)
	case ServiceBoarding:
		nights, err := BoardingNights(details.BoardingStart, details.BoardingEnd)
		if err != nil {
			return decimal.Zero, err
		}
		amount := boardingDailyRate.Mul(decimal.NewFromInt(int64(nights)))
		if nights >= boardingDiscountNight {
			amount = amount.Mul(boardingDiscount)
		}
		return amount.Round(2), nil
	default:
		return decimal.Zero, invalid("serviceType", fmt.Sprintf("unknown service type %q", serviceType))
	}
}

// BoardingNights counts whole days between start and end; at least one is required.
func BoardingNights(start, end string) (int, error) {
	from, err := ParseDate("boardingStart", start)
	if err != nil {
		return 0, err
	}
	to, err := ParseDate("boardingEnd", end)
	if err != nil {
		return 0, err
	}
	nights := int(to.Sub(from).Hours() / 24)
	if nights < 1 {
		return 0, invalid("boardingEnd", "must be at least one day after boardingStart")
	}
	return nights, nil
}

// ServiceOptions lists the priced sub-types of a flat-priced service.
func ServiceOptions(serviceType ServiceType) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(flatPrices[serviceType]))
	for name, price := range flatPrices[serviceType] {
		out[name] = price
	}
	return out
}

func flatPrice(serviceType ServiceType, field, option string) (decimal.Decimal, error) {
	if option == "" {
		return decimal.Zero, invalid(field, "is required")
	}
	price, ok := flatPrices[serviceType][option]
	if !ok {
		return decimal.Zero, invalid(field, fmt.Sprintf("unknown %s option %q", serviceType, option))
	}
	return price, nil
}
