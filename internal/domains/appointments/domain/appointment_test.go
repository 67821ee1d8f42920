package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardSlots_HalfHoursFromNineToFive(t *testing.T) {
	slots := StandardSlots()
	require.Len(t, slots, 16)
	assert.Equal(t, "09:00 AM-09:30 AM", slots[0])
	assert.Equal(t, "12:00 PM-12:30 PM", slots[6])
	assert.Equal(t, "04:30 PM-05:00 PM", slots[15])

	slots[0] = "mutated"
	assert.Equal(t, "09:00 AM-09:30 AM", StandardSlots()[0])
}

func TestNewBookedSlot_Validates(t *testing.T) {
	slot, err := NewBookedSlot("2026-05-04", "Grooming", "09:00 AM-09:30 AM")
	require.NoError(t, err)
	assert.Equal(t, ServiceGrooming, slot.ServiceType)

	cases := map[string][3]string{
		"date":        {"04/05/2026", "Grooming", "09:00 AM-09:30 AM"},
		"serviceType": {"2026-05-04", "Surgery", "09:00 AM-09:30 AM"},
		"slot":        {"2026-05-04", "Grooming", "07:00 AM-07:30 AM"},
	}
	for field, in := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := NewBookedSlot(in[0], in[1], in[2])
			require.ErrorIs(t, err, ErrValidation)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, field, vErr.Field)
		})
	}
}

func newTestAppointment(t *testing.T) *Appointment {
	t.Helper()
	appt, err := NewAppointment(1, 2, "Medical", Details{MedicalType: "Vaccination"}, "2026-05-04", "10:00 AM-10:30 AM")
	require.NoError(t, err)
	return appt
}

func TestAppointment_CompleteOnlyFromConfirmed(t *testing.T) {
	appt := newTestAppointment(t)
	assert.Equal(t, StatusBooked, appt.Status)
	assert.True(t, decimal.NewFromInt(30).Equal(appt.Amount))

	err := appt.Complete()
	require.ErrorIs(t, err, ErrInvalidState)
	assert.EqualError(t, err, "only confirmed appointments can be completed")
	assert.Equal(t, StatusBooked, appt.Status)

	require.NoError(t, appt.Confirm())
	require.NoError(t, appt.Complete())
	assert.Equal(t, StatusCompleted, appt.Status)

	require.ErrorIs(t, appt.Cancel(), ErrInvalidState)
	require.ErrorIs(t, appt.Confirm(), ErrInvalidState)
}

func TestAppointment_CancelFromBookedOrConfirmed(t *testing.T) {
	booked := newTestAppointment(t)
	require.NoError(t, booked.Cancel())
	require.ErrorIs(t, booked.Complete(), ErrInvalidState)

	confirmed := newTestAppointment(t)
	require.NoError(t, confirmed.Confirm())
	require.NoError(t, confirmed.Cancel())
	assert.Equal(t, StatusCancelled, confirmed.Status)
}

func TestQuote_FlatPrices(t *testing.T) {
	cases := []struct {
		service ServiceType
		details Details
		want    string
	}{
		{ServiceGrooming, Details{GroomingType: "Bath & Brush"}, "25"},
		{ServiceGrooming, Details{GroomingType: "Full Groom"}, "45"},
		{ServiceGrooming, Details{GroomingType: "Nail Trim"}, "10"},
		{ServiceTraining, Details{TrainingType: "Basic Obedience"}, "60"},
		{ServiceTraining, Details{TrainingType: "Puppy Training"}, "50"},
		{ServiceTraining, Details{TrainingType: "Behavior Correction"}, "80"},
		{ServiceMedical, Details{MedicalType: "General Checkup"}, "40"},
		{ServiceMedical, Details{MedicalType: "Vaccination"}, "30"},
		{ServiceMedical, Details{MedicalType: "Dental Care"}, "70"},
	}
	for _, tc := range cases {
		got, err := Quote(tc.service, tc.details)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "%s %+v = %s", tc.service, tc.details, got)
	}

	_, err := Quote(ServiceGrooming, Details{GroomingType: "Haircut"})
	require.ErrorIs(t, err, ErrValidation)
	_, err = Quote(ServiceTraining, Details{})
	require.ErrorIs(t, err, ErrValidation)
}

func TestQuote_BoardingDiscountFromSevenNights(t *testing.T) {
	six, err := Quote(ServiceBoarding, Details{BoardingStart: "2026-05-01", BoardingEnd: "2026-05-07"})
	require.NoError(t, err)
	assert.Equal(t, "210.00", six.StringFixed(2))

	seven, err := Quote(ServiceBoarding, Details{BoardingStart: "2026-05-01", BoardingEnd: "2026-05-08"})
	require.NoError(t, err)
	assert.Equal(t, "220.50", seven.StringFixed(2))

	one, err := Quote(ServiceBoarding, Details{BoardingStart: "2026-05-01", BoardingEnd: "2026-05-02"})
	require.NoError(t, err)
	assert.Equal(t, "35.00", one.StringFixed(2))

	_, err = Quote(ServiceBoarding, Details{BoardingStart: "2026-05-01", BoardingEnd: "2026-05-01"})
	require.ErrorIs(t, err, ErrValidation)
	_, err = Quote(ServiceBoarding, Details{BoardingStart: "2026-05-03", BoardingEnd: "2026-05-01"})
	require.ErrorIs(t, err, ErrValidation)
	_, err = Quote(ServiceBoarding, Details{BoardingStart: "soon"})
	require.ErrorIs(t, err, ErrValidation)
}
