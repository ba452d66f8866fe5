package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type personalForm struct {
	Name  string   `json:"name" validate:"notblank"`
	CPF   string   `json:"cpf" validate:"required,cpf"`
	Slots []string `json:"slots" validate:"dive,hhmm"`
}

func TestValidate_CustomTags(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&personalForm{Name: "Ana", CPF: "529.982.247-25", Slots: []string{"08:30", "9:00"}})
	assert.NoError(t, err)

	err = v.Validate(&personalForm{Name: "   ", CPF: "123.456.789-00", Slots: []string{"24:00"}})
	require.Error(t, err)

	fields := v.FormatValidationErrors(err)
	assert.Equal(t, "Name is required", fields["Name"])
	assert.Equal(t, "CPF must be a valid CPF", fields["CPF"])
	assert.Equal(t, "Slots[0] must be a time in HH:MM format", fields["Slots[0]"])
}

func TestValidateVar(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateVar("2025-03-10", "datetime=2006-01-02"))
	assert.Error(t, v.ValidateVar("10/03/2025", "datetime=2006-01-02"))
	assert.NoError(t, v.ValidateVar("23:59", "hhmm"))
	assert.Error(t, v.ValidateVar("7h", "hhmm"))
}

func TestValidateHHMM(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		label string
		valid bool
	}{
		{"09:30", true},
		{"9:30", true},
		{"00:00", true},
		{"23:59", true},
		{"24:00", false},
		{"12:60", false},
		{"12:5", false},
		{" 12:00", false},
		{"12h00", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			err := v.ValidateVar(tt.label, "hhmm")
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestFormatValidationErrors_NonValidationError(t *testing.T) {
	v := NewValidator()
	assert.Empty(t, v.FormatValidationErrors(assert.AnError))
}
