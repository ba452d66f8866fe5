package usecase

import (
	"errors"
	"fmt"
	"strings"

	"belezure-api/internal/delivery/dto"
	"belezure-api/internal/domain/entity"
	"belezure-api/pkg/taxid"
	"belezure-api/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidTaxID       = errors.New("invalid CPF")
	ErrInvalidTransition  = errors.New("invalid registration step")
	ErrRegistrationFailed = errors.New("registration could not be completed")
)

// ValidationError carries per-field messages. It matches ErrValidation and,
// when the CPF was rejected, ErrInvalidTaxID.
type ValidationError struct {
	Fields map[string]string
	taxID  bool
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

func (e *ValidationError) Unwrap() []error {
	if e.taxID {
		return []error{ErrValidation, ErrInvalidTaxID}
	}
	return []error{ErrValidation}
}

type RegistrationState string

const (
	RegistrationCollectingPersonalData RegistrationState = "collecting_personal_data"
	RegistrationCollectingAddress      RegistrationState = "collecting_address"
	RegistrationSubmitting             RegistrationState = "submitting"
	RegistrationDone                   RegistrationState = "done"
	RegistrationFailed                 RegistrationState = "failed"
)

// RegistrationFlow is the two-step sign-up sequence:
//
//	CollectingPersonalData -> CollectingAddress -> Submitting -> Done | Failed
//
// Validation failures keep the current state. Failed may go back to
// CollectingAddress for another attempt.
type RegistrationFlow struct {
	validator *validator.CustomValidator
	state     RegistrationState
	personal  *dto.PersonalDataRequest
	address   *dto.AddressRequest
	userID    uuid.UUID
	err       error
}

func NewRegistrationFlow(v *validator.CustomValidator) *RegistrationFlow {
	return &RegistrationFlow{
		validator: v,
		state:     RegistrationCollectingPersonalData,
	}
}

func (f *RegistrationFlow) State() RegistrationState { return f.state }
func (f *RegistrationFlow) UserID() uuid.UUID        { return f.userID }
func (f *RegistrationFlow) Err() error               { return f.err }

func (f *RegistrationFlow) Personal() *dto.PersonalDataRequest { return f.personal }
func (f *RegistrationFlow) Address() *dto.AddressRequest       { return f.address }

func (f *RegistrationFlow) transition(from []RegistrationState, to RegistrationState) error {
	for _, s := range from {
		if f.state == s {
			f.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, f.state, to)
}

func (f *RegistrationFlow) expect(states ...RegistrationState) error {
	for _, s := range states {
		if f.state == s {
			return nil
		}
	}
	return fmt.Errorf("%w: unexpected state %s", ErrInvalidTransition, f.state)
}

// SubmitPersonal validates step one and normalizes it: CPF reduced to digits,
// email lower-cased, provider data dropped for clients.
func (f *RegistrationFlow) SubmitPersonal(req *dto.PersonalDataRequest) error {
	if err := f.expect(RegistrationCollectingPersonalData); err != nil {
		return err
	}

	personal := *req
	// Only providers carry business data; anything else sent along is ignored
	if entity.UserType(personal.UserType) != entity.UserTypeProvider {
		personal.Provider = nil
	}
	if err := f.validate(&personal); err != nil {
		return err
	}

	personal.Name = strings.TrimSpace(personal.Name)
	personal.Email = normalizeEmail(personal.Email)
	personal.CPF = taxid.Digits(personal.CPF)
	personal.Phone = strings.TrimSpace(personal.Phone)
	personal.Gender = strings.TrimSpace(personal.Gender)

	if entity.UserType(personal.UserType) == entity.UserTypeProvider {
		provider := *personal.Provider
		provider.TradeName = strings.TrimSpace(provider.TradeName)
		provider.Specialty = strings.TrimSpace(provider.Specialty)
		provider.Field = strings.TrimSpace(provider.Field)
		if strings.TrimSpace(provider.BusinessType) == "" {
			provider.BusinessType = entity.DefaultBusinessType
		}
		personal.Provider = &provider
	}

	f.personal = &personal
	return f.transition([]RegistrationState{RegistrationCollectingPersonalData}, RegistrationCollectingAddress)
}

// Back returns to step one keeping what was entered.
func (f *RegistrationFlow) Back() error {
	return f.transition([]RegistrationState{RegistrationCollectingAddress}, RegistrationCollectingPersonalData)
}

// SubmitAddress validates step two and moves on to Submitting.
func (f *RegistrationFlow) SubmitAddress(req *dto.AddressRequest) error {
	if err := f.expect(RegistrationCollectingAddress); err != nil {
		return err
	}
	if err := f.validate(req); err != nil {
		return err
	}

	f.address = req
	f.err = nil
	return f.transition([]RegistrationState{RegistrationCollectingAddress}, RegistrationSubmitting)
}

func (f *RegistrationFlow) Complete(userID uuid.UUID) error {
	if err := f.transition([]RegistrationState{RegistrationSubmitting}, RegistrationDone); err != nil {
		return err
	}
	f.userID = userID
	return nil
}

func (f *RegistrationFlow) Fail(cause error) error {
	if err := f.transition([]RegistrationState{RegistrationSubmitting}, RegistrationFailed); err != nil {
		return err
	}
	f.err = cause
	return nil
}

// Retry reopens the address step after a failed submission.
func (f *RegistrationFlow) Retry() error {
	return f.transition([]RegistrationState{RegistrationFailed}, RegistrationCollectingAddress)
}

func (f *RegistrationFlow) validate(req interface{}) error {
	err := f.validator.Validate(req)
	if err == nil {
		return nil
	}

	fields := f.validator.FormatValidationErrors(err)
	if len(fields) == 0 {
		fields = map[string]string{"request": err.Error()}
	}
	_, badCPF := fields["CPF"]
	return &ValidationError{Fields: fields, taxID: badCPF}
}
