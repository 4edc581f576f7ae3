// Package registration validates and records registration form submissions.
package registration

import (
	"time"

	"github.com/google/uuid"
)

// Source identifies which form produced a submission
type Source string

const (
	SourceUncontrolled Source = "uncontrolled"
	SourceControlled   Source = "controlled"
)

// Gender values accepted by the form
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// DefaultMaxImageSize is the largest accepted decoded image
const DefaultMaxImageSize = 2 * 1024 * 1024

// Submission is one completed form. Image holds a base64 data URL.
// Passwords are accepted on input and cleared before the submission is logged.
type Submission struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name" validate:"required,capitalized"`
	Age             int       `json:"age" validate:"gt=0,lte=150"`
	Email           string    `json:"email" validate:"required,email"`
	Password        string    `json:"password,omitempty" validate:"required,password"`
	ConfirmPassword string    `json:"confirmPassword,omitempty" validate:"eqfield=Password"`
	Gender          string    `json:"gender" validate:"required,oneof=male female other"`
	AcceptTerms     bool      `json:"acceptTerms" validate:"required"`
	Country         string    `json:"country" validate:"required,country"`
	Image           string    `json:"image" validate:"required,dataimage"`
	CreatedAt       time.Time `json:"createdAt"`
	Source          Source    `json:"source"`
}
