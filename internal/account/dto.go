package account

import (
	errors "github.com/talentbridge/portal/internal"
	"github.com/talentbridge/portal/internal/core/common/validation"
)

// CorporateLoginDTO accepts either an email address or a mobile number as
// the identifier, matching the employer login form.
type CorporateLoginDTO struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	Remember   bool   `json:"remember"`
}

func (d CorporateLoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("identifier", d.Identifier).Required()
	v.Field("password", d.Password).Required().MinLength(6)
	return v.Validate()
}

type SignupDTO struct {
	CompanyName      string  `json:"companyName"`
	IndustryType     string  `json:"industryType"`
	HRName           string  `json:"hrName"`
	Mobile           string  `json:"mobile"`
	Email            string  `json:"email"`
	Designation      string  `json:"designation"`
	Password         string  `json:"password"`
	Location         string  `json:"location"`
	ProductLine      string  `json:"productLine"`
	EmployeeStrength *string `json:"employeeStrength,omitempty"`
}

func (d SignupDTO) Validate() *errors.AppError {
	if err := validation.ValidatePersonName("companyName", d.CompanyName); err != nil {
		return err
	}
	if err := validation.ValidatePersonName("industryType", d.IndustryType); err != nil {
		return err
	}
	if err := validation.ValidatePersonName("hrName", d.HRName); err != nil {
		return err
	}
	if err := validation.ValidateMobile(d.Mobile); err != nil {
		return err
	}
	if err := validation.ValidateEmail(d.Email); err != nil {
		return err
	}
	if err := validation.ValidatePersonName("designation", d.Designation); err != nil {
		return err
	}
	if err := validation.ValidatePassword(d.Password); err != nil {
		return err
	}
	if err := validation.ValidatePersonName("location", d.Location); err != nil {
		return err
	}
	if err := validation.ValidatePersonName("productLine", d.ProductLine); err != nil {
		return err
	}
	return validation.ValidateEmployeeStrength(d.EmployeeStrength)
}

type VerifySignupDTO struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (d VerifySignupDTO) Validate() *errors.AppError {
	if err := validation.ValidateEmail(d.Email); err != nil {
		return err
	}
	return validation.ValidateOTP(d.OTP)
}
