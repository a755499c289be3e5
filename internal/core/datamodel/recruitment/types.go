package recruitment

// Wire shapes of the external recruitment API. The upstream owns accounts,
// OTP issuance/expiry and profile data; the portal only consumes them.

// Company is a selector value; immutable from the portal's perspective.
type Company struct {
	ID          string `json:"_id"`
	CompanyName string `json:"companyName"`
	Name        string `json:"name,omitempty"`
}

// DisplayName mirrors the selector label fallback chain.
func (c Company) DisplayName() string {
	if c.CompanyName != "" {
		return c.CompanyName
	}
	if c.Name != "" {
		return c.Name
	}
	return "Unnamed Company"
}

// CorporateAccount is the employer account payload returned by corporate
// login.
type CorporateAccount struct {
	ID          string `json:"id"`
	CompanyName string `json:"companyName"`
	HRName      string `json:"hrName"`
	Email       string `json:"email"`
	Mobile      string `json:"mobile"`
	Designation string `json:"designation"`
}

type CorporateLoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type CorporateLoginResponse struct {
	Success *bool            `json:"success,omitempty"`
	Message string           `json:"message,omitempty"`
	Token   string           `json:"token"`
	Account CorporateAccount `json:"account"`
}

type SignupRequest struct {
	CompanyName      string `json:"companyName"`
	IndustryType     string `json:"industryType"`
	HRName           string `json:"hrName"`
	Mobile           string `json:"mobile"`
	Email            string `json:"email"`
	Designation      string `json:"designation"`
	Password         string `json:"password"`
	Location         string `json:"location"`
	ProductLine      string `json:"productLine"`
	EmployeeStrength *int   `json:"employeeStrength,omitempty"`
}

type VerifySignupRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type MessageResponse struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
}

type CompaniesResponse struct {
	Success *bool     `json:"success,omitempty"`
	Message string    `json:"message,omitempty"`
	Data    []Company `json:"data"`
}

type SendOTPRequest struct {
	Email     string `json:"email"`
	CompanyID string `json:"companyId"`
}

type VerifyOTPRequest struct {
	Email     string `json:"email"`
	CompanyID string `json:"companyId"`
	OTP       string `json:"otp"`
}

type VerifyOTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Profile is one parsed candidate record. Older upstream deployments emit
// designation/company instead of the current_ prefixed fields; both are
// accepted.
type Profile struct {
	ID                 string `json:"_id,omitempty"`
	Name               string `json:"name"`
	CurrentDesignation string `json:"current_designation,omitempty"`
	Designation        string `json:"designation,omitempty"`
	Location           string `json:"location,omitempty"`
	CurrentCompany     string `json:"current_company,omitempty"`
	Company            string `json:"company,omitempty"`
	CTC                string `json:"ctc,omitempty"`
	Source             string `json:"source,omitempty"`
	Email              string `json:"email,omitempty"`
	Mobile             string `json:"mobile,omitempty"`
	Date1              string `json:"date1,omitempty"`
	Date2              string `json:"date2,omitempty"`
	Date3              string `json:"date3,omitempty"`
	Date4              string `json:"date4,omitempty"`
}

type ProfilesResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Data    []Profile `json:"data"`
}
