package session

import (
	"strings"

	recruitmentDatamodel "github.com/talentbridge/portal/internal/core/datamodel/recruitment"
)

type Role string

const (
	RoleCorporate Role = "corporate"

	// Internal staff roles form a small fixed set.
	RoleAdmin   Role = "admin"
	RoleLeadGen Role = "lg"
	RoleCRE     Role = "cre"
)

func (r Role) IsCorporate() bool {
	return r == RoleCorporate
}

// InternalIdentity is a staff account (admin/LG/CRE).
type InternalIdentity struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	ReportsTo string `json:"reportsTo,omitempty"`
}

// CorporateIdentity is an employer account; its role is always corporate.
type CorporateIdentity struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	HRName      string `json:"hrName"`
	Email       string `json:"email"`
	Mobile      string `json:"mobile"`
	CompanyName string `json:"companyName"`
	Designation string `json:"designation"`
}

// Identity is a tagged union: at most one variant is set at any time.
type Identity struct {
	Internal  *InternalIdentity
	Corporate *CorporateIdentity
}

func (id Identity) IsZero() bool {
	return id.Internal == nil && id.Corporate == nil
}

func (id Identity) Email() string {
	switch {
	case id.Internal != nil:
		return id.Internal.Email
	case id.Corporate != nil:
		return id.Corporate.Email
	}
	return ""
}

func (id Identity) Name() string {
	switch {
	case id.Internal != nil:
		return id.Internal.Name
	case id.Corporate != nil:
		return id.Corporate.Name
	}
	return ""
}

// internalNameSuffix is appended to lead-gen display names by the upstream
// and stripped for presentation.
const internalNameSuffix = " LG"

func normalizeInternal(u InternalIdentity) InternalIdentity {
	name := strings.TrimSuffix(u.Name, internalNameSuffix)
	if name == "" {
		name = "User"
	}
	return InternalIdentity{
		ID:        u.ID,
		Name:      name,
		Email:     u.Email,
		ReportsTo: u.ReportsTo,
	}
}

func normalizeCorporate(a recruitmentDatamodel.CorporateAccount) CorporateIdentity {
	name := a.HRName
	if name == "" {
		name = a.CompanyName
	}
	if name == "" {
		name = "Employer"
	}
	return CorporateIdentity{
		ID:          a.ID,
		Name:        name,
		HRName:      a.HRName,
		Email:       a.Email,
		Mobile:      a.Mobile,
		CompanyName: a.CompanyName,
		Designation: a.Designation,
	}
}

// minimalCorporateIdentity is used when a corporate token is present but the
// account payload is missing or unreadable. Token presence alone keeps the
// user logged in.
func minimalCorporateIdentity() CorporateIdentity {
	return CorporateIdentity{Name: "Employer"}
}
