package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeInternalLogin  = "session.internal_login"
	EventTypeCorporateLogin = "session.corporate_login"
	EventTypeLogout         = "session.logout"
	EventTypeAccessVerified = "access.verified"
)

type InternalLoginEvent struct {
	BaseEvent
	Scope string `json:"scope"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func NewInternalLoginEvent(scope, email, role string) *InternalLoginEvent {
	return &InternalLoginEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeInternalLogin,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"scope": scope,
				"email": email,
				"role":  role,
			},
		},
		Scope: scope,
		Email: email,
		Role:  role,
	}
}

type CorporateLoginEvent struct {
	BaseEvent
	Scope       string `json:"scope"`
	Email       string `json:"email"`
	CompanyName string `json:"company_name"`
}

func NewCorporateLoginEvent(scope, email, companyName string) *CorporateLoginEvent {
	return &CorporateLoginEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCorporateLogin,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"scope":        scope,
				"email":        email,
				"company_name": companyName,
			},
		},
		Scope:       scope,
		Email:       email,
		CompanyName: companyName,
	}
}

type LogoutEvent struct {
	BaseEvent
	Scope string `json:"scope"`
	Email string `json:"email"`
}

func NewLogoutEvent(scope, email string) *LogoutEvent {
	return &LogoutEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLogout,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"scope": scope,
				"email": email,
			},
		},
		Scope: scope,
		Email: email,
	}
}

type AccessVerifiedEvent struct {
	BaseEvent
	Scope     string `json:"scope"`
	Email     string `json:"email"`
	CompanyID string `json:"company_id"`
}

func NewAccessVerifiedEvent(scope, email, companyID string) *AccessVerifiedEvent {
	return &AccessVerifiedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAccessVerified,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"scope":      scope,
				"email":      email,
				"company_id": companyID,
			},
		},
		Scope:     scope,
		Email:     email,
		CompanyID: companyID,
	}
}
