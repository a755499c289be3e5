package account

import (
	"context"
	"log/slog"
	"strconv"

	recruitmentDatamodel "github.com/talentbridge/portal/internal/core/datamodel/recruitment"
	"github.com/talentbridge/portal/internal/session"
)

type RecruitmentAPI interface {
	LoginCorporate(ctx context.Context, req recruitmentDatamodel.CorporateLoginRequest) (*recruitmentDatamodel.CorporateLoginResponse, error)
	CreateCorporateAccount(ctx context.Context, req recruitmentDatamodel.SignupRequest) (*recruitmentDatamodel.MessageResponse, error)
	VerifySignupOTP(ctx context.Context, req recruitmentDatamodel.VerifySignupRequest) (*recruitmentDatamodel.MessageResponse, error)
}

// Service runs the employer account flows against the upstream and, on
// login, establishes the portal session.
type Service struct {
	api    RecruitmentAPI
	logger *slog.Logger
}

func NewService(api RecruitmentAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, logger: logger}
}

// LoginCorporate authenticates against the upstream and installs the
// returned token and account into the caller's session.
func (s *Service) LoginCorporate(ctx context.Context, sess *session.Service, dto CorporateLoginDTO) (session.Identity, error) {
	if err := dto.Validate(); err != nil {
		return session.Identity{}, err
	}

	resp, err := s.api.LoginCorporate(ctx, recruitmentDatamodel.CorporateLoginRequest{
		Identifier: dto.Identifier,
		Password:   dto.Password,
	})
	if err != nil {
		return session.Identity{}, err
	}

	bundle := session.CorporateLoginBundle{Token: resp.Token}
	if resp.Account.ID != "" || resp.Account.Email != "" || resp.Account.CompanyName != "" {
		account := resp.Account
		bundle.Account = &account
	}
	if err := sess.LoginCorporateBundle(ctx, bundle, dto.Remember); err != nil {
		return session.Identity{}, err
	}

	s.logger.Info("corporate login", "scope", sess.Scope(), "company", resp.Account.CompanyName)
	return sess.Identity(), nil
}

// Signup registers a new employer account; the upstream mails a signup OTP.
func (s *Service) Signup(ctx context.Context, dto SignupDTO) (*recruitmentDatamodel.MessageResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	req := recruitmentDatamodel.SignupRequest{
		CompanyName:  dto.CompanyName,
		IndustryType: dto.IndustryType,
		HRName:       dto.HRName,
		Mobile:       dto.Mobile,
		Email:        dto.Email,
		Designation:  dto.Designation,
		Password:     dto.Password,
		Location:     dto.Location,
		ProductLine:  dto.ProductLine,
	}
	if dto.EmployeeStrength != nil && *dto.EmployeeStrength != "" {
		if n, err := strconv.Atoi(*dto.EmployeeStrength); err == nil {
			req.EmployeeStrength = &n
		}
	}

	return s.api.CreateCorporateAccount(ctx, req)
}

// VerifySignup confirms the signup OTP.
func (s *Service) VerifySignup(ctx context.Context, dto VerifySignupDTO) (*recruitmentDatamodel.MessageResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	return s.api.VerifySignupOTP(ctx, recruitmentDatamodel.VerifySignupRequest{
		Email: dto.Email,
		OTP:   dto.OTP,
	})
}
