package account

import (
	"context"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	internal "github.com/talentbridge/portal/internal"
	recruitmentDatamodel "github.com/talentbridge/portal/internal/core/datamodel/recruitment"
	"github.com/talentbridge/portal/internal/session"
	"github.com/talentbridge/portal/internal/storage"
)

func TestAccount(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Account Module Suite")
}

type stubRecruitmentAPI struct {
	loginCalls  int
	loginResp   *recruitmentDatamodel.CorporateLoginResponse
	loginErr    error
	signupReq   *recruitmentDatamodel.SignupRequest
	verifyCalls int
}

func (s *stubRecruitmentAPI) LoginCorporate(_ context.Context, _ recruitmentDatamodel.CorporateLoginRequest) (*recruitmentDatamodel.CorporateLoginResponse, error) {
	s.loginCalls++
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.loginResp, nil
}

func (s *stubRecruitmentAPI) CreateCorporateAccount(_ context.Context, req recruitmentDatamodel.SignupRequest) (*recruitmentDatamodel.MessageResponse, error) {
	s.signupReq = &req
	return &recruitmentDatamodel.MessageResponse{Message: "OTP sent"}, nil
}

func (s *stubRecruitmentAPI) VerifySignupOTP(_ context.Context, _ recruitmentDatamodel.VerifySignupRequest) (*recruitmentDatamodel.MessageResponse, error) {
	s.verifyCalls++
	return &recruitmentDatamodel.MessageResponse{Message: "Verified"}, nil
}

func validSignup() SignupDTO {
	return SignupDTO{
		CompanyName:  "Acme Corp",
		IndustryType: "Manufacturing",
		HRName:       "HR Person",
		Mobile:       "+91 98765 43210",
		Email:        "hr@acme.com",
		Designation:  "HR Manager",
		Password:     "secret1",
		Location:     "Pune",
		ProductLine:  "Widgets",
	}
}

var _ = ginkgo.Describe("AccountService", func() {
	var (
		ctx     context.Context
		api     *stubRecruitmentAPI
		service *Service
		sess    *session.Service
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		api = &stubRecruitmentAPI{
			loginResp: &recruitmentDatamodel.CorporateLoginResponse{
				Token: "tok-1",
				Account: recruitmentDatamodel.CorporateAccount{
					HRName:      "HR Person",
					Email:       "hr@acme.com",
					CompanyName: "Acme Corp",
				},
			},
		}
		service = NewService(api, slog.Default())
		store := session.NewStore("scope-1", storage.NewMemoryTier(), storage.NewMemoryTier(), nil, slog.Default())
		sess = session.NewService(store, nil)
		sess.Hydrate(ctx)
	})

	ginkgo.Describe("LoginCorporate", func() {
		ginkgo.It("should establish a corporate session from the upstream bundle", func() {
			identity, err := service.LoginCorporate(ctx, sess, CorporateLoginDTO{Identifier: "hr@acme.com", Password: "secret1", Remember: true})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(identity.Corporate).ToNot(gomega.BeNil())
			gomega.Expect(identity.Name()).To(gomega.Equal("HR Person"))
			gomega.Expect(sess.IsCorporate()).To(gomega.BeTrue())
			gomega.Expect(sess.Token()).To(gomega.Equal("tok-1"))
		})

		ginkgo.It("should block a short password before any upstream call", func() {
			_, err := service.LoginCorporate(ctx, sess, CorporateLoginDTO{Identifier: "hr@acme.com", Password: "abc"})

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(api.loginCalls).To(gomega.BeZero())
		})

		ginkgo.It("should pass an upstream rejection through unchanged", func() {
			api.loginErr = internal.NewUpstreamError("Invalid credentials", 401)

			_, err := service.LoginCorporate(ctx, sess, CorporateLoginDTO{Identifier: "hr@acme.com", Password: "secret1"})

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.Equal("Invalid credentials"))
			gomega.Expect(sess.IsAuthenticated()).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("Signup", func() {
		ginkgo.It("should forward a valid form and convert employeeStrength to a number", func() {
			dto := validSignup()
			strength := "250"
			dto.EmployeeStrength = &strength

			resp, err := service.Signup(ctx, dto)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resp.Message).To(gomega.Equal("OTP sent"))
			gomega.Expect(api.signupReq.EmployeeStrength).ToNot(gomega.BeNil())
			gomega.Expect(*api.signupReq.EmployeeStrength).To(gomega.Equal(250))
		})

		ginkgo.DescribeTable("field validation",
			func(mutate func(*SignupDTO)) {
				dto := validSignup()
				mutate(&dto)

				_, err := service.Signup(ctx, dto)
				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(api.signupReq).To(gomega.BeNil())
			},
			ginkgo.Entry("company name too short", func(d *SignupDTO) { d.CompanyName = "A" }),
			ginkgo.Entry("hr name too short", func(d *SignupDTO) { d.HRName = "B" }),
			ginkgo.Entry("bad email", func(d *SignupDTO) { d.Email = "not an email" }),
			ginkgo.Entry("bad mobile", func(d *SignupDTO) { d.Mobile = "abc" }),
			ginkgo.Entry("mobile too short", func(d *SignupDTO) { d.Mobile = "12345" }),
			ginkgo.Entry("short password", func(d *SignupDTO) { d.Password = "12345" }),
			ginkgo.Entry("non-numeric employee strength", func(d *SignupDTO) {
				v := "lots"
				d.EmployeeStrength = &v
			}),
		)
	})

	ginkgo.Describe("VerifySignup", func() {
		ginkgo.It("should validate before calling the upstream", func() {
			_, err := service.VerifySignup(ctx, VerifySignupDTO{Email: "hr@acme.com", OTP: "12"})

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(api.verifyCalls).To(gomega.BeZero())
		})

		ginkgo.It("should forward a valid verification", func() {
			resp, err := service.VerifySignup(ctx, VerifySignupDTO{Email: "hr@acme.com", OTP: "123456"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resp.Message).To(gomega.Equal("Verified"))
		})
	})
})
