package recruitment

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	internal "github.com/talentbridge/portal/internal"
	recruitmentDatamodel "github.com/talentbridge/portal/internal/core/datamodel/recruitment"
)

func TestRecruitment(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Recruitment Client Suite")
}

var _ = ginkgo.Describe("Client", func() {
	var (
		ctx      context.Context
		server   *httptest.Server
		client   *Client
		handler  http.HandlerFunc
		requests []*http.Request
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		requests = nil
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests = append(requests, r)
			handler(w, r)
		}))
		client = NewClient(Config{BaseURL: server.URL, Timeout: 2 * time.Second}, slog.Default())
	})

	ginkgo.AfterEach(func() {
		server.Close()
	})

	ginkgo.Describe("LoginCorporate", func() {
		ginkgo.It("should return the token and account on success", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				gomega.Expect(r.URL.Path).To(gomega.Equal("/api/recruitment/login/corporate"))
				json.NewEncoder(w).Encode(recruitmentDatamodel.CorporateLoginResponse{
					Token: "tok-1",
					Account: recruitmentDatamodel.CorporateAccount{
						HRName: "HR Person",
						Email:  "hr@acme.com",
					},
				})
			}

			resp, err := client.LoginCorporate(ctx, recruitmentDatamodel.CorporateLoginRequest{Identifier: "hr@acme.com", Password: "secret1"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resp.Token).To(gomega.Equal("tok-1"))
			gomega.Expect(resp.Account.Email).To(gomega.Equal("hr@acme.com"))
		})

		ginkgo.It("should treat a 2xx success:false body as a rejection with the upstream message", func() {
			success := false
			handler = func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(recruitmentDatamodel.CorporateLoginResponse{
					Success: &success,
					Message: "Account not verified",
				})
			}

			_, err := client.LoginCorporate(ctx, recruitmentDatamodel.CorporateLoginRequest{Identifier: "hr@acme.com", Password: "secret1"})

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.Equal("Account not verified"))
		})

		ginkgo.It("should surface the upstream message on a non-2xx response", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
			}

			_, err := client.LoginCorporate(ctx, recruitmentDatamodel.CorporateLoginRequest{Identifier: "hr@acme.com", Password: "wrong"})

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.Equal("Invalid credentials"))
		})

		ginkgo.It("should fall back to a status message when the body carries none", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}

			_, err := client.LoginCorporate(ctx, recruitmentDatamodel.CorporateLoginRequest{Identifier: "hr@acme.com", Password: "secret1"})

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.Equal("Request failed (500)"))
		})

		ginkgo.It("should map transport failures to the generic network error", func() {
			server.Close()

			_, err := client.LoginCorporate(ctx, recruitmentDatamodel.CorporateLoginRequest{Identifier: "hr@acme.com", Password: "secret1"})

			gomega.Expect(err).To(gomega.Equal(internal.ErrNetwork))
		})
	})

	ginkgo.Describe("Companies", func() {
		ginkgo.It("should decode the selector list", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				gomega.Expect(r.URL.Path).To(gomega.Equal("/api/recruitment/getCompanies/all"))
				json.NewEncoder(w).Encode(recruitmentDatamodel.CompaniesResponse{
					Data: []recruitmentDatamodel.Company{{ID: "c1", CompanyName: "Acme Corp"}},
				})
			}

			companies, err := client.Companies(ctx)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(companies).To(gomega.HaveLen(1))
			gomega.Expect(companies[0].DisplayName()).To(gomega.Equal("Acme Corp"))
		})
	})

	ginkgo.Describe("access OTP", func() {
		ginkgo.It("should post send and verify to the public endpoints", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/api/recruitment/public/verify-otp" {
					json.NewEncoder(w).Encode(recruitmentDatamodel.VerifyOTPResponse{Success: true, Message: "ok"})
					return
				}
				w.WriteHeader(http.StatusOK)
			}

			err := client.SendAccessOTP(ctx, recruitmentDatamodel.SendOTPRequest{Email: "hr@acme.com", CompanyID: "c1"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			resp, err := client.VerifyAccessOTP(ctx, recruitmentDatamodel.VerifyOTPRequest{Email: "hr@acme.com", CompanyID: "c1", OTP: "123456"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resp.Success).To(gomega.BeTrue())

			gomega.Expect(requests[0].URL.Path).To(gomega.Equal("/api/recruitment/public/send-otp"))
		})

		ginkgo.It("should return success:false verbatim, not as an error", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(recruitmentDatamodel.VerifyOTPResponse{Success: false, Message: "Invalid OTP"})
			}

			resp, err := client.VerifyAccessOTP(ctx, recruitmentDatamodel.VerifyOTPRequest{Email: "hr@acme.com", CompanyID: "c1", OTP: "000000"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resp.Success).To(gomega.BeFalse())
			gomega.Expect(resp.Message).To(gomega.Equal("Invalid OTP"))
		})
	})

	ginkgo.Describe("profiles", func() {
		ginkgo.It("should pass company id and name as query parameters", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(recruitmentDatamodel.ProfilesResponse{Success: true})
			}

			_, err := client.TopCTCProfiles(ctx, "c1", "Acme Corp")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			req := requests[0]
			gomega.Expect(req.URL.Path).To(gomega.Equal("/api/recruitment/parsed-profiles/top-ctc"))
			gomega.Expect(req.URL.Query().Get("companyId")).To(gomega.Equal("c1"))
			gomega.Expect(req.URL.Query().Get("companyName")).To(gomega.Equal("Acme Corp"))

			_, err = client.AllAlphaProfiles(ctx, "c1", "")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(requests[1].URL.Path).To(gomega.Equal("/api/recruitment/parsed-profiles/all-alpha"))
		})
	})
})
