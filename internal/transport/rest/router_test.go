package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/time/rate"

	"github.com/talentbridge/portal/internal/access"
	"github.com/talentbridge/portal/internal/account"
	"github.com/talentbridge/portal/internal/recruitment"
	"github.com/talentbridge/portal/internal/reports"
	"github.com/talentbridge/portal/internal/session"
	"github.com/talentbridge/portal/internal/storage"
)

var _ = ginkgo.Describe("Router", func() {
	var (
		upstream *httptest.Server
		portal   *httptest.Server
		client   *http.Client

		profileCalls atomic.Int32
		sendCalls    atomic.Int32
		verifyCalls  atomic.Int32
	)

	writeJSON := func(w http.ResponseWriter, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	ginkgo.BeforeEach(func() {
		profileCalls.Store(0)
		sendCalls.Store(0)
		verifyCalls.Store(0)

		mux := http.NewServeMux()
		mux.HandleFunc("/api/recruitment/login/corporate", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]interface{}{
				"token": "tok-1",
				"account": map[string]interface{}{
					"id":          "acc-1",
					"companyName": "Acme",
					"hrName":      "Priya",
					"email":       "hr@acme.test",
					"mobile":      "+911234567890",
					"designation": "HR Manager",
				},
			})
		})
		mux.HandleFunc("/api/recruitment/public/send-otp", func(w http.ResponseWriter, r *http.Request) {
			sendCalls.Add(1)
			writeJSON(w, map[string]interface{}{"success": true})
		})
		mux.HandleFunc("/api/recruitment/public/verify-otp", func(w http.ResponseWriter, r *http.Request) {
			verifyCalls.Add(1)
			writeJSON(w, map[string]interface{}{"success": true})
		})
		profiles := func(w http.ResponseWriter, r *http.Request) {
			profileCalls.Add(1)
			writeJSON(w, map[string]interface{}{
				"success": true,
				"data": []map[string]interface{}{
					{
						"name":                "Asha Rao",
						"current_designation": "Staff Engineer",
						"current_company":     "Acme",
						"ctc":                 "45 LPA",
					},
				},
			})
		}
		mux.HandleFunc("/api/recruitment/parsed-profiles/top-ctc", profiles)
		mux.HandleFunc("/api/recruitment/parsed-profiles/all-alpha", profiles)
		upstream = httptest.NewServer(mux)

		lg := slog.New(slog.NewTextHandler(io.Discard, nil))

		durable := storage.NewMemoryTier()
		ephemeral := storage.NewMemoryTier()
		manager := session.NewManager(durable, ephemeral, nil, "0123456789abcdef0123456789abcdef", time.Hour, nil, lg)

		recruitmentClient := recruitment.NewClient(recruitment.Config{BaseURL: upstream.URL}, lg)
		reportsService := reports.NewService(recruitmentClient, lg)
		flows := access.NewRegistry(recruitmentClient, reportsService, 5, nil, lg)
		accountService := account.NewService(recruitmentClient, lg)

		router := chi.NewRouter()
		RegisterAllRoutes(router, nil, manager,
			account.NewHandler(accountService, manager, flows),
			access.NewHandler(flows),
			reports.NewHandler(reportsService),
			rate.Every(time.Millisecond), lg)

		portal = httptest.NewServer(router)
		jar, err := cookiejar.New(nil)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		client = &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	})

	ginkgo.AfterEach(func() {
		portal.Close()
		upstream.Close()
	})

	postJSON := func(path string, payload interface{}) *http.Response {
		body, err := json.Marshal(payload)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		resp, err := client.Post(portal.URL+path, "application/json", bytes.NewReader(body))
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return resp
	}

	get := func(path string) *http.Response {
		resp, err := client.Get(portal.URL + path)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return resp
	}

	errorCode := func(resp *http.Response) string {
		defer resp.Body.Close()
		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		gomega.Expect(json.NewDecoder(resp.Body).Decode(&body)).To(gomega.Succeed())
		return body.Error.Code
	}

	login := func() {
		resp := postJSON("/api/auth/corporate-login", map[string]interface{}{
			"identifier": "hr@acme.test",
			"password":   "secret1",
		})
		resp.Body.Close()
		gomega.Expect(resp.StatusCode).To(gomega.Equal(http.StatusOK))
	}

	completeOTP := func() {
		resp := postJSON("/api/access/select-company", map[string]interface{}{
			"companyId":   "c1",
			"companyName": "Acme",
		})
		resp.Body.Close()
		gomega.Expect(resp.StatusCode).To(gomega.Equal(http.StatusOK))

		resp = postJSON("/api/access/send-otp", map[string]interface{}{})
		resp.Body.Close()
		gomega.Expect(resp.StatusCode).To(gomega.Equal(http.StatusOK))

		resp = postJSON("/api/access/verify-otp", map[string]interface{}{
			"otp":  "482913",
			"view": "demo",
		})
		resp.Body.Close()
		gomega.Expect(resp.StatusCode).To(gomega.Equal(http.StatusOK))
	}

	ginkgo.It("should redirect anonymous visitors away from the confidential surface", func() {
		resp := get("/api/reports/demo?companyId=c1")
		resp.Body.Close()

		gomega.Expect(resp.StatusCode).To(gomega.Equal(http.StatusFound))
		gomega.Expect(resp.Header.Get("Location")).To(gomega.Equal("/employer-login"))
	})

	ginkgo.It("should refuse report data to a corporate session that never verified", func() {
		login()

		resp := get("/api/reports/demo?companyId=c1")

		gomega.Expect(resp.StatusCode).To(gomega.Equal(http.StatusForbidden))
		gomega.Expect(errorCode(resp)).To(gomega.Equal("ACCESS_NOT_VERIFIED"))
		gomega.Expect(profileCalls.Load()).To(gomega.BeZero())
	})

	ginkgo.It("should serve the table once the OTP round trip completed", func() {
		login()
		completeOTP()
		fetched := profileCalls.Load()

		resp := get("/api/reports/demo?companyId=c1")
		defer resp.Body.Close()
		gomega.Expect(resp.StatusCode).To(gomega.Equal(http.StatusOK))

		var view struct {
			Kind string `json:"kind"`
			Rows []struct {
				Name string `json:"name"`
			} `json:"rows"`
		}
		gomega.Expect(json.NewDecoder(resp.Body).Decode(&view)).To(gomega.Succeed())
		gomega.Expect(view.Kind).To(gomega.Equal("demo"))
		gomega.Expect(view.Rows).To(gomega.HaveLen(1))
		gomega.Expect(view.Rows[0].Name).To(gomega.Equal("Asha Rao"))
		gomega.Expect(profileCalls.Load()).To(gomega.Equal(fetched + 1))
	})

	ginkgo.It("should let a globally verified session open another company without a new OTP", func() {
		login()
		completeOTP()
		sends, verifies := sendCalls.Load(), verifyCalls.Load()

		resp := get("/api/reports/service?companyId=c2&companyName=Globex")
		resp.Body.Close()

		gomega.Expect(resp.StatusCode).To(gomega.Equal(http.StatusOK))
		gomega.Expect(sendCalls.Load()).To(gomega.Equal(sends))
		gomega.Expect(verifyCalls.Load()).To(gomega.Equal(verifies))
	})

	ginkgo.It("should reject an unknown view name on verification", func() {
		login()

		resp := postJSON("/api/access/verify-otp", map[string]interface{}{
			"otp":  "482913",
			"view": "everything",
		})

		gomega.Expect(resp.StatusCode).To(gomega.Equal(http.StatusBadRequest))
		gomega.Expect(errorCode(resp)).To(gomega.Equal("VIEW_UNKNOWN"))
		gomega.Expect(verifyCalls.Load()).To(gomega.BeZero())
	})
})
