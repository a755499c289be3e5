package session

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/talentbridge/portal/internal/storage"
)

var _ = ginkgo.Describe("Manager", func() {
	var (
		durable   *storage.MemoryTier
		ephemeral *storage.MemoryTier
		manager   *Manager
	)

	ginkgo.BeforeEach(func() {
		durable = storage.NewMemoryTier()
		ephemeral = storage.NewMemoryTier()
		manager = NewManager(durable, ephemeral, nil, "0123456789abcdef0123456789abcdef", time.Hour, nil, slog.Default())
	})

	ginkgo.Describe("Middleware", func() {
		capture := func(req *http.Request) (*Service, *httptest.ResponseRecorder) {
			var captured *Service
			rec := httptest.NewRecorder()
			handler := manager.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				captured = FromContext(r.Context())
			}))
			handler.ServeHTTP(rec, req)
			return captured, rec
		}

		ginkgo.It("should mint a scope and cookie for a first visit", func() {
			svc, rec := capture(httptest.NewRequest(http.MethodGet, "/api/session", nil))

			gomega.Expect(svc).ToNot(gomega.BeNil())
			gomega.Expect(svc.Scope()).ToNot(gomega.BeEmpty())
			gomega.Expect(svc.Hydrating()).To(gomega.BeFalse())

			cookies := rec.Result().Cookies()
			gomega.Expect(cookies).To(gomega.HaveLen(1))
			gomega.Expect(cookies[0].Name).To(gomega.Equal(CookieName))
			gomega.Expect(cookies[0].HttpOnly).To(gomega.BeTrue())
		})

		ginkgo.It("should resolve the same scope on a return visit and hydrate its session", func() {
			first, rec := capture(httptest.NewRequest(http.MethodGet, "/", nil))
			cookie := rec.Result().Cookies()[0]

			_, err := first.Store().WriteInternal(context.Background(), "tok", RoleAdmin, InternalIdentity{Name: "A", Email: "a@x.test"}, true)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(cookie)
			second, _ := capture(req)

			gomega.Expect(second.Scope()).To(gomega.Equal(first.Scope()))
			gomega.Expect(second.IsAuthenticated()).To(gomega.BeTrue())
			gomega.Expect(second.Identity().Internal.Email).To(gomega.Equal("a@x.test"))
		})

		ginkgo.It("should issue a fresh scope for a tampered cookie instead of failing", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage.token.value"})

			svc, rec := capture(req)

			gomega.Expect(svc).ToNot(gomega.BeNil())
			gomega.Expect(svc.IsAuthenticated()).To(gomega.BeFalse())
			gomega.Expect(rec.Result().Cookies()).To(gomega.HaveLen(1))
		})
	})

	ginkgo.Describe("cookies", func() {
		ginkgo.It("should persist remembered sessions and keep others session-scoped", func() {
			remembered := httptest.NewRecorder()
			gomega.Expect(manager.IssueCookie(remembered, "scope-1", true)).To(gomega.Succeed())
			gomega.Expect(remembered.Result().Cookies()[0].MaxAge).To(gomega.BeNumerically(">", 0))

			transient := httptest.NewRecorder()
			gomega.Expect(manager.IssueCookie(transient, "scope-1", false)).To(gomega.Succeed())
			gomega.Expect(transient.Result().Cookies()[0].MaxAge).To(gomega.BeZero())
		})

		ginkgo.It("should expire the cookie on logout", func() {
			rec := httptest.NewRecorder()
			manager.ExpireCookie(rec)

			cookie := rec.Result().Cookies()[0]
			gomega.Expect(cookie.MaxAge).To(gomega.BeNumerically("<", 0))
			gomega.Expect(cookie.Value).To(gomega.BeEmpty())
		})
	})
})
