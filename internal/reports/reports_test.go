package reports

import (
	"context"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	internal "github.com/talentbridge/portal/internal"
	recruitmentDatamodel "github.com/talentbridge/portal/internal/core/datamodel/recruitment"
)

func TestReports(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Reports Module Suite")
}

var _ = ginkgo.Describe("IndicatorFor", func() {
	ginkgo.DescribeTable("rendering rule",
		func(raw string, expected Indicator) {
			gomega.Expect(IndicatorFor(raw)).To(gomega.Equal(expected))
		},
		ginkgo.Entry("alert mark", "red ✓", IndicatorAlert),
		ginkgo.Entry("alert mark, mixed case", "RED ✓", IndicatorAlert),
		ginkgo.Entry("affirmative mark", "✓", IndicatorAffirmative),
		ginkgo.Entry("empty value", "", IndicatorNone),
		ginkgo.Entry("plain text without mark", "no", IndicatorNone),
		ginkgo.Entry("red without mark still renders nothing", "red", IndicatorNone),
	)
})

var _ = ginkgo.Describe("NewRow", func() {
	ginkgo.It("should prefer the current_ prefixed fields", func() {
		row := NewRow(recruitmentDatamodel.Profile{
			Name:               "Asha",
			CurrentDesignation: "Staff Engineer",
			Designation:        "Engineer",
			CurrentCompany:     "Acme Corp",
			Company:            "Old Corp",
			Location:           "Pune",
		})

		gomega.Expect(row.Designation).To(gomega.Equal("Staff Engineer"))
		gomega.Expect(row.Company).To(gomega.Equal("Acme Corp"))
	})

	ginkgo.It("should fall back to the unprefixed fields", func() {
		row := NewRow(recruitmentDatamodel.Profile{
			Name:        "Asha",
			Designation: "Engineer",
			Company:     "Acme Corp",
		})

		gomega.Expect(row.Designation).To(gomega.Equal("Engineer"))
		gomega.Expect(row.Company).To(gomega.Equal("Acme Corp"))
	})

	ginkgo.It("should project the date columns through the indicator rule", func() {
		row := NewRow(recruitmentDatamodel.Profile{
			Name:  "Asha",
			Date1: "✓",
			Date2: "red ✓",
			Date3: "no",
		})

		gomega.Expect(row.Date1).To(gomega.Equal(IndicatorAffirmative))
		gomega.Expect(row.Date2).To(gomega.Equal(IndicatorAlert))
		gomega.Expect(row.Date3).To(gomega.Equal(IndicatorNone))
		gomega.Expect(row.Date4).To(gomega.Equal(IndicatorNone))
	})
})

type stubProfilesAPI struct {
	topCalls   int
	alphaCalls int
	response   *recruitmentDatamodel.ProfilesResponse
	err        error
}

func (s *stubProfilesAPI) TopCTCProfiles(_ context.Context, _, _ string) (*recruitmentDatamodel.ProfilesResponse, error) {
	s.topCalls++
	return s.response, s.err
}

func (s *stubProfilesAPI) AllAlphaProfiles(_ context.Context, _, _ string) (*recruitmentDatamodel.ProfilesResponse, error) {
	s.alphaCalls++
	return s.response, s.err
}

var _ = ginkgo.Describe("Service", func() {
	var (
		ctx     context.Context
		api     *stubProfilesAPI
		service *Service
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		api = &stubProfilesAPI{
			response: &recruitmentDatamodel.ProfilesResponse{
				Success: true,
				Data: []recruitmentDatamodel.Profile{
					{Name: "Asha", CurrentDesignation: "Engineer", Date1: "✓"},
				},
			},
		}
		service = NewService(api, slog.Default())
	})

	ginkgo.It("should require a company", func() {
		_, err := service.FetchView(ctx, "scope-1", ViewDemo, "", "")
		gomega.Expect(err).To(gomega.Equal(internal.ErrCompanyRequired))
		gomega.Expect(api.topCalls).To(gomega.BeZero())
	})

	ginkgo.It("should reject an unknown view kind", func() {
		_, err := service.FetchView(ctx, "scope-1", ViewKind("weekly"), "comp-1", "")
		gomega.Expect(err).To(gomega.HaveOccurred())
	})

	ginkgo.It("should route demo and service views to different endpoints", func() {
		_, err := service.FetchView(ctx, "scope-1", ViewDemo, "comp-1", "Acme")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		_, err = service.FetchView(ctx, "scope-1", ViewService, "comp-1", "Acme")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		gomega.Expect(api.topCalls).To(gomega.Equal(1))
		gomega.Expect(api.alphaCalls).To(gomega.Equal(1))
	})

	ginkgo.It("should surface an upstream success:false as an error and keep no rows", func() {
		api.response = &recruitmentDatamodel.ProfilesResponse{Success: false, Message: "not allowed"}

		_, err := service.FetchView(ctx, "scope-1", ViewDemo, "comp-1", "")
		gomega.Expect(err).To(gomega.HaveOccurred())
		gomega.Expect(err.Error()).To(gomega.ContainSubstring("not allowed"))

		_, ok := service.CurrentView("scope-1")
		gomega.Expect(ok).To(gomega.BeFalse())
	})

	ginkgo.It("should install the fetched view as the scope's current one", func() {
		view, err := service.FetchView(ctx, "scope-1", ViewDemo, "comp-1", "Acme")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(view.Rows).To(gomega.HaveLen(1))
		gomega.Expect(view.Rows[0].Date1).To(gomega.Equal(IndicatorAffirmative))

		current, ok := service.CurrentView("scope-1")
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(current).To(gomega.Equal(view))
	})

	ginkgo.It("should forget the view when the scope is dropped", func() {
		_, err := service.FetchView(ctx, "scope-1", ViewDemo, "comp-1", "")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		service.DropScope("scope-1")

		_, ok := service.CurrentView("scope-1")
		gomega.Expect(ok).To(gomega.BeFalse())
	})
})
