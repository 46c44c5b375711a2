package scenario_test

import (
	"errors"
	"io/fs"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/agbru/renewcalc/internal/feasibility"
	"github.com/agbru/renewcalc/internal/scenario"
)

var _ = Describe("Presets", func() {
	It("carries the official baseline as scenario A", func() {
		a := scenario.Official()
		Expect(a.Key).To(Equal("A"))
		Expect(a.Name).To(Equal("官方基準"))
		Expect(a.ConstructionUnitPrice).To(Equal(9.98))
		Expect(a.SalesUnitPrice).To(Equal(60.0))
		Expect(a.ManagementFeeRate).To(Equal(0.43))
		Expect(a.LoanRatio).To(Equal(0.50))
		Expect(a.InterestRate).To(Equal(0.025))
		Expect(a.Label()).To(Equal("情境A - 官方基準"))
	})

	It("carries the market view as scenario B", func() {
		b := scenario.Market()
		Expect(b.Key).To(Equal("B"))
		Expect(b.ConstructionUnitPrice).To(Equal(24.0))
		Expect(b.SalesUnitPrice).To(Equal(68.0))
		Expect(b.ManagementFeeRate).To(Equal(0.18))
		Expect(b.RiskFeeRate).To(Equal(0.12))
		Expect(b.LoanRatio).To(Equal(0.60))
		Expect(b.InterestRate).To(Equal(0.035))
	})

	DescribeTable("default site price",
		func(key string, want float64) {
			Expect(scenario.DefaultSitePrice(key)).To(Equal(want))
		},
		Entry("market", "B", 65.0),
		Entry("market alias", "market", 65.0),
		Entry("official", "A", 60.0),
		Entry("custom", "custom", 60.0),
	)

	It("names unnamed custom scenarios", func() {
		s := scenario.Custom(feasibility.Params{ConstructionUnitPrice: 18})
		Expect(s.Key).To(Equal(scenario.KeyCustom))
		Expect(s.Name).To(Equal("自訂參數"))
	})
})

var _ = Describe("Registry", func() {
	var reg *scenario.Registry

	BeforeEach(func() {
		reg = scenario.NewDefaultRegistry()
	})

	It("lists keys in sorted order", func() {
		Expect(reg.List()).To(Equal([]string{"A", "B"}))
		Expect(reg.All()).To(HaveLen(2))
		Expect(reg.All()[0].Key).To(Equal("A"))
	})

	It("resolves aliases", func() {
		s, ok := reg.Get("market")
		Expect(ok).To(BeTrue())
		Expect(s.Key).To(Equal("B"))

		s, ok = reg.Get(" a ")
		Expect(ok).To(BeTrue())
		Expect(s.Key).To(Equal("A"))
	})

	It("falls back to scenario A for unknown keys", func() {
		s, found := reg.Resolve("custom")
		Expect(found).To(BeFalse())
		Expect(s.Key).To(Equal("A"))
	})

	It("falls back to the built-in A on an empty registry", func() {
		s, found := scenario.NewRegistry().Resolve("B")
		Expect(found).To(BeFalse())
		Expect(s).To(Equal(scenario.Official()))
	})

	It("registers custom scenarios", func() {
		custom := scenario.Custom(feasibility.Params{
			ConstructionUnitPrice: 18, SalesUnitPrice: 75,
			ManagementFeeRate: 0.2, RiskFeeRate: 0.12, LoanRatio: 0.6, InterestRate: 0.03,
		})
		Expect(reg.Register(custom)).To(Succeed())
		Expect(reg.List()).To(Equal([]string{"A", "B", "custom"}))

		s, found := reg.Resolve("自訂")
		Expect(found).To(BeTrue())
		Expect(s.SalesUnitPrice).To(Equal(75.0))
	})

	It("rejects invalid scenarios", func() {
		bad := scenario.Custom(feasibility.Params{ConstructionUnitPrice: -1, SalesUnitPrice: 60})
		Expect(reg.Register(bad)).To(HaveOccurred())
		Expect(reg.Register(scenario.Scenario{Key: "all", Params: scenario.Official().Params})).To(HaveOccurred())
		Expect(reg.List()).To(HaveLen(2))
	})
})

var _ = Describe("Scenario files", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("round-trips through YAML", func() {
		path := filepath.Join(dir, "nested", "high.yaml")
		want := scenario.Custom(feasibility.Params{
			Name: "高房價", ConstructionUnitPrice: 18, SalesUnitPrice: 75,
			ManagementFeeRate: 0.2, RiskFeeRate: 0.12, LoanRatio: 0.6, InterestRate: 0.03,
		})
		Expect(scenario.SaveFile(path, want)).To(Succeed())

		got, err := scenario.LoadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(want))
	})

	It("defaults the key to custom", func() {
		s, err := scenario.Parse([]byte("construction_unit_price: 20\nsales_unit_price: 70\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Key).To(Equal(scenario.KeyCustom))
		Expect(s.ConstructionUnitPrice).To(Equal(20.0))
	})

	It("rejects unknown fields", func() {
		_, err := scenario.Parse([]byte("construction_price: 20\n"))
		Expect(err).To(MatchError(ContainSubstring("parse scenario")))
	})

	It("reports missing files", func() {
		_, err := scenario.LoadFile(filepath.Join(dir, "missing.yaml"))
		Expect(err).To(MatchError(ContainSubstring("read scenario file")))
		Expect(errors.Is(err, fs.ErrNotExist)).To(BeTrue())
	})
})

var _ = Describe("Validation cases", func() {
	It("lists both cases", func() {
		Expect(scenario.CaseKeys()).To(Equal([]string{"luzhou", "sanchong"}))
	})

	It("describes 蘆洲", func() {
		c, ok := scenario.GetCase("luzhou")
		Expect(ok).To(BeTrue())
		Expect(c.Location).To(Equal("新北市蘆洲區"))
		Expect(c.BuildingType).To(Equal("老舊公寓"))
		Expect(c.Owners).To(Equal(15))
		Expect(c.BuildingAge).To(Equal(42))
	})

	DescribeTable("evaluation",
		func(key string, gfa, households, cost, revenue float64) {
			c, ok := scenario.GetCase(key)
			Expect(ok).To(BeTrue())
			cr, err := scenario.EvaluateCase(c, feasibility.DefaultOptions())
			Expect(err).NotTo(HaveOccurred())
			Expect(cr.Result.Area.GFA).To(BeNumerically("~", gfa, 0.01))
			Expect(cr.Result.Area.Households).To(BeNumerically("~", households, 0.01))
			Expect(cr.Result.Costs.Total).To(BeNumerically("~", cost, 0.5))
			Expect(cr.Result.Revenue.Total).To(BeNumerically("~", revenue, 0.5))
			Expect(cr.Result.Revenue.LandValue).To(BeNumerically("~", c.AreaM2/3.3*30, 0.01))
		},
		Entry("luzhou", "luzhou", 1309.09, 43.64, 54801.85, 85090.91),
		Entry("sanchong", "sanchong", 2945.45, 98.18, 129091.09, 200290.91),
	)

	It("does not know other districts", func() {
		_, ok := scenario.GetCase("banqiao")
		Expect(ok).To(BeFalse())
	})
})
