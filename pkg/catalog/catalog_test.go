// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package catalog_test

import (
	"embed"
	"errors"
	"testing"

	"github.com/bibletranslationtools/docweave/pkg/catalog"
	"github.com/bibletranslationtools/docweave/pkg/docerr"
	"github.com/bibletranslationtools/docweave/pkg/resource"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

func TestCatalog(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Catalog Suite")
}

//go:embed testdata/translations.json
var testdata embed.FS

func load() *catalog.Catalog {
	raw, err := testdata.ReadFile("testdata/translations.json")
	Expect(err).ToNot(HaveOccurred())
	c, err := catalog.Parse(raw, "translations.json")
	Expect(err).ToNot(HaveOccurred())
	return c
}

var _ = Describe("Catalog", func() {
	var c *catalog.Catalog

	BeforeEach(func() {
		c = load()
	})

	Describe("Lookup", func() {
		DescribeTable("path templates",
			func(req string, wantURLs []string, wantFormat resource.FileFormat) {
				r, err := resource.ParseRequest(req)
				Expect(err).ToNot(HaveOccurred())
				locators := c.Lookup(r)
				got := make([]string, 0, len(locators))
				for _, l := range locators {
					got = append(got, l.URL)
					Expect(l.Format).To(Equal(wantFormat))
				}
				Expect(got).To(Equal(wantURLs))
			},
			Entry("scripture book resolves a usfm link", "en/ulb-wa/gen",
				[]string{"https://content.bibletranslationtools.org/WA-Catalog/en_ulb/raw/branch/master/01-GEN.usfm"},
				resource.FormatUSFM),
			Entry("media-type formats satisfy usfm by suffix", "fr/f10/gen",
				[]string{"https://content.bibletranslationtools.org/WycliffeAssociates/fr_f10/raw/branch/master/01-GEN.usfm"},
				resource.FormatUSFM),
			Entry("helps resolve the language-level zip", "en/tn-wa/tit",
				[]string{"https://content.bibletranslationtools.org/WA-Catalog/en_tn/archive/master.zip"},
				resource.FormatZip),
			Entry("sub-language resources resolve through any content", "en/obs-tn",
				[]string{"https://content.bibletranslationtools.org/WA-Catalog/en_obs-tn/archive/master.zip"},
				resource.FormatZip),
			Entry("download fallback yields a git locator", "en/ulb-wa/rut",
				[]string{"https://content.bibletranslationtools.org/WA-Catalog/en_ulb"},
				resource.FormatGit),
		)

		It("returns nothing for an unknown resource type", func() {
			Expect(c.Lookup(resource.Request{LangCode: "en", ResourceType: "nope", BookCode: "gen"})).To(BeEmpty())
		})

		It("returns nothing for an unknown language", func() {
			Expect(c.Lookup(resource.Request{LangCode: "xx", ResourceType: "ulb-wa", BookCode: "gen"})).To(BeEmpty())
		})

		It("normalizes request case before matching", func() {
			locators := c.Lookup(resource.Request{LangCode: "EN", ResourceType: "ULB-WA", BookCode: "GEN"})
			Expect(locators).To(HaveLen(1))
			Expect(locators[0].Format).To(Equal(resource.FormatUSFM))
		})
	})

	Describe("enumerations", func() {
		It("lists language codes sorted", func() {
			Expect(c.LanguageCodes()).To(Equal([]string{"en", "fr"}))
		})

		It("lists resource types across languages", func() {
			Expect(c.ResourceTypes()).To(Equal([]string{"f10", "obs", "tn-wa", "ulb-wa"}))
		})

		It("lists subcontent codes across resources", func() {
			Expect(c.BookCodes()).To(Equal([]string{"gen", "obs-tn", "rut", "tit"}))
		})
	})

	Describe("display names", func() {
		It("resolves language names with code fallback", func() {
			Expect(c.LanguageName("en")).To(Equal("English"))
			Expect(c.LanguageName("xx")).To(Equal("xx"))
		})

		It("resolves resource names at both nesting levels", func() {
			Expect(c.ResourceName("en", "ulb-wa")).To(Equal("Unlocked Literal Bible"))
			Expect(c.ResourceName("en", "obs-tn")).To(Equal("OBS Translation Notes"))
			Expect(c.ResourceName("en", "zzz")).To(Equal("zzz"))
		})

		It("resolves book names", func() {
			Expect(c.BookName("fr", "f10", "gen")).To(Equal("Genèse"))
			Expect(c.BookName("en", "ulb-wa", "zzz")).To(Equal("zzz"))
		})
	})

	Describe("Parse", func() {
		It("wraps malformed JSON in a parse error", func() {
			_, err := catalog.Parse([]byte("{not json"), "bad.json")
			Expect(err).To(HaveOccurred())
			var perr *docerr.ParseError
			Expect(errors.As(err, &perr)).To(BeTrue())
			Expect(perr.Path).To(Equal("bad.json"))
		})
	})
})
