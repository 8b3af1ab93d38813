package extract_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/NimanthaSupun/localrag/pkg/extract"
)

func TestExtract(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Extract Suite")
}

var _ = Describe("Extract", func() {
	Describe("plain text", func() {
		It("returns the text trimmed", func() {
			text, err := extract.Extract([]byte("  hello world \n"), extract.TypeText)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("hello world"))
		})

		It("replaces invalid UTF-8 bytes instead of failing", func() {
			text, err := extract.Extract([]byte{'o', 'k', 0xff, 0xfe, '!'}, extract.TypeText)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(ContainSubstring("ok"))
			Expect(text).To(ContainSubstring("!"))
		})

		It("returns empty text for an empty file", func() {
			text, err := extract.Extract(nil, extract.TypeText)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(BeEmpty())
		})
	})

	Describe("pdf", func() {
		It("rejects data that is not a PDF", func() {
			_, err := extract.Extract([]byte("definitely not a pdf"), extract.TypePDF)
			Expect(err).To(HaveOccurred())
		})

		It("does not panic on truncated PDF headers", func() {
			_, err := extract.Extract([]byte("%PDF-1.7\n%%EOF"), extract.TypePDF)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("unsupported formats", func() {
		It("returns ErrUnsupportedFormat", func() {
			_, err := extract.Extract([]byte("body"), "image/png")
			Expect(err).To(MatchError(extract.ErrUnsupportedFormat))
		})
	})
})

var _ = Describe("DetectType", func() {
	It("maps pdf extensions", func() {
		Expect(extract.DetectType("report.pdf")).To(Equal(extract.TypePDF))
		Expect(extract.DetectType("REPORT.PDF")).To(Equal(extract.TypePDF))
	})

	It("maps text extensions", func() {
		Expect(extract.DetectType("notes.txt")).To(Equal(extract.TypeText))
		Expect(extract.DetectType("notes.text")).To(Equal(extract.TypeText))
		Expect(extract.DetectType("readme.md")).To(Equal(extract.TypeText))
	})

	It("returns empty for unknown extensions", func() {
		Expect(extract.DetectType("image.png")).To(BeEmpty())
		Expect(extract.DetectType("archive")).To(BeEmpty())
	})
})
