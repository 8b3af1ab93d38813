package generateutils_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	generateutils "github.com/NimanthaSupun/localrag/pkg/generate/utils"
)

func TestGenerateUtils(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Generate Utils Suite")
}

var _ = Describe("NewGenerator", func() {
	It("builds an ollama generator", func() {
		gen, err := generateutils.NewGenerator(&generateutils.NewGeneratorOpts{
			ProviderType: "ollama",
			TargetURL:    "http://localhost:11434",
			Model:        "llama3.2",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(gen).NotTo(BeNil())
		Expect(gen.Close()).To(Succeed())
	})

	It("defaults an empty provider to ollama", func() {
		gen, err := generateutils.NewGenerator(&generateutils.NewGeneratorOpts{
			TargetURL: "http://localhost:11434",
			Model:     "llama3.2",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(gen).NotTo(BeNil())
		Expect(gen.Close()).To(Succeed())
	})

	It("rejects unknown providers", func() {
		_, err := generateutils.NewGenerator(&generateutils.NewGeneratorOpts{
			ProviderType: "openai",
		})
		Expect(err).To(MatchError(ContainSubstring("unsupported generation provider")))
	})
})
