package localragcmder_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	localragcmder "github.com/NimanthaSupun/localrag/cmd/localrag"
)

func TestLocalragCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Localrag Command Suite")
}

var _ = Describe("NewLocalragCmd", func() {
	It("creates the root command", func() {
		cmd := localragcmder.NewLocalragCmd()
		Expect(cmd.Use).To(Equal("localrag"))
	})

	It("registers every subcommand", func() {
		cmd := localragcmder.NewLocalragCmd()

		names := make([]string, 0)
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}

		Expect(names).To(ContainElements(
			"serve", "ingest", "ask", "reset", "status", "watch", "config", "version",
		))
	})

	It("defines the global debug and config-dir flags", func() {
		cmd := localragcmder.NewLocalragCmd()
		Expect(cmd.PersistentFlags().Lookup("debug")).NotTo(BeNil())
		Expect(cmd.PersistentFlags().Lookup("config-dir")).NotTo(BeNil())
	})
})
