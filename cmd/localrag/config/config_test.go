package configcmder_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	localragcmder "github.com/NimanthaSupun/localrag/cmd/localrag"
	configcmder "github.com/NimanthaSupun/localrag/cmd/localrag/config"
)

func TestConfigCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Command Suite")
}

var _ = Describe("NewConfigCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := configcmder.NewConfigCmd()
		Expect(cmd.Use).To(Equal("config"))
	})

	It("has set, get, and list subcommands", func() {
		cmd := configcmder.NewConfigCmd()
		cmds := cmd.Commands()
		subcommands := make([]string, 0, len(cmds))
		for _, sub := range cmds {
			subcommands = append(subcommands, sub.Name())
		}
		Expect(subcommands).To(ContainElements("set", "get", "list"))
	})
})

var _ = Describe("Config command execution", func() {
	var tmpDir string

	// The config-dir flag lives on the root command, so execution tests
	// run through it.
	run := func(args ...string) error {
		cmd := localragcmder.NewLocalragCmd()
		cmd.SetArgs(append(args, "--config-dir", tmpDir))
		return cmd.Execute()
	}

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
	})

	Describe("set subcommand", func() {
		It("sets a config value and creates config.toml", func() {
			Expect(run("config", "set", "ollama.embed_model", "nomic-embed-text")).To(Succeed())

			_, err := os.Stat(filepath.Join(tmpDir, "config.toml"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects unknown keys", func() {
			Expect(run("config", "set", "invalid_key", "value")).NotTo(Succeed())
		})

		It("requires exactly two arguments", func() {
			Expect(run("config", "set", "ollama.url")).NotTo(Succeed())
		})

		It("rejects invalid numeric values", func() {
			Expect(run("config", "set", "embedding.dimensions", "not-a-number")).NotTo(Succeed())
		})
	})

	Describe("get subcommand", func() {
		It("gets a previously set value", func() {
			Expect(run("config", "set", "qdrant.collection", "papers")).To(Succeed())
			Expect(run("config", "get", "qdrant.collection")).To(Succeed())
		})

		It("rejects unknown keys", func() {
			Expect(run("config", "get", "invalid_key")).NotTo(Succeed())
		})
	})

	Describe("list subcommand", func() {
		It("lists values without a config file", func() {
			Expect(run("config", "list")).To(Succeed())
		})

		It("lists values with a config file present", func() {
			Expect(run("config", "set", "retrieval.top_k", "5")).To(Succeed())
			Expect(run("config", "list")).To(Succeed())
		})
	})
})
