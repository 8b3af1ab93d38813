package main

import (
	"fmt"
	"strings"
	"time"

	"context"

	"dagger/localrag/internal/dagger"
)

// Build and return directory of go binaries. The sqlite-vec backend needs
// CGO, so builds run in the gcc-equipped base container rather than a
// cross-compile matrix.
func (l *Localrag) Build(
	ctx context.Context,

	// Linker flags for go build
	// +optional
	// +default="-s -w"
	ldflags string,
) *dagger.Directory {
	goarches := []string{"amd64", "arm64"}

	// create empty directory to put build artifacts
	outputs := dag.Directory()

	for _, goarch := range goarches {
		path := fmt.Sprintf("linux/%s/", goarch)

		crossCompiler := "gcc"
		if goarch == "arm64" {
			crossCompiler = "aarch64-linux-gnu-gcc"
		}

		build := l.goContainer().
			WithExec([]string{"apt-get", "install", "-y", "gcc-aarch64-linux-gnu"}).
			WithEnvVariable("GOOS", "linux").
			WithEnvVariable("GOARCH", goarch).
			WithEnvVariable("CC", crossCompiler).
			WithExec([]string{"go", "build", "-ldflags", ldflags, "-o", path, "./cli/localrag"})

		outputs = outputs.WithDirectory(path, build.Directory(path))
	}

	return outputs
}

// BuildRelease compiles versioned release binaries with embedded version info
func (l *Localrag) BuildRelease(
	ctx context.Context,

	// Version string of build
	version string,

	// Git commit SHA of build
	commit string,
) *dagger.Directory {
	buildtime := time.Now()

	ldflags := []string{
		"-s",
		"-w",
		fmt.Sprintf("-X 'github.com/NimanthaSupun/localrag/pkg/utils.Version=%s'", version),
		fmt.Sprintf("-X 'github.com/NimanthaSupun/localrag/pkg/utils.Sha=%s'", commit),
		fmt.Sprintf("-X 'github.com/NimanthaSupun/localrag/pkg/utils.Buildtime=%s'", buildtime),
	}

	return l.Build(ctx, strings.Join(ldflags, " "))
}
