// Localrag CI/CD
//
// Package main provides reproducible builds and tests locally and in GitHub
// actions. It is the main harness for handling nearly all dev operations.
package main

import (
	"context"

	"dagger/localrag/internal/dagger"
)

// Localrag is the main module for the localrag CI/CD pipeline
type Localrag struct {
	// Project source directory
	//
	// +private
	Source *dagger.Directory
}

// New creates a new Localrag CI/CD module instance
func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", ".direnv", ".devenv", "build", "tmp"]
	source *dagger.Directory,
) *Localrag {
	return &Localrag{
		Source: source,
	}
}

// goContainer returns a Debian Bookworm-based Go container with gcc,
// libsqlite3-dev, CGO enabled, and the project source mounted.
//
// It is the shared foundation for tests, builds, and linting. CGO is
// required for the sqlite-vec vector store backend.
func (l *Localrag) goContainer() *dagger.Container {
	return dag.Container().
		From("golang:1.25-bookworm").
		WithExec([]string{"apt-get", "update"}).
		WithExec([]string{"apt-get", "install", "-y", "gcc", "libsqlite3-dev"}).
		WithEnvVariable("CGO_ENABLED", "1").
		WithEnvVariable("PATH", "/go/bin:$PATH", dagger.ContainerWithEnvVariableOpts{Expand: true}).
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", l.Source)
}

// Test runs the localrag unit tests via "go test"
func (l *Localrag) Test(ctx context.Context) (string, error) {
	return l.goContainer().
		WithExec([]string{"go", "test", "-v", "./..."}).
		Stdout(ctx)
}
