// Package env resolves the engine's environment variables (spec §6,
// "Environment variables consumed by the engine"): KUBECONFIG is read
// directly by pkg/k8sclient.Connect, GITHUB_ACCESS_TOKEN is read here as
// the fallback token for source hosts when a command omits --token.
package env

import "os"

type Env struct {
	// GithubToken is used when a create/update command targets a private
	// repository without an explicit --token flag.
	GithubToken string
}

func Load() Env {
	return Env{GithubToken: os.Getenv("GITHUB_ACCESS_TOKEN")}
}
