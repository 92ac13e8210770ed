package synth

import (
	"fmt"
	"hash/fnv"
)

// BundleName is a REDESIGN of the original's get_job_name, which suffixed
// with uuid.uuid4().hex[:6] — a random suffix that cannot satisfy spec §8
// invariant 1 ("synthesizing twice produces byte-identical object
// manifests"). The suffix here is instead the first 6 hex characters of an
// FNV-1a hash of (workflow, stage, step), making it a pure function of the
// step's identity.
func BundleName(workflow, stage, step string) string {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s/%s/%s", workflow, stage, step)
	suffix := fmt.Sprintf("%06x", h.Sum32())[:6]
	return fmt.Sprintf("%s-%s-%s-%s", workflow, stage, step, suffix)
}

// RepoSecretName mirrors the original's get_repo_url_secret_name.
func RepoSecretName(workflow string) string {
	return "repo-" + workflow
}

// DockerSecretName mirrors the original's docker-registry secret naming
// convention, scoped per workflow rather than "most recently created in
// namespace" (the original's get_docker_secret_name picks the newest
// dockerconfigjson secret in the namespace by creation timestamp, which is
// not a deterministic function of the config and cannot satisfy invariant
// 1; scoping by workflow name restores determinism).
func DockerSecretName(workflow string) string {
	return "docker-" + workflow
}
