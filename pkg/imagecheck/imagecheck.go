// Package imagecheck confirms a container image reference resolves in its
// registry before a workflow is submitted. The original validated only
// against the Docker Hub v2 API via requests.head; this generalizes the
// check to any registry via go-containerregistry, which already ships in
// the teacher's own dependency graph.
package imagecheck

import (
	"context"
	"fmt"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"
)

// Exists resolves ref and issues a HEAD-equivalent manifest request,
// returning an error if the reference cannot be found or the registry is
// unreachable.
func Exists(ctx context.Context, ref string) error {
	r, err := name.ParseReference(ref)
	if err != nil {
		return fmt.Errorf("invalid image reference %q: %w", ref, err)
	}

	desc, err := remote.Head(r, remote.WithContext(ctx), remote.WithAuthFromKeychain(authn.DefaultKeychain))
	if err != nil {
		return fmt.Errorf("image %q: %w", ref, err)
	}
	if desc == nil {
		return fmt.Errorf("image %q: no descriptor returned", ref)
	}
	return nil
}
