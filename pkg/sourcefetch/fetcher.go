// Package sourcefetch resolves a domain.SourceRef to a downloadable
// archive: a URL and the path prefix the archive's tarball root carries
// (hosts differ on this), so callers can strip it uniformly when staging
// files. Grounded on original_source/automl/processing/utils.py's
// download_config, generalized from "GET one raw file" to "resolve a whole
// archive" per spec §6's source-fetcher contract.
package sourcefetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/valeger/automl/pkg/domain"
	domainerrors "github.com/valeger/automl/pkg/domain/errors"
)

// Archive is the result of resolving a SourceRef: a URL the caller can GET
// to retrieve a tarball, and the root path prefix every entry in that
// tarball carries (e.g. "owner-repo-<sha>/").
type Archive struct {
	URL        string
	RootPrefix string
}

// Fetcher resolves a SourceRef without leaking which provider it talked to
// past this package (spec §9 Design Notes, "Dynamic dispatch of source
// fetcher").
type Fetcher interface {
	Resolve(ctx context.Context, ref domain.SourceRef) (Archive, error)
}

// For resolves ref.Host to the Fetcher implementation that understands it.
func For(host string) (Fetcher, error) {
	switch strings.ToLower(host) {
	case "github", "github.com":
		return &githubFetcher{}, nil
	case "gitlab", "gitlab.com":
		return &gitlabFetcher{}, nil
	case "bitbucket", "bitbucket.org":
		return &bitbucketFetcher{}, nil
	default:
		return nil, domainerrors.NewValidation(fmt.Sprintf("unsupported source host %q", host))
	}
}
