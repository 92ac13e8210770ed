package sourcefetch

import (
	"context"
	"fmt"
	"net/http"

	"github.com/valeger/automl/pkg/domain"
)

// bitbucketFetcher builds the Bitbucket repository archive download URL;
// plain net/http for the same reason as gitlabFetcher.
type bitbucketFetcher struct{}

func (bitbucketFetcher) Resolve(ctx context.Context, ref domain.SourceRef) (Archive, error) {
	archiveURL := fmt.Sprintf("https://bitbucket.org/%s/get/%s.tar.gz", ref.Repo, ref.Branch)

	if err := probe(ctx, archiveURL, bitbucketAuth(ref.Token)); err != nil {
		return Archive{}, err
	}

	return Archive{URL: archiveURL, RootPrefix: ref.Repo + "-"}, nil
}

func bitbucketAuth(token string) func(*http.Request) {
	return func(req *http.Request) {
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}
