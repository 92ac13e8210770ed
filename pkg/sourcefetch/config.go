package sourcefetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/valeger/automl/pkg/domain"
	domainerrors "github.com/valeger/automl/pkg/domain/errors"
	"github.com/valeger/automl/pkg/utils/retry"
)

// fetchAttempts bounds the retry in doFetch. A raw-file GET against a
// forge's CDN occasionally drops with a transient 5xx or connection reset;
// three tries with a static backoff is the same shape worker.go uses for
// its own cluster-state polling.
const fetchAttempts = 3

// FetchConfig downloads the raw workflow config file at path within ref's
// repository/branch, direct port of
// original_source/automl/processing/utils.py:download_config generalized
// across the three hosts.
func FetchConfig(ctx context.Context, ref domain.SourceRef, path string) ([]byte, error) {
	rawURL, decorate := rawFileRequest(ref, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, domainerrors.NewValidationCausedBy("building config fetch request", err)
	}
	decorate(req)

	resp, err := doFetch(ctx, req)
	if err != nil {
		return nil, domainerrors.NewPreconditionCausedBy(fmt.Sprintf("reaching %s", rawURL), err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusNotFound:
		return nil, domainerrors.NewPrecondition(fmt.Sprintf(
			"cannot fetch configuration file from %s; make sure you provide a PAT token in case your repo is private", rawURL,
		))
	default:
		return nil, domainerrors.NewPrecondition(fmt.Sprintf(
			"cannot fetch configuration file from %s repo. Status code: %d", rawURL, resp.StatusCode,
		))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domainerrors.NewPreconditionCausedBy("reading configuration file body", err)
	}
	return body, nil
}

// doFetch issues req, retrying transient network errors and 5xx responses
// up to fetchAttempts times with a static backoff, the same shape worker.go
// uses for its own cluster-state polling.
func doFetch(ctx context.Context, req *http.Request) (*http.Response, error) {
	attempt := 0
	return retry.Blocking(ctx, retry.StaticBackoff(500*time.Millisecond), func() (*http.Response, error) {
		attempt++
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			if attempt < fetchAttempts {
				return nil, retry.ErrRetry
			}
			return nil, err
		}
		if resp.StatusCode >= 500 && attempt < fetchAttempts {
			resp.Body.Close()
			return nil, retry.ErrRetry
		}
		return resp, nil
	})
}

func rawFileRequest(ref domain.SourceRef, path string) (string, func(*http.Request)) {
	switch ref.Host {
	case "gitlab", "gitlab.com":
		return fmt.Sprintf("https://gitlab.com/%s/-/raw/%s/%s", ref.Repo, ref.Branch, path), gitlabAuth(ref.Token)
	case "bitbucket", "bitbucket.org":
		return fmt.Sprintf("https://bitbucket.org/%s/raw/%s/%s", ref.Repo, ref.Branch, path), bitbucketAuth(ref.Token)
	default:
		url := fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s", ref.Repo, ref.Branch, path)
		return url, func(req *http.Request) {
			if ref.Token != "" {
				req.Header.Set("Authorization", "token "+ref.Token)
			}
		}
	}
}
