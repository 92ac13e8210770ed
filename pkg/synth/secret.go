package synth

import (
	kubecore "k8s.io/api/core/v1"
	kubeapimeta "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/valeger/automl/pkg/domain"
)

// BuildRepoSecret synthesizes the opaque Secret carrying a private source
// repository's access token, grounded on
// original_source/automl/k8s/secret.py:create_secret_object. Only called
// when w.Source.Private() (spec §8 S6: a Secret repo-<name> of opaque type
// with field GITHUB_TOKEN=XYZ).
func BuildRepoSecret(w domain.Workflow) *kubecore.Secret {
	name := RepoSecretName(w.Name)
	m := NewMetaSource(w.Name, "", "")

	return &kubecore.Secret{
		TypeMeta:   kubeapimeta.TypeMeta{APIVersion: "v1", Kind: "Secret"},
		ObjectMeta: ToObjectMeta(m, w.Namespace, name),
		Type:       kubecore.SecretTypeOpaque,
		StringData: map[string]string{
			"GITHUB_TOKEN": w.Source.Token,
			"REPO_URL":     RepoURL(w.Source),
		},
	}
}

// RepoURL renders the clonable URL for a source reference, embedding the
// token for private hosts the way the original's shell setup script expects
// $REPO_URL to already carry credentials.
func RepoURL(s domain.SourceRef) string {
	if !s.Private() {
		return "https://" + s.Host + "/" + s.Repo
	}
	return "https://" + s.Token + "@" + s.Host + "/" + s.Repo
}
