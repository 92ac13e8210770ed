package k8sclient

import (
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	domainerrors "github.com/valeger/automl/pkg/domain/errors"
)

// Connect builds a ClusterClient, searching for credentials in order:
//
//   - explicit kubeconfigPath argument (from the engine's --kubeconfig flag)
//   - KUBECONFIG environment variable (spec §6, "Environment variables
//     consumed by the engine")
//   - ~/.kube/config
//   - in-cluster config, when none of the above exist
//
// Unlike the teacher's ConnectToK8s, this never panics: failure to locate
// or parse credentials is a Precondition error surfaced through the CLI's
// outer frame.
func Connect(kubeconfigPath string) (ClusterClient, error) {
	kubeconfig := kubeconfigPath

	if kubeconfig == "" {
		if k := os.Getenv("KUBECONFIG"); k != "" {
			kubeconfig = k
		}
	}

	if kubeconfig == "" {
		if home := homedir.HomeDir(); home != "" {
			candidate := filepath.Join(home, ".kube", "config")
			if stat, err := os.Stat(candidate); err == nil && !stat.IsDir() {
				kubeconfig = candidate
			}
		}
	}

	var config *rest.Config
	var err error
	if kubeconfig == "" {
		config, err = rest.InClusterConfig()
		if err != nil {
			return nil, domainerrors.NewPreconditionCausedBy("no kubeconfig found and not running in-cluster", err)
		}
	} else {
		config, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, domainerrors.NewPreconditionCausedBy(fmt.Sprintf("cannot load kubeconfig %q", kubeconfig), err)
		}
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, domainerrors.NewPreconditionCausedBy("cannot build kubernetes client", err)
	}

	return Wrap(clientset), nil
}
