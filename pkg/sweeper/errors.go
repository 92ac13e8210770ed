package sweeper

import kubeerrors "k8s.io/apimachinery/pkg/api/errors"

func isNotFound(err error) bool {
	return kubeerrors.IsNotFound(err)
}
