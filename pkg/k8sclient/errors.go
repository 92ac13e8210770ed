package k8sclient

import "fmt"

func errUnsupportedWatchResource(resource string) error {
	return fmt.Errorf("k8sclient: unsupported watch resource %q", resource)
}
