package display

import (
	"context"
	"fmt"
	"io"

	"github.com/cheggaaa/pb/v3"
	kubecore "k8s.io/api/core/v1"

	"github.com/valeger/automl/pkg/k8sclient"
)

// PrintPodLogs reads and prints the last tailLines of container's log from
// every pod in pods, stepping a progress bar across the (bounded, known
// up-front) pod count, the same finite-total use the teacher's data
// subcommands make of cheggaaa/pb.
func PrintPodLogs(ctx context.Context, out io.Writer, client k8sclient.ClusterClient, namespace, container string, pods []kubecore.Pod, tailLines int64) {
	bar := pb.StartNew(len(pods))
	defer bar.Finish()

	for _, pod := range pods {
		rc, err := client.ReadPodLogs(ctx, namespace, pod.Name, container, tailLines)
		if err != nil {
			fmt.Fprintf(out, "pod=%s: cannot read logs: %v\n", pod.Name, err)
			bar.Increment()
			continue
		}
		fmt.Fprintf(out, "--- pod=%s ---\n", pod.Name)
		io.Copy(out, rc)
		rc.Close()
		bar.Increment()
	}
}
