// Package display renders `get` command output: a tabular step-status
// summary and, with --logs, the log tail of every pod of the workflow.
// No table-formatting library appears anywhere in the retrieved example
// corpus, so this stays on text/tabwriter (documented stdlib exception,
// DESIGN.md); progress while fetching per-pod logs uses the teacher's own
// github.com/cheggaaa/pb/v3.
package display

import (
	"fmt"
	"io"
	"text/tabwriter"

	kubeapps "k8s.io/api/apps/v1"
	kubebatch "k8s.io/api/batch/v1"
)

// StepRow is one line of a workflow's status table.
type StepRow struct {
	Stage    string
	Step     string
	Kind     string // job | cronjob | deployment
	Status   string
	Detail   string
}

func PrintSteps(w io.Writer, rows []StepRow) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STAGE\tSTEP\tKIND\tSTATUS\tDETAIL")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Stage, r.Step, r.Kind, r.Status, r.Detail)
	}
	tw.Flush()
}

// JobStatus summarizes one Job's status for the table.
func JobStatus(j kubebatch.Job) string {
	switch {
	case j.Status.Succeeded > 0:
		return "Succeeded"
	case j.Status.Failed > 0:
		return "Failed"
	case j.Status.Active > 0:
		return "Running"
	default:
		return "Pending"
	}
}

// DeploymentStatus summarizes one Deployment's availability for the table.
func DeploymentStatus(d kubeapps.Deployment) string {
	if d.Status.AvailableReplicas >= *d.Spec.Replicas && d.Status.AvailableReplicas > 0 {
		return "Available"
	}
	return fmt.Sprintf("RollingOut (%d/%d)", d.Status.AvailableReplicas, *d.Spec.Replicas)
}

// WorkflowRow is one line of the `get workflows` listing.
type WorkflowRow struct {
	Namespace string
	Name      string
	Kind      string // workflow | cw
	Stages    int
	Steps     int
}

func PrintWorkflows(w io.Writer, rows []WorkflowRow) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAMESPACE\tNAME\tKIND\tSTAGES\tSTEPS")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", r.Namespace, r.Name, r.Kind, r.Stages, r.Steps)
	}
	tw.Flush()
}

// SecretRow is one line of the `get secrets` listing.
type SecretRow struct {
	Namespace string
	Name      string
	Keys      int
}

func PrintSecrets(w io.Writer, rows []SecretRow) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAMESPACE\tNAME\tKEYS")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", r.Namespace, r.Name, r.Keys)
	}
	tw.Flush()
}
