package domain

import (
	"regexp"
	"strings"
)

var reK8sName = regexp.MustCompile(`[^a-z0-9.]+`)

// NormalizeName produces a valid Kubernetes DNS-label-compatible name from
// an arbitrary string: lowercase, collapse any run of characters outside
// [a-z0-9.] into a single hyphen, then trim leading/trailing hyphens.
//
// Idempotent: NormalizeName(NormalizeName(n)) == NormalizeName(n).
func NormalizeName(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	replaced := reK8sName.ReplaceAllString(lowered, "-")
	return strings.Trim(replaced, "-")
}

// NormalizeWorkflow rewrites w's namespace, name and every stage/step name
// to their normalized DNS-label form. Defaulting of unset numeric fields
// happens earlier, in the config decode phase, where the distinction
// between "absent from YAML" and "explicitly zero" (e.g. backoff_limit=0,
// a meaningful no-retry setting) is still available; by the time a
// Workflow reaches this function every field is already resolved.
//
// Idempotent: NormalizeWorkflow(NormalizeWorkflow(w)) == NormalizeWorkflow(w).
func NormalizeWorkflow(w Workflow) Workflow {
	w.Namespace = NormalizeName(w.Namespace)
	w.Name = NormalizeName(w.Name)

	stages := make([]Stage, len(w.Stages))
	for i, st := range w.Stages {
		st.Name = NormalizeName(st.Name)
		steps := make([]Step, len(st.Steps))
		for j, s := range st.Steps {
			s.Name = NormalizeName(s.Name)
			steps[j] = s
		}
		st.Steps = steps
		stages[i] = st
	}
	w.Stages = stages
	return w
}
