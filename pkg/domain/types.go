// Package domain holds the in-memory workflow model: the strongly-typed
// value the Config Loader produces and everything downstream (the
// Synthesizer, Executor, Poller and Sweeper) consumes.
package domain

import "time"

// ServiceConfig is the service-step-only network exposure config.
type ServiceConfig struct {
	Port              int32
	Ingress           bool
	MaxStartupSeconds int64 // 0 means unset
}

// StepKind discriminates the two step variants of §3.
type StepKind int

const (
	// TaskStep produces a Job (run-to-completion).
	TaskStep StepKind = iota
	// ServiceStepKind produces a Deployment plus a Service, plus optionally an Ingress.
	ServiceStepKind
)

// Step is one unit of compute within a Stage.
//
// Kind discriminates the variant; Service is non-nil iff Kind ==
// ServiceStepKind (§3 invariant: "a service step MUST carry a non-empty
// service config; a task step MUST NOT").
type Step struct {
	Name string

	PathToExecutable string
	DependencyPath   string
	Image            string
	Command          []string
	Envs             map[string]string
	Secrets          []string

	CPURequest    float64
	MemoryRequest int64

	TimeoutSeconds        int64
	PollingIntervalSecond int64
	WarmUpSeconds         int64

	Kind StepKind

	// Task-specific.
	BackoffLimit int32

	// Service-specific.
	Replicas             int32
	RevisionHistoryLimit int32
	MinReadySeconds      int32
	Service              *ServiceConfig
}

// IsService reports whether this step synthesizes a Deployment rather than a Job.
func (s Step) IsService() bool {
	return s.Kind == ServiceStepKind
}

// Stage is an ordered group of Steps executed in parallel.
type Stage struct {
	Name  string
	Steps []Step
}

// SourceRef locates the workflow's source repository.
type SourceRef struct {
	Host       string // github | gitlab | bitbucket
	Repo       string // owner/repo, or numeric project id for gitlab
	Branch     string
	Token      string // PAT, empty for public repos
	ProjectDir string // directory within the archive containing the config/executables
}

func (s SourceRef) Private() bool {
	return s.Token != ""
}

// Workflow is a named unit owning a namespace, a source, a version and an
// ordered list of Stages. Identity = (Namespace, Name).
type Workflow struct {
	Namespace string
	Name      string
	Version   string
	Source    SourceRef
	Stages    []Stage
}

// CronWorkflow wraps a Workflow with a five-field cron expression.
type CronWorkflow struct {
	Workflow Workflow
	Schedule string
}

// Outcome is the terminal state of a Step, per §4.5 / glossary.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeSucceeded
	OutcomeFailed
	OutcomeTimedOut
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "Succeeded"
	case OutcomeFailed:
		return "Failed"
	case OutcomeTimedOut:
		return "TimedOut"
	default:
		return "Unknown"
	}
}

func (o Outcome) Terminal() bool {
	return o != OutcomeUnknown
}

// StepResult is a step's recorded terminal state, including diagnostics
// captured by the Poller on failure (§4.5).
type StepResult struct {
	Stage   string
	Step    string
	Outcome Outcome
	Logs    string // last ~4KiB of the failing container's logs, if any
	Err     error
}

// Run tracks one execution of a Workflow. It is never persisted (§3): its
// lifetime is bounded by the CLI process.
type Run struct {
	Workflow      Workflow
	StageIndex    int
	StartTime     time.Time
	StepResults   []StepResult
	NamespaceOwned bool // true if this run created the namespace
}
