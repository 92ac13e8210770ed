package domain

// Defaults holds the numeric and image defaults applied by the config
// decode phase to fields absent from the YAML document. The image names
// follow original_source/automl/defaults.py; the numeric values are those
// of NewDefaults below, not the original's.
type Defaults struct {
	DockerImage       string // run-to-completion task steps
	ClientDockerImage string // long-lived service steps

	CPURequest    float64
	MemoryRequest int64 // MiB

	TimeoutSeconds         int64
	PollingIntervalSeconds int64
	WarmUpSeconds          int64 // original: wait_before_start_time

	MinReadySeconds      int32
	RevisionHistoryLimit int32
	BackoffLimit         int32

	Namespace string
}

const (
	DefaultNamespace = "automl"

	defaultDockerImageRepo       = "valeger/automl"
	defaultClientDockerImageRepo = "valeger/automl-client"

	ServiceAccountName = "automl-service-account"
	ClusterRoleName    = "automl-controller"

	RunnerTTLSecondsAfterFinished = 604800
	RunnerSuccessfulJobsHistory   = 2
	RunnerFailedJobsHistory       = 2
	RunnerBackoffLimit            = 2

	ContainerName = "automl"
)

// NewDefaults builds the baseline Defaults, pinning both images to the
// given build version tag (the original tags its own images with the
// running CLI's VERSION envvar-overridable at build time). The numeric
// defaults themselves (timeout, warm-up, revision history limit, replicas)
// follow the workflow engine's own defaulting list, not
// original_source/automl/processing/config.py's pydantic field defaults.
func NewDefaults(version string) Defaults {
	return Defaults{
		DockerImage:            defaultDockerImageRepo + ":" + version,
		ClientDockerImage:      defaultClientDockerImageRepo + ":" + version,
		CPURequest:             0.5,
		MemoryRequest:          500,
		TimeoutSeconds:         20,
		PollingIntervalSeconds: 1,
		WarmUpSeconds:          0,
		MinReadySeconds:        5,
		RevisionHistoryLimit:   1,
		BackoffLimit:           0,
		Namespace:              DefaultNamespace,
	}
}

// DefaultReplicas is the service-step replica count absent an explicit
// replicas field.
const DefaultReplicas int32 = 1
