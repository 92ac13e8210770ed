// Package config implements the three-phase Config Loader & Validator:
// strict decode, normalize, validate. It produces a domain.Workflow ready
// for synthesis or rejects the document with a typed
// pkg/domain/errors.ErrValidation / ErrPrecondition.
package config

import (
	"context"
	"fmt"

	domainerrors "github.com/valeger/automl/pkg/domain/errors"
	"github.com/valeger/automl/pkg/imagecheck"

	"github.com/valeger/automl/pkg/domain"
)

// Options tune the loader's behavior beyond pure YAML shape.
type Options struct {
	// SkipImageCheck disables the registry existence check for any step
	// whose image was explicitly overridden in the document. The original
	// made this check unconditional because it assumed Docker Hub; this
	// repo generalizes it to any registry and makes it optional because it
	// requires network access.
	SkipImageCheck bool

	// CheckOnly runs decode+normalize+validate without any network or
	// cluster calls, used by the CLI's `--check` isolation mode.
	CheckOnly bool

	Version string // build version, compared against the document's `version` (warning only)

	KnownSecrets domain.KnownSecrets
	SourceTree   domain.SourceTree
}

// Load runs the three-phase pipeline over a raw YAML document and returns
// a validated Workflow scoped to namespace, defaulting its name to
// fallbackName when the document omits one.
func Load(ctx context.Context, content []byte, namespace, fallbackName string, opts Options) (domain.Workflow, error) {
	wm, err := decodeStrict(content)
	if err != nil {
		return domain.Workflow{}, domainerrors.NewValidationCausedBy("malformed configuration", err)
	}

	defaults := domain.NewDefaults(opts.Version)

	w, err := wm.trySeal(namespace, fallbackName, defaults)
	if err != nil {
		return domain.Workflow{}, domainerrors.NewValidationCausedBy("malformed configuration", err)
	}

	w = domain.NormalizeWorkflow(w)

	if wm.Schedule != "" {
		if err := domain.ValidateSchedule(wm.Schedule); err != nil {
			return domain.Workflow{}, err
		}
	}

	if wm.Version != "" && opts.Version != "" && wm.Version != opts.Version {
		// Warning only (spec Open Question ii): surfaced to the caller's
		// logger, never a hard failure.
		logVersionMismatch(wm.Version, opts.Version)
	}

	if err := domain.Validate(w, opts.KnownSecrets, opts.SourceTree); err != nil {
		return domain.Workflow{}, err
	}

	if !opts.CheckOnly && !opts.SkipImageCheck {
		if err := checkImages(ctx, w); err != nil {
			return domain.Workflow{}, err
		}
	}

	return w, nil
}

// LoadCronWorkflow is Load plus the mandatory `schedule` field, returning a
// domain.CronWorkflow.
func LoadCronWorkflow(ctx context.Context, content []byte, namespace, fallbackName string, opts Options) (domain.CronWorkflow, error) {
	wm, err := decodeStrict(content)
	if err != nil {
		return domain.CronWorkflow{}, domainerrors.NewValidationCausedBy("malformed configuration", err)
	}
	if wm.Schedule == "" {
		return domain.CronWorkflow{}, domainerrors.NewValidation("cron workflows require a `schedule` field")
	}

	w, err := Load(ctx, content, namespace, fallbackName, opts)
	if err != nil {
		return domain.CronWorkflow{}, err
	}

	return domain.CronWorkflow{Workflow: w, Schedule: wm.Schedule}, nil
}

func checkImages(ctx context.Context, w domain.Workflow) error {
	seen := map[string]bool{}
	for _, st := range w.Stages {
		for _, s := range st.Steps {
			if seen[s.Image] {
				continue
			}
			seen[s.Image] = true
			if err := imagecheck.Exists(ctx, s.Image); err != nil {
				return domainerrors.NewPreconditionCausedBy(
					fmt.Sprintf("image %q not found in registry", s.Image), err,
				)
			}
		}
	}
	return nil
}

// versionWarner is overridable by tests; production wiring replaces it
// with the ambient logger at CLI startup.
var versionWarner = func(docVersion, buildVersion string) {}

func logVersionMismatch(docVersion, buildVersion string) {
	versionWarner(docVersion, buildVersion)
}

// SetVersionWarner installs the callback used to report a version
// mismatch between the document and the running build.
func SetVersionWarner(f func(docVersion, buildVersion string)) {
	versionWarner = f
}
