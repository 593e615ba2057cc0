// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/swiftpack/swiftpack/internal/cargo"
	"github.com/swiftpack/swiftpack/internal/issue"
	"github.com/swiftpack/swiftpack/internal/process"
	"github.com/swiftpack/swiftpack/internal/resolve"
	"github.com/swiftpack/swiftpack/internal/scaffold"
	"github.com/swiftpack/swiftpack/internal/uniffi"
	"github.com/swiftpack/swiftpack/pkg/layout"
	"github.com/swiftpack/swiftpack/pkg/swiftpkg"
)

// issueFor maps an error to the catalog entry that explains it, or 0.
// More specific causes are checked first.
func issueFor(err error) issue.Id {
	switch {
	case errors.Is(err, errConfigLoad):
		return issue.ConfigLoadFailedId
	case errors.Is(err, cargo.ErrManifestNotFound):
		return issue.CrateManifestNotFoundId
	case errors.Is(err, cargo.ErrManifestInvalid):
		return issue.CrateManifestInvalidId
	case errors.Is(err, uniffi.ErrConfigInvalid):
		return issue.BindingConfigInvalidId
	case errors.Is(err, process.ErrToolNotFound):
		return issue.ToolNotFoundId
	case errors.Is(err, process.ErrProcessFailed):
		return issue.ProcessFailedId
	case errors.Is(err, layout.ErrLayoutMismatch):
		return issue.LayoutMismatchId
	case errors.Is(err, scaffold.ErrProjectExists):
		return issue.ProjectExistsId
	case errors.Is(err, swiftpkg.ErrInvalidConfiguration):
		return issue.InvalidConfigurationId
	default:
		return 0
	}
}

// exitCodeFor propagates the exit code of a failed external process; every
// other failure exits with 1.
func exitCodeFor(err error) int {
	var failure *process.FailureError
	if errors.As(err, &failure) && failure.ExitCode > 0 {
		return failure.ExitCode
	}
	return 1
}

// fail renders the detail of err to stderr and returns it as an ExitError.
// Layout violations are shown as a table; known failures add the matching
// catalog entry.
func (a *App) fail(err error) error {
	if err == nil {
		return nil
	}

	style := a.glamourStyle()

	var ae *issue.ActionableError
	if errors.As(err, &ae) && len(ae.Suggestions) > 0 {
		fmt.Fprintln(a.stderr, ae.Format(a.flags.verbose))
	}

	var mismatch *layout.MismatchError
	if errors.As(err, &mismatch) {
		if rendered, renderErr := issue.RenderMarkdown(mismatch.Markdown(), style); renderErr == nil {
			fmt.Fprint(a.stderr, rendered)
		} else {
			a.logger.Warn("failed to render layout report", "error", renderErr)
		}
	}

	if entry := issue.Get(issueFor(err)); entry != nil && !a.flags.silent {
		if rendered, renderErr := entry.Render(style); renderErr == nil {
			fmt.Fprint(a.stderr, rendered)
		} else {
			a.logger.Warn("failed to render issue catalog entry", "error", renderErr)
		}
	}

	return &ExitError{Code: exitCodeFor(err), Err: err}
}

// reportWarnings reports each resolution warning once. Deprecation notices
// go straight to stderr so --silent does not hide them.
func (a *App) reportWarnings(warnings []error) {
	for _, w := range warnings {
		var deprecated *resolve.DeprecatedOptionWarning
		if errors.As(w, &deprecated) {
			fmt.Fprintf(a.stderr, "%s %s\n", WarningStyle.Render("Deprecated:"), deprecated.Error())
			continue
		}
		a.logger.Warn(w.Error())
	}
}
