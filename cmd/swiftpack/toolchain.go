// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/swiftpack/swiftpack/internal/config"
	"github.com/swiftpack/swiftpack/internal/pipeline"
	"github.com/swiftpack/swiftpack/internal/process"
)

// Tool names handed to the pipeline. The toolchain runner replaces them with
// the configured command lines.
const (
	toolCargo      = "cargo"
	toolXcodebuild = "xcodebuild"
	toolLipo       = "lipo"
	toolSwift      = "swift"
)

// newToolchain splits the configured tool command lines (e.g. "cargo
// +nightly" or "xcrun xcodebuild") and returns a runner that expands the
// pipeline's tool names into them.
func newToolchain(runner process.Runner, tools config.ToolsConfig) (process.Runner, pipeline.Tools, error) {
	lines := map[string]string{
		toolCargo:      tools.Cargo,
		toolXcodebuild: tools.Xcodebuild,
		toolLipo:       tools.Lipo,
		toolSwift:      tools.Swift,
	}

	commands := make(map[string][]string, len(lines))
	for name, line := range lines {
		exe, args, err := process.SplitCommandLine(line)
		if err != nil {
			return nil, pipeline.Tools{}, fmt.Errorf("tools.%s: %w", name, err)
		}
		commands[name] = append([]string{exe}, args...)
	}

	expand := process.RunnerFunc(func(ctx context.Context, cmd process.Command) (process.Result, error) {
		if command, ok := commands[cmd.Name]; ok {
			cmd.Args = append(append([]string{}, command[1:]...), cmd.Args...)
			cmd.Name = command[0]
		}
		return runner.Run(ctx, cmd)
	})

	return expand, pipeline.Tools{
		Cargo:      toolCargo,
		Xcodebuild: toolXcodebuild,
		Lipo:       toolLipo,
		Swift:      toolSwift,
		Bindgen:    tools.Bindgen,
	}, nil
}
