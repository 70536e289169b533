package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"irstore/internal/config"
	"irstore/internal/trace"
)

// setupTracing merges trace flags over the config file, builds the tracer
// and attaches it to the command context.
func setupTracing(cmd *cobra.Command, fileCfg config.TraceConfig) (trace.Tracer, func(), error) {
	flags := cmd.Flags()
	pick := func(name, fallback string) (string, error) {
		v, err := flags.GetString(name)
		if err != nil {
			return "", fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		if v == "" {
			return fallback, nil
		}
		return v, nil
	}

	output, err := pick("trace", fileCfg.Output)
	if err != nil {
		return nil, nil, err
	}
	levelStr, err := pick("trace-level", fileCfg.Level)
	if err != nil {
		return nil, nil, err
	}
	modeStr, err := pick("trace-mode", fileCfg.Mode)
	if err != nil {
		return nil, nil, err
	}
	formatStr, err := pick("trace-format", fileCfg.Format)
	if err != nil {
		return nil, nil, err
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, nil, err
	}
	// --trace alone means "show phases"
	if level == trace.LevelOff && flags.Changed("trace") {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return trace.Nop, func() {}, nil
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, nil, err
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: output,
		RingSize:   ringSize,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	cleanup := func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return tracer, cleanup, nil
}

func ringOf(t trace.Tracer) *trace.RingTracer {
	switch t := t.(type) {
	case *trace.RingTracer:
		return t
	case *trace.MultiTracer:
		return t.Ring()
	}
	return nil
}
