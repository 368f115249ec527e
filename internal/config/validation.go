package config

import (
	"fmt"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/adocbuild/internal/foundation/errors"
)

// Validate checks the configuration for values a build cannot run with.
func (c *Config) Validate() error {
	v := &configurationValidator{config: c}
	return v.validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validate() error {
	for _, check := range []func() error{
		cv.validateBuild,
		cv.validateSource,
		cv.validateRenderer,
		cv.validateWatch,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (cv *configurationValidator) validateBuild() error {
	b := cv.config.Build
	if strings.TrimSpace(b.Directory) == "" {
		return invalid("build.directory", "must not be empty")
	}
	if filepath.Clean(b.Directory) == "." {
		return invalid("build.directory", "must not be the working directory")
	}
	if b.IndexName == "" || strings.ContainsAny(b.IndexName, `/\`) {
		return invalid("build.index_name", "must be a plain file name")
	}
	return nil
}

func (cv *configurationValidator) validateSource() error {
	s := cv.config.Source
	for _, ext := range s.DocumentExtensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return invalid("source.document_extensions", fmt.Sprintf("%q must start with a dot", ext))
		}
	}
	if !strings.HasPrefix(s.RenderedExtension, ".") || len(s.RenderedExtension) < 2 {
		return invalid("source.rendered_extension", fmt.Sprintf("%q must start with a dot", s.RenderedExtension))
	}
	for _, ext := range s.DocumentExtensions {
		if ext == s.RenderedExtension {
			return invalid("source.rendered_extension", "must differ from the document extensions")
		}
	}
	return nil
}

func (cv *configurationValidator) validateRenderer() error {
	r := cv.config.Renderer
	if strings.TrimSpace(r.Command) == "" {
		return invalid("renderer.command", "must not be empty")
	}
	if r.Timeout < 0 {
		return invalid("renderer.timeout", "must not be negative")
	}
	if _, err := workDirModes.NormalizeWithError(string(r.WorkDir)); err != nil {
		return invalid("renderer.workdir", err.Error())
	}
	return nil
}

func (cv *configurationValidator) validateWatch() error {
	if cv.config.Watch.Debounce < 0 {
		return invalid("watch.debounce", "must not be negative")
	}
	return nil
}

func invalid(field, reason string) error {
	return ferrors.ConfigError("invalid configuration").
		WithContext("field", field).
		WithContext("reason", reason).
		Build()
}
