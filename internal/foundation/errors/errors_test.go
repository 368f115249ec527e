package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "adocbuild.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}

		file, exists := err.Context().GetString("file")
		if !exists || file != "adocbuild.yaml" {
			t.Errorf("expected context file=adocbuild.yaml, got %v", file)
		}
	})

	t.Run("Error detection", func(t *testing.T) {
		err := ConfigError("test error").Build()

		if !IsClassified(err) {
			t.Error("expected error to be classified")
		}
		if !HasCategory(err, CategoryConfig) {
			t.Error("expected error to have config category")
		}
		if !HasSeverity(err, SeverityFatal) {
			t.Error("expected error to have fatal severity")
		}
		if err.CanRetry() {
			t.Error("expected config error to not be retryable")
		}
		if !err.IsFatal() {
			t.Error("expected config error to be fatal")
		}
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		inner := TitleError("no title").WithContext("path", "a.adoc").Build()
		wrapped := fmt.Errorf("build: %w", inner)

		if !HasCategory(wrapped, CategoryTitle) {
			t.Error("expected wrapped error to keep title category")
		}
		if got := GetCategory(wrapped); got != CategoryTitle {
			t.Errorf("expected category %s, got %s", CategoryTitle, got)
		}
		if got := GetCategory(errors.New("plain")); got != CategoryInternal {
			t.Errorf("expected internal category for plain errors, got %s", got)
		}
	})

	t.Run("Message includes sorted context and cause", func(t *testing.T) {
		cause := errors.New("exit status 1")
		err := WrapError(cause, CategoryRenderer, "render document").
			Fatal().
			WithContext("path", "docs/a.adoc").
			WithContext("command", "asciidoctor").
			Build()

		want := "[renderer:fatal] render document (command=asciidoctor path=docs/a.adoc): exit status 1"
		if err.Error() != want {
			t.Errorf("expected %q, got %q", want, err.Error())
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Fluent API", func(t *testing.T) {
		originalErr := errors.New("original error")
		err := WrapError(originalErr, CategoryFileSystem, "copy failed").
			Warning().
			WithRetry(RetryImmediate).
			WithContext("path", "docs/image.png").
			WithContext("size", 443).
			Build()

		if err.Category() != CategoryFileSystem {
			t.Errorf("expected category %s, got %s", CategoryFileSystem, err.Category())
		}
		if err.Severity() != SeverityWarning {
			t.Errorf("expected severity %s, got %s", SeverityWarning, err.Severity())
		}
		if !err.CanRetry() {
			t.Error("expected immediate retry to allow retry")
		}
		if !errors.Is(err, originalErr) {
			t.Error("expected error to wrap original error")
		}

		path, _ := err.Context().GetString("path")
		if path != "docs/image.png" {
			t.Errorf("expected path context 'docs/image.png', got %s", path)
		}
	})

	t.Run("WithContext on built error does not mutate original", func(t *testing.T) {
		base := BuildTreeError("remove build tree").Build()
		extended := base.WithContext("path", "build")

		if _, ok := base.Context().Get("path"); ok {
			t.Error("expected original context to stay untouched")
		}
		if p, _ := extended.Context().GetString("path"); p != "build" {
			t.Errorf("expected extended path=build, got %q", p)
		}
		if !errors.Is(extended, base) {
			t.Error("expected errors with same category and message to match")
		}
	})

	t.Run("Convenience constructors", func(t *testing.T) {
		tests := []struct {
			name     string
			builder  *ErrorBuilder
			category ErrorCategory
			severity ErrorSeverity
			retry    RetryStrategy
		}{
			{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal, RetryUserAction},
			{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal, RetryUserAction},
			{"NotFoundError", NotFoundError("test"), CategoryNotFound, SeverityFatal, RetryUserAction},
			{"BuildTreeError", BuildTreeError("test"), CategoryBuildTree, SeverityFatal, RetryNever},
			{"RendererError", RendererError("test"), CategoryRenderer, SeverityFatal, RetryNever},
			{"TitleError", TitleError("test"), CategoryTitle, SeverityFatal, RetryUserAction},
			{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityFatal, RetryNever},
			{"RuntimeError", RuntimeError("test"), CategoryRuntime, SeverityFatal, RetryNever},
			{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal, RetryNever},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.builder.Build()
				if err.Category() != tt.category {
					t.Errorf("expected category %s, got %s", tt.category, err.Category())
				}
				if err.Severity() != tt.severity {
					t.Errorf("expected severity %s, got %s", tt.severity, err.Severity())
				}
				if err.RetryStrategy() != tt.retry {
					t.Errorf("expected retry strategy %s, got %s", tt.retry, err.RetryStrategy())
				}
			})
		}
	})
}

func TestErrorContext(t *testing.T) {
	t.Run("Context operations", func(t *testing.T) {
		ctx := make(ErrorContext)
		ctx = ctx.Set("key1", "value1")
		ctx = ctx.Set("key2", 42)

		value1, exists1 := ctx.GetString("key1")
		if !exists1 || value1 != "value1" {
			t.Errorf("expected key1=value1, got %v", value1)
		}

		value2, exists2 := ctx.Get("key2")
		if !exists2 || value2 != 42 {
			t.Errorf("expected key2=42, got %v", value2)
		}

		_, exists3 := ctx.Get("nonexistent")
		if exists3 {
			t.Error("expected nonexistent key to not exist")
		}
	})

	t.Run("Context merge", func(t *testing.T) {
		ctx1 := ErrorContext{"key1": "value1", "shared": "original"}
		ctx2 := ErrorContext{"key2": "value2", "shared": "overridden"}

		merged := ctx1.Merge(ctx2)

		value1, _ := merged.GetString("key1")
		value2, _ := merged.GetString("key2")
		shared, _ := merged.GetString("shared")

		if value1 != "value1" {
			t.Errorf("expected key1=value1, got %s", value1)
		}
		if value2 != "value2" {
			t.Errorf("expected key2=value2, got %s", value2)
		}
		if shared != "overridden" {
			t.Errorf("expected shared=overridden, got %s", shared)
		}
	})
}
