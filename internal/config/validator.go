package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string // config field path, e.g. "server.page_size"
	Value   any
	Message string
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation
// errors found. This validates ambient sizing/tuning options only; the
// grid-specific configuration errors are raised elsewhere, per spec.md §7:
// duplicate column keys by the engine's construction phase, a missing data
// source by the bootstrap policy.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	errs = append(errs, c.validateTable()...)
	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validateBootstrap()...)
	errs = append(errs, c.validateLogging()...)

	return errs
}

func (c *Config) validateTable() []ValidationError {
	var errs []ValidationError

	if c.Table.RowHeight <= 0 {
		errs = append(errs, ValidationError{
			Field: "table.row_height", Value: c.Table.RowHeight,
			Message: "must be positive",
		})
	}
	if c.Table.HeaderHeight < 0 {
		errs = append(errs, ValidationError{
			Field: "table.header_height", Value: c.Table.HeaderHeight,
			Message: "must be non-negative",
		})
	}
	if c.Table.SummaryHeight < 0 {
		errs = append(errs, ValidationError{
			Field: "table.summary_height", Value: c.Table.SummaryHeight,
			Message: "must be non-negative",
		})
	}
	if c.Table.FrozenColumns < 0 {
		errs = append(errs, ValidationError{
			Field: "table.frozen_columns", Value: c.Table.FrozenColumns,
			Message: "must be non-negative",
		})
	}
	if c.Table.TableID == "" {
		errs = append(errs, ValidationError{
			Field: "table.table_id", Value: c.Table.TableID,
			Message: "must not be empty",
		})
	}

	return errs
}

func (c *Config) validateServer() []ValidationError {
	var errs []ValidationError

	if c.Server.PageSize <= 0 {
		errs = append(errs, ValidationError{
			Field: "server.page_size", Value: c.Server.PageSize,
			Message: "must be positive",
		})
	}
	if c.Server.BufferRows < 0 {
		errs = append(errs, ValidationError{
			Field: "server.buffer_rows", Value: c.Server.BufferRows,
			Message: "must be non-negative",
		})
	}
	if c.Server.MaxCachedPages <= 0 {
		errs = append(errs, ValidationError{
			Field: "server.max_cached_pages", Value: c.Server.MaxCachedPages,
			Message: "must be positive",
		})
	}

	return errs
}

func (c *Config) validateBootstrap() []ValidationError {
	var errs []ValidationError

	if c.Bootstrap.ClientSideMaxRows < 0 {
		errs = append(errs, ValidationError{
			Field: "bootstrap.client_side_max_rows", Value: c.Bootstrap.ClientSideMaxRows,
			Message: "must be non-negative",
		})
	}

	return errs
}

func (c *Config) validateLogging() []ValidationError {
	var errs []ValidationError

	if c.Logging.Level != "" {
		valid := false
		for _, lvl := range ValidLogLevels() {
			if c.Logging.Level == lvl {
				valid = true
				break
			}
		}
		if !valid {
			errs = append(errs, ValidationError{
				Field: "logging.level", Value: c.Logging.Level,
				Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
			})
		}
	}

	return errs
}
