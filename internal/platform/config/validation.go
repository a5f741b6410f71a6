package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator names fields by their koanf key, so messages use the same
// dotted path as the YAML files and APP_ variables.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}

		return name
	})

	return v
}

// ValidationError lists every problem found in a Config.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "config validation failed:\n  " + strings.Join(e.Problems, "\n  ")
}

// Validate checks struct tags and the settings that only matter for the
// selected storage driver, rate-limit backend and jobs. All problems are
// reported together.
func (c *Config) Validate() error {
	var problems []string

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validating config: %w", err)
		}

		for _, fe := range fieldErrs {
			problems = append(problems, describeFieldError(fe))
		}
	}

	problems = append(problems, c.dependencyProblems()...)

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}

	return nil
}

func (c *Config) dependencyProblems() []string {
	var out []string

	need := func(ok bool, msg string) {
		if !ok {
			out = append(out, msg)
		}
	}

	switch c.Storage.Driver {
	case StorageMongo:
		need(c.Mongo.URI != "", "mongo.uri is required when storage.driver is mongo")
		need(c.Mongo.Database != "", "mongo.database is required when storage.driver is mongo")
	case StoragePostgres:
		need(c.Postgres.DSN != "", "postgres.dsn is required when storage.driver is postgres")
	}

	if c.RateLimit.Backend == RateLimitRedis {
		need(c.Redis.Addr != "", "redis.addr is required when ratelimit.backend is redis")
	}

	if c.Jobs.Digest.Enabled {
		need(c.SMTP.Enabled, "jobs.digest.enabled requires smtp.enabled")
		need(len(c.Intake.StaffRecipients) > 0, "jobs.digest.enabled requires intake.staff_recipients")
	}

	return out
}

func describeFieldError(fe validator.FieldError) string {
	field, param := fieldPath(fe.Namespace()), fe.Param()

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "required_if":
		// "Enabled true" -> "enabled"
		cond, _, _ := strings.Cut(param, " ")
		return fmt.Sprintf("%s is required when %s", field, strings.ToLower(cond))
	case "required_with":
		return fmt.Sprintf("%s is required when %s is set", field, strings.ToLower(param))
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gt", "gtfield":
		return fmt.Sprintf("%s must be greater than %s", field, strings.ToLower(param))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "url":
		return field + " must be a valid URL"
	case "email":
		return field + " must be a valid email address"
	}

	return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
}

// fieldPath turns "Config.server.read_timeout" into "server.read_timeout".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		namespace = rest
	}

	return strings.ToLower(namespace)
}
