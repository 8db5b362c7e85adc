package domain

import (
	"errors"
	"fmt"
)

// ErrNoData is returned by the presentation layer when there is nothing to draw
var ErrNoData = errors.New("no data to render")

// NotFoundError reports an unknown section, report or chart
type NotFoundError struct {
	Kind    string
	Section SectionID
	Name    string
}

func (e *NotFoundError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("%s %q not found in section %q", e.Kind, e.Name, e.Section)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// QueryError reports a malformed query, unknown column, bad parameter or timeout
type QueryError struct {
	Report string
	Err    error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s failed: %v", e.Report, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// ConnectionError reports an unreachable data source
type ConnectionError struct {
	Driver string
	Err    error
}

func (e *ConnectionError) Error() string {
	if e.Driver == "" {
		return fmt.Sprintf("data source unreachable: %v", e.Err)
	}
	return fmt.Sprintf("%s data source unreachable: %v", e.Driver, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsQueryError(err error) bool {
	var target *QueryError
	return errors.As(err, &target)
}

func IsConnectionError(err error) bool {
	var target *ConnectionError
	return errors.As(err, &target)
}
