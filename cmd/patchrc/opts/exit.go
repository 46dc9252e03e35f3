// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package opts

import (
	"gitlab.com/tozd/go/errors"
)

// Process exit codes
const (
	ExitOK     = 0
	ExitFailed = 1 // at least one plan did not apply
	ExitConfig = 2 // configuration or store error
)

// ExitError carries the exit code a command ends with
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// ConfigError marks err as a configuration or store failure
func ConfigError(err error) error {
	if err == nil {
		return nil
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		return err
	}
	return &ExitError{Code: ExitConfig, Err: err}
}

// Failed marks a run in which at least one plan failed
func Failed(format string, args ...any) error {
	return &ExitError{Code: ExitFailed, Err: errors.Errorf(format, args...)}
}

// ExitCode maps an error returned by a command to a process exit code. Errors that
// are not ExitErrors come from flag parsing or cobra itself and count as usage errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	return ExitConfig
}
