// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package observer

import (
	"github.com/born-ml/tensorview/internal/observer"
)

// Errors returned by Observer operations.
var (
	ErrInvalidVectorElements = observer.ErrInvalidVectorElements
	ErrNotConfigured         = observer.ErrNotConfigured
	ErrNoSource              = observer.ErrNoSource
	ErrMultipleWildcards     = observer.ErrMultipleWildcards
)

// ConfigurationError wraps a rejected configuration.
type ConfigurationError = observer.ConfigurationError

// Warning is a recoverable problem found while applying a configuration.
type Warning = observer.Warning

// WarningKind classifies warnings.
type WarningKind = observer.WarningKind

// Warning kinds.
const (
	ShapeMismatch          WarningKind = observer.ShapeMismatch
	UnsupportedCombination WarningKind = observer.UnsupportedCombination
)
