package models

import "github.com/illuscio-dev/spanfn-go/fnerrors"

// Alias to fnerrors.FnErrorType
type FnErrorType = fnerrors.FnErrorType

// Alias to fnerrors.FnError
type FnError = fnerrors.FnError
