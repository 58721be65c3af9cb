package pickinglist

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrMalformedDocument = errors.New("malformed picking list document")
	ErrBranchAmbiguous   = errors.New("could not resolve a single active branch")
)

// MalformedDocumentError: teks tidak bisa dijadikan dokumen sama sekali
type MalformedDocumentError struct {
	Reason string
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformedDocument, e.Reason)
}

func (e *MalformedDocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}

// ValidationError membawa seluruh daftar error validasi sekaligus
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "picking list validation failed: " + strings.Join(e.Errors, "; ")
}

// RoutingNotAssignedError: line tidak punya production area di routing map
type RoutingNotAssignedError struct {
	LineNumber int
}

func (e *RoutingNotAssignedError) Error() string {
	return fmt.Sprintf("production area not assigned for line %d", e.LineNumber)
}

// InvalidRoutingAreaError: production area tidak ada, tidak aktif, atau milik branch lain
type InvalidRoutingAreaError struct {
	LineNumber       int
	ProductionAreaID uint
}

func (e *InvalidRoutingAreaError) Error() string {
	return fmt.Sprintf("production area %d assigned to line %d is not an active area of the branch", e.ProductionAreaID, e.LineNumber)
}
