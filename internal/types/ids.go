// internal/types/ids.go
package types

import (
	"github.com/google/uuid"
)

// InvocationID identifies a single command dispatch in logs.
type InvocationID string

func NewInvocationID() InvocationID {
	return InvocationID(uuid.New().String())
}

// ScreenshotName builds the on-disk name of a screenshot: "<tradeID>_<filename>".
func ScreenshotName(tradeID, filename string) string {
	return tradeID + "_" + filename
}
