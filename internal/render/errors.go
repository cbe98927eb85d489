package render

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrSlotMissing is returned when no template is loaded for a slot.
var ErrSlotMissing = errors.New("template not found")

// TemplateError reports a failure to render one template slot.
type TemplateError struct {
	Slot string
	Err  error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Slot, e.Err)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}
