package catalog

import "errors"

// Hardware type domain. The set is closed: validation rejects any other
// string at the boundary, so storage never sees a type outside it.
const (
	TypeSensor          = "sensor"
	TypeSingleBoard     = "single-board computer"
	TypeMicrocontroller = "microcontroller unit"
)

// Hardware is a catalog entry describing a board or sensor model.
type Hardware struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Payload is the client-supplied shape for creating or updating a
// catalog entry.
type Payload struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Sentinel errors for catalog operations.
var (
	ErrHardwareNotFound    = errors.New("hardware not found")
	ErrInvalidHardwareType = errors.New("hardware type not valid")
)

// ValidateType checks a hardware type string against the closed domain.
func ValidateType(t string) error {
	switch t {
	case TypeSensor, TypeSingleBoard, TypeMicrocontroller:
		return nil
	default:
		return ErrInvalidHardwareType
	}
}

// Validate checks a create/update payload.
func (p *Payload) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	return ValidateType(p.Type)
}
