package catalog

import (
	"errors"
	"testing"
)

func TestValidateType(t *testing.T) {
	valid := []string{
		"sensor",
		"single-board computer",
		"microcontroller unit",
	}
	for _, typ := range valid {
		if err := ValidateType(typ); err != nil {
			t.Errorf("ValidateType(%q) error = %v, want nil", typ, err)
		}
	}

	invalid := []string{
		"",
		"Sensor",
		"SENSOR",
		"sbc",
		"single board computer",
		"microcontroller",
		"sensor ",
	}
	for _, typ := range invalid {
		if err := ValidateType(typ); !errors.Is(err, ErrInvalidHardwareType) {
			t.Errorf("ValidateType(%q) error = %v, want ErrInvalidHardwareType", typ, err)
		}
	}
}

func TestPayloadValidate(t *testing.T) {
	p := Payload{Name: "BME280", Type: TypeSensor, Description: "environment sensor"}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	p = Payload{Name: "", Type: TypeSensor}
	if err := p.Validate(); err == nil {
		t.Error("Validate() should reject an empty name")
	}

	p = Payload{Name: "ESP32", Type: "dev board"}
	if err := p.Validate(); !errors.Is(err, ErrInvalidHardwareType) {
		t.Errorf("Validate() error = %v, want ErrInvalidHardwareType", err)
	}
}
