package services

import (
	"errors"
	"fmt"
)

// Status is the lifecycle state of a proforma as stored by the backend.
type Status string

const (
	StatusEnviada   Status = "Enviada"
	StatusAprobada  Status = "Aprobada"
	StatusRechazada Status = "Rechazada"
)

// MsgInvalidStatus is shown when a status outside Statuses is submitted.
const MsgInvalidStatus = "Estado no válido."

// ErrInvalidStatus is wrapped by ParseStatus for unknown states.
var ErrInvalidStatus = errors.New("invalid proforma status")

// Statuses lists the selectable states in display order.
var Statuses = []Status{StatusEnviada, StatusAprobada, StatusRechazada}

// ParseStatus accepts only the three known states.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}
