package http

import "github.com/MKhiriev/apitools/internal/chain"

// Slot names a position in a middleware chain.
type Slot string

// Initial chain slots, in emission order.
const (
	SlotHelmet     Slot = "helmet"
	SlotForceHTTPS Slot = "forceHttps"
	SlotCORS       Slot = "cors"
	SlotLogger     Slot = "logger"
	SlotJSON       Slot = "json"
	SlotURLEncoded Slot = "urlencoded"
)

// Final chain slots, in emission order.
const (
	SlotNotFound         Slot = "notFound"
	SlotValidationErrors Slot = "validationErrors"
	SlotErrors           Slot = "errors"
)

// Override replaces or disables the default middleware of a slot.
type Override struct {
	disabled bool
	m        chain.Middleware
}

// Use replaces the slot default with m. An unnamed m takes the slot name.
func Use(m chain.Middleware) Override {
	return Override{m: m}
}

// Disable removes the slot from the chain.
func Disable() Override {
	return Override{disabled: true}
}

// Options maps slots to overrides. Slots left out use their default.
type Options map[Slot]Override

type slotDef struct {
	slot    Slot
	factory func() chain.Middleware
}

// build emits the slots in definition order. Defaults are constructed only
// for slots that are neither overridden nor disabled.
func build(defs []slotDef, opts Options) chain.Chain {
	out := make(chain.Chain, 0, len(defs))
	for _, def := range defs {
		o, ok := opts[def.slot]
		switch {
		case ok && o.disabled:
			continue
		case ok:
			m := o.m
			if m.Name == "" {
				m.Name = string(def.slot)
			}
			out = append(out, m)
		default:
			out = append(out, def.factory())
		}
	}
	return out
}
