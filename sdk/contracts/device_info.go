package contracts

// DeviceInfo contains information about a MIDI output device.
type DeviceInfo struct {
	Index        int    // Position in the driver's output list.
	Name         string // Device name.
	Manufacturer string // Device manufacturer.
	EntityName   string // Name of the entity to which the device belongs.
}
