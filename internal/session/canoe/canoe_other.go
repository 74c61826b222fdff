//go:build !windows

package canoe

// Driver is the non-Windows stand-in; every call reports
// ErrUnsupportedPlatform.
type Driver struct {
	progID string
}

// New returns a driver for progID.
func New(progID string) *Driver {
	if progID == "" {
		progID = DefaultProgID
	}
	return &Driver{progID: progID}
}

func (d *Driver) Open() error                    { return ErrUnsupportedPlatform }
func (d *Driver) OpenConfiguration(string) error { return ErrUnsupportedPlatform }
func (d *Driver) StartMeasurement() error        { return ErrUnsupportedPlatform }
func (d *Driver) StopMeasurement() error         { return ErrUnsupportedPlatform }
func (d *Driver) Running() (bool, error)         { return false, ErrUnsupportedPlatform }
func (d *Driver) Quit() error                    { return nil }
