//go:build windows

package canoe

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// sFalse is returned by CoInitializeEx when the thread already has an
// apartment; go-ole surfaces it as an error.
const sFalse = 0x1

// Driver holds the CANoe application dispatch for the lifetime of a session.
// All calls must come from the goroutine that called Open; Open pins it to
// its OS thread until Quit.
type Driver struct {
	progID string
	app    *ole.IDispatch
}

// New returns a driver for the automation server registered as progID.
func New(progID string) *Driver {
	if progID == "" {
		progID = DefaultProgID
	}
	return &Driver{progID: progID}
}

// Open initialises COM on the current thread and instantiates the
// application object.
func (d *Driver) Open() error {
	runtime.LockOSThread()
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != sFalse {
			runtime.UnlockOSThread()
			return fmt.Errorf("canoe: initialise COM: %w", err)
		}
	}

	unknown, err := oleutil.CreateObject(d.progID)
	if err != nil {
		d.release()
		return fmt.Errorf("canoe: create %s: %w", d.progID, err)
	}
	defer unknown.Release()

	app, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		d.release()
		return fmt.Errorf("canoe: query IDispatch: %w", err)
	}
	d.app = app
	return nil
}

// OpenConfiguration calls Application.Open. CANoe resolves relative paths
// against its own working directory, so the path is made absolute first.
func (d *Driver) OpenConfiguration(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("canoe: resolve %s: %w", path, err)
	}
	return d.call(d.app, "Open", abs)
}

func (d *Driver) StartMeasurement() error {
	return d.measurement("Start")
}

func (d *Driver) StopMeasurement() error {
	return d.measurement("Stop")
}

// Running reads Measurement.Running.
func (d *Driver) Running() (bool, error) {
	meas, err := d.measurementDispatch()
	if err != nil {
		return false, err
	}
	defer meas.Release()

	v, err := oleutil.GetProperty(meas, "Running")
	if err != nil {
		return false, fmt.Errorf("canoe: Measurement.Running: %w", err)
	}
	defer v.Clear()
	running, ok := v.Value().(bool)
	if !ok {
		return false, fmt.Errorf("canoe: Measurement.Running: unexpected value %v", v.Value())
	}
	return running, nil
}

// Quit calls Application.Quit and releases COM.
func (d *Driver) Quit() error {
	if d.app == nil {
		return nil
	}
	err := d.call(d.app, "Quit")
	d.release()
	return err
}

func (d *Driver) measurement(method string) error {
	meas, err := d.measurementDispatch()
	if err != nil {
		return err
	}
	defer meas.Release()
	return d.call(meas, method)
}

func (d *Driver) measurementDispatch() (*ole.IDispatch, error) {
	if d.app == nil {
		return nil, errors.New("canoe: application not open")
	}
	v, err := oleutil.GetProperty(d.app, "Measurement")
	if err != nil {
		return nil, fmt.Errorf("canoe: get Measurement: %w", err)
	}
	meas := v.ToIDispatch()
	if meas == nil {
		return nil, errors.New("canoe: Measurement is not a dispatch object")
	}
	return meas, nil
}

func (d *Driver) call(disp *ole.IDispatch, method string, args ...any) error {
	if disp == nil {
		return errors.New("canoe: application not open")
	}
	v, err := oleutil.CallMethod(disp, method, args...)
	if err != nil {
		return fmt.Errorf("canoe: %s: %w", method, err)
	}
	return v.Clear()
}

func (d *Driver) release() {
	if d.app != nil {
		d.app.Release()
		d.app = nil
	}
	ole.CoUninitialize()
	runtime.UnlockOSThread()
}
