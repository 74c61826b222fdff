// Package canoe drives Vector CANoe through its COM automation server.
//
// The automation object model is only reachable on Windows. On other
// platforms the driver compiles but Open reports ErrUnsupportedPlatform, so
// the session layer surfaces it as an unavailable session.
package canoe

import "errors"

// DefaultProgID is the ProgID CANoe registers for its application object.
const DefaultProgID = "CANoe.Application"

// ErrUnsupportedPlatform is returned by Open on platforms without COM.
var ErrUnsupportedPlatform = errors.New("canoe: COM automation requires windows")
