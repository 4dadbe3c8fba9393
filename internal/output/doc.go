// Package output abstracts the physical boolean output (LED or relay).
//
// The controller sees a single Sink with Set(bool); drivers cover real GPIO
// hardware via the character device, a file mirror for development, and a
// null device for dry runs. The Sink contract matters for correctness: Set
// returns nil only after the value is applied, since the controller updates
// its state mirror and publishes status strictly after a successful Set.
package output
