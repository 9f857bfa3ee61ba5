//go:build !linux

package line

import "fmt"

// Cdev needs the Linux GPIO character device.
func Cdev(chip string, o Offsets) (*Lines, error) {
	return nil, fmt.Errorf("line: gpiocdev backend not supported on this platform")
}
