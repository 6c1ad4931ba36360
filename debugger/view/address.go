package view

import "fmt"

// AddressWidth is the number of hex digits an address is rendered with.
const AddressWidth = 4

// AddressOverflow replaces addresses that do not fit in AddressWidth digits.
const AddressOverflow = "0x...."

// FormatAddress renders offset as 0x-prefixed, zero padded, lower-case hex.
// Values that need more than AddressWidth digits render as AddressOverflow.
func FormatAddress(offset int) string {
	if offset < 0 {
		return AddressOverflow
	}
	digits := fmt.Sprintf("%0*x", AddressWidth, offset)
	if len(digits) > AddressWidth {
		return AddressOverflow
	}
	return "0x" + digits
}
