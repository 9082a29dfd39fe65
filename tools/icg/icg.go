// Package icg reads the initial configuration words (ICG0..ICG6) that the
// HC32M120 loads from flash at reset, out of an Intel HEX firmware image.
//
// Only the HRC range bit matters to the clock tree: it decides whether the
// HRC steps are based on 32 MHz or 48 MHz, which software cannot change.
package icg

import (
	"fmt"
	"io"

	"github.com/marcinbor85/gohex"

	"clocktree-go/drivers/cmu"
	"clocktree-go/errcode"
)

const (
	// Base is the flash address of ICG0.
	Base = 0x000000C0
	// Words is the number of ICG words.
	Words = 7

	erased = 0xFFFFFFFF
)

// ICG1 fields.
const (
	ICG1_HRCFREQS_Msk  = 0x00000007
	ICG1_HRCFREQS_HIGH = 0x00000008
)

var ErrNoICG = errcode.New(errcode.InvalidConfig, "icg", "image does not cover the ICG area")

// Image holds ICG0..ICG6. Words absent from the HEX file read as erased.
type Image [Words]uint32

// Erased returns the image of a blank part.
func Erased() Image {
	var im Image
	for i := range im {
		im[i] = erased
	}
	return im
}

// Decode parses an Intel HEX stream and extracts the ICG words.
// It fails with ErrNoICG when no data record touches the ICG area.
func Decode(r io.Reader) (Image, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return Image{}, fmt.Errorf("icg: %w", err)
	}

	area := make([]byte, Words*4)
	for i := range area {
		area[i] = 0xFF
	}
	covered := false
	for _, seg := range mem.GetDataSegments() {
		start, end := seg.Address, seg.Address+uint32(len(seg.Data))
		if end <= Base || start >= Base+uint32(len(area)) {
			continue
		}
		covered = true
		for a := max(start, Base); a < min(end, Base+uint32(len(area))); a++ {
			area[a-Base] = seg.Data[a-start]
		}
	}
	if !covered {
		return Image{}, ErrNoICG
	}

	var im Image
	for i := range im {
		b := area[i*4:]
		im[i] = uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	}
	return im, nil
}

// HRCHighRange reports whether the HRC runs on the 48 MHz base.
func (im Image) HRCHighRange() bool { return im[1]&ICG1_HRCFREQS_HIGH != 0 }

// HRCFreq is the HRC step selected at reset. ok is false for the
// reserved codes, including the erased value.
func (im Image) HRCFreq() (cmu.HRCFreq, bool) {
	f := cmu.HRCFreq(im[1] & ICG1_HRCFREQS_Msk)
	if f > cmu.HRCDiv32 {
		return 0, false
	}
	return f, true
}

// HRCHz is the HRC frequency the part comes out of reset with, 0 when the
// step code is reserved.
func (im Image) HRCHz() uint32 {
	f, ok := im.HRCFreq()
	if !ok {
		return 0
	}
	return f.Hz(im.HRCHighRange())
}

// Config returns the driver board configuration matching this image.
func (im Image) Config(xtalHz uint32) cmu.Config {
	return cmu.Config{XtalHz: xtalHz, HRCHighRange: im.HRCHighRange()}
}

// IsErased reports whether every ICG word is blank.
func (im Image) IsErased() bool { return im == Erased() }
