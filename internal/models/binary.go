package models

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/RoaringBitmap/roaring/v2"
)

var byteOrder = binary.LittleEndian

// maxBitmapBytes bounds a single encoded bitmap read from disk.
const maxBitmapBytes = 1 << 20

// writeBitmap writes a Roaring Bitmap as uint32 length + MarshalBinary bytes.
func writeBitmap(w io.Writer, bm *roaring.Bitmap) error {
	buf, err := bm.MarshalBinary()
	if err != nil {
		return err
	}
	if err := binary.Write(w, byteOrder, uint32(len(buf))); err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// readBitmap reads a Roaring Bitmap from uint32 length + binary data.
func readBitmap(r io.Reader) (*roaring.Bitmap, error) {
	var length uint32
	if err := binary.Read(r, byteOrder, &length); err != nil {
		return nil, err
	}
	if length > maxBitmapBytes {
		return nil, fmt.Errorf("bitmap of %d bytes exceeds limit", length)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	bm := roaring.New()
	if err := bm.UnmarshalBinary(buf); err != nil {
		return nil, fmt.Errorf("roaring unmarshal: %w", err)
	}
	return bm, nil
}
