package binio

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Writer encodes values in the layout Reader expects.
type Writer struct {
	buf bytes.Buffer
}

// Bytes returns the encoded data.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

func (w *Writer) WriteUint8(v uint8) *Writer {
	w.buf.WriteByte(v)
	return w
}

func (w *Writer) WriteUint16(v uint16) *Writer {
	w.buf.Write(binary.LittleEndian.AppendUint16(nil, v))
	return w
}

func (w *Writer) WriteFloat32(v float32) *Writer {
	w.buf.Write(binary.LittleEndian.AppendUint32(nil, math.Float32bits(v)))
	return w
}

func (w *Writer) WriteFloat64(v float64) *Writer {
	w.buf.Write(binary.LittleEndian.AppendUint64(nil, math.Float64bits(v)))
	return w
}

func (w *Writer) WriteFloat32s(vs ...float32) *Writer {
	for _, v := range vs {
		w.WriteFloat32(v)
	}
	return w
}
