// SPDX-License-Identifier: MIT
// Package variable - binary trace layout.
//
// Little-endian, fixed field order:
//
//	Variable:   support i32 | format i32 | n u32 | trace n×f64
//	MHVariable: <Variable>
//	            | accepts n u32, n×u8 | global rate f64
//	            | batch rates n u32, n×f64 | window n u32, n×u8
//	            | window length i32 | kernel n u32, n bytes | sigmaMH f64
//	            | rate history n u32, n×f64
//
// The rate history is the last field so older readers stop before it.

package variable

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/katalvlaran/chronolath/posterior"
)

// maxLen rejects absurd length prefixes before allocating.
const maxLen = 1 << 28

type encoder struct {
	buf bytes.Buffer
}

func (e *encoder) i32(x int32)   { _ = binary.Write(&e.buf, binary.LittleEndian, x) }
func (e *encoder) u32(x uint32)  { _ = binary.Write(&e.buf, binary.LittleEndian, x) }
func (e *encoder) f64(x float64) { _ = binary.Write(&e.buf, binary.LittleEndian, math.Float64bits(x)) }

func (e *encoder) floats(xs []float64) {
	e.u32(uint32(len(xs)))
	for _, x := range xs {
		e.f64(x)
	}
}

func (e *encoder) bools(xs []bool) {
	e.u32(uint32(len(xs)))
	for _, ok := range xs {
		if ok {
			e.buf.WriteByte(1)
		} else {
			e.buf.WriteByte(0)
		}
	}
}

func (e *encoder) str(s string) {
	e.u32(uint32(len(s)))
	e.buf.WriteString(s)
}

// decoder keeps the first error; later reads become no-ops.
type decoder struct {
	r   *bytes.Reader
	err error
}

func (d *decoder) read(x any) {
	if d.err != nil {
		return
	}
	if err := binary.Read(d.r, binary.LittleEndian, x); err != nil {
		d.err = err
	}
}

func (d *decoder) i32() int32 {
	var x int32
	d.read(&x)
	return x
}

func (d *decoder) f64() float64 {
	var bits uint64
	d.read(&bits)
	return math.Float64frombits(bits)
}

func (d *decoder) length() int {
	var n uint32
	d.read(&n)
	if d.err == nil && (n > maxLen || int(n) > d.r.Len()) {
		d.err = fmt.Errorf("length %d exceeds remaining %d bytes", n, d.r.Len())
		return 0
	}
	return int(n)
}

func (d *decoder) floats() []float64 {
	n := d.length()
	if d.err != nil {
		return nil
	}
	out := make([]float64, n)
	var i int
	for i = range out {
		out[i] = d.f64()
	}
	return out
}

func (d *decoder) bools() []bool {
	n := d.length()
	if d.err != nil {
		return nil
	}
	raw := make([]byte, n)
	if _, err := io.ReadFull(d.r, raw); err != nil {
		d.err = err
		return nil
	}
	out := make([]bool, n)
	for i, b := range raw {
		out[i] = b != 0
	}
	return out
}

func (d *decoder) str() string {
	n := d.length()
	if d.err != nil {
		return ""
	}
	raw := make([]byte, n)
	if _, err := io.ReadFull(d.r, raw); err != nil {
		d.err = err
		return ""
	}
	return string(raw)
}

func (v *Variable) encode(e *encoder) {
	e.i32(int32(v.Support))
	e.i32(int32(v.Format))
	e.floats(v.Trace)
}

func (v *Variable) decode(d *decoder) {
	v.Support = posterior.Support(d.i32())
	v.Format = DateFormat(d.i32())
	v.Trace = d.floats()
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (v *Variable) MarshalBinary() ([]byte, error) {
	var e encoder
	v.encode(&e)
	return e.buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The formatted
// trace is rebuilt from the decoded format.
func (v *Variable) UnmarshalBinary(data []byte) error {
	d := decoder{r: bytes.NewReader(data)}
	v.decode(&d)
	if d.err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, d.err)
	}
	v.SetFormat(v.Format)
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (v *MHVariable) MarshalBinary() ([]byte, error) {
	var e encoder
	v.Variable.encode(&e)
	e.bools(v.Accepts)
	e.f64(v.GlobalRate)
	e.floats(v.BatchRates)
	e.bools(v.Window)
	e.i32(int32(v.WindowLen))
	e.str(v.Kernel)
	e.f64(v.SigmaMH)
	e.floats(v.RateHistory)
	return e.buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. Input that ends
// right after sigmaMH decodes with an empty rate history.
func (v *MHVariable) UnmarshalBinary(data []byte) error {
	d := decoder{r: bytes.NewReader(data)}
	v.Variable.decode(&d)
	v.Accepts = d.bools()
	v.GlobalRate = d.f64()
	v.BatchRates = d.floats()
	v.Window = d.bools()
	v.WindowLen = int(d.i32())
	v.Kernel = d.str()
	v.SigmaMH = d.f64()
	if d.err == nil && d.r.Len() > 0 {
		v.RateHistory = d.floats()
	} else {
		v.RateHistory = nil
	}
	if d.err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, d.err)
	}
	v.SetFormat(v.Format)
	return nil
}
