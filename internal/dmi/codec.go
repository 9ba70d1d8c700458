package dmi

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"
)

// ErrNoMetadata means the PNG carries no Description text chunk and is
// therefore a plain image, not a DMI file.
var ErrNoMetadata = errors.New("missing Description metadata chunk")

const descriptionKeyword = "Description"

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

type chunk struct {
	typ  string
	data []byte
}

// Load decodes a DMI file: the PNG spritesheet plus the metadata block
// describing how its cells map onto icon states.
func Load(r io.Reader) (*Icon, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read stream: %w", err)
	}
	chunks, err := readChunks(data)
	if err != nil {
		return nil, err
	}
	text, err := description(chunks)
	if err != nil {
		return nil, err
	}
	icon, err := parseMetadata(text)
	if err != nil {
		return nil, err
	}
	sheet, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode sheet: %w", err)
	}
	if err := sliceSheet(icon, sheet); err != nil {
		return nil, err
	}
	return icon, nil
}

// Save encodes the icon back into DMI form. The sheet is laid out
// near-square in cells, and the metadata chunk is spliced in ahead of the
// pixel data since image/png cannot write text chunks itself.
func Save(icon *Icon, w io.Writer) error {
	if icon.Width <= 0 || icon.Height <= 0 {
		return fmt.Errorf("invalid icon dimensions %dx%d", icon.Width, icon.Height)
	}
	total := 0
	for _, st := range icon.States {
		want := st.Dirs * st.Frames
		if len(st.Images) != want {
			return fmt.Errorf("state %q has %d frames, dirs*frames is %d", st.Name, len(st.Images), want)
		}
		total += want
	}

	cols, rows := 1, 1
	if total > 0 {
		cols = int(math.Ceil(math.Sqrt(float64(total))))
		rows = (total + cols - 1) / cols
	}
	sheet := image.NewNRGBA(image.Rect(0, 0, cols*icon.Width, rows*icon.Height))
	cell := 0
	for _, st := range icon.States {
		for _, frame := range st.Images {
			x := (cell % cols) * icon.Width
			y := (cell / cols) * icon.Height
			draw.Draw(sheet, image.Rect(x, y, x+icon.Width, y+icon.Height), frame, frame.Bounds().Min, draw.Src)
			cell++
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, sheet); err != nil {
		return fmt.Errorf("encode sheet: %w", err)
	}
	out, err := spliceChunk(buf.Bytes(), descriptionChunk(formatMetadata(icon)))
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("write stream: %w", err)
	}
	return nil
}

func sliceSheet(icon *Icon, sheet image.Image) error {
	bounds := sheet.Bounds()
	cols := bounds.Dx() / icon.Width
	rows := bounds.Dy() / icon.Height
	if cols == 0 || rows == 0 {
		return fmt.Errorf("sheet %dx%d smaller than icon size %dx%d",
			bounds.Dx(), bounds.Dy(), icon.Width, icon.Height)
	}
	cell := 0
	for _, st := range icon.States {
		for i := 0; i < st.Dirs*st.Frames; i++ {
			if cell >= cols*rows {
				return fmt.Errorf("state %q needs more cells than the sheet holds", st.Name)
			}
			x := bounds.Min.X + (cell%cols)*icon.Width
			y := bounds.Min.Y + (cell/cols)*icon.Height
			frame := image.NewNRGBA(image.Rect(0, 0, icon.Width, icon.Height))
			draw.Draw(frame, frame.Bounds(), sheet, image.Pt(x, y), draw.Src)
			st.Images = append(st.Images, frame)
			cell++
		}
	}
	return nil
}

func readChunks(data []byte) ([]chunk, error) {
	if len(data) < len(pngSignature) || !bytes.Equal(data[:len(pngSignature)], pngSignature) {
		return nil, errors.New("not a PNG file")
	}
	var chunks []chunk
	off := len(pngSignature)
	for off+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[off:]))
		typ := string(data[off+4 : off+8])
		if off+12+length > len(data) {
			return nil, fmt.Errorf("truncated %s chunk", typ)
		}
		chunks = append(chunks, chunk{typ: typ, data: data[off+8 : off+8+length]})
		if typ == "IEND" {
			break
		}
		off += 12 + length
	}
	return chunks, nil
}

// description finds the metadata text. BYOND writes a zTXt chunk; a tEXt
// chunk with the same keyword is accepted too.
func description(chunks []chunk) (string, error) {
	for _, c := range chunks {
		i := bytes.IndexByte(c.data, 0)
		if i < 0 || string(c.data[:i]) != descriptionKeyword {
			continue
		}
		switch c.typ {
		case "zTXt":
			if i+2 > len(c.data) {
				return "", errors.New("malformed zTXt chunk")
			}
			zr, err := zlib.NewReader(bytes.NewReader(c.data[i+2:]))
			if err != nil {
				return "", fmt.Errorf("inflate metadata: %w", err)
			}
			text, err := io.ReadAll(zr)
			zr.Close()
			if err != nil {
				return "", fmt.Errorf("inflate metadata: %w", err)
			}
			return string(text), nil
		case "tEXt":
			return string(c.data[i+1:]), nil
		}
	}
	return "", ErrNoMetadata
}

func descriptionChunk(text string) []byte {
	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	zw.Write([]byte(text))
	zw.Close()

	data := make([]byte, 0, len(descriptionKeyword)+2+z.Len())
	data = append(data, descriptionKeyword...)
	data = append(data, 0, 0) // NUL separator, compression method 0 (zlib)
	data = append(data, z.Bytes()...)
	return encodeChunk("zTXt", data)
}

func encodeChunk(typ string, data []byte) []byte {
	out := make([]byte, 8, 12+len(data))
	binary.BigEndian.PutUint32(out, uint32(len(data)))
	copy(out[4:], typ)
	out = append(out, data...)
	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(data)
	return binary.BigEndian.AppendUint32(out, crc.Sum32())
}

// spliceChunk inserts an encoded chunk just before the first IDAT.
func spliceChunk(pngData, chunkData []byte) ([]byte, error) {
	off := len(pngSignature)
	for off+8 <= len(pngData) {
		length := int(binary.BigEndian.Uint32(pngData[off:]))
		if string(pngData[off+4:off+8]) == "IDAT" {
			out := make([]byte, 0, len(pngData)+len(chunkData))
			out = append(out, pngData[:off]...)
			out = append(out, chunkData...)
			out = append(out, pngData[off:]...)
			return out, nil
		}
		off += 12 + length
	}
	return nil, errors.New("encoded PNG has no IDAT chunk")
}
