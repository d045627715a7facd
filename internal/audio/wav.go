// Package audio provides WAV container inspection and the frame-preserving
// concatenation used to merge generated voiceover segments.
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// RIFF/WAVE container layout constants.
const (
	riffHeaderSize    = 12
	chunkHeaderSize   = 8
	fmtChunkMinSize   = 16
	riffChunkBaseSize = 36

	chunkIDRIFF = "RIFF"
	chunkIDWAVE = "WAVE"
	chunkIDFmt  = "fmt "
	chunkIDData = "data"

	outputFilePermissions = 0o600
)

// Static errors for WAV handling.
var (
	ErrNoInputFiles     = errors.New("no input files to combine")
	ErrNotWAV           = errors.New("not a RIFF/WAVE file")
	ErrMissingFmtChunk  = errors.New("missing fmt chunk")
	ErrMissingDataChunk = errors.New("missing data chunk")
	ErrZeroBlockAlign   = errors.New("fmt chunk declares zero block align")
)

// Params holds the format fields of a WAV fmt chunk, in container order.
// Combined output copies these verbatim from the first input file.
type Params struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// layout records where the sample frames of a file live.
type layout struct {
	params     Params
	dataOffset int64
	dataSize   uint32
}

// ReadParams returns the format parameters of a WAV file.
func ReadParams(path string) (Params, error) {
	fileLayout, err := readFileLayout(path)
	if err != nil {
		return Params{}, err
	}

	return fileLayout.params, nil
}

// FrameCount returns the number of sample frames in a WAV file, derived
// from the data chunk size and the block alignment.
func FrameCount(path string) (int64, error) {
	fileLayout, err := readFileLayout(path)
	if err != nil {
		return 0, err
	}

	if fileLayout.params.BlockAlign == 0 {
		return 0, fmt.Errorf("%w: %s", ErrZeroBlockAlign, path)
	}

	return int64(fileLayout.dataSize) / int64(fileLayout.params.BlockAlign), nil
}

// Combine appends the sample frames of every input file, in order, into a
// single WAV file at outputPath. The output carries the format parameters
// of the first input verbatim; the inputs are NOT checked against each
// other, so mixing formats produces output that plays back wrong.
func Combine(inputs []string, outputPath string) error {
	if len(inputs) == 0 {
		return ErrNoInputFiles
	}

	layouts := make([]layout, 0, len(inputs))

	var totalDataSize uint32

	for _, input := range inputs {
		fileLayout, err := readFileLayout(input)
		if err != nil {
			return err
		}

		layouts = append(layouts, fileLayout)
		totalDataSize += fileLayout.dataSize
	}

	output, err := os.OpenFile(
		outputPath,
		os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
		outputFilePermissions,
	)
	if err != nil {
		return fmt.Errorf("failed to create combined file %s: %w", outputPath, err)
	}

	writeErr := writeCombined(output, inputs, layouts, totalDataSize)

	closeErr := output.Close()
	if writeErr != nil {
		return writeErr
	}

	if closeErr != nil {
		return fmt.Errorf("failed to close combined file %s: %w", outputPath, closeErr)
	}

	return nil
}

// WriteFile writes a WAV file with the given format parameters and raw
// sample frames.
func WriteFile(path string, params Params, frames []byte) error {
	var buf bytes.Buffer

	err := writeHeader(&buf, params, uint32(len(frames)))
	if err != nil {
		return err
	}

	buf.Write(frames)

	err = os.WriteFile(path, buf.Bytes(), outputFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to write WAV file %s: %w", path, err)
	}

	return nil
}

func writeCombined(
	output *os.File,
	inputs []string,
	layouts []layout,
	totalDataSize uint32,
) error {
	// Header fields come from the first input only.
	err := writeHeader(output, layouts[0].params, totalDataSize)
	if err != nil {
		return err
	}

	for i, input := range inputs {
		copyErr := copyFrames(output, input, layouts[i])
		if copyErr != nil {
			return copyErr
		}
	}

	return nil
}

// copyFrames streams the data chunk payload of one input into the output,
// back-to-back with whatever was written before it.
func copyFrames(output io.Writer, input string, fileLayout layout) error {
	file, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("failed to open input file %s: %w", input, err)
	}

	defer func() {
		_ = file.Close()
	}()

	_, err = file.Seek(fileLayout.dataOffset, io.SeekStart)
	if err != nil {
		return fmt.Errorf("failed to seek to frames of %s: %w", input, err)
	}

	_, err = io.CopyN(output, file, int64(fileLayout.dataSize))
	if err != nil {
		return fmt.Errorf("failed to copy frames of %s: %w", input, err)
	}

	return nil
}

func writeHeader(w io.Writer, params Params, dataSize uint32) error {
	var buf bytes.Buffer

	buf.WriteString(chunkIDRIFF)
	_ = binary.Write(&buf, binary.LittleEndian, riffChunkBaseSize+dataSize)
	buf.WriteString(chunkIDWAVE)
	buf.WriteString(chunkIDFmt)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(fmtChunkMinSize))
	_ = binary.Write(&buf, binary.LittleEndian, params)
	buf.WriteString(chunkIDData)
	_ = binary.Write(&buf, binary.LittleEndian, dataSize)

	_, err := w.Write(buf.Bytes())
	if err != nil {
		return fmt.Errorf("failed to write WAV header: %w", err)
	}

	return nil
}

func readFileLayout(path string) (layout, error) {
	file, err := os.Open(path)
	if err != nil {
		return layout{}, fmt.Errorf("failed to open WAV file %s: %w", path, err)
	}

	defer func() {
		_ = file.Close()
	}()

	fileLayout, err := readLayout(file)
	if err != nil {
		return layout{}, fmt.Errorf("%s: %w", path, err)
	}

	return fileLayout, nil
}

// readLayout walks the chunk list of an open WAV file until it has seen
// both the fmt and data chunks. Chunk bodies are padded to even sizes per
// the RIFF rules.
func readLayout(file *os.File) (layout, error) {
	header := make([]byte, riffHeaderSize)

	_, err := io.ReadFull(file, header)
	if err != nil {
		return layout{}, fmt.Errorf("%w: %w", ErrNotWAV, err)
	}

	if string(header[0:4]) != chunkIDRIFF || string(header[8:12]) != chunkIDWAVE {
		return layout{}, ErrNotWAV
	}

	var (
		result   layout
		haveFmt  bool
		haveData bool
	)

	offset := int64(riffHeaderSize)
	chunkHeader := make([]byte, chunkHeaderSize)

	for !(haveFmt && haveData) {
		_, err = file.ReadAt(chunkHeader, offset)
		if err != nil {
			break
		}

		chunkID := string(chunkHeader[0:4])
		chunkSize := binary.LittleEndian.Uint32(chunkHeader[4:8])
		bodyOffset := offset + chunkHeaderSize

		switch chunkID {
		case chunkIDFmt:
			parseErr := parseFmtChunk(file, bodyOffset, chunkSize, &result.params)
			if parseErr != nil {
				return layout{}, parseErr
			}

			haveFmt = true
		case chunkIDData:
			result.dataOffset = bodyOffset
			result.dataSize = chunkSize
			haveData = true
		}

		offset = bodyOffset + int64(chunkSize) + int64(chunkSize%2)
	}

	if !haveFmt {
		return layout{}, ErrMissingFmtChunk
	}

	if !haveData {
		return layout{}, ErrMissingDataChunk
	}

	return result, nil
}

func parseFmtChunk(file *os.File, offset int64, size uint32, params *Params) error {
	if size < fmtChunkMinSize {
		return ErrMissingFmtChunk
	}

	// Extensible fmt chunks carry extra bytes; only the common fields
	// matter for concatenation.
	body := make([]byte, fmtChunkMinSize)

	_, err := file.ReadAt(body, offset)
	if err != nil {
		return fmt.Errorf("failed to read fmt chunk: %w", err)
	}

	err = binary.Read(bytes.NewReader(body), binary.LittleEndian, params)
	if err != nil {
		return fmt.Errorf("failed to decode fmt chunk: %w", err)
	}

	return nil
}
