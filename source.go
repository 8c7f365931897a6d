package romgfx

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vchimishuk/chub/cue"
)

const (
	sectorHeader  = 16
	sectorSize    = 2048
	sectorTrailer = 288
	rawSectorSize = sectorHeader + sectorSize + sectorTrailer
)

func firstDataTrack(sheet *cue.Sheet) (string, cue.TrackDataType, error) {
	for _, file := range sheet.Files {
		for _, track := range file.Tracks {
			switch track.DataType {
			case cue.DataTypeMode1_2048, cue.DataTypeMode1_2352:
				return file.Name, track.DataType, nil
			}
		}
	}
	return "", cue.DataTypeAudio, errors.New("audio-only CDs are not supported")
}

// sectorReader presents the user data of raw 2352 byte Mode 1 sectors as a
// contiguous stream.
type sectorReader struct {
	r    io.ReaderAt
	size int64
	pos  int64
}

func newSectorReader(r io.ReaderAt, rawSize int64) *sectorReader {
	return &sectorReader{
		r:    r,
		size: rawSize / rawSectorSize * sectorSize,
	}
}

func (s *sectorReader) Read(p []byte) (int, error) {
	var n int
	for n < len(p) {
		if s.pos >= s.size {
			if n > 0 {
				return n, nil
			}
			return 0, io.EOF
		}
		sector, within := s.pos/sectorSize, s.pos%sectorSize
		chunk := len(p) - n
		if left := int(sectorSize - within); chunk > left {
			chunk = left
		}
		m, err := s.r.ReadAt(p[n:n+chunk], sector*rawSectorSize+sectorHeader+within)
		n += m
		s.pos += int64(m)
		if err != nil {
			if err == io.EOF && n > 0 {
				return n, nil
			}
			return n, err
		}
	}
	return n, nil
}

func (s *sectorReader) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset += s.pos
	case io.SeekEnd:
		offset += s.size
	default:
		return 0, errors.New("invalid whence")
	}
	if offset < 0 {
		return 0, errors.New("negative position")
	}
	s.pos = offset
	return offset, nil
}

// Source is an opened ROM or CD image that compressed streams are read
// from.
type Source struct {
	io.ReadSeeker
	f *os.File

	// Name is the path of the file holding the data
	Name string
}

// OpenSource opens file for reading. A cue sheet is resolved to its first
// data track and, for raw 2352 byte sectors, only the 2048 bytes of user
// data in each sector are visible so offsets match those seen by the
// console.
func OpenSource(file string) (*Source, error) {
	if !strings.EqualFold(filepath.Ext(file), ".cue") {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		return &Source{ReadSeeker: f, f: f, Name: file}, nil
	}

	sheet, err := cue.ParseFile(file)
	if err != nil {
		return nil, err
	}

	fileName, dataType, err := firstDataTrack(sheet)
	if err != nil {
		return nil, err
	}

	name := filepath.Join(filepath.Dir(file), fileName)
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	if dataType != cue.DataTypeMode1_2352 {
		return &Source{ReadSeeker: f, f: f, Name: name}, nil
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Source{ReadSeeker: newSectorReader(f, info.Size()), f: f, Name: name}, nil
}

// Checksum returns the SHA-1 of the visible data as a hex string. The read
// position is reset to the start afterwards.
func (s *Source) Checksum() (string, error) {
	if _, err := s.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	h := sha1.New()
	if _, err := io.Copy(h, s); err != nil {
		return "", err
	}
	if _, err := s.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return fmt.Sprintf("%X", h.Sum(nil)), nil
}

// Close closes the underlying file.
func (s *Source) Close() error {
	return s.f.Close()
}
