package mtp

import (
	"io"

	"golang.org/x/xerrors"
)

// ReadExact accumulates exactly n octets from r. It returns ErrTransportClosed
// if the peer closes mid-read, or ErrTransportError on any other I/O failure.
func ReadExact(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	read := 0
	for read < n {
		m, err := r.Read(buf[read:])
		read += m
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				if read < n {
					return nil, xerrors.Errorf("read %d of %d octets: %w", read, n, ErrTransportClosed)
				}
				break
			}
			return nil, xerrors.Errorf("read %d of %d octets: %w", read, n, ErrTransportError)
		}
	}
	return buf, nil
}

// WriteAll sends the complete buffer to w, returning ErrTransportError on any
// failure to do so.
func WriteAll(w io.Writer, buf []byte) error {
	written := 0
	for written < len(buf) {
		n, err := w.Write(buf[written:])
		written += n
		if err != nil {
			return xerrors.Errorf("wrote %d of %d octets: %w", written, len(buf), ErrTransportError)
		}
	}
	return nil
}
