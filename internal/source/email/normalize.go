package email

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/textproto"

	"github.com/nhle/mailwatch/internal/model"
)

// wordDecoder resolves non-UTF-8 charsets through go-message and never
// fails on an unknown one.
var wordDecoder = &mime.WordDecoder{CharsetReader: lenientCharsetReader}

// lenientCharsetReader returns a decoder for label, or the input taken as
// UTF-8 with invalid bytes replaced when the charset is unknown.
func lenientCharsetReader(label string, input io.Reader) (io.Reader, error) {
	if r, err := charset.Reader(label, input); err == nil {
		return r, nil
	}
	raw, err := io.ReadAll(input)
	if err != nil {
		return nil, err
	}
	return strings.NewReader(strings.ToValidUTF8(string(raw), "\uFFFD")), nil
}

// Normalize decodes RFC 2047 encoded words in a header value, collapses
// every run of whitespace to a single space and trims the result. It never
// fails: malformed words are kept verbatim and undecodable bytes become
// U+FFFD.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	decoded, err := wordDecoder.DecodeHeader(raw)
	if err != nil {
		decoded = raw
	}
	decoded = strings.ToValidUTF8(decoded, "\uFFFD")

	return strings.Join(strings.Fields(decoded), " ")
}

// ParseHeaders builds a Message from a raw header block as returned by
// Session.FetchHeaders.
func ParseHeaders(id string, raw []byte) (model.Message, error) {
	// A header block needs a terminating blank line to parse.
	if !bytes.HasSuffix(raw, []byte("\r\n\r\n")) && !bytes.HasSuffix(raw, []byte("\n\n")) {
		raw = append(append([]byte(nil), raw...), "\r\n\r\n"...)
	}

	h, err := textproto.ReadHeader(bufio.NewReader(bytes.NewReader(raw)))
	if err != nil {
		return model.Message{}, fmt.Errorf("parsing headers of %s: %w", id, err)
	}

	return model.Message{
		ID:      id,
		From:    Normalize(h.Get("From")),
		Subject: Normalize(h.Get("Subject")),
		Date:    Normalize(h.Get("Date")),
	}, nil
}
