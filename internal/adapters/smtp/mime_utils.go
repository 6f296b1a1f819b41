package smtp

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// extractTextFromMessage extracts the text content from an email message.
// For multipart messages it collects text/plain and text/html parts; the
// normalizer strips markup downstream, so HTML-only messages still yield
// usable content.
func extractTextFromMessage(msg *mail.Message) (string, error) {
	contentType := msg.Header.Get("Content-Type")

	if !strings.Contains(strings.ToLower(contentType), "multipart/") {
		bodyBytes, err := io.ReadAll(msg.Body)
		if err != nil {
			return "", err
		}
		return string(bodyBytes), nil
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Unparsable Content-Type, fall back to the raw body
		bodyBytes, err := io.ReadAll(msg.Body)
		if err != nil {
			return "", err
		}
		return string(bodyBytes), nil
	}

	if !strings.HasPrefix(mediaType, "multipart/") {
		bodyBytes, err := io.ReadAll(msg.Body)
		if err != nil {
			return "", err
		}
		return string(bodyBytes), nil
	}

	boundary, ok := params["boundary"]
	if !ok {
		bodyBytes, err := io.ReadAll(msg.Body)
		if err != nil {
			return "", err
		}
		return string(bodyBytes), nil
	}

	mr := multipart.NewReader(msg.Body, boundary)

	var plainContent bytes.Buffer
	var htmlContent bytes.Buffer

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Return what we have so far
			break
		}

		partContentType := strings.ToLower(part.Header.Get("Content-Type"))

		switch {
		case strings.Contains(partContentType, "text/plain"):
			partBytes, err := io.ReadAll(part)
			if err != nil {
				continue
			}
			plainContent.Write(partBytes)
			plainContent.WriteString("\n")
		case strings.Contains(partContentType, "text/html"):
			partBytes, err := io.ReadAll(part)
			if err != nil {
				continue
			}
			htmlContent.Write(partBytes)
			htmlContent.WriteString("\n")
		}
		// Skip other parts (attachments, nested multiparts, etc.)
	}

	if plainContent.Len() > 0 {
		return plainContent.String(), nil
	}
	if htmlContent.Len() > 0 {
		return htmlContent.String(), nil
	}

	return "", nil
}

// decodeEncodedHeader decodes an RFC 2047 encoded-word header value,
// resolving non-UTF-8 charsets through the IANA/HTML index
func decodeEncodedHeader(value string) (string, error) {
	dec := mime.WordDecoder{
		CharsetReader: func(charset string, input io.Reader) (io.Reader, error) {
			enc, err := htmlindex.Get(charset)
			if err != nil {
				return nil, fmt.Errorf("unsupported charset %q: %w", charset, err)
			}
			return enc.NewDecoder().Reader(input), nil
		},
	}
	return dec.DecodeHeader(value)
}
