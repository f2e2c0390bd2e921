package email

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
)

// extractHTMLPart returns the decoded text/html body of a raw RFC 822
// message. Alert mails arrive as multipart/alternative with the HTML
// part quoted-printable or base64 encoded, so transfer encodings must
// be undone before link extraction sees the markup.
func extractHTMLPart(raw []byte) []byte {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		// headers already stripped (or not a full message): best effort
		return htmlIsh(raw)
	}
	body, _ := io.ReadAll(io.LimitReader(msg.Body, 6<<20))
	if h := findHTMLPart(mail.Header(msg.Header), body); h != nil {
		return h
	}
	return htmlIsh(body)
}

// findHTMLPart walks the MIME tree and returns the largest decoded
// text/html part, nil when the message carries none.
func findHTMLPart(h mail.Header, body []byte) []byte {
	cte := strings.ToLower(strings.TrimSpace(h.Get("Content-Transfer-Encoding")))
	mediaType, params, err := mime.ParseMediaType(h.Get("Content-Type"))
	if err != nil {
		return nil
	}
	mediaType = strings.ToLower(mediaType)

	if strings.HasPrefix(mediaType, "text/html") {
		return decodeTransferEncoding(body, cte)
	}
	if !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
		return nil
	}

	mr := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	var best []byte
	for {
		p, err := mr.NextPart()
		if err != nil {
			break
		}
		b, _ := io.ReadAll(io.LimitReader(p, 6<<20))

		var part []byte
		pMedia, _, _ := mime.ParseMediaType(p.Header.Get("Content-Type"))
		pMedia = strings.ToLower(pMedia)
		switch {
		case strings.HasPrefix(pMedia, "multipart/"):
			part = findHTMLPart(mail.Header(p.Header), b)
		case strings.HasPrefix(pMedia, "text/html"):
			pCTE := strings.ToLower(strings.TrimSpace(p.Header.Get("Content-Transfer-Encoding")))
			part = decodeTransferEncoding(b, pCTE)
		}
		if len(part) > len(best) {
			best = part
		}
	}
	return best
}

func decodeTransferEncoding(b []byte, cte string) []byte {
	switch cte {
	case "base64":
		dec := base64.NewDecoder(base64.StdEncoding, bytes.NewReader(b))
		out, _ := io.ReadAll(io.LimitReader(dec, 6<<20))
		return out
	case "quoted-printable":
		dec := quotedprintable.NewReader(bytes.NewReader(b))
		out, _ := io.ReadAll(io.LimitReader(dec, 6<<20))
		return out
	default:
		return b
	}
}

// htmlIsh is the fallback for bodies without usable MIME headers.
func htmlIsh(raw []byte) []byte {
	if i := bytes.Index(raw, []byte("<html")); i >= 0 {
		if j := bytes.LastIndex(raw, []byte("</html>")); j > i {
			return raw[i : j+len("</html>")]
		}
		return raw[i:]
	}
	if bytes.Contains(raw, []byte("<a ")) {
		return raw
	}
	return nil
}
